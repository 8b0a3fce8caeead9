package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// OAuth (Google)
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// OAuth (Casdoor)。CasdoorEndpoint が空なら無効。
	CasdoorEndpoint     string
	CasdoorClientID     string
	CasdoorClientSecret string
	CasdoorCertificate  string
	CasdoorOrganization string
	CasdoorApplication  string
	CasdoorRedirectURL  string

	// Session
	SessionSecret string
	SessionMaxAge int

	// User API
	UserAPIURL     string
	UserAPITimeout time.Duration

	// Chat
	RedisURL        string
	ChatTTL         time.Duration
	ChatDelay       time.Duration
	CourseChatDelay time.Duration

	// Rate Limit
	RateLimitGeneral int
	RateLimitChat    int

	// Telemetry
	OTLPEndpoint string
	OTLPInsecure bool

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに .env があれば先に読み込む（既存の環境変数は上書きしない）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{}

	// Required fields
	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg.GoogleClientID = required("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = required("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = required("GOOGLE_REDIRECT_URL")
	cfg.SessionSecret = required("SESSION_SECRET")
	cfg.BaseURL = required("BASE_URL")

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.UserAPIURL = strings.TrimRight(getEnvString("USER_API_URL", ""), "/")
	cfg.UserAPITimeout = getEnvDuration("USER_API_TIMEOUT", 10*time.Second)
	cfg.RedisURL = getEnvString("REDIS_URL", "")
	cfg.ChatTTL = getEnvDuration("CHAT_TTL", 30*time.Minute)
	cfg.ChatDelay = getEnvDuration("CHAT_DELAY", 1500*time.Millisecond)
	cfg.CourseChatDelay = getEnvDuration("COURSE_CHAT_DELAY", 4500*time.Millisecond)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitChat = getEnvInt("RATE_LIMIT_CHAT", 20)
	cfg.OTLPEndpoint = getEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	cfg.OTLPInsecure = getEnvString("OTEL_EXPORTER_OTLP_INSECURE", "") == "true"
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")

	cfg.CasdoorEndpoint = strings.TrimRight(getEnvString("CASDOOR_ENDPOINT", ""), "/")
	cfg.CasdoorClientID = getEnvString("CASDOOR_CLIENT_ID", "")
	cfg.CasdoorClientSecret = getEnvString("CASDOOR_CLIENT_SECRET", "")
	cfg.CasdoorCertificate = getEnvString("CASDOOR_CERTIFICATE", "")
	cfg.CasdoorOrganization = getEnvString("CASDOOR_ORGANIZATION", "")
	cfg.CasdoorApplication = getEnvString("CASDOOR_APPLICATION", "")
	cfg.CasdoorRedirectURL = getEnvString("CASDOOR_REDIRECT_URL", strings.TrimRight(cfg.BaseURL, "/")+"/auth/casdoor/callback")

	return cfg, nil
}

// CasdoorEnabled はCasdoorプロバイダーが設定されているかを返す。
func (c *Config) CasdoorEnabled() bool {
	return c.CasdoorEndpoint != ""
}

// UserAPIEnabled はバックエンドのユーザーAPIが設定されているかを返す。
// 未設定の場合、コース一覧などは組み込みのモックデータを使う。
func (c *Config) UserAPIEnabled() bool {
	return c.UserAPIURL != ""
}

func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
