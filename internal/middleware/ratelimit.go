package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/session"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // 全リクエストのレート（req/sec）
	GeneralBurst    int           // 全リクエストのバーストサイズ
	ChatRate        rate.Limit    // チャット送信とアップロードのレート（req/sec）
	ChatBurst       int           // チャットのバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// NewRateLimiterConfig は1分あたりのリクエスト数から設定を組み立てる。
func NewRateLimiterConfig(generalPerMinute, chatPerMinute int) RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(float64(generalPerMinute) / 60.0),
		GeneralBurst:    generalPerMinute,
		ChatRate:        rate.Limit(float64(chatPerMinute) / 60.0),
		ChatBurst:       chatPerMinute,
		CleanupInterval: 5 * time.Minute,
	}
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// 全体 120 req/min、チャット 20 req/min。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return NewRateLimiterConfig(120, 20)
}

// userLimiter はキーごとのレートリミッターとアクセス時刻を保持する。
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet は同一設定のリミッターをキーごとに管理する。
type limiterSet struct {
	mu       sync.Mutex
	limiters map[string]*userLimiter
	rate     rate.Limit
	burst    int
}

func newLimiterSet(r rate.Limit, burst int) *limiterSet {
	return &limiterSet{
		limiters: make(map[string]*userLimiter),
		rate:     r,
		burst:    burst,
	}
}

// get はキーのリミッターを取得し、無ければ作成する。
func (s *limiterSet) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	ul, ok := s.limiters[key]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(s.rate, s.burst)}
		s.limiters[key] = ul
	}
	ul.lastAccess = time.Now()
	return ul.limiter
}

func (s *limiterSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.limiters)
}

// evict は最終アクセスが ttl より古いエントリを削除する。
func (s *limiterSet) evict(now time.Time, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ul := range s.limiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(s.limiters, key)
		}
	}
}

// RateLimiter はユーザーごとのレート制限を管理する。
// 全リクエスト向けとチャット向けの2種類を独立に持つ。
type RateLimiter struct {
	config  RateLimiterConfig
	general *limiterSet
	chat    *limiterSet
	stopCh  chan struct{}
	once    sync.Once
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:  config,
		general: newLimiterSet(config.GeneralRate, config.GeneralBurst),
		chat:    newLimiterSet(config.ChatRate, config.ChatBurst),
		stopCh:  make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// GeneralMiddleware は全リクエスト向けのレート制限ミドルウェアを返す。
// 認証済みならユーザーID、未認証ならクライアントIPをキーにする。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.general, rl.config.GeneralRate, "general")
}

// ChatMiddleware はチャット送信とアップロード向けのレート制限ミドルウェアを返す。
// 全体のレート制限とは独立に動作する。
func (rl *RateLimiter) ChatMiddleware() func(next http.Handler) http.Handler {
	return rl.middleware(rl.chat, rl.config.ChatRate, "chat")
}

func (rl *RateLimiter) middleware(set *limiterSet, limit rate.Limit, kind string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiterKey(r)
			if !set.get(key).Allow() {
				writeRateLimitResponse(w, limit)
				slog.Warn("rate limit exceeded",
					slog.String("key", key),
					slog.String("limit_type", kind),
				)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されている全体リミッターのエントリ数を返す。
func (rl *RateLimiter) GeneralLimiterCount() int {
	return rl.general.len()
}

// ChatLimiterCount は現在管理されているチャットリミッターのエントリ数を返す。
func (rl *RateLimiter) ChatLimiterCount() int {
	return rl.chat.len()
}

// limiterKey はレート制限のキーを返す。
func limiterKey(r *http.Request) string {
	if userID := session.UserIDFromContext(r.Context()); userID != "" {
		return "user:" + userID
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup(now time.Time) {
	ttl := rl.config.CleanupInterval * 2
	rl.general.evict(now, ttl)
	rl.chat.evict(now, ttl)
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := 1
	if r > 0 {
		retryAfterSec = int(math.Ceil(1.0 / float64(r)))
	}
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.APIError{
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  "Too many requests. Please try again later.",
		Category: "system",
		Action:   "Please wait and retry after the specified time.",
	})
}
