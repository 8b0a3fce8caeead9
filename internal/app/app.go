package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hitoshi/eduportal/internal/apiclient"
	"github.com/hitoshi/eduportal/internal/auth"
	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/catalog"
	"github.com/hitoshi/eduportal/internal/chat"
	"github.com/hitoshi/eduportal/internal/config"
	"github.com/hitoshi/eduportal/internal/handler"
	"github.com/hitoshi/eduportal/internal/logger"
	"github.com/hitoshi/eduportal/internal/metrics"
	"github.com/hitoshi/eduportal/internal/middleware"
	"github.com/hitoshi/eduportal/internal/profile"
	"github.com/hitoshi/eduportal/internal/security"
	"github.com/hitoshi/eduportal/internal/session"
	"github.com/hitoshi/eduportal/internal/telemetry"
	"github.com/hitoshi/eduportal/internal/view"
	"github.com/hitoshi/eduportal/internal/worker/cleanup"
)

const serviceName = "eduportal"

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
		slog.Bool("user_api", cfg.UserAPIEnabled()),
		slog.Bool("casdoor", cfg.CasdoorEnabled()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return runServe(ctx, cfg)
}

// Server は組み立て済みのHTTPハンドラーと終了処理を保持する。
type Server struct {
	Handler http.Handler
	closers []func(context.Context) error
}

// Close は確保したリソースを逆順に解放する。
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewServer は設定から全依存関係をワイヤリングしたServerを生成する。
func NewServer(ctx context.Context, cfg *config.Config) (*Server, error) {
	srv := &Server{}

	// 1. トレース
	shutdownTracing := telemetry.Setup(ctx, telemetry.Config{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
	})
	srv.closers = append(srv.closers, shutdownTracing)

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 3. チャットストア。メモリの場合は失効分を定期回収する
	store, closeStore, err := newChatStore(ctx, cfg)
	if err != nil {
		_ = srv.Close(ctx)
		return nil, err
	}
	if closeStore != nil {
		srv.closers = append(srv.closers, closeStore)
	}
	if mem, ok := store.(*chat.MemoryStore); ok {
		jobCtx, cancel := context.WithCancel(context.Background())
		go cleanup.NewCleanupJob(mem, slog.Default()).Start(jobCtx)
		srv.closers = append(srv.closers, func(context.Context) error {
			cancel()
			return nil
		})
	}
	sanitizer := security.NewTextSanitizer()
	assistant := chat.NewAssistant(store, chat.RealClock{}, collector).WithCleaner(sanitizer.Clean)

	// 4. ユーザーAPI。未設定ならモックデータで動かす
	var (
		directory auth.UserDirectory
		details   profile.DetailsAPI
		courses   catalog.CourseSource = catalog.MockSource{}
	)
	if cfg.UserAPIEnabled() {
		client := apiclient.NewClient(
			&http.Client{
				Timeout:   cfg.UserAPITimeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
			cfg.UserAPIURL,
			slog.Default(),
			collector,
		)
		directory, details, courses = client, client, client
	}

	// 5. 認証
	sessionMaxAge := time.Duration(cfg.SessionMaxAge) * time.Second
	codec := session.NewCodec(cfg.SessionSecret, sessionMaxAge)
	authService := auth.NewService(oauthProviders(cfg), directory, codec, assistant)
	cookieCfg := session.CookieConfig{
		Secure: cfg.CookieSecure,
		Domain: cfg.CookieDomain,
		MaxAge: sessionMaxAge,
	}
	providerNames := []string{"google"}
	if cfg.CasdoorEnabled() {
		providerNames = append(providerNames, "casdoor")
	}

	// 6. ページとドメインサービス
	pages, err := view.New()
	if err != nil {
		_ = srv.Close(ctx)
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	profileService := profile.NewService(details, sanitizer)

	// 7. ルーターの構築
	rateLimiter := middleware.NewRateLimiter(middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitChat))
	srv.closers = append(srv.closers, func(context.Context) error {
		rateLimiter.Stop()
		return nil
	})

	deps := &handler.RouterDeps{
		SessionParser: codec,
		RateLimiter:   rateLimiter,
		CSRF: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger:         slog.Default(),
		StatusRecorder: collector,
		GuardRecorder:  collector,
		MetricsHandler: metrics.Handler(registry),

		Pages:    pages,
		AuthCtx:  authctx.NewProvider(authService, cookieCfg),
		Sanitize: sanitizer,

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			Providers: providerNames,
			Cookie:    cookieCfg,
		},

		Courses: courses,
		Chats:   assistant,
		ChatDelays: handler.ChatDelays{
			General: cfg.ChatDelay,
			Course:  cfg.CourseChatDelay,
		},

		Profiles: profileService,
	}

	srv.Handler = otelhttp.NewHandler(handler.NewRouter(deps), serviceName)
	return srv, nil
}

// oauthProviders は設定済みのIdPを返す。Googleは常に有効。
func oauthProviders(cfg *config.Config) []auth.OAuthProvider {
	providers := []auth.OAuthProvider{
		auth.NewGoogleOAuthProvider(auth.GoogleOAuthConfig{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			HTTPClient:   &http.Client{Timeout: 10 * time.Second, Transport: otelhttp.NewTransport(http.DefaultTransport)},
		}),
	}
	if cfg.CasdoorEnabled() {
		providers = append(providers, auth.NewCasdoorProvider(auth.CasdoorConfig{
			Endpoint:     cfg.CasdoorEndpoint,
			ClientID:     cfg.CasdoorClientID,
			ClientSecret: cfg.CasdoorClientSecret,
			Certificate:  cfg.CasdoorCertificate,
			Organization: cfg.CasdoorOrganization,
			Application:  cfg.CasdoorApplication,
			RedirectURL:  cfg.CasdoorRedirectURL,
		}))
	}
	return providers
}

// newChatStore はREDIS_URLがあればRedis、なければプロセス内メモリのストアを返す。
func newChatStore(ctx context.Context, cfg *config.Config) (chat.Store, func(context.Context) error, error) {
	if cfg.RedisURL == "" {
		return chat.NewMemoryStore(cfg.ChatTTL), nil, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("chat store connected to redis", slog.String("addr", opts.Addr))
	return chat.NewRedisStore(client, cfg.ChatTTL), func(context.Context) error { return client.Close() }, nil
}

// runServe はWebサーバーモードで起動する。
// ctx がキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	srv, err := NewServer(ctx, cfg)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("web server starting", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var listenErr error
	select {
	case <-ctx.Done():
		slog.Info("shutting down web server...")
	case listenErr = <-errCh:
		slog.Error("server listen error", slog.String("error", listenErr.Error()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if err := srv.Close(shutdownCtx); err != nil {
		slog.Warn("failed to release resources", slog.String("error", err.Error()))
	}
	if listenErr != nil {
		return fmt.Errorf("server listen failed: %w", listenErr)
	}

	slog.Info("web server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
