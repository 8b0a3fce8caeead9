package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/catalog"
	"github.com/hitoshi/eduportal/internal/guard"
	"github.com/hitoshi/eduportal/internal/middleware"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/security"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionParser  middleware.TokenParser
	RateLimiter    *middleware.RateLimiter
	CSRF           middleware.CSRFConfig
	Logger         *slog.Logger
	StatusRecorder middleware.StatusRecorder // nil可
	GuardRecorder  guard.DecisionRecorder    // nil可
	MetricsHandler http.Handler              // nilなら /metrics を公開しない

	// ページ
	Pages    PageRenderer
	AuthCtx  *authctx.Provider
	Sanitize *security.TextSanitizer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// コース・チャット
	Courses    catalog.CourseSource
	Chats      ChatServiceInterface
	ChatDelays ChatDelays

	// プロフィール
	Profiles ProfileServiceInterface
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → StatusMetrics → Session → Logging → RateLimit(General) → BodyLimit → CSRF → Guard
//
// /health と /metrics はセッション以降のチェーンの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewStatusMetricsMiddleware(deps.StatusRecorder))
	}

	// --- 運用エンドポイント ---
	r.Get("/health", Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Pages, deps.AuthConfig)
	dashboardHandler := NewDashboardHandler(deps.Courses, deps.Chats, deps.Pages, deps.ChatDelays)
	chatHandler := NewChatHandler(deps.Chats, deps.Pages, deps.Sanitize, deps.ChatDelays)
	profileHandler := NewProfileHandler(deps.Profiles, deps.Pages)

	withState := deps.AuthCtx.Handler
	page := func(v authctx.View) http.HandlerFunc {
		return withState(authctx.RequireUser(v))
	}
	professorOnly := func(v authctx.View) http.HandlerFunc {
		return withState(authctx.RequireRole(model.RoleProfessor, guard.DashboardPath, v))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionParser))
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(limitBody(maxUploadSize))
		r.Use(middleware.NewCSRFMiddleware(deps.CSRF))
		r.Use(guard.Middleware(deps.GuardRecorder))

		// --- 認証不要のルート ---
		r.Get("/", withState(authHandler.Home))
		r.Get("/login", withState(authHandler.LoginPage))
		r.Get("/auth/{provider}/login", authHandler.Login)
		r.Get("/auth/{provider}/callback", authHandler.Callback)
		r.Post("/logout", withState(authHandler.Logout))
		r.Get("/api/session", withState(authHandler.Session))

		// --- 認証が必要なルート ---
		r.Get("/role-selection", page(authHandler.RoleSelection))
		r.Post("/role-selection", page(authHandler.SelectRole))

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", page(dashboardHandler.Dashboard))

			r.Route("/courses/{id}", func(r chi.Router) {
				r.Get("/", page(dashboardHandler.Course))
				r.With(deps.RateLimiter.ChatMiddleware()).Post("/chat", page(chatHandler.CourseSend))
				r.With(deps.RateLimiter.ChatMiddleware()).Post("/upload", page(chatHandler.CourseUpload))
			})

			r.Route("/chat", func(r chi.Router) {
				r.Get("/", page(chatHandler.Chat))
				r.With(deps.RateLimiter.ChatMiddleware()).Post("/", page(chatHandler.Send))
				r.With(deps.RateLimiter.ChatMiddleware()).Post("/upload", page(chatHandler.Upload))
			})

			r.Route("/create-course", func(r chi.Router) {
				r.Get("/", professorOnly(chatHandler.CreateCourse))
				r.With(deps.RateLimiter.ChatMiddleware()).Post("/", professorOnly(chatHandler.CreateCourseSend))
				r.With(deps.RateLimiter.ChatMiddleware()).Post("/upload", professorOnly(chatHandler.CreateCourseUpload))
			})

			r.Get("/profile", page(profileHandler.Profile))
			r.Post("/profile", page(profileHandler.UpdateProfile))
		})
	})

	return r
}

// limitBody はリクエストボディの大きさを制限する。
// CSRFミドルウェアがフォームを解析するより前に適用する。
func limitBody(n int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
