package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/eduportal/internal/auth"
	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/guard"
	"github.com/hitoshi/eduportal/internal/middleware"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/session"
	"github.com/hitoshi/eduportal/internal/view"
)

const oauthStateCookie = "oauth_state"

// ログイン画面に表示するエラー
const (
	loginErrorSignIn = "signin"
	loginErrorState  = "state"
)

var loginErrorMessages = map[string]string{
	loginErrorSignIn: "Sign-in failed. Please try again.",
	loginErrorState:  "Your sign-in session expired. Please try again.",
}

var providerLabels = map[string]string{
	"google":  "Google",
	"casdoor": "Casdoor",
}

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	HasProvider(name string) bool
	GetLoginURL(provider, state string) (string, error)
	SignIn(ctx context.Context, provider, code string) (string, *session.Claims, error)
	SelectRole(ctx context.Context, claims *session.Claims, role model.Role) (string, *session.Claims, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	Providers []string // ログイン画面に表示する順
	Cookie    session.CookieConfig
	Now       func() time.Time
}

// AuthHandler はサインイン、ロール選択、サインアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	pages    PageRenderer
	config   AuthHandlerConfig
	validate *formValidator
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, pages PageRenderer, config AuthHandlerConfig) *AuthHandler {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &AuthHandler{
		service:  service,
		pages:    pages,
		config:   config,
		validate: newFormValidator(),
	}
}

// Home はトップページを表示する。
// GET /
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	h.pages.Render(w, http.StatusOK, view.PageHome,
		newPage(r, st, "", "", view.HomeData{Year: h.config.Now().Year()}))
}

// LoginPage はサインインボタンを表示する。
// GET /login
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	data := view.LoginData{
		Error: loginErrorMessages[r.URL.Query().Get("error")],
	}
	for _, name := range h.config.Providers {
		if !h.service.HasProvider(name) {
			continue
		}
		label, ok := providerLabels[name]
		if !ok {
			label = view.Capitalize(name)
		}
		data.Providers = append(data.Providers, view.ProviderLink{
			Name:  name,
			Label: label,
			URL:   "/auth/" + name + "/login",
		})
	}
	h.pages.Render(w, http.StatusOK, view.PageLogin, newPage(r, st, "Login", "", data))
}

// Login はOAuthフローを開始する。
// GET /auth/{provider}/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !h.service.HasProvider(provider) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewUnknownProviderError(provider))
		return
	}

	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		middleware.WriteInternalServerError(w)
		return
	}

	url, err := h.service.GetLoginURL(provider, state)
	if err != nil {
		slog.Error("failed to build login url",
			slog.String("provider", provider),
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback はOAuthコールバックを処理する。
// GET /auth/{provider}/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	if !h.service.HasProvider(provider) {
		middleware.WriteErrorResponse(w, http.StatusNotFound, model.NewUnknownProviderError(provider))
		return
	}

	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch",
			slog.String("provider", provider),
			slog.String("query_state", state),
		)
		http.Redirect(w, r, guard.LoginPath+"?error="+loginErrorState, http.StatusTemporaryRedirect)
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, guard.LoginPath+"?error="+loginErrorSignIn, http.StatusTemporaryRedirect)
		return
	}

	// 3. 認証処理
	token, claims, err := h.service.SignIn(r.Context(), provider, code)
	if err != nil {
		slog.Error("oauth callback failed",
			slog.String("provider", provider),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, guard.LoginPath+"?error="+loginErrorSignIn, http.StatusTemporaryRedirect)
		return
	}

	// 4. セッションCookieを設定
	session.SetCookie(w, h.config.Cookie, token)

	// 5. ロール未選択ならロール選択へ
	target := guard.DashboardPath
	if !claims.Role.Valid() {
		target = guard.RoleSelectionPath
	}
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

// RoleSelection はロール選択フォームを表示する。
// GET /role-selection
func (h *AuthHandler) RoleSelection(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	h.renderRoleSelection(w, r, st, http.StatusOK, st.User.Role, "")
}

// SelectRole はロールを保存し、ロールクレームを更新したセッションを発行する。
// POST /role-selection
func (h *AuthHandler) SelectRole(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	form := roleForm{Role: r.PostFormValue("role")}
	if msg := h.validate.Check(form); msg != "" {
		h.renderRoleSelection(w, r, st, http.StatusBadRequest, model.RoleNone, "Please choose either student or professor.")
		return
	}
	role, _ := model.ParseRole(form.Role)

	token, _, err := h.service.SelectRole(r.Context(), st.Claims(), role)
	if err != nil {
		slog.Error("failed to select role",
			slog.String("user_id", st.User.ID),
			slog.String("error", err.Error()),
		)
		status := http.StatusBadGateway
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			status = middleware.StatusForCode(apiErr.Code)
		}
		h.renderRoleSelection(w, r, st, status, role, "Failed to save your role. Please try again.")
		return
	}

	session.SetCookie(w, h.config.Cookie, token)
	guard.Redirect(w, r, guard.DashboardPath)
}

func (h *AuthHandler) renderRoleSelection(w http.ResponseWriter, r *http.Request, st *authctx.State, status int, selected model.Role, errMsg string) {
	h.pages.Render(w, status, view.PageRoleSelection,
		newPage(r, st, "Select Your Role", "", view.RoleSelectionData{Selected: selected, Error: errMsg}))
}

// Logout はサインアウトしてログイン画面へ戻す。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	st.Logout(w, r)
	guard.Redirect(w, r, guard.LoginPath)
}

// sessionResponse は GET /api/session のレスポンス。
type sessionResponse struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role,omitempty"`
	Avatar string     `json:"avatar,omitempty"`
}

// Session は現在のログインユーザー情報を返す。
// GET /api/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	if st.User == nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sessionResponse{
		ID:     st.User.ID,
		Name:   st.User.Name,
		Email:  st.User.Email,
		Role:   st.User.Role,
		Avatar: st.User.Avatar,
	})
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

var _ AuthServiceInterface = (*auth.Service)(nil)
