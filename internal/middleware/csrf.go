package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/hitoshi/eduportal/internal/model"
)

const (
	// csrfCookieName はCSRFトークンを保持するCookieの名前。
	csrfCookieName = "csrf_token"

	// csrfHeaderName はリクエストヘッダーからCSRFトークンを読み取る際のヘッダー名。
	csrfHeaderName = "X-CSRF-Token"

	// CSRFFormField はフォームに埋め込むCSRFトークンのフィールド名。
	CSRFFormField = "csrf_token"
)

var csrfTokenContextKey = contextKey("csrf_token")

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// CSRFConfig はCSRFミドルウェアの設定。
type CSRFConfig struct {
	CookieSecure bool
	CookieDomain string
}

// NewCSRFMiddleware はダブルサブミット方式のCSRFミドルウェアを返す。
// 安全なメソッド（GET, HEAD, OPTIONS）はトークンCookieを用意してコンテキストに載せる。
// 状態変更メソッドはCookieのトークンとヘッダーまたはフォーム値の一致を必須とする。
func NewCSRFMiddleware(config CSRFConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				token := ensureCSRFCookie(w, r, config)
				next.ServeHTTP(w, r.WithContext(ContextWithCSRFToken(r.Context(), token)))
				return
			}

			cookie, err := r.Cookie(csrfCookieName)
			if err != nil || cookie.Value == "" {
				rejectCSRF(w, r, "missing cookie token")
				return
			}

			submitted := r.Header.Get(csrfHeaderName)
			if submitted == "" {
				submitted = r.FormValue(CSRFFormField)
			}
			if submitted == "" {
				rejectCSRF(w, r, "missing submitted token")
				return
			}

			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(submitted)) != 1 {
				rejectCSRF(w, r, "token mismatch")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithCSRFToken(r.Context(), cookie.Value)))
		})
	}
}

// CSRFTokenFromContext はテンプレートへ埋め込むCSRFトークンを返す。
func CSRFTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(csrfTokenContextKey).(string)
	return token
}

// ContextWithCSRFToken はコンテキストにCSRFトークンを注入する。
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenContextKey, token)
}

func rejectCSRF(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Warn("CSRF validation failed",
		slog.String("reason", reason),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)
	WriteErrorResponse(w, http.StatusForbidden, &model.APIError{
		Code:     "CSRF_TOKEN_INVALID",
		Message:  "CSRF token validation failed.",
		Category: "auth",
		Action:   "Reload the page and submit the form again.",
	})
}

// isSafeMethod はHTTPメソッドが安全（読み取り専用）かどうかを判定する。
func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// ensureCSRFCookie は既存のトークンを返し、未設定なら生成してCookieに設定する。
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request, config CSRFConfig) string {
	if c, err := r.Cookie(csrfCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	token, err := generateCSRFToken()
	if err != nil {
		slog.Error("failed to generate CSRF token", slog.String("error", err.Error()))
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Domain:   config.CookieDomain,
		MaxAge:   86400, // 24時間
		HttpOnly: true,
		Secure:   config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

// generateCSRFToken は暗号的に安全なCSRFトークンを生成する。
func generateCSRFToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
