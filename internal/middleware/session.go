// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/hitoshi/eduportal/internal/session"
)

// TokenParser はセッショントークンの検証に必要なインターフェース。
// session.Codec がこれを満たす。
type TokenParser interface {
	Parse(raw string) (*session.Claims, error)
}

// NewSessionMiddleware はHTTP Only Cookieのセッショントークンを検証し、
// 有効なクレームをリクエストコンテキストに注入するミドルウェアを返す。
// トークンが無い、または無効な場合も拒否せず未認証として次へ渡す。
// 未認証時の振り分けは guard と各ページが担う。
func NewSessionMiddleware(parser TokenParser) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := session.TokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parser.Parse(raw)
			if err != nil {
				slog.Debug("ignoring invalid session token",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := session.ContextWithClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
