package middleware

import (
	"net/http"

	"github.com/hitoshi/eduportal/internal/session"
)

// withUser はセッションミドルウェア通過後と同じクレームをリクエストに載せる。
func withUser(r *http.Request, userID string) *http.Request {
	claims := &session.Claims{Email: userID + "@example.com"}
	claims.Subject = userID
	return r.WithContext(session.ContextWithClaims(r.Context(), claims))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
