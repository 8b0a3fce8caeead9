// Package authctx はリクエストごとの認証状態をビューへ明示的に渡す。
package authctx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/eduportal/internal/guard"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/session"
)

// SignOuter はサインアウト時のサーバー側後処理を行う。
// auth.Service の部分集合として定義する。
type SignOuter interface {
	Logout(ctx context.Context, userID string) error
}

// State はビューが参照する認証状態。
type State struct {
	User    *model.User
	Loading bool

	claims  *session.Claims
	signOut SignOuter
	cookie  session.CookieConfig
}

// Claims は検証済みのセッションクレームを返す。未認証ならnil。
func (s *State) Claims() *session.Claims {
	return s.claims
}

// Logout はサインアウトを実行し、以降このStateは未認証として振る舞う。
// 後処理の失敗はログに残すのみで、Cookieは必ず削除する。
func (s *State) Logout(w http.ResponseWriter, r *http.Request) {
	if s.User != nil && s.signOut != nil {
		if err := s.signOut.Logout(r.Context(), s.User.ID); err != nil {
			slog.Error("failed to clean up on logout",
				slog.String("user_id", s.User.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	session.ClearCookie(w, s.cookie)
	s.User = nil
	s.claims = nil
	s.Loading = false
}

// View は認証状態を受け取るページハンドラー。
type View func(w http.ResponseWriter, r *http.Request, st *State)

// Provider はリクエストからStateを構築してビューに渡す。
type Provider struct {
	signOut SignOuter
	cookie  session.CookieConfig
}

// NewProvider は新しいProviderを生成する。
func NewProvider(signOut SignOuter, cookie session.CookieConfig) *Provider {
	return &Provider{signOut: signOut, cookie: cookie}
}

// State はセッションミドルウェアが注入したクレームからStateを構築する。
func (p *Provider) State(r *http.Request) *State {
	claims := session.ClaimsFromContext(r.Context())
	resolved := session.Resolve(session.StatusOf(claims), claims)
	return &State{
		User:    resolved.User,
		Loading: resolved.Loading,
		claims:  claims,
		signOut: p.signOut,
		cookie:  p.cookie,
	}
}

// Handler はビューをhttp.HandlerFuncに変換する。
func (p *Provider) Handler(v View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v(w, r, p.State(r))
	}
}

// RequireUser は未認証ならログインページへリダイレクトする。
// 読み込み中は何も描画しない。
func RequireUser(v View) View {
	return func(w http.ResponseWriter, r *http.Request, st *State) {
		if st.Loading {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if st.User == nil {
			guard.Redirect(w, r, guard.LoginPath)
			return
		}
		v(w, r, st)
	}
}

// RequireRole は指定ロール以外のユーザーを fallback へリダイレクトする。
func RequireRole(role model.Role, fallback string, v View) View {
	return RequireUser(func(w http.ResponseWriter, r *http.Request, st *State) {
		if st.User.Role != role {
			guard.Redirect(w, r, fallback)
			return
		}
		v(w, r, st)
	})
}
