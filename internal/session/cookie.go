package session

import (
	"net/http"
	"time"
)

// CookieName はセッショントークンを保持するCookieの名前。
const CookieName = "eduportal_session"

// CookieConfig はセッションCookieの属性。
type CookieConfig struct {
	Secure bool
	Domain string
	MaxAge time.Duration
}

// SetCookie はセッショントークンをHTTP Only Cookieとして設定する。
func SetCookie(w http.ResponseWriter, cfg CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   int(cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie はセッションCookieを削除する。
func ClearCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromRequest はリクエストのCookieからトークン文字列を取り出す。
func TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
