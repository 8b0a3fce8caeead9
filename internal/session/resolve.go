package session

import "github.com/hitoshi/eduportal/internal/model"

// Status はセッションの解決状態。
type Status string

// セッション状態
const (
	StatusLoading         Status = "loading"
	StatusAuthenticated   Status = "authenticated"
	StatusUnauthenticated Status = "unauthenticated"
)

// Resolved はページ描画に使う認証状態。
type Resolved struct {
	User    *model.User
	Loading bool
}

// Resolve はセッション状態とクレームから認証状態を導出する。
// 副作用を持たない純粋関数。
func Resolve(status Status, claims *Claims) Resolved {
	switch status {
	case StatusLoading:
		return Resolved{Loading: true}
	case StatusAuthenticated:
		if claims == nil {
			return Resolved{}
		}
		return Resolved{User: claims.User()}
	default:
		return Resolved{}
	}
}

// StatusOf はクレームの有無からセッション状態を返す。
// サーバー側ではトークン検証が同期的に完了するため loading にはならない。
func StatusOf(claims *Claims) Status {
	if claims == nil {
		return StatusUnauthenticated
	}
	return StatusAuthenticated
}
