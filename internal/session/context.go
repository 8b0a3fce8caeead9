package session

import "context"

type contextKey string

var claimsContextKey = contextKey("session_claims")

// ContextWithClaims はコンテキストに検証済みクレームを注入する。
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext はコンテキストからクレームを取得する。
// 未認証リクエストではnilを返す。
func ClaimsFromContext(ctx context.Context) *Claims {
	c, _ := ctx.Value(claimsContextKey).(*Claims)
	return c
}

// UserIDFromContext はコンテキストのクレームからユーザーIDを返す。
// 未認証の場合は空文字を返す。
func UserIDFromContext(ctx context.Context) string {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.Subject
	}
	return ""
}
