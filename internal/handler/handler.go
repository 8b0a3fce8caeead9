// Package handler はHTTPハンドラーを提供する。
//
// ページハンドラーは authctx.View として実装し、認証状態を引数で受け取る。
package handler

import (
	"net/http"

	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/middleware"
	"github.com/hitoshi/eduportal/internal/view"
)

// PageRenderer はページを描画する。view.Renderer がこれを満たす。
type PageRenderer interface {
	Render(w http.ResponseWriter, status int, page string, p *view.Page)
}

// newPage はページ共通データを組み立てる。
func newPage(r *http.Request, st *authctx.State, title string, nav view.Nav, data any) *view.Page {
	p := &view.Page{
		Title:     title,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Nav:       nav,
		Data:      data,
	}
	if st != nil {
		p.User = st.User
	}
	return p
}
