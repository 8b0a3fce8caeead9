// Package view はサーバーサイドで描画するHTMLページを提供する。
//
// テンプレートは埋め込みファイルから起動時に一度だけ解析する。
// "_" で始まるファイルはレイアウトとして全ページに読み込まれる。
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hitoshi/eduportal/internal/model"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// ページ名
const (
	PageHome          = "home"
	PageLogin         = "login"
	PageRoleSelection = "role_selection"
	PageDashboard     = "dashboard"
	PageCourse        = "course"
	PageChat          = "chat"
	PageProfile       = "profile"
	PageCreateCourse  = "create_course"
)

// Nav はダッシュボードシェルで強調表示するメニュー項目。
type Nav string

// メニュー項目
const (
	NavDashboard Nav = "dashboard"
	NavProfile   Nav = "profile"
	NavCourses   Nav = "courses"
	NavChat      Nav = "chat"
)

// Page は全テンプレートに渡す共通データ。
type Page struct {
	Title     string
	User      *model.User
	CSRFToken string
	Nav       Nav
	Flash     string
	Refresh   string // meta refresh の content 値（例: "2;url=/dashboard"）
	Data      any
}

// chatView はチャット部品テンプレートの引数。
type chatView struct {
	CSRFToken string
	Chat      ChatData
}

// Renderer は解析済みのテンプレートを保持する。
type Renderer struct {
	pages map[string]*template.Template
}

// Funcs はテンプレートで使う関数群。
func Funcs() template.FuncMap {
	return template.FuncMap{
		"initial":  Initial,
		"clock":    func(t time.Time) string { return t.Format("15:04") },
		"title":    Capitalize,
		"upper":    strings.ToUpper,
		"chatArgs": func(p *Page, c ChatData) chatView { return chatView{CSRFToken: p.CSRFToken, Chat: c} },
	}
}

// New は埋め込みテンプレートを解析してRendererを生成する。
func New() (*Renderer, error) {
	return parse(templateFS, "templates")
}

func parse(fsys fs.FS, dir string) (*Renderer, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	var layouts, pages []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".gohtml" {
			continue
		}
		if strings.HasPrefix(name, "_") {
			layouts = append(layouts, path.Join(dir, name))
		} else {
			pages = append(pages, path.Join(dir, name))
		}
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".gohtml")
		files := append(append([]string(nil), layouts...), p)
		tmpl, err := template.New(name).Funcs(Funcs()).Option("missingkey=error").ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Has はページが存在するかを返す。
func (r *Renderer) Has(page string) bool {
	_, ok := r.pages[page]
	return ok
}

// Render はページを描画して書き込む。
// 描画が途中で失敗しても部分的なHTMLを返さないよう、バッファに書き出してから送信する。
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, p *Page) {
	tmpl, ok := r.pages[page]
	if !ok {
		slog.Error("unknown page template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		slog.Error("failed to render page",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Initial はアバターに表示する頭文字を返す。名前が空なら "U"。
func Initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "U"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}

// Capitalize は先頭文字のみ大文字にする。
func Capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
