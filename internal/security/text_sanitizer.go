// Package security はユーザー入力の無害化を提供する。
//
// TextSanitizer はチャット入力やプロフィール項目に含まれるHTMLを取り除き、
// プレーンテキストとして保存できる形に整える。
// 表示時のエスケープは html/template が行うため、ここではマークアップの除去のみを扱う。
package security

import (
	"html"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// MaxFilenameLength はアップロード通知に載せるファイル名の最大文字数。
const MaxFilenameLength = 255

// TextSanitizer はHTMLタグを全て除去するサニタイザー。
// bluemondayのポリシーはスレッドセーフなため、単一インスタンスを共有してよい。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はStrictPolicyを使うTextSanitizerを生成する。
// script, styleタグは中身ごと除去される。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean は全てのタグを除去し、前後の空白を取り除いたテキストを返す。
// bluemondayがエスケープした実体参照は元の文字に戻す。
func (s *TextSanitizer) Clean(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := s.policy.Sanitize(raw)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

// Filename はアップロードされたファイル名からディレクトリ部分とタグを除去する。
// 結果が空の場合は "file" を返す。
func (s *TextSanitizer) Filename(raw string) string {
	name := strings.ReplaceAll(raw, "\\", "/")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	// 閉じタグの "/" を区切りと誤認しないよう、タグ除去後に末尾要素を取る
	name = path.Base(s.Clean(name))

	if name == "" || name == "." || name == "/" || name == ".." {
		return "file"
	}
	if utf8.RuneCountInString(name) > MaxFilenameLength {
		name = string([]rune(name)[:MaxFilenameLength])
	}
	return name
}
