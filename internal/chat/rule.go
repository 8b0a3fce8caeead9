// Package chat はキーワード応答によるチャットアシスタントと、その会話状態を扱う。
package chat

import "strings"

// DefaultRuleName はどのルールにも一致しなかった場合のルール名。
const DefaultRuleName = "default"

// Rule は入力に対する判定関数と応答文の組。
type Rule struct {
	Name  string
	Match func(input string) bool
	Reply string
}

// Keyword は小文字化した入力に k が含まれるかを判定する関数を返す。
func Keyword(k string) func(string) bool {
	k = strings.ToLower(k)
	return func(input string) bool {
		return strings.Contains(strings.ToLower(input), k)
	}
}

// KeywordRule はキーワード一致のRuleを生成する。ルール名はキーワードそのもの。
func KeywordRule(keyword, reply string) Rule {
	return Rule{Name: keyword, Match: Keyword(keyword), Reply: reply}
}

// Responder は登録順にルールを評価し、最初に一致した応答を返す。
type Responder struct {
	rules    []Rule
	fallback string
}

// NewResponder は新しいResponderを生成する。
func NewResponder(fallback string, rules ...Rule) *Responder {
	return &Responder{rules: rules, fallback: fallback}
}

// Reply は応答文と一致したルール名を返す。
// 一致しない場合は fallback と DefaultRuleName を返す。
func (r *Responder) Reply(input string) (reply, rule string) {
	for _, rl := range r.rules {
		if rl.Match != nil && rl.Match(input) {
			return rl.Reply, rl.Name
		}
	}
	return r.fallback, DefaultRuleName
}
