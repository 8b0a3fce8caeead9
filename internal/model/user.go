// Package model はドメインモデルを定義する。
package model

import "strings"

// Role はユーザーのロールクレームを表す。
// 空文字はロール未選択を意味する。
type Role string

// 定義済みロール
const (
	RoleNone      Role = ""
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// Valid はロールが student または professor であればtrueを返す。
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleProfessor
}

// ParseRole は文字列をロールに変換する。未知の値は RoleNone と false を返す。
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return RoleNone, false
	}
	return r, true
}

// User は認証済みユーザーを表す。
type User struct {
	ID     string
	Name   string
	Email  string
	Role   Role
	Avatar string
}

// HasRole はロールが選択済みかどうかを返す。
func (u *User) HasRole() bool {
	return u != nil && u.Role.Valid()
}

// IsProfessor は教員ロールかどうかを返す。
func (u *User) IsProfessor() bool {
	return u != nil && u.Role == RoleProfessor
}
