// Package session は署名付きセッショントークンと、その解決処理を提供する。
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/hitoshi/eduportal/internal/model"
)

// ErrInvalidToken はトークンが無効（署名不正・期限切れ・形式不正）な場合のエラー。
var ErrInvalidToken = errors.New("invalid session token")

// Claims はセッショントークンに格納するクレーム。
// Subject にはIdP側のユーザーIDを格納する。
type Claims struct {
	Email    string     `json:"email"`
	Name     string     `json:"name"`
	Picture  string     `json:"picture,omitempty"`
	Role     model.Role `json:"role,omitempty"`
	Provider string     `json:"provider,omitempty"`
	jwt.RegisteredClaims
}

// User はクレームを認証済みユーザーに変換する。
func (c *Claims) User() *model.User {
	if c == nil {
		return nil
	}
	return &model.User{
		ID:     c.Subject,
		Name:   c.Name,
		Email:  c.Email,
		Role:   c.Role,
		Avatar: c.Picture,
	}
}

// Codec はHS256でセッショントークンを署名・検証する。
type Codec struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewCodec は新しいCodecを生成する。
func NewCodec(secret string, maxAge time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

// MaxAge はトークンの有効期間を返す。
func (c *Codec) MaxAge() time.Duration {
	return c.maxAge
}

// Issue はクレームに発行時刻と有効期限を設定し、署名済みトークンを返す。
func (c *Codec) Issue(claims Claims) (string, error) {
	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.maxAge))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse はトークンを検証してクレームを返す。
// 署名不正・期限切れ・subject欠落はすべて ErrInvalidToken を返す。
func (c *Codec) Parse(raw string) (*Claims, error) {
	if raw == "" {
		return nil, ErrInvalidToken
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Role != model.RoleNone && !claims.Role.Valid() {
		claims.Role = model.RoleNone
	}
	return claims, nil
}

// WithRole はロールを差し替えたクレームで再署名したトークンを返す。
// ロール選択後のトークン更新に使う。
func (c *Codec) WithRole(claims Claims, role model.Role) (string, *Claims, error) {
	if !role.Valid() {
		return "", nil, fmt.Errorf("invalid role %q", role)
	}
	claims.Role = role
	token, err := c.Issue(claims)
	if err != nil {
		return "", nil, err
	}
	return token, &claims, nil
}
