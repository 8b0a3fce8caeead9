// Package auth はOAuthサインインとロール選択、サインアウトを提供する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hitoshi/eduportal/internal/apiclient"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/session"
)

// ErrUnknownProvider は登録されていないIdPが指定された場合のエラー。
var ErrUnknownProvider = errors.New("unknown oauth provider")

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Email          string
	Name           string
	Picture        string
	Provider       string // "google", "casdoor"
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
type OAuthProvider interface {
	// Name はURLパスに使うプロバイダー名を返す。
	Name() string
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// UserDirectory は外部のユーザーAPIのうち認証で使う操作。
// apiclient.Client がこれを満たす。
type UserDirectory interface {
	UpsertUser(ctx context.Context, provider string, req apiclient.UpsertUserRequest) error
	GetRole(ctx context.Context, email string) (model.Role, error)
	SetRole(ctx context.Context, email string, role model.Role) error
}

// ConversationResetter はユーザーのチャット状態を破棄する。
type ConversationResetter interface {
	Reset(ctx context.Context, userID string) error
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	providers map[string]OAuthProvider
	directory UserDirectory
	codec     *session.Codec
	chats     ConversationResetter
}

// NewService はServiceを生成する。
// directory がnilの場合、ユーザー登録とロールの永続化は行わずトークンのみ更新する。
func NewService(providers []OAuthProvider, directory UserDirectory, codec *session.Codec, chats ConversationResetter) *Service {
	m := make(map[string]OAuthProvider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Service{
		providers: m,
		directory: directory,
		codec:     codec,
		chats:     chats,
	}
}

// HasProvider は指定名のプロバイダーが登録されているかを返す。
func (s *Service) HasProvider(name string) bool {
	_, ok := s.providers[name]
	return ok
}

// GetLoginURL は指定プロバイダーのOAuth認証URLを生成する。
func (s *Service) GetLoginURL(provider, state string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return p.GetLoginURL(state), nil
}

// SignIn はOAuthコールバックを処理し、署名済みセッショントークンを発行する。
// ユーザーAPIへの登録とロール取得の失敗はログに残すのみでサインインは継続する。
func (s *Service) SignIn(ctx context.Context, provider, code string) (string, *session.Claims, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}

	info, err := p.ExchangeCode(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	claims := session.Claims{
		Email:    info.Email,
		Name:     info.Name,
		Picture:  info.Picture,
		Provider: info.Provider,
	}
	claims.Subject = info.ProviderUserID

	if s.directory != nil {
		claims.Role = s.syncUser(ctx, info)
	}

	token, err := s.codec.Issue(claims)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	slog.Info("user signed in",
		slog.String("user_id", claims.Subject),
		slog.String("provider", claims.Provider),
		slog.Bool("has_role", claims.Role.Valid()),
	)
	return token, &claims, nil
}

// syncUser はユーザーを登録し、保存済みのロールを返す。
func (s *Service) syncUser(ctx context.Context, info *OAuthUserInfo) model.Role {
	err := s.directory.UpsertUser(ctx, info.Provider, apiclient.UpsertUserRequest{
		ID:    info.ProviderUserID,
		Email: info.Email,
		Name:  info.Name,
	})
	if err != nil {
		slog.Error("failed to upsert user",
			slog.String("user_id", info.ProviderUserID),
			slog.String("error", err.Error()),
		)
	}

	role, err := s.directory.GetRole(ctx, info.Email)
	if err != nil {
		slog.Error("failed to fetch user role",
			slog.String("user_id", info.ProviderUserID),
			slog.String("error", err.Error()),
		)
		return model.RoleNone
	}
	return role
}

// SelectRole はロールを保存し、ロールクレームを更新したトークンを再発行する。
// 同じロールを繰り返し指定しても成功する。
func (s *Service) SelectRole(ctx context.Context, claims *session.Claims, role model.Role) (string, *session.Claims, error) {
	if claims == nil {
		return "", nil, fmt.Errorf("session is required to select a role")
	}
	if !role.Valid() {
		return "", nil, model.NewInvalidRoleError(string(role))
	}

	if s.directory != nil {
		if err := s.directory.SetRole(ctx, claims.Email, role); err != nil {
			return "", nil, fmt.Errorf("failed to save role: %w", err)
		}
	}

	token, updated, err := s.codec.WithRole(*claims, role)
	if err != nil {
		return "", nil, fmt.Errorf("failed to reissue session token: %w", err)
	}

	slog.Info("role selected",
		slog.String("user_id", claims.Subject),
		slog.String("role", string(role)),
	)
	return token, updated, nil
}

// Logout はユーザーのサーバー側状態（チャット履歴など）を破棄する。
// セッショントークン自体は署名付きのため、Cookie削除は呼び出し側が行う。
func (s *Service) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user ID is required")
	}
	if s.chats != nil {
		if err := s.chats.Reset(ctx, userID); err != nil {
			return fmt.Errorf("failed to clear chat state: %w", err)
		}
	}

	slog.Info("user logged out", slog.String("user_id", userID))
	return nil
}
