// Package profile はプロフィールの取得と保存を提供する。
package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/security"
)

// DefaultPhone はAPIから取得できない場合の電話番号。
const DefaultPhone = "+1 (555) 123-4567"

// DetailsAPI はプロフィールの取得と更新を行う外部API。
// apiclient.Client がこれを満たす。
type DetailsAPI interface {
	GetUserDetails(ctx context.Context, email string) (*model.Profile, error)
	UpdateProfile(ctx context.Context, p model.Profile) error
}

// Service はプロフィールに関するビジネスロジックを提供する。
type Service struct {
	api       DetailsAPI
	sanitizer *security.TextSanitizer
}

// NewService はServiceを生成する。api がnilの場合はロール別の既定値のみ扱う。
func NewService(api DetailsAPI, sanitizer *security.TextSanitizer) *Service {
	return &Service{api: api, sanitizer: sanitizer}
}

// Defaults はユーザーのロールに応じた既定のプロフィールを返す。
func Defaults(u *model.User) model.Profile {
	p := model.Profile{
		Name:          u.Name,
		Email:         u.Email,
		Bio:           "Student majoring in computer science.",
		Department:    "Engineering",
		Phone:         DefaultPhone,
		Notifications: model.Notifications{Email: true, Push: false},
	}
	if u.IsProfessor() {
		p.Bio = "Professor with expertise in computer science and mathematics."
		p.Department = "Computer Science"
	}
	return p
}

// Load はプロフィールを取得する。
// API未設定または取得失敗時はロール別の既定値を返し、空の項目は既定値で補う。
func (s *Service) Load(ctx context.Context, u *model.User) model.Profile {
	defaults := Defaults(u)
	if s.api == nil {
		return defaults
	}

	remote, err := s.api.GetUserDetails(ctx, u.Email)
	if err != nil {
		slog.Warn("falling back to default profile",
			slog.String("user_id", u.ID),
			slog.String("error", err.Error()),
		)
		return defaults
	}
	if remote == nil {
		return defaults
	}

	p := *remote
	p.Email = u.Email
	if p.Name == "" {
		p.Name = defaults.Name
	}
	if p.Bio == "" {
		p.Bio = defaults.Bio
	}
	if p.Department == "" {
		p.Department = defaults.Department
	}
	if p.Phone == "" {
		p.Phone = defaults.Phone
	}
	return p
}

// Save は入力を無害化して保存し、保存後のプロフィールを返す。
// メールアドレスはセッションの値で上書きし、変更を許可しない。
func (s *Service) Save(ctx context.Context, u *model.User, p model.Profile) (model.Profile, error) {
	p.Email = u.Email
	p.Name = s.sanitizer.Clean(p.Name)
	p.Bio = s.sanitizer.Clean(p.Bio)
	p.Department = s.sanitizer.Clean(p.Department)
	p.Phone = s.sanitizer.Clean(p.Phone)

	if p.Name == "" {
		return model.Profile{}, model.NewInvalidProfileError("name")
	}

	if s.api != nil {
		if err := s.api.UpdateProfile(ctx, p); err != nil {
			return model.Profile{}, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	slog.Info("profile saved", slog.String("user_id", u.ID))
	return p, nil
}
