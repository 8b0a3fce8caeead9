// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, chat, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized    = "UNAUTHORIZED"
	ErrCodeInvalidRole     = "INVALID_ROLE"
	ErrCodeInvalidProfile  = "INVALID_PROFILE"
	ErrCodeEmptyMessage    = "EMPTY_MESSAGE"
	ErrCodeCourseNotFound  = "COURSE_NOT_FOUND"
	ErrCodeUnknownProvider = "UNKNOWN_PROVIDER"
	ErrCodeUpstreamFailed  = "UPSTREAM_FAILED"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Authentication required.",
		Category: "auth",
		Action:   "Sign in with Google to continue.",
	}
}

// NewInvalidRoleError は無効なロール指定エラーを生成する。
func NewInvalidRoleError(role string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRole,
		Message:  fmt.Sprintf("Invalid role: %q", role),
		Category: "validation",
		Action:   "Choose either student or professor.",
	}
}

// NewInvalidProfileError はプロフィール入力の検証エラーを生成する。
func NewInvalidProfileError(field string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidProfile,
		Message:  fmt.Sprintf("Invalid value for %s.", field),
		Category: "validation",
		Action:   "Check the highlighted field and try again.",
	}
}

// NewEmptyMessageError は空メッセージ送信エラーを生成する。
func NewEmptyMessageError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyMessage,
		Message:  "Message is empty.",
		Category: "chat",
		Action:   "Type a message before sending.",
	}
}

// NewCourseNotFoundError はコース未検出エラーを生成する。
func NewCourseNotFoundError(courseID string) *APIError {
	return &APIError{
		Code:     ErrCodeCourseNotFound,
		Message:  fmt.Sprintf("Course not found: %s", courseID),
		Category: "validation",
		Action:   "Return to the dashboard and pick a course.",
	}
}

// NewUnknownProviderError は未対応のIdP指定エラーを生成する。
func NewUnknownProviderError(provider string) *APIError {
	return &APIError{
		Code:     ErrCodeUnknownProvider,
		Message:  fmt.Sprintf("Unknown sign-in provider: %s", provider),
		Category: "auth",
		Action:   "Use the sign-in button on the login page.",
	}
}

// NewUpstreamFailedError はバックエンドAPI呼び出し失敗エラーを生成する。
func NewUpstreamFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamFailed,
		Message:  "The user service is unavailable.",
		Category: "system",
		Action:   "Please try again in a moment.",
	}
}
