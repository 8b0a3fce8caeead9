package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/eduportal/internal/model"
)

// ErrorResponseBody はJSONエラーレスポンスの統一フォーマット。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// WriteErrorResponse は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
func WriteErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteError はerrを統一フォーマットで書き込む。
// model.APIError でないエラーは内部エラーとして扱い、詳細は返さない。
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		WriteInternalServerError(w)
		return
	}
	WriteErrorResponse(w, StatusForCode(apiErr.Code), apiErr)
}

// StatusForCode はエラーコードに対応するHTTPステータスを返す。
func StatusForCode(code string) int {
	switch code {
	case model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRole, model.ErrCodeInvalidProfile, model.ErrCodeEmptyMessage:
		return http.StatusBadRequest
	case model.ErrCodeCourseNotFound, model.ErrCodeUnknownProvider:
		return http.StatusNotFound
	case model.ErrCodeUpstreamFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:     "INTERNAL_ERROR",
		Message:  "Something went wrong.",
		Category: "system",
		Action:   "Please try again later.",
	})
}
