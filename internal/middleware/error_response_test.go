package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/eduportal/internal/model"
)

func TestWriteErrorResponse_WritesUnifiedFormat(t *testing.T) {
	w := httptest.NewRecorder()

	WriteErrorResponse(w, http.StatusBadRequest, model.NewInvalidRoleError("admin"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Code != model.ErrCodeInvalidRole {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidRole)
	}
	if body.Category != "validation" {
		t.Errorf("category = %q, want validation", body.Category)
	}
	if body.Message == "" || body.Action == "" {
		t.Errorf("body = %+v, want message and action", body)
	}
}

func TestWriteError_MapsStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "未認証", err: model.NewUnauthorizedError(), want: http.StatusUnauthorized},
		{name: "空メッセージ", err: model.NewEmptyMessageError(), want: http.StatusBadRequest},
		{name: "コース無し", err: model.NewCourseNotFoundError("99"), want: http.StatusNotFound},
		{name: "上流失敗", err: model.NewUpstreamFailedError(), want: http.StatusBadGateway},
		{name: "ラップされたAPIError", err: fmt.Errorf("select: %w", model.NewInvalidRoleError("x")), want: http.StatusBadRequest},
		{name: "一般エラー", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestWriteInternalServerError_HidesDetails(t *testing.T) {
	w := httptest.NewRecorder()
	WriteInternalServerError(w)

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Code != "INTERNAL_ERROR" || body.Category != "system" {
		t.Errorf("body = %+v", body)
	}
}
