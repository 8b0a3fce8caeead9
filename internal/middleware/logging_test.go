package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func decodeLogEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse JSON log: %v\nraw: %s", err, buf.String())
	}
	return entry
}

func TestLoggingMiddleware_LogsRequestFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	handler := NewLoggingMiddleware(logger)(okHandler())
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	entry := decodeLogEntry(t, &buf)
	if entry["msg"] != "http_request" {
		t.Errorf("msg = %v, want http_request", entry["msg"])
	}
	if entry["method"] != "GET" {
		t.Errorf("method = %v, want GET", entry["method"])
	}
	if entry["path"] != "/dashboard" {
		t.Errorf("path = %v, want /dashboard", entry["path"])
	}
	if entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
	if _, ok := entry["duration_ms"]; !ok {
		t.Error("expected duration_ms field")
	}
	if _, ok := entry["user_id"]; ok {
		t.Error("user_id should be omitted for anonymous requests")
	}
}

func TestLoggingMiddleware_IncludesUserID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := NewLoggingMiddleware(logger)(okHandler())
	req := withUser(httptest.NewRequest(http.MethodGet, "/dashboard", nil), "user-123")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLogEntry(t, &buf)
	if entry["user_id"] != "user-123" {
		t.Errorf("user_id = %v, want user-123", entry["user_id"])
	}
}

func TestLoggingMiddleware_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusSeeOther, "INFO"},
		{http.StatusForbidden, "WARN"},
		{http.StatusBadGateway, "ERROR"},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))
		handler := NewLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		entry := decodeLogEntry(t, &buf)
		if entry["level"] != tt.level {
			t.Errorf("status %d: level = %v, want %s", tt.status, entry["level"], tt.level)
		}
	}
}

func TestLoggingMiddleware_BodyWriteRecords200(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	handler := NewLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if entry := decodeLogEntry(t, &buf); entry["status"] != float64(200) {
		t.Errorf("status = %v, want 200", entry["status"])
	}
}

// --- モック定義 ---

type mockStatusRecorder struct {
	statuses []int
}

func (m *mockStatusRecorder) RecordHTTPStatus(statusCode int) {
	m.statuses = append(m.statuses, statusCode)
}

// --- テスト ---

func TestStatusMetricsMiddleware_RecordsStatus(t *testing.T) {
	rec := &mockStatusRecorder{}
	handler := NewStatusMetricsMiddleware(rec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/login", http.StatusTemporaryRedirect)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	if len(rec.statuses) != 2 || rec.statuses[0] != http.StatusTemporaryRedirect {
		t.Errorf("statuses = %v, want [307 307]", rec.statuses)
	}
}
