package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/eduportal/internal/model"
)

// --- モック定義 ---

type recordedCall struct {
	endpoint string
	ok       bool
}

type mockRecorder struct {
	calls []recordedCall
}

func (m *mockRecorder) RecordUpstreamCall(endpoint string, ok bool, elapsed time.Duration) {
	m.calls = append(m.calls, recordedCall{endpoint: endpoint, ok: ok})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *mockRecorder, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	rec := &mockRecorder{}
	return NewClient(server.Client(), server.URL, logger, rec), rec, &buf
}

// --- テスト ---

func TestClient_UpsertUser_PostsJSON(t *testing.T) {
	c, rec, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/google" {
			t.Errorf("request = %s %s, want POST /auth/google", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var body UpsertUserRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body != (UpsertUserRequest{ID: "sub-1", Email: "a@example.com", Name: "A"}) {
			t.Errorf("body = %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := c.UpsertUser(context.Background(), "google", UpsertUserRequest{ID: "sub-1", Email: "a@example.com", Name: "A"})
	if err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0] != (recordedCall{"upsert_user", true}) {
		t.Errorf("recorded = %+v", rec.calls)
	}
}

func TestClient_GetRole(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.Role
	}{
		{"professor", `{"role":"professor"}`, model.RoleProfessor},
		{"no role", `{"role":null}`, model.RoleNone},
		{"unknown role", `{"role":"admin"}`, model.RoleNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if got := r.URL.Query().Get("email"); got != "a+b@example.com" {
					t.Errorf("email query = %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			role, err := c.GetRole(context.Background(), "a+b@example.com")
			if err != nil {
				t.Fatalf("GetRole() error = %v", err)
			}
			if role != tt.want {
				t.Errorf("role = %q, want %q", role, tt.want)
			}
		})
	}
}

func TestClient_SetRole(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/users/role" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "a@example.com" || body["role"] != "student" {
			t.Errorf("body = %v", body)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.SetRole(context.Background(), "a@example.com", model.RoleStudent); err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
}

func TestClient_EnrolledCourses_ServerError(t *testing.T) {
	c, rec, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/u-1/enrolled_courses" {
			t.Errorf("path = %s", r.URL.Path)
		}
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	})

	courses, err := c.EnrolledCourses(context.Background(), "u-1")
	if !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("EnrolledCourses() error = %v, want ErrUnexpectedStatus", err)
	}
	if courses != nil {
		t.Errorf("courses = %v, want nil", courses)
	}
	if len(rec.calls) != 1 || rec.calls[0].ok {
		t.Errorf("recorded = %+v, want one failed call", rec.calls)
	}
	if !bytes.Contains(logs.Bytes(), []byte(`"http_status":500`)) {
		t.Errorf("expected status to be logged, got %s", logs.String())
	}
}

func TestClient_TaughtCourses_DecodesList(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"10","title":"Compilers","students":12,"status":"active"}]`))
	})

	courses, err := c.TaughtCourses(context.Background(), "prof")
	if err != nil {
		t.Fatalf("TaughtCourses() error = %v", err)
	}
	if len(courses) != 1 || courses[0].Title != "Compilers" || courses[0].Students != 12 {
		t.Errorf("courses = %+v", courses)
	}
}

func TestClient_GetUserDetailsAndUpdateProfile(t *testing.T) {
	var updated model.Profile
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/users/details":
			w.Write([]byte(`{"name":"A","email":"a@example.com","bio":"hi","department":"Math","phone":"1","notifications":{"email":true,"push":true}}`))
		case r.Method == http.MethodPut && r.URL.Path == "/users/profile":
			json.NewDecoder(r.Body).Decode(&updated)
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})

	p, err := c.GetUserDetails(context.Background(), "a@example.com")
	if err != nil {
		t.Fatalf("GetUserDetails() error = %v", err)
	}
	if p.Department != "Math" || !p.Notifications.Push {
		t.Errorf("profile = %+v", p)
	}

	p.Bio = "updated"
	if err := c.UpdateProfile(context.Background(), *p); err != nil {
		t.Fatalf("UpdateProfile() error = %v", err)
	}
	if updated.Bio != "updated" {
		t.Errorf("server received bio %q", updated.Bio)
	}
}

func TestClient_InvalidJSON(t *testing.T) {
	c, _, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	if _, err := c.GetUserDetails(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestClient_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	rec := &mockRecorder{}
	c := NewClient(http.DefaultClient, url, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil)), rec)
	if _, err := c.GetRole(context.Background(), "a@example.com"); err == nil {
		t.Fatal("expected transport error")
	}
	if len(rec.calls) != 1 || rec.calls[0].ok {
		t.Errorf("recorded = %+v", rec.calls)
	}
}
