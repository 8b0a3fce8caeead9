package authctx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/session"
)

// --- モック定義 ---

type mockSignOuter struct {
	logoutFn func(ctx context.Context, userID string) error
	calls    []string
}

func (m *mockSignOuter) Logout(ctx context.Context, userID string) error {
	m.calls = append(m.calls, userID)
	if m.logoutFn != nil {
		return m.logoutFn(ctx, userID)
	}
	return nil
}

func requestWithClaims(claims *session.Claims) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	if claims != nil {
		req = req.WithContext(session.ContextWithClaims(req.Context(), claims))
	}
	return req
}

func studentClaims() *session.Claims {
	c := &session.Claims{Email: "s@example.com", Name: "Sam", Role: model.RoleStudent}
	c.Subject = "sub-s"
	return c
}

// --- テスト ---

func TestProvider_State_Authenticated(t *testing.T) {
	p := NewProvider(nil, session.CookieConfig{})
	st := p.State(requestWithClaims(studentClaims()))

	if st.Loading {
		t.Error("Loading = true, want false")
	}
	if st.User == nil || st.User.Email != "s@example.com" {
		t.Fatalf("User = %+v, want resolved user", st.User)
	}
	if st.Claims() == nil {
		t.Error("Claims() = nil, want claims")
	}
}

func TestProvider_State_Unauthenticated(t *testing.T) {
	p := NewProvider(nil, session.CookieConfig{})
	st := p.State(requestWithClaims(nil))

	if st.User != nil || st.Loading {
		t.Errorf("State = %+v, want empty", st)
	}
}

func TestState_Logout_ClearsCookieAndUser(t *testing.T) {
	so := &mockSignOuter{}
	p := NewProvider(so, session.CookieConfig{})
	req := requestWithClaims(studentClaims())
	st := p.State(req)

	w := httptest.NewRecorder()
	st.Logout(w, req)

	if st.User != nil || st.Claims() != nil {
		t.Error("expected State to be cleared after logout")
	}
	if len(so.calls) != 1 || so.calls[0] != "sub-s" {
		t.Errorf("signOut calls = %v, want [sub-s]", so.calls)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != session.CookieName || cookies[0].MaxAge >= 0 {
		t.Errorf("expected session cookie to be cleared, got %v", cookies)
	}
}

func TestState_Logout_SignOutErrorStillClearsCookie(t *testing.T) {
	so := &mockSignOuter{logoutFn: func(ctx context.Context, userID string) error {
		return errors.New("redis down")
	}}
	p := NewProvider(so, session.CookieConfig{})
	req := requestWithClaims(studentClaims())
	st := p.State(req)

	w := httptest.NewRecorder()
	st.Logout(w, req)

	if st.User != nil {
		t.Error("expected user to be cleared")
	}
	if len(w.Result().Cookies()) != 1 {
		t.Error("expected cookie to be cleared")
	}
}

func TestRequireUser_RedirectsWhenUnauthenticated(t *testing.T) {
	p := NewProvider(nil, session.CookieConfig{})
	called := false
	h := p.Handler(RequireUser(func(w http.ResponseWriter, r *http.Request, st *State) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestWithClaims(nil))

	if called {
		t.Error("view should not be called")
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("Location = %q, want %q", loc, "/login")
	}
}

func TestRequireUser_PassesStateToView(t *testing.T) {
	p := NewProvider(nil, session.CookieConfig{})
	var got *State
	h := p.Handler(RequireUser(func(w http.ResponseWriter, r *http.Request, st *State) {
		got = st
	}))

	h.ServeHTTP(httptest.NewRecorder(), requestWithClaims(studentClaims()))

	if got == nil || got.User == nil || got.User.ID != "sub-s" {
		t.Errorf("view received %+v", got)
	}
}

func TestRequireUser_LoadingRendersNothing(t *testing.T) {
	called := false
	v := RequireUser(func(w http.ResponseWriter, r *http.Request, st *State) { called = true })

	w := httptest.NewRecorder()
	v(w, requestWithClaims(nil), &State{Loading: true})

	if called {
		t.Error("view should not be called while loading")
	}
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if w.Header().Get("Location") != "" {
		t.Error("loading state must not redirect")
	}
}

func TestRequireRole_RedirectsOtherRoles(t *testing.T) {
	p := NewProvider(nil, session.CookieConfig{})
	called := false
	h := p.Handler(RequireRole(model.RoleProfessor, "/dashboard", func(w http.ResponseWriter, r *http.Request, st *State) {
		called = true
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, requestWithClaims(studentClaims()))

	if called {
		t.Error("view should not be called for student")
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want %q", loc, "/dashboard")
	}
}
