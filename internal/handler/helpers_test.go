package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/chat"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/session"
	"github.com/hitoshi/eduportal/internal/view"
)

// --- モック定義 ---

type mockAuthService struct {
	providers    map[string]bool
	getLoginFn   func(provider, state string) (string, error)
	signInFn     func(ctx context.Context, provider, code string) (string, *session.Claims, error)
	selectRoleFn func(ctx context.Context, claims *session.Claims, role model.Role) (string, *session.Claims, error)
	signInCalls  int
	roleCalls    []model.Role
}

func (m *mockAuthService) HasProvider(name string) bool {
	return m.providers[name]
}

func (m *mockAuthService) GetLoginURL(provider, state string) (string, error) {
	if m.getLoginFn != nil {
		return m.getLoginFn(provider, state)
	}
	return "https://idp.example.com/auth?state=" + state, nil
}

func (m *mockAuthService) SignIn(ctx context.Context, provider, code string) (string, *session.Claims, error) {
	m.signInCalls++
	if m.signInFn != nil {
		return m.signInFn(ctx, provider, code)
	}
	return "", nil, nil
}

func (m *mockAuthService) SelectRole(ctx context.Context, claims *session.Claims, role model.Role) (string, *session.Claims, error) {
	m.roleCalls = append(m.roleCalls, role)
	if m.selectRoleFn != nil {
		return m.selectRoleFn(ctx, claims, role)
	}
	updated := *claims
	updated.Role = role
	return "token-with-" + string(role), &updated, nil
}

type mockChatService struct {
	openFn   func(ctx context.Context, userID string, conv chat.Conversation) ([]model.Message, error)
	sendFn   func(ctx context.Context, userID string, conv chat.Conversation, input string) (*model.Message, error)
	uploadFn func(ctx context.Context, userID string, conv chat.Conversation, filename string) (*model.Message, error)
	createFn func(ctx context.Context, userID string, conv chat.Conversation, input string) (*model.Message, string, error)

	opened   []string
	sent     []string
	uploaded []string
	convs    []chat.Conversation
}

func (m *mockChatService) Open(ctx context.Context, userID string, conv chat.Conversation) ([]model.Message, error) {
	m.opened = append(m.opened, conv.Name)
	if m.openFn != nil {
		return m.openFn(ctx, userID, conv)
	}
	return nil, nil
}

func (m *mockChatService) Send(ctx context.Context, userID string, conv chat.Conversation, input string) (*model.Message, error) {
	m.sent = append(m.sent, input)
	m.convs = append(m.convs, conv)
	if m.sendFn != nil {
		return m.sendFn(ctx, userID, conv, input)
	}
	return &model.Message{Content: "ok", Sender: model.SenderAI}, nil
}

func (m *mockChatService) Upload(ctx context.Context, userID string, conv chat.Conversation, filename string) (*model.Message, error) {
	m.uploaded = append(m.uploaded, filename)
	m.convs = append(m.convs, conv)
	if m.uploadFn != nil {
		return m.uploadFn(ctx, userID, conv, filename)
	}
	return &model.Message{Content: "ok", Sender: model.SenderAI}, nil
}

func (m *mockChatService) CreateCourse(ctx context.Context, userID string, conv chat.Conversation, input string) (*model.Message, string, error) {
	m.sent = append(m.sent, input)
	m.convs = append(m.convs, conv)
	if m.createFn != nil {
		return m.createFn(ctx, userID, conv, input)
	}
	return &model.Message{Content: "ok", Sender: model.SenderAI}, "", nil
}

type mockCourseSource struct {
	enrolledFn func(ctx context.Context, userID string) ([]model.CourseSummary, error)
	taughtFn   func(ctx context.Context, userID string) ([]model.CourseSummary, error)
}

func (m *mockCourseSource) EnrolledCourses(ctx context.Context, userID string) ([]model.CourseSummary, error) {
	if m.enrolledFn != nil {
		return m.enrolledFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockCourseSource) TaughtCourses(ctx context.Context, userID string) ([]model.CourseSummary, error) {
	if m.taughtFn != nil {
		return m.taughtFn(ctx, userID)
	}
	return nil, nil
}

type mockProfileService struct {
	loadFn func(ctx context.Context, u *model.User) model.Profile
	saveFn func(ctx context.Context, u *model.User, p model.Profile) (model.Profile, error)
	saved  []model.Profile
}

func (m *mockProfileService) Load(ctx context.Context, u *model.User) model.Profile {
	if m.loadFn != nil {
		return m.loadFn(ctx, u)
	}
	return model.Profile{Name: u.Name, Email: u.Email}
}

func (m *mockProfileService) Save(ctx context.Context, u *model.User, p model.Profile) (model.Profile, error) {
	m.saved = append(m.saved, p)
	if m.saveFn != nil {
		return m.saveFn(ctx, u, p)
	}
	return p, nil
}

// mockRenderer は描画されたページを記録する。
type mockRenderer struct {
	status int
	page   string
	data   *view.Page
	calls  int
}

func (m *mockRenderer) Render(w http.ResponseWriter, status int, page string, p *view.Page) {
	m.calls++
	m.status = status
	m.page = page
	m.data = p
	w.WriteHeader(status)
}

type mockSignOuter struct {
	calls []string
}

func (m *mockSignOuter) Logout(_ context.Context, userID string) error {
	m.calls = append(m.calls, userID)
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.now = c.now.Add(d)
	return ctx.Err()
}

// --- ヘルパー ---

func testClaims(id string, role model.Role) *session.Claims {
	c := &session.Claims{Email: id + "@example.com", Name: "Test " + id, Role: role}
	c.Subject = id
	return c
}

// withClaims はセッションミドルウェアを通過した状態のリクエストを作る。
func withClaims(r *http.Request, claims *session.Claims) *http.Request {
	if claims == nil {
		return r
	}
	return r.WithContext(session.ContextWithClaims(r.Context(), claims))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func stateOf(r *http.Request) *authctx.State {
	return authctx.NewProvider(nil, session.CookieConfig{}).State(r)
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func serveView(v authctx.View, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	v(w, r, stateOf(r))
	return w
}
