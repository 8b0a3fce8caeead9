// Package apiclient はバックエンドのユーザー/コースAPIのクライアントを提供する。
// 2xx以外の応答はボディを解釈せず一律に失敗として扱い、リトライは行わない。
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hitoshi/eduportal/internal/model"
)

// ErrUnexpectedStatus はAPIが2xx以外を返した場合のエラー。
var ErrUnexpectedStatus = errors.New("user API returned unexpected status")

// maxResponseSize はレスポンスボディの読み取り上限。
const maxResponseSize = 1 << 20

// CallRecorder はAPI呼び出しの結果と所要時間を記録する。
type CallRecorder interface {
	RecordUpstreamCall(endpoint string, ok bool, elapsed time.Duration)
}

// UpsertUserRequest はサインイン時のユーザー登録リクエスト。
type UpsertUserRequest struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type roleResponse struct {
	Role string `json:"role"`
}

type setRoleRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Client はユーザー/コースAPIのクライアント。
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	recorder   CallRecorder
}

// NewClient はClientの新しいインスタンスを生成する。recorderはnilでもよい。
func NewClient(httpClient *http.Client, baseURL string, logger *slog.Logger, recorder CallRecorder) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
		recorder:   recorder,
	}
}

// UpsertUser は POST /auth/{provider} でユーザーを登録する。既存ユーザーなら何もしない想定。
func (c *Client) UpsertUser(ctx context.Context, provider string, req UpsertUserRequest) error {
	return c.do(ctx, "upsert_user", http.MethodPost, "/auth/"+url.PathEscape(provider), nil, req, nil)
}

// GetRole は GET /users/role でロールを取得する。未設定なら RoleNone を返す。
func (c *Client) GetRole(ctx context.Context, email string) (model.Role, error) {
	var resp roleResponse
	if err := c.do(ctx, "get_role", http.MethodGet, "/users/role", url.Values{"email": {email}}, nil, &resp); err != nil {
		return model.RoleNone, err
	}
	role, ok := model.ParseRole(resp.Role)
	if !ok {
		return model.RoleNone, nil
	}
	return role, nil
}

// SetRole は POST /users/role でロールを保存する。
func (c *Client) SetRole(ctx context.Context, email string, role model.Role) error {
	return c.do(ctx, "set_role", http.MethodPost, "/users/role", nil, setRoleRequest{Email: email, Role: string(role)}, nil)
}

// GetUserDetails は GET /users/details でプロフィールを取得する。
func (c *Client) GetUserDetails(ctx context.Context, email string) (*model.Profile, error) {
	var p model.Profile
	if err := c.do(ctx, "get_details", http.MethodGet, "/users/details", url.Values{"email": {email}}, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile は PUT /users/profile でプロフィールを更新する。
func (c *Client) UpdateProfile(ctx context.Context, p model.Profile) error {
	return c.do(ctx, "update_profile", http.MethodPut, "/users/profile", nil, p, nil)
}

// TaughtCourses は GET /users/{id}/taught_courses で担当コース一覧を取得する。
func (c *Client) TaughtCourses(ctx context.Context, userID string) ([]model.CourseSummary, error) {
	var courses []model.CourseSummary
	if err := c.do(ctx, "taught_courses", http.MethodGet, "/users/"+url.PathEscape(userID)+"/taught_courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// EnrolledCourses は GET /users/{id}/enrolled_courses で受講コース一覧を取得する。
func (c *Client) EnrolledCourses(ctx context.Context, userID string) ([]model.CourseSummary, error) {
	var courses []model.CourseSummary
	if err := c.do(ctx, "enrolled_courses", http.MethodGet, "/users/"+url.PathEscape(userID)+"/enrolled_courses", nil, nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// do はJSONリクエストを送信し、2xxの場合のみ out にデコードする。
func (c *Client) do(ctx context.Context, endpoint, method, path string, query url.Values, in, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		if c.recorder != nil {
			c.recorder.RecordUpstreamCall(endpoint, err == nil, time.Since(start))
		}
	}()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("ユーザーAPIの呼び出しに失敗しました",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("call %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("ユーザーAPIがエラーステータスを返しました",
			slog.String("endpoint", endpoint),
			slog.Int("http_status", resp.StatusCode),
		)
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, endpoint, resp.StatusCode)
	}

	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		return nil
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(out); err != nil {
		c.logger.Error("ユーザーAPIのレスポンスのパースに失敗しました",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
