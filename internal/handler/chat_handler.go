package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/eduportal/internal/authctx"
	"github.com/hitoshi/eduportal/internal/catalog"
	"github.com/hitoshi/eduportal/internal/chat"
	"github.com/hitoshi/eduportal/internal/guard"
	"github.com/hitoshi/eduportal/internal/model"
	"github.com/hitoshi/eduportal/internal/security"
	"github.com/hitoshi/eduportal/internal/view"
)

// maxUploadSize はリクエストボディの上限。
// アップロードされたファイル本体は保存しないが、解析のために読み込む。
const maxUploadSize = 10 << 20

const (
	chatPath         = guard.DashboardPath + "/chat"
	createCoursePath = guard.DashboardPath + "/create-course"
)

// チャット画面に表示するエラー
const (
	chatErrorEmpty  = "empty"
	chatErrorFailed = "failed"
	chatErrorUpload = "upload"
)

const chatUnavailable = "The assistant is unavailable right now. Please try again."

var chatErrorMessages = map[string]string{
	chatErrorEmpty:  "Type a message before sending.",
	chatErrorFailed: chatUnavailable,
	chatErrorUpload: "Choose a file to upload.",
}

// ChatServiceInterface はチャットハンドラーが必要とするサービスインターフェース。
type ChatServiceInterface interface {
	Open(ctx context.Context, userID string, conv chat.Conversation) ([]model.Message, error)
	Send(ctx context.Context, userID string, conv chat.Conversation, input string) (*model.Message, error)
	Upload(ctx context.Context, userID string, conv chat.Conversation, filename string) (*model.Message, error)
	CreateCourse(ctx context.Context, userID string, conv chat.Conversation, input string) (*model.Message, string, error)
}

// ChatDelays はアシスタントの応答遅延。
type ChatDelays struct {
	General time.Duration // 汎用チャット、コース作成、コースへのファイル送信
	Course  time.Duration // コース別チャット
}

// ChatHandler は汎用チャットとコース作成アシスタントのHTTPハンドラー。
// コース別チャットの送信もここで受ける。
type ChatHandler struct {
	chats     ChatServiceInterface
	pages     PageRenderer
	sanitizer *security.TextSanitizer
	delays    ChatDelays
	validate  *formValidator
}

// NewChatHandler はChatHandlerを生成する。
func NewChatHandler(chats ChatServiceInterface, pages PageRenderer, sanitizer *security.TextSanitizer, delays ChatDelays) *ChatHandler {
	return &ChatHandler{
		chats:     chats,
		pages:     pages,
		sanitizer: sanitizer,
		delays:    delays,
		validate:  newFormValidator(),
	}
}

// Chat は汎用アシスタントの会話を表示する。
// GET /dashboard/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	data := view.ChatData{
		Description:  "Ask questions about your courses, assignments, or get study help",
		SendAction:   chatPath,
		UploadAction: chatPath + "/upload",
		Placeholder:  "Type your message...",
	}
	h.renderConversation(w, r, st, view.PageChat, "AI Chat", view.NavChat, chat.General(h.delays.General), data, nil)
}

// Send は汎用アシスタントへメッセージを送信する。
// POST /dashboard/chat
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	h.send(w, r, st, chat.General(h.delays.General), chatPath)
}

// Upload は汎用アシスタントへファイルを送信する。
// POST /dashboard/chat/upload
func (h *ChatHandler) Upload(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	h.upload(w, r, st, chat.General(h.delays.General), chatPath)
}

// CourseSend はコース別チャットへメッセージを送信する。
// POST /dashboard/courses/{id}/chat
func (h *ChatHandler) CourseSend(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	course, ok := catalog.Course(chi.URLParam(r, "id"))
	if !ok {
		guard.Redirect(w, r, guard.DashboardPath)
		return
	}
	h.send(w, r, st, chat.ForCourse(course, h.delays.Course, h.delays.General), coursePath(course.ID)+"?tab=chat")
}

// CourseUpload はコース別チャットへファイルを送信する。
// POST /dashboard/courses/{id}/upload
func (h *ChatHandler) CourseUpload(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	course, ok := catalog.Course(chi.URLParam(r, "id"))
	if !ok {
		guard.Redirect(w, r, guard.DashboardPath)
		return
	}
	h.upload(w, r, st, chat.ForCourse(course, h.delays.Course, h.delays.General), coursePath(course.ID)+"?tab=chat")
}

// CreateCourse はコース作成アシスタントを表示する。
// 作成完了後（done=1）は数秒後にコース一覧へ遷移させる。
// GET /dashboard/create-course
func (h *ChatHandler) CreateCourse(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	data := view.ChatData{
		Description:  "I'll help you set up a new course step by step",
		SendAction:   createCoursePath,
		UploadAction: createCoursePath + "/upload",
		Placeholder:  "Type your response...",
	}
	refresh := ""
	if r.URL.Query().Get("done") == "1" {
		refresh = "2;url=" + chat.CreatedCourseRedirect
	}
	h.renderConversation(w, r, st, view.PageCreateCourse, "Create Course", view.NavCourses, chat.CourseCreation(h.delays.General), data, func(p *view.Page) {
		p.Refresh = refresh
	})
}

// CreateCourseSend はコース作成アシスタントを1段階進める。
// POST /dashboard/create-course
func (h *ChatHandler) CreateCourseSend(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	input, ok := h.readMessage(w, r, createCoursePath)
	if !ok {
		return
	}

	_, redirect, err := h.chats.CreateCourse(r.Context(), st.User.ID, chat.CourseCreation(h.delays.General), input)
	if err != nil {
		h.failed(w, r, st, "create-course", createCoursePath, err)
		return
	}
	if redirect != "" {
		guard.Redirect(w, r, createCoursePath+"?done=1")
		return
	}
	guard.Redirect(w, r, createCoursePath)
}

// CreateCourseUpload はコース作成アシスタントへ教材ファイルを送信する。
// POST /dashboard/create-course/upload
func (h *ChatHandler) CreateCourseUpload(w http.ResponseWriter, r *http.Request, st *authctx.State) {
	h.upload(w, r, st, chat.CourseCreation(h.delays.General), createCoursePath)
}

func (h *ChatHandler) renderConversation(w http.ResponseWriter, r *http.Request, st *authctx.State, page, title string, nav view.Nav, conv chat.Conversation, data view.ChatData, decorate func(*view.Page)) {
	data.Error = chatErrorMessages[r.URL.Query().Get("error")]
	messages, err := h.chats.Open(r.Context(), st.User.ID, conv)
	if err != nil {
		slog.Error("failed to load chat history",
			slog.String("user_id", st.User.ID),
			slog.String("conversation", conv.Name),
			slog.String("error", err.Error()),
		)
		data.Error = chatUnavailable
	}
	data.Messages = messages

	p := newPage(r, st, title, nav, data)
	if decorate != nil {
		decorate(p)
	}
	h.pages.Render(w, http.StatusOK, page, p)
}

func (h *ChatHandler) send(w http.ResponseWriter, r *http.Request, st *authctx.State, conv chat.Conversation, back string) {
	input, ok := h.readMessage(w, r, back)
	if !ok {
		return
	}
	if _, err := h.chats.Send(r.Context(), st.User.ID, conv, input); err != nil {
		h.failed(w, r, st, conv.Name, back, err)
		return
	}
	guard.Redirect(w, r, back)
}

// readMessage はフォームのメッセージを検証し、前後の空白を除いた原文を返す。
// 無害化後に空となる場合はエラー表示付きで back へリダイレクトし、false を返す。
// 保存前の無害化はアシスタント側で行う。
func (h *ChatHandler) readMessage(w http.ResponseWriter, r *http.Request, back string) (string, bool) {
	raw := strings.TrimSpace(r.PostFormValue("message"))
	form := chatForm{Message: h.sanitizer.Clean(raw)}
	if msg := h.validate.Check(form); msg != "" {
		slog.Debug("chat message rejected", slog.String("reason", msg))
		guard.Redirect(w, r, withError(back, chatErrorEmpty))
		return "", false
	}
	return raw, true
}

func (h *ChatHandler) upload(w http.ResponseWriter, r *http.Request, st *authctx.State, conv chat.Conversation, back string) {
	file, header, err := r.FormFile("file")
	if err != nil {
		slog.Warn("failed to read uploaded file",
			slog.String("user_id", st.User.ID),
			slog.String("error", err.Error()),
		)
		guard.Redirect(w, r, withError(back, chatErrorUpload))
		return
	}
	file.Close()

	filename := h.sanitizer.Filename(header.Filename)
	if filename == "" {
		guard.Redirect(w, r, withError(back, chatErrorUpload))
		return
	}

	if _, err := h.chats.Upload(r.Context(), st.User.ID, conv, filename); err != nil {
		h.failed(w, r, st, conv.Name, back, err)
		return
	}
	guard.Redirect(w, r, back)
}

func (h *ChatHandler) failed(w http.ResponseWriter, r *http.Request, st *authctx.State, conversation, back string, err error) {
	if errors.Is(err, chat.ErrEmptyMessage) {
		guard.Redirect(w, r, withError(back, chatErrorEmpty))
		return
	}
	slog.Error("chat request failed",
		slog.String("user_id", st.User.ID),
		slog.String("conversation", conversation),
		slog.String("error", err.Error()),
	)
	guard.Redirect(w, r, withError(back, chatErrorFailed))
}

// withError はリダイレクト先にエラー種別のクエリを付ける。
func withError(target, code string) string {
	u, err := url.Parse(target)
	if err != nil {
		return target
	}
	q := u.Query()
	q.Set("error", code)
	u.RawQuery = q.Encode()
	return u.String()
}
