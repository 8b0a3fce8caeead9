package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/eduportal/internal/model"
)

// ErrEmptyMessage は空白のみのメッセージが送信された場合のエラー。
var ErrEmptyMessage = errors.New("chat message is empty")

// 会話種別（メトリクスのラベルに使う）
const (
	KindGeneral        = "general"
	KindCourse         = "course"
	KindCourseCreation = "create_course"
)

// Conversation は1つのチャット画面の振る舞いを表す。
type Conversation struct {
	Name        string
	Kind        string
	Greeting    string
	Responder   *Responder
	Delay       time.Duration
	UploadDelay time.Duration
	UploadAck   func(filename string) string
}

// General は汎用アシスタントの会話を返す。
func General(delay time.Duration) Conversation {
	return Conversation{
		Name:        "general",
		Kind:        KindGeneral,
		Greeting:    GeneralGreeting,
		Responder:   GeneralResponder(),
		Delay:       delay,
		UploadDelay: delay,
		UploadAck:   GeneralUploadAck,
	}
}

// ForCourse はコース別チャットの会話を返す。
// ファイル受領応答は uploadDelay を使う。
func ForCourse(course *model.Course, delay, uploadDelay time.Duration) Conversation {
	return Conversation{
		Name:        "course:" + course.ID,
		Kind:        KindCourse,
		Greeting:    CourseGreeting(course.Title),
		Responder:   CourseResponder(course.ID),
		Delay:       delay,
		UploadDelay: uploadDelay,
		UploadAck:   CourseUploadAck(course.Title),
	}
}

// CourseCreation はコース作成アシスタントの会話を返す。
// 応答は Responder ではなく Draft の段階で決まる。
func CourseCreation(delay time.Duration) Conversation {
	return Conversation{
		Name:        "create-course",
		Kind:        KindCourseCreation,
		Greeting:    CourseCreationGreeting,
		Delay:       delay,
		UploadDelay: delay,
		UploadAck:   CourseMaterialUploadAck,
	}
}

// ReplyRecorder はアシスタントの応答を記録する。
type ReplyRecorder interface {
	RecordChatReply(kind, rule string)
}

// Assistant は会話履歴の読み書きと応答生成を行う。
type Assistant struct {
	store    Store
	clock    Clock
	recorder ReplyRecorder
	clean    func(string) string
}

// NewAssistant は新しいAssistantを生成する。recorderはnilでもよい。
func NewAssistant(store Store, clock Clock, recorder ReplyRecorder) *Assistant {
	return &Assistant{store: store, clock: clock, recorder: recorder}
}

// WithCleaner は履歴やドラフトへ保存する前の入力に clean を適用する。
// 応答ルールの判定には適用前の入力を使う。
func (a *Assistant) WithCleaner(clean func(string) string) *Assistant {
	a.clean = clean
	return a
}

// storedText は保存用に整えた入力を返す。空なら ErrEmptyMessage。
func (a *Assistant) storedText(input string) (string, error) {
	text := input
	if a.clean != nil {
		text = strings.TrimSpace(a.clean(input))
	}
	if text == "" {
		return "", ErrEmptyMessage
	}
	return text, nil
}

func (a *Assistant) newMessage(content string, sender model.Sender) model.Message {
	return model.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: a.clock.Now(),
	}
}

// Open は会話履歴を返す。履歴が空なら挨拶文を追加して返す。
func (a *Assistant) Open(ctx context.Context, userID string, conv Conversation) ([]model.Message, error) {
	history, err := a.store.History(ctx, userID, conv.Name)
	if err != nil {
		return nil, err
	}
	if len(history) > 0 || conv.Greeting == "" {
		return history, nil
	}

	greeting := a.newMessage(conv.Greeting, model.SenderAI)
	if err := a.store.Append(ctx, userID, conv.Name, greeting); err != nil {
		return nil, err
	}
	return []model.Message{greeting}, nil
}

// Send はユーザーの発言を追加し、遅延の後に応答を追加する。
func (a *Assistant) Send(ctx context.Context, userID string, conv Conversation, input string) (*model.Message, error) {
	input = strings.TrimSpace(input)
	text, err := a.storedText(input)
	if err != nil {
		return nil, err
	}
	if conv.Responder == nil {
		return nil, fmt.Errorf("conversation %s has no responder", conv.Name)
	}

	if _, err := a.Open(ctx, userID, conv); err != nil {
		return nil, err
	}
	if err := a.store.Append(ctx, userID, conv.Name, a.newMessage(text, model.SenderUser)); err != nil {
		return nil, err
	}

	reply, rule := conv.Responder.Reply(input)
	return a.respond(ctx, userID, conv, conv.Delay, reply, rule)
}

// Upload はファイル送信の通知を追加し、遅延の後に受領応答を追加する。
// ファイル本体は保存しない。
func (a *Assistant) Upload(ctx context.Context, userID string, conv Conversation, filename string) (*model.Message, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return nil, ErrEmptyMessage
	}
	if _, err := a.Open(ctx, userID, conv); err != nil {
		return nil, err
	}
	if err := a.store.Append(ctx, userID, conv.Name, a.newMessage(UploadNotice(filename), model.SenderUser)); err != nil {
		return nil, err
	}

	return a.respond(ctx, userID, conv, conv.UploadDelay, conv.UploadAck(filename), "upload")
}

// CreateCourse はコース作成アシスタントを1段階進める。
// 遷移が必要な場合は redirect に遷移先を返す。
func (a *Assistant) CreateCourse(ctx context.Context, userID string, conv Conversation, input string) (*model.Message, string, error) {
	input = strings.TrimSpace(input)
	text, err := a.storedText(input)
	if err != nil {
		return nil, "", err
	}

	if _, err := a.Open(ctx, userID, conv); err != nil {
		return nil, "", err
	}
	if err := a.store.Append(ctx, userID, conv.Name, a.newMessage(text, model.SenderUser)); err != nil {
		return nil, "", err
	}

	draft, err := a.store.LoadDraft(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if draft == nil {
		draft = &Draft{Step: StepTitle}
	}
	// タイトルと説明はドラフトに残るため保存用の文字列、確認段階は原文で判定する
	answer := text
	if draft.Step >= StepConfirm {
		answer = input
	}
	next, reply, redirect := draft.Advance(answer)
	if err := a.store.SaveDraft(ctx, userID, next); err != nil {
		return nil, "", err
	}

	msg, err := a.respond(ctx, userID, conv, conv.Delay, reply, fmt.Sprintf("step%d", draft.Step))
	if err != nil {
		return nil, "", err
	}
	return msg, redirect, nil
}

func (a *Assistant) respond(ctx context.Context, userID string, conv Conversation, delay time.Duration, reply, rule string) (*model.Message, error) {
	if err := a.clock.Sleep(ctx, delay); err != nil {
		return nil, err
	}

	msg := a.newMessage(reply, model.SenderAI)
	if err := a.store.Append(ctx, userID, conv.Name, msg); err != nil {
		return nil, err
	}
	if a.recorder != nil {
		a.recorder.RecordChatReply(conv.Kind, rule)
	}
	return &msg, nil
}

// Reset はユーザーの全会話とドラフトを破棄する。
func (a *Assistant) Reset(ctx context.Context, userID string) error {
	return a.store.Clear(ctx, userID)
}
