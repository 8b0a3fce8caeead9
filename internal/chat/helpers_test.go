package chat

import (
	"context"
	"time"
)

// --- モック定義 ---

type fakeClock struct {
	now   time.Time
	slept []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.slept = append(c.slept, d)
	c.now = c.now.Add(d)
	return nil
}

type mockReplyRecorder struct {
	calls [][2]string
}

func (m *mockReplyRecorder) RecordChatReply(kind, rule string) {
	m.calls = append(m.calls, [2]string{kind, rule})
}
