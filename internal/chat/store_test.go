package chat

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/eduportal/internal/model"
)

func msg(id, content string) model.Message {
	return model.Message{ID: id, Content: content, Sender: model.SenderUser, Timestamp: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)}
}

// storeContract は各Store実装に共通する振る舞いを検証する。
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("empty history", func(t *testing.T) {
		got, err := s.History(ctx, "u1", "general")
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("append keeps order", func(t *testing.T) {
		if err := s.Append(ctx, "u1", "general", msg("1", "a"), msg("2", "b")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := s.Append(ctx, "u1", "general", msg("3", "c")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		got, err := s.History(ctx, "u1", "general")
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(got) != 3 || got[0].ID != "1" || got[2].ID != "3" {
			t.Errorf("History() = %+v", got)
		}
		if !got[0].Timestamp.Equal(msg("1", "a").Timestamp) {
			t.Errorf("Timestamp = %v, want preserved", got[0].Timestamp)
		}
	})

	t.Run("draft round trip", func(t *testing.T) {
		d, err := s.LoadDraft(ctx, "u1")
		if err != nil || d != nil {
			t.Fatalf("LoadDraft() = %+v, %v, want nil", d, err)
		}
		if err := s.SaveDraft(ctx, "u1", Draft{Title: "T", Step: StepDescription}); err != nil {
			t.Fatalf("SaveDraft() error = %v", err)
		}
		d, err = s.LoadDraft(ctx, "u1")
		if err != nil {
			t.Fatalf("LoadDraft() error = %v", err)
		}
		if d == nil || d.Title != "T" || d.Step != StepDescription {
			t.Errorf("LoadDraft() = %+v", d)
		}
	})

	t.Run("clear only affects the user", func(t *testing.T) {
		if err := s.Append(ctx, "u1", "course:5", msg("4", "d")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
		if err := s.Append(ctx, "u2", "general", msg("5", "e")); err != nil {
			t.Fatalf("Append() error = %v", err)
		}

		if err := s.Clear(ctx, "u1"); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}

		for _, conv := range []string{"general", "course:5"} {
			got, _ := s.History(ctx, "u1", conv)
			if len(got) != 0 {
				t.Errorf("u1 %s len = %d, want 0", conv, len(got))
			}
		}
		if d, _ := s.LoadDraft(ctx, "u1"); d != nil {
			t.Errorf("draft = %+v, want nil", d)
		}
		got, _ := s.History(ctx, "u2", "general")
		if len(got) != 1 {
			t.Errorf("u2 len = %d, want 1", len(got))
		}
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	storeContract(t, NewMemoryStore(time.Hour))
}

func TestMemoryStore_Expires(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	if err := s.Append(ctx, "u1", "general", msg("1", "a")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	now = now.Add(2 * time.Minute)

	got, _ := s.History(ctx, "u1", "general")
	if len(got) != 0 {
		t.Errorf("len = %d, want expired", len(got))
	}
}

func TestMemoryStore_Purge(t *testing.T) {
	s := NewMemoryStore(time.Minute)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	_ = s.Append(ctx, "u1", "general", msg("1", "a"))
	_ = s.SaveDraft(ctx, "u1", Draft{Title: "OS"})
	now = now.Add(30 * time.Second)
	_ = s.Append(ctx, "u2", "general", msg("2", "b"))
	now = now.Add(45 * time.Second)

	n, err := s.Purge(ctx)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Purge() = %d, want 2", n)
	}
	if got, _ := s.History(ctx, "u2", "general"); len(got) != 1 {
		t.Errorf("u2 history len = %d, want 1", len(got))
	}
}

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, ttl), mr
}

func TestRedisStore_Contract(t *testing.T) {
	s, _ := newTestRedisStore(t, time.Hour)
	storeContract(t, s)
}

func TestRedisStore_AppendSetsTTL(t *testing.T) {
	s, mr := newTestRedisStore(t, 30*time.Minute)
	ctx := context.Background()

	if err := s.Append(ctx, "u1", "general", msg("1", "a")); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if ttl := mr.TTL("eduportal:chat:u1:general"); ttl != 30*time.Minute {
		t.Errorf("TTL = %v, want %v", ttl, 30*time.Minute)
	}

	mr.FastForward(31 * time.Minute)
	got, err := s.History(ctx, "u1", "general")
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want expired", len(got))
	}
}

func TestRedisStore_ServerDown(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Minute)
	mr.Close()

	if _, err := s.History(context.Background(), "u1", "general"); err == nil {
		t.Error("expected error when redis is unavailable")
	}
}
