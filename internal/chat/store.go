package chat

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/eduportal/internal/model"
)

// Store はユーザーごとの会話履歴とコース作成ドラフトを一時的に保持する。
// いずれもTTLで失効し、ログアウト時に Clear で削除される。
type Store interface {
	History(ctx context.Context, userID, conversation string) ([]model.Message, error)
	Append(ctx context.Context, userID, conversation string, msgs ...model.Message) error
	LoadDraft(ctx context.Context, userID string) (*Draft, error)
	SaveDraft(ctx context.Context, userID string, d Draft) error
	Clear(ctx context.Context, userID string) error
}

func historyKey(userID, conversation string) string {
	return "chat:" + userID + ":" + conversation
}

func historyPrefix(userID string) string {
	return "chat:" + userID + ":"
}

func draftKey(userID string) string {
	return "draft:" + userID
}

type memoryEntry struct {
	messages  []model.Message
	draft     *Draft
	expiresAt time.Time
}

// MemoryStore はプロセス内メモリのStore実装。単一インスタンス運用向け。
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore は新しいMemoryStoreを生成する。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// lookup は失効済みエントリを削除しつつ取得する。呼び出し側でロックを保持すること。
func (s *MemoryStore) lookup(key string) *memoryEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil
	}
	return e
}

// History は会話履歴のコピーを返す。
func (s *MemoryStore) History(_ context.Context, userID, conversation string) ([]model.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(historyKey(userID, conversation))
	if e == nil {
		return nil, nil
	}
	out := make([]model.Message, len(e.messages))
	copy(out, e.messages)
	return out, nil
}

// Append は会話履歴の末尾にメッセージを追加し、TTLを延長する。
func (s *MemoryStore) Append(_ context.Context, userID, conversation string, msgs ...model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := historyKey(userID, conversation)
	e := s.lookup(key)
	if e == nil {
		e = &memoryEntry{}
		s.entries[key] = e
	}
	e.messages = append(e.messages, msgs...)
	e.expiresAt = s.now().Add(s.ttl)
	return nil
}

// LoadDraft はコース作成ドラフトを返す。未作成ならnil。
func (s *MemoryStore) LoadDraft(_ context.Context, userID string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(draftKey(userID))
	if e == nil || e.draft == nil {
		return nil, nil
	}
	d := *e.draft
	return &d, nil
}

// SaveDraft はコース作成ドラフトを保存する。
func (s *MemoryStore) SaveDraft(_ context.Context, userID string, d Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[draftKey(userID)] = &memoryEntry{draft: &d, expiresAt: s.now().Add(s.ttl)}
	return nil
}

// Clear はユーザーの全会話履歴とドラフトを削除する。
func (s *MemoryStore) Clear(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := historyPrefix(userID)
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	delete(s.entries, draftKey(userID))
	return nil
}

// Purge は失効済みのエントリをすべて削除し、削除件数を返す。
// lookup は参照されたキーしか削除しないため、放置された会話は定期的にこれで回収する。
func (s *MemoryStore) Purge(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			n++
		}
	}
	return n, nil
}
