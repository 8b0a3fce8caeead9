package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hitoshi/eduportal/internal/model"
)

const redisKeyPrefix = "eduportal:"

// RedisStore はRedisを使うStore実装。複数インスタンスで会話状態を共有できる。
// 会話履歴はリスト、ドラフトはJSON文字列として保存する。
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore は新しいRedisStoreを生成する。
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// History は会話履歴を古い順に返す。
func (s *RedisStore) History(ctx context.Context, userID, conversation string) ([]model.Message, error) {
	raw, err := s.client.LRange(ctx, redisKeyPrefix+historyKey(userID, conversation), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}

	msgs := make([]model.Message, 0, len(raw))
	for _, r := range raw {
		var m model.Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decode chat message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// Append はメッセージを追加し、同じトランザクションでTTLを延長する。
func (s *RedisStore) Append(ctx context.Context, userID, conversation string, msgs ...model.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	values := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		b, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("encode chat message: %w", err)
		}
		values = append(values, b)
	}

	key := redisKeyPrefix + historyKey(userID, conversation)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append chat history: %w", err)
	}
	return nil
}

// LoadDraft はコース作成ドラフトを返す。未作成ならnil。
func (s *RedisStore) LoadDraft(ctx context.Context, userID string) (*Draft, error) {
	b, err := s.client.Get(ctx, redisKeyPrefix+draftKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load course draft: %w", err)
	}

	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode course draft: %w", err)
	}
	return &d, nil
}

// SaveDraft はコース作成ドラフトを保存する。
func (s *RedisStore) SaveDraft(ctx context.Context, userID string, d Draft) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode course draft: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+draftKey(userID), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("save course draft: %w", err)
	}
	return nil
}

// Clear はユーザーの全会話履歴とドラフトを削除する。
func (s *RedisStore) Clear(ctx context.Context, userID string) error {
	keys := []string{redisKeyPrefix + draftKey(userID)}

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+historyPrefix(userID)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan chat keys: %w", err)
	}

	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete chat keys: %w", err)
	}
	return nil
}
