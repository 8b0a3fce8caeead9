package chat

import (
	"context"
	"time"
)

// Clock は現在時刻と応答待ちの遅延を提供する。
// テストでは実時間を待たない実装に差し替える。
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock は実時間を使うClock。
type RealClock struct{}

// Now は現在時刻を返す。
func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep はdだけ待つ。コンテキストがキャンセルされた場合はそのエラーを返す。
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
