// Package cleanup は失効したチャット状態の定期回収ジョブを提供する。
// プロセス内メモリのストアは参照時にしか失効エントリを消さないため、
// 再訪しないユーザーの会話履歴とドラフトをこのジョブで回収する。
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Purger は失効済みのエントリを削除して件数を返す。
// chat.MemoryStore がこれを満たす。
type Purger interface {
	Purge(ctx context.Context) (int, error)
}

// CleanupJob は失効したチャット状態の回収ジョブ。
// 何度実行しても結果は変わらない。
type CleanupJob struct {
	store    Purger
	logger   *slog.Logger
	Interval time.Duration // 実行間隔（デフォルト: 5分）
}

// NewCleanupJob は新しいCleanupJobを生成する。
func NewCleanupJob(store Purger, logger *slog.Logger) *CleanupJob {
	return &CleanupJob{
		store:    store,
		logger:   logger,
		Interval: 5 * time.Minute,
	}
}

// Run は失効済みエントリを1回回収する。
func (j *CleanupJob) Run(ctx context.Context) error {
	start := time.Now()

	purged, err := j.store.Purge(ctx)
	if err != nil {
		j.logger.Error("チャット状態の回収に失敗しました",
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("チャット状態の回収に失敗: %w", err)
	}

	j.logger.Info("チャット状態の回収が完了しました",
		slog.Int("purged_count", purged),
		slog.Float64("duration_ms", float64(time.Since(start).Milliseconds())),
	)
	return nil
}

// Start は ctx がキャンセルされるまで Interval ごとに Run を実行する。
func (j *CleanupJob) Start(ctx context.Context) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// エラーはRun内で記録済み
			_ = j.Run(ctx)
		}
	}
}
