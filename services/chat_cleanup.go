package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/fcode/course-platform-backend/repository"
)

const ChatCleanupInterval = 6 * time.Hour

// PruneChat deletes messages older than retention.
func PruneChat(ctx context.Context, store repository.ChatRepository, retention time.Duration) (int64, error) {
	return store.DeleteMessagesBefore(ctx, time.Now().UTC().Add(-retention))
}

// StartChatCleanup prunes once immediately and then every interval until ctx
// is cancelled. A non-positive retention disables the job.
func StartChatCleanup(ctx context.Context, store repository.ChatRepository, retention, interval time.Duration) {
	if retention <= 0 {
		return
	}
	run := func() {
		n, err := PruneChat(ctx, store, retention)
		if err != nil {
			slog.Error("chat cleanup failed", "err", err)
			return
		}
		if n > 0 {
			slog.Info("chat cleanup removed old messages", "count", n)
		}
	}
	run()

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				run()
			}
		}
	}()
	slog.Info("chat cleanup job started", "retention", retention, "interval", interval)
}
