// Package jobs hosts the Asynq background worker and its task handlers.
package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/tavola-pos/tavola-admin/internal/stats"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDirectoryRefresh re-fetches the branch directory into the cache.
	TaskDirectoryRefresh = "directory:refresh"
)

// DirectoryRefresher repopulates the branch directory cache.
type DirectoryRefresher interface {
	Refresh(ctx context.Context) ([]stats.Branch, error)
}

// NewDirectoryRefreshTask constructs the directory refresh task.
func NewDirectoryRefreshTask() *asynq.Task {
	return asynq.NewTask(TaskDirectoryRefresh, nil)
}

// NewDirectoryRefreshHandler processes TaskDirectoryRefresh tasks.
func NewDirectoryRefreshHandler(directory DirectoryRefresher, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		branches, err := directory.Refresh(ctx)
		if err != nil {
			logger.Warn("directory refresh failed", slog.Any("error", err))
			return err
		}
		logger.Info("branch directory refreshed", slog.Int("branches", len(branches)))
		return nil
	}
}
