package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tavola-pos/tavola-admin/internal/stats"
)

type fakeRefresher struct {
	branches []stats.Branch
	err      error
	calls    int
}

func (f *fakeRefresher) Refresh(ctx context.Context) ([]stats.Branch, error) {
	f.calls++
	return f.branches, f.err
}

func TestDirectoryRefreshHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	refresher := &fakeRefresher{branches: []stats.Branch{{ID: "1"}}}
	handler := NewDirectoryRefreshHandler(refresher, logger)
	err := handler(context.Background(), NewDirectoryRefreshTask())
	assert.NoError(t, err)
	assert.Equal(t, 1, refresher.calls)

	refresher = &fakeRefresher{err: errors.New("upstream down")}
	handler = NewDirectoryRefreshHandler(refresher, logger)
	err = handler(context.Background(), NewDirectoryRefreshTask())
	assert.Error(t, err)
}
