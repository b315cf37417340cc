package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	status   string
	progress map[string]any
	updates  int
}

func (f *fakeStore) GetStatus(ctx context.Context, jobID string) (string, error) {
	return f.status, nil
}

func (f *fakeStore) UpdateProgress(ctx context.Context, jobID, status string, progress map[string]any) error {
	f.status = status
	f.progress = progress
	f.updates++
	return nil
}

func (f *fakeStore) UpdateStatus(ctx context.Context, jobID, status string) error {
	f.status = status
	f.updates++
	return nil
}

func TestTrackerReportAdvancesStage(t *testing.T) {
	store := &fakeStore{status: "extracting"}
	tr := NewTracker(store)

	require.NoError(t, tr.Report(context.Background(), "job-1", StatusFetching, 0, 100))
	require.Equal(t, "fetching", store.status)
	require.Equal(t, map[string]any{"step": "fetching", "current": 0, "total": 100}, store.progress)
}

func TestTrackerReportSameStageProgress(t *testing.T) {
	store := &fakeStore{status: "embedding"}
	tr := NewTracker(store)

	require.NoError(t, tr.Report(context.Background(), "job-1", StatusEmbedding, 200, 450))
	require.Equal(t, "embedding", store.status)
	require.Equal(t, 200, store.progress["current"])
}

func TestTrackerIgnoresInvalidTransition(t *testing.T) {
	store := &fakeStore{status: "ready", progress: map[string]any{"step": "embedding", "current": 450, "total": 450}}
	tr := NewTracker(store)

	require.NoError(t, tr.Report(context.Background(), "job-1", StatusFetching, 0, 10))
	require.Equal(t, "ready", store.status)
	require.Zero(t, store.updates)
}

func TestTrackerFailFromAnyStage(t *testing.T) {
	for _, from := range []string{"extracting", "fetching", "parsing", "chunking", "embedding"} {
		store := &fakeStore{status: from}
		tr := NewTracker(store)

		require.NoError(t, tr.Fail(context.Background(), "job-1", "boom"))
		require.Equal(t, "error", store.status)
		require.Equal(t, map[string]any{"error": "boom"}, store.progress)
	}
}

func TestTrackerFailIgnoredWhenTerminal(t *testing.T) {
	store := &fakeStore{status: "error", progress: map[string]any{"error": "first"}}
	tr := NewTracker(store)

	require.NoError(t, tr.Fail(context.Background(), "job-1", "second"))
	require.Equal(t, map[string]any{"error": "first"}, store.progress)
	require.Zero(t, store.updates)
}

func TestTrackerReady(t *testing.T) {
	store := &fakeStore{status: "embedding", progress: map[string]any{"step": "embedding", "current": 450, "total": 450}}
	tr := NewTracker(store)

	require.NoError(t, tr.Ready(context.Background(), "job-1"))
	require.Equal(t, "ready", store.status)
	// Progress keeps the final embedding counts.
	require.Equal(t, 450, store.progress["current"])
}
