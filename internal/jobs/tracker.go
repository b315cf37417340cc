package jobs

import (
	"context"
	"fmt"
	"log"
)

// JobStore is the slice of the job repository the tracker needs.
type JobStore interface {
	GetStatus(ctx context.Context, jobID string) (string, error)
	UpdateProgress(ctx context.Context, jobID, status string, progress map[string]any) error
	UpdateStatus(ctx context.Context, jobID, status string) error
}

// Tracker validates and persists job lifecycle events. Events that would
// take a job through a disallowed transition are logged and dropped so a
// straggling pipeline step can never resurrect a finished or failed job.
type Tracker struct {
	store JobStore
}

func NewTracker(store JobStore) *Tracker {
	return &Tracker{store: store}
}

// Report records one progress event: the job moves to (or stays in) stage
// and its progress becomes {step, current, total}.
func (t *Tracker) Report(ctx context.Context, jobID string, stage Status, current, total int) error {
	cur, err := t.store.GetStatus(ctx, jobID)
	if err != nil {
		return fmt.Errorf("report progress: %w", err)
	}
	if !Status(cur).CanTransition(stage) {
		log.Printf("jobs: ignoring transition %s -> %s for job %s", cur, stage, jobID)
		return nil
	}
	progress := map[string]any{
		"step":    string(stage),
		"current": current,
		"total":   total,
	}
	if err := t.store.UpdateProgress(ctx, jobID, string(stage), progress); err != nil {
		return fmt.Errorf("report progress: %w", err)
	}
	return nil
}

// Ready marks the job complete. The last recorded progress is left in
// place.
func (t *Tracker) Ready(ctx context.Context, jobID string) error {
	cur, err := t.store.GetStatus(ctx, jobID)
	if err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	if !Status(cur).CanTransition(StatusReady) {
		log.Printf("jobs: ignoring transition %s -> ready for job %s", cur, jobID)
		return nil
	}
	if err := t.store.UpdateStatus(ctx, jobID, string(StatusReady)); err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	return nil
}

// Fail moves the job to the error state with a human-readable message. A
// job already in a terminal state stays put.
func (t *Tracker) Fail(ctx context.Context, jobID, msg string) error {
	cur, err := t.store.GetStatus(ctx, jobID)
	if err != nil {
		return fmt.Errorf("mark error: %w", err)
	}
	if !Status(cur).CanTransition(StatusError) {
		log.Printf("jobs: ignoring transition %s -> error for job %s", cur, jobID)
		return nil
	}
	progress := map[string]any{"error": msg}
	if err := t.store.UpdateProgress(ctx, jobID, string(StatusError), progress); err != nil {
		return fmt.Errorf("mark error: %w", err)
	}
	return nil
}
