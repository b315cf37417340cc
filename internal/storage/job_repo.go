package storage

import (
	"context"
	"fmt"

	"litsearch/internal/models"
)

type JobRepo struct {
	db *DB
}

func NewJobRepo(db *DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) CreateJob(ctx context.Context, job models.EnrichmentJob) error {
	_, err := r.db.Pool.Exec(ctx, `
INSERT INTO enrichment_jobs (id, subject, keywords, status, progress)
VALUES ($1, $2, $3, $4, $5)`,
		job.ID, job.Subject, job.Keywords, job.Status, job.Progress,
	)
	if err != nil {
		return fmt.Errorf("insert enrichment job: %w", err)
	}
	return nil
}

// LatestJob returns the most recently created job; pgx.ErrNoRows is wrapped
// when no job exists yet.
func (r *JobRepo) LatestJob(ctx context.Context) (models.EnrichmentJob, error) {
	var job models.EnrichmentJob
	err := r.db.Pool.QueryRow(ctx, `
SELECT id, subject, keywords, status, progress, created_at
FROM enrichment_jobs
ORDER BY created_at DESC
LIMIT 1`).Scan(&job.ID, &job.Subject, &job.Keywords, &job.Status, &job.Progress, &job.CreatedAt)
	if err != nil {
		return models.EnrichmentJob{}, fmt.Errorf("latest enrichment job: %w", err)
	}
	return job, nil
}

func (r *JobRepo) GetStatus(ctx context.Context, jobID string) (string, error) {
	var status string
	err := r.db.Pool.QueryRow(ctx, `SELECT status FROM enrichment_jobs WHERE id=$1`, jobID).Scan(&status)
	if err != nil {
		return "", fmt.Errorf("get job status: %w", err)
	}
	return status, nil
}

func (r *JobRepo) UpdateProgress(ctx context.Context, jobID, status string, progress map[string]any) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE enrichment_jobs SET status=$2, progress=$3 WHERE id=$1`,
		jobID, status, progress,
	)
	if err != nil {
		return fmt.Errorf("update job progress: %w", err)
	}
	return nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, jobID, status string) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE enrichment_jobs SET status=$2 WHERE id=$1`,
		jobID, status,
	)
	if err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	return nil
}
