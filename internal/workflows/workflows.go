package workflows

import (
	"time"

	"litsearch/internal/activities"
	"litsearch/internal/jobs"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// EnrichInput starts one corpus enrichment run.
type EnrichInput struct {
	JobID     string   `json:"job_id"`
	Keywords  []string `json:"keywords"`
	BatchSize int      `json:"batch_size"`
}

// EnrichWorkflow drives a job through fetch, extract, chunk and embed, and
// lands it in ready or error. Embedding is partitioned into batches so each
// provider call and each database transaction stays bounded; a run with
// nothing to embed still walks every stage and ends ready.
func EnrichWorkflow(ctx workflow.Context, in EnrichInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("enrich workflow started", "job_id", in.JobID, "keywords", in.Keywords)

	batchSize := in.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	retry := &temporal.RetryPolicy{
		InitialInterval:    2 * time.Second,
		BackoffCoefficient: 2.0,
		MaximumInterval:    30 * time.Second,
		MaximumAttempts:    3,
	}
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Minute,
		RetryPolicy:         retry,
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// PDF fetches dominate the run time, so the extract step gets a long
	// deadline and heartbeats instead.
	extractCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: time.Hour,
		HeartbeatTimeout:    2 * time.Minute,
		RetryPolicy:         retry,
	})

	var fetched activities.FetchPapersOutput
	err := workflow.ExecuteActivity(ctx, "FetchPapersActivity", activities.FetchPapersInput{
		JobID:    in.JobID,
		Keywords: in.Keywords,
	}).Get(ctx, &fetched)
	if err != nil {
		return "", failJob(ctx, in.JobID, err)
	}

	var extracted activities.ExtractTextsOutput
	err = workflow.ExecuteActivity(extractCtx, "ExtractTextsActivity", activities.ExtractTextsInput{
		JobID:  in.JobID,
		Papers: fetched.Papers,
	}).Get(ctx, &extracted)
	if err != nil {
		return "", failJob(ctx, in.JobID, err)
	}

	var chunked activities.ChunkPapersOutput
	err = workflow.ExecuteActivity(ctx, "ChunkPapersActivity", activities.ChunkPapersInput{
		JobID:  in.JobID,
		Papers: extracted.Papers,
	}).Get(ctx, &chunked)
	if err != nil {
		return "", failJob(ctx, in.JobID, err)
	}

	total := len(chunked.Chunks)
	err = workflow.ExecuteActivity(ctx, "UpdateJobStageActivity", activities.UpdateJobStageInput{
		JobID: in.JobID,
		Stage: string(jobs.StatusEmbedding),
		Total: total,
	}).Get(ctx, nil)
	if err != nil {
		return "", failJob(ctx, in.JobID, err)
	}

	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}
		var batch activities.EmbedBatchOutput
		err = workflow.ExecuteActivity(ctx, "EmbedBatchActivity", activities.EmbedBatchInput{
			JobID:  in.JobID,
			Chunks: chunked.Chunks[start:end],
			Done:   start,
			Total:  total,
		}).Get(ctx, &batch)
		if err != nil {
			return "", failJob(ctx, in.JobID, err)
		}
	}

	err = workflow.ExecuteActivity(ctx, "MarkJobReadyActivity", activities.MarkJobReadyInput{
		JobID: in.JobID,
	}).Get(ctx, nil)
	if err != nil {
		return "", failJob(ctx, in.JobID, err)
	}

	logger.Info("enrich workflow finished", "job_id", in.JobID, "chunks", total, "skipped", fetched.Skipped)
	return string(jobs.StatusReady), nil
}

// failJob marks the job failed before surfacing the pipeline error. The
// marking itself is best effort.
func failJob(ctx workflow.Context, jobID string, cause error) error {
	markErr := workflow.ExecuteActivity(ctx, "MarkJobErrorActivity", activities.MarkJobErrorInput{
		JobID:   jobID,
		Message: cause.Error(),
	}).Get(ctx, nil)
	if markErr != nil {
		workflow.GetLogger(ctx).Error("marking job failed", "job_id", jobID, "error", markErr)
	}
	return cause
}
