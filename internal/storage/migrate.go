package storage

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS enrichment_jobs (
		id TEXT PRIMARY KEY,
		subject TEXT NOT NULL,
		keywords JSONB,
		status TEXT NOT NULL DEFAULT 'extracting',
		progress JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS papers_chunks (
		id TEXT PRIMARY KEY,
		job_id TEXT,
		article_id TEXT NOT NULL,
		path TEXT,
		content TEXT NOT NULL,
		embedding vector(1536),
		embedding_version TEXT NOT NULL DEFAULT 'v1',
		paper_metadata JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS papers_chunks_article_id_idx ON papers_chunks (article_id)`,
	`CREATE INDEX IF NOT EXISTS papers_chunks_job_id_idx ON papers_chunks (job_id)`,
	`CREATE INDEX IF NOT EXISTS papers_chunks_embedding_idx ON papers_chunks
		USING ivfflat (embedding vector_cosine_ops)`,
	`CREATE TABLE IF NOT EXISTS llm_calls (
		call_id TEXT PRIMARY KEY,
		operation TEXT NOT NULL,
		job_id TEXT,
		provider TEXT,
		model TEXT,
		status TEXT NOT NULL,
		error_type TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema idempotently at startup.
func Migrate(ctx context.Context, db *DB) error {
	for _, stmt := range migrations {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}
	return nil
}
