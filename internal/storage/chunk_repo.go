package storage

import (
	"context"
	"fmt"

	"litsearch/internal/models"

	pgvector "github.com/pgvector/pgvector-go"
)

type ChunkRecord struct {
	ID               string
	JobID            string
	ArticleID        string
	Path             string
	Content          string
	Embedding        pgvector.Vector
	EmbeddingVersion string
	Metadata         models.PaperMetadata
}

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

// DistinctArticleIDs is the deduplication index: a point-in-time snapshot of
// every article already present in the corpus.
func (r *ChunkRepo) DistinctArticleIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT DISTINCT article_id FROM papers_chunks`)
	if err != nil {
		return nil, fmt.Errorf("query distinct article ids: %w", err)
	}
	defer rows.Close()

	out := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan article id: %w", err)
		}
		if id != "" {
			out[id] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate article ids: %w", err)
	}
	return out, nil
}

// InsertChunks commits one embedding batch as a single transaction, so a
// mid-run crash keeps every fully committed batch in the corpus. Conflicting
// ids are skipped: chunk ids are stable per run position, so a batch whose
// first execution committed can be replayed without duplicating rows.
func (r *ChunkRepo) InsertChunks(ctx context.Context, chunks []ChunkRecord) error {
	if len(chunks) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx insert chunks: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	for _, c := range chunks {
		_, err := tx.Exec(ctx, `
INSERT INTO papers_chunks (id, job_id, article_id, path, content, embedding, embedding_version, paper_metadata)
VALUES ($1, NULLIF($2,''), $3, NULLIF($4,''), $5, $6, $7, $8)
ON CONFLICT (id) DO NOTHING`,
			c.ID, c.JobID, c.ArticleID, c.Path, c.Content, c.Embedding, c.EmbeddingVersion, c.Metadata,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", c.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit chunks tx: %w", err)
	}
	return nil
}

func (r *ChunkRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM papers_chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}
