package vector

import (
	"context"
	"fmt"

	"litsearch/internal/models"

	"github.com/jackc/pgx/v5"
	pgvector "github.com/pgvector/pgvector-go"
)

// Queryer is the slice of pgxpool.Pool the searcher needs.
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Searcher runs cosine similarity search over embedded paper chunks.
type Searcher struct {
	q Queryer
}

func NewSearcher(q Queryer) *Searcher {
	return &Searcher{q: q}
}

// SearchChunks returns the topK chunks nearest to queryVec, most similar
// first. Only chunks embedded under the given version participate, so rows
// written by an older model never mix into results scored against a newer
// query embedding.
func (s *Searcher) SearchChunks(ctx context.Context, queryVec []float32, topK int, embeddingVersion string) ([]models.ChunkResult, error) {
	if topK <= 0 {
		topK = 5
	}
	rows, err := s.q.Query(ctx, `
SELECT id, article_id, COALESCE(path, ''), content, paper_metadata,
       1 - (embedding <=> $1) AS similarity
FROM papers_chunks
WHERE embedding IS NOT NULL AND embedding_version = $2
ORDER BY embedding <=> $1
LIMIT $3`,
		pgvector.NewVector(queryVec), embeddingVersion, topK,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search query: %w", err)
	}
	defer rows.Close()

	var out []models.ChunkResult
	for rows.Next() {
		var r models.ChunkResult
		if err := rows.Scan(&r.ChunkID, &r.ArticleID, &r.Path, &r.Content, &r.PaperMetadata, &r.Similarity); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return out, nil
}
