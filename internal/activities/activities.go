package activities

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"litsearch/internal/arxiv"
	"litsearch/internal/config"
	"litsearch/internal/extract"
	"litsearch/internal/jobs"
	"litsearch/internal/models"
	"litsearch/internal/providers"
	"litsearch/internal/storage"
	"litsearch/internal/util"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"go.temporal.io/sdk/activity"
)

// Activities bundles the worker-side pipeline steps and their dependencies.
type Activities struct {
	cfg       config.Config
	tracker   *jobs.Tracker
	chunkRepo *storage.ChunkRepo
	auditRepo *storage.LLMAuditRepo
	arxiv     *arxiv.Client
	extractor *extract.Extractor
	embedder  providers.EmbeddingProvider
}

func New(cfg config.Config, db *storage.DB) (*Activities, error) {
	embedder, err := providers.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}
	return &Activities{
		cfg:       cfg,
		tracker:   jobs.NewTracker(storage.NewJobRepo(db)),
		chunkRepo: storage.NewChunkRepo(db),
		auditRepo: storage.NewLLMAuditRepo(db),
		arxiv:     arxiv.NewClient(cfg.ArxivBaseURL),
		extractor: extract.New(time.Duration(cfg.PDFTimeoutSecs)*time.Second, cfg.MinExtractChars),
		embedder:  embedder,
	}, nil
}

// FetchPapersActivity queries the discovery service and drops every
// candidate whose article is already in the corpus. The deduplication
// snapshot is taken once, before the scan.
func (a *Activities) FetchPapersActivity(ctx context.Context, in FetchPapersInput) (FetchPapersOutput, error) {
	if err := a.tracker.Report(ctx, in.JobID, jobs.StatusFetching, 0, a.cfg.MaxPapers); err != nil {
		return FetchPapersOutput{}, err
	}

	existing, err := a.chunkRepo.DistinctArticleIDs(ctx)
	if err != nil {
		return FetchPapersOutput{}, err
	}

	candidates, err := a.arxiv.Search(ctx, in.Keywords, a.cfg.MaxPapers)
	if err != nil {
		return FetchPapersOutput{}, fmt.Errorf("fetch candidates: %w", err)
	}

	var out FetchPapersOutput
	for i, c := range candidates {
		if i%10 == 0 {
			if err := a.tracker.Report(ctx, in.JobID, jobs.StatusFetching, i, a.cfg.MaxPapers); err != nil {
				return FetchPapersOutput{}, err
			}
		}
		if _, ok := existing[c.ArxivID]; ok {
			out.Skipped++
			continue
		}
		out.Papers = append(out.Papers, c)
	}
	log.Printf("activities: job %s fetched %d candidates, skipped %d duplicates", in.JobID, len(candidates), out.Skipped)
	return out, nil
}

// ExtractTextsActivity pulls the full text of each paper's PDF. A paper
// whose PDF cannot be fetched or parsed, or whose text is too short, falls
// back to title plus abstract instead of failing the run.
func (a *Activities) ExtractTextsActivity(ctx context.Context, in ExtractTextsInput) (ExtractTextsOutput, error) {
	total := len(in.Papers)
	if err := a.tracker.Report(ctx, in.JobID, jobs.StatusParsing, 0, total); err != nil {
		return ExtractTextsOutput{}, err
	}

	papers := make([]models.Paper, 0, total)
	for i, p := range in.Papers {
		activity.RecordHeartbeat(ctx, i)
		if i%10 == 0 {
			if err := a.tracker.Report(ctx, in.JobID, jobs.StatusParsing, i, total); err != nil {
				return ExtractTextsOutput{}, err
			}
		}
		text, err := a.extractor.FromURL(ctx, p.PDFURL)
		if err != nil {
			log.Printf("activities: job %s paper %s: %v, using abstract fallback", in.JobID, p.ArxivID, err)
			text = extract.Fallback(p.Title, p.Summary)
		}
		p.FullText = text
		papers = append(papers, p)
	}
	return ExtractTextsOutput{Papers: papers}, nil
}

// ChunkPapersActivity splits each paper into one title+abstract chunk plus
// overlapping body chunks.
func (a *Activities) ChunkPapersActivity(ctx context.Context, in ChunkPapersInput) (ChunkPapersOutput, error) {
	total := len(in.Papers)
	if err := a.tracker.Report(ctx, in.JobID, jobs.StatusChunking, 0, total); err != nil {
		return ChunkPapersOutput{}, err
	}

	var out ChunkPapersOutput
	for i, p := range in.Papers {
		if i%20 == 0 {
			if err := a.tracker.Report(ctx, in.JobID, jobs.StatusChunking, i, total); err != nil {
				return ChunkPapersOutput{}, err
			}
		}
		authors := p.Authors
		if len(authors) > 3 {
			authors = authors[:3]
		}
		authorLine := strings.Join(authors, ", ")

		out.Chunks = append(out.Chunks, ChunkItem{
			ArticleID: p.ArxivID,
			Path:      p.PDFURL,
			Content:   fmt.Sprintf("Title: %s\n\nAbstract: %s", p.Title, p.Summary),
			Meta: models.PaperMetadata{
				Title:   p.Title,
				Section: "title_abstract",
				Authors: authorLine,
			},
		})
		for _, body := range util.SplitText(p.FullText, a.cfg.ChunkSize, a.cfg.ChunkOverlap) {
			out.Chunks = append(out.Chunks, ChunkItem{
				ArticleID: p.ArxivID,
				Path:      p.PDFURL,
				Content:   body,
				Meta: models.PaperMetadata{
					Title:   p.Title,
					Section: "body",
					Authors: authorLine,
				},
			})
		}
	}
	return out, nil
}

// UpdateJobStageActivity records a bare stage transition; the workflow uses
// it to enter the embedding stage before the first batch (and for runs with
// nothing to embed).
func (a *Activities) UpdateJobStageActivity(ctx context.Context, in UpdateJobStageInput) error {
	return a.tracker.Report(ctx, in.JobID, jobs.Status(in.Stage), in.Current, in.Total)
}

// EmbedBatchActivity embeds one batch of chunks with a single provider call
// and persists the batch in a single transaction.
func (a *Activities) EmbedBatchActivity(ctx context.Context, in EmbedBatchInput) (EmbedBatchOutput, error) {
	inputs := make([]string, len(in.Chunks))
	for i, c := range in.Chunks {
		inputs[i] = c.Content
	}

	vectors, info, err := a.embedder.Embed(ctx, providers.EmbedRequest{
		Inputs:    inputs,
		Dimension: a.cfg.EmbedDim,
	})
	a.audit(ctx, in.JobID, "embed_batch", info, err)
	if err != nil {
		return EmbedBatchOutput{}, fmt.Errorf("embed batch: %w", err)
	}
	if len(vectors) != len(in.Chunks) {
		return EmbedBatchOutput{}, fmt.Errorf("embed batch: got %d vectors for %d chunks", len(vectors), len(in.Chunks))
	}

	records := make([]storage.ChunkRecord, len(in.Chunks))
	for i, c := range in.Chunks {
		records[i] = storage.ChunkRecord{
			ID:               chunkID(in.JobID, in.Done+i),
			JobID:            in.JobID,
			ArticleID:        c.ArticleID,
			Path:             c.Path,
			Content:          c.Content,
			Embedding:        pgvector.NewVector(vectors[i]),
			EmbeddingVersion: a.cfg.EmbedVersion,
			Metadata:         c.Meta,
		}
	}
	if err := a.chunkRepo.InsertChunks(ctx, records); err != nil {
		return EmbedBatchOutput{}, err
	}

	done := in.Done + len(in.Chunks)
	if done > in.Total {
		done = in.Total
	}
	if err := a.tracker.Report(ctx, in.JobID, jobs.StatusEmbedding, done, in.Total); err != nil {
		return EmbedBatchOutput{}, err
	}
	return EmbedBatchOutput{Done: done}, nil
}

// chunkID derives a stable id from the job and the chunk's position in the
// run, so a re-executed batch re-inserts the same rows instead of new ones.
func chunkID(jobID string, index int) string {
	return fmt.Sprintf("%s-%06d", jobID, index)
}

func (a *Activities) MarkJobReadyActivity(ctx context.Context, in MarkJobReadyInput) error {
	return a.tracker.Ready(ctx, in.JobID)
}

func (a *Activities) MarkJobErrorActivity(ctx context.Context, in MarkJobErrorInput) error {
	return a.tracker.Fail(ctx, in.JobID, in.Message)
}

// audit records one model call; audit failures are logged, never fatal.
func (a *Activities) audit(ctx context.Context, jobID, operation string, info providers.ProviderInfo, callErr error) {
	rec := storage.LLMCallRecord{
		CallID:    uuid.NewString(),
		Operation: operation,
		JobID:     jobID,
		Provider:  info.Name,
		Model:     info.Model,
		Status:    "ok",
	}
	if callErr != nil {
		rec.Status = "failed"
		rec.ErrorType = "provider_error"
	}
	if err := a.auditRepo.Insert(ctx, rec); err != nil {
		log.Printf("activities: audit insert failed: %v", err)
	}
}
