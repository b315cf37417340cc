package models

import "time"

// EnrichmentJob tracks one corpus enrichment run. The most recently
// created job is the one exposed through the status endpoint.
type EnrichmentJob struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Keywords  []string       `json:"keywords"`
	Status    string         `json:"status"`
	Progress  map[string]any `json:"progress"`
	CreatedAt time.Time      `json:"created_at"`
}

// Paper is a fetch candidate returned by the discovery service.
type Paper struct {
	ArxivID   string    `json:"arxiv_id"`
	Title     string    `json:"title"`
	Authors   []string  `json:"authors"`
	Published time.Time `json:"published"`
	Summary   string    `json:"summary"`
	PDFURL    string    `json:"pdf_url"`
	FullText  string    `json:"full_text,omitempty"`
}

// PaperMetadata is persisted alongside each chunk.
type PaperMetadata struct {
	Title   string `json:"title"`
	Section string `json:"section"`
	Authors string `json:"authors"`
}

// PaperChunk is one embedded span of a paper; the global corpus is the
// set of all chunks across jobs.
type PaperChunk struct {
	ID            string        `json:"id"`
	JobID         string        `json:"job_id,omitempty"`
	ArticleID     string        `json:"article_id"`
	Path          string        `json:"path,omitempty"`
	Content       string        `json:"content"`
	Embedding     []float32     `json:"-"`
	PaperMetadata PaperMetadata `json:"paper_metadata"`
	CreatedAt     time.Time     `json:"created_at"`
}

type ChunkResult struct {
	ChunkID       string        `json:"chunk_id"`
	ArticleID     string        `json:"article_id"`
	Path          string        `json:"path,omitempty"`
	Content       string        `json:"content"`
	PaperMetadata PaperMetadata `json:"paper_metadata"`
	Similarity    float64       `json:"similarity"`
}

type Source struct {
	ArxivID string  `json:"arxiv_id"`
	Title   string  `json:"title"`
	Section string  `json:"section"`
	Excerpt string  `json:"excerpt"`
	URL     string  `json:"url"`
	Score   float64 `json:"score"`
}

type ChatResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
}
