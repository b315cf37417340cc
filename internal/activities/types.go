package activities

import "litsearch/internal/models"

// ChunkItem is one not-yet-embedded chunk flowing between pipeline steps.
type ChunkItem struct {
	ArticleID string               `json:"article_id"`
	Path      string               `json:"path"`
	Content   string               `json:"content"`
	Meta      models.PaperMetadata `json:"meta"`
}

type FetchPapersInput struct {
	JobID    string   `json:"job_id"`
	Keywords []string `json:"keywords"`
}

type FetchPapersOutput struct {
	Papers  []models.Paper `json:"papers"`
	Skipped int            `json:"skipped"`
}

type ExtractTextsInput struct {
	JobID  string         `json:"job_id"`
	Papers []models.Paper `json:"papers"`
}

type ExtractTextsOutput struct {
	Papers []models.Paper `json:"papers"`
}

type ChunkPapersInput struct {
	JobID  string         `json:"job_id"`
	Papers []models.Paper `json:"papers"`
}

type ChunkPapersOutput struct {
	Chunks []ChunkItem `json:"chunks"`
}

type UpdateJobStageInput struct {
	JobID   string `json:"job_id"`
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
}

type EmbedBatchInput struct {
	JobID  string      `json:"job_id"`
	Chunks []ChunkItem `json:"chunks"`
	Done   int         `json:"done"`
	Total  int         `json:"total"`
}

type EmbedBatchOutput struct {
	Done int `json:"done"`
}

type MarkJobReadyInput struct {
	JobID string `json:"job_id"`
}

type MarkJobErrorInput struct {
	JobID   string `json:"job_id"`
	Message string `json:"message"`
}
