package rag

import (
	"context"
	"fmt"
	"math"
	"strings"

	"litsearch/internal/config"
	"litsearch/internal/models"
	"litsearch/internal/providers"
)

// Searcher finds the chunks nearest to a query embedding.
type Searcher interface {
	SearchChunks(ctx context.Context, queryVec []float32, topK int, embeddingVersion string) ([]models.ChunkResult, error)
}

const noInformationAnswer = "No relevant information found in the corpus."

const systemInstruction = `You are a research assistant answering questions about scientific papers.
Ground every statement strictly in the provided context. Cite the supporting
paper for each claim using the format [arXiv:ID]. If the context does not
contain enough information to answer, say so explicitly.

Context:
%s`

// Engine answers questions grounded in the embedded corpus.
type Engine struct {
	searcher Searcher
	embedder providers.EmbeddingProvider
	llm      providers.LLMProvider
	cfg      config.Config
}

func NewEngine(searcher Searcher, embedder providers.EmbeddingProvider, llm providers.LLMProvider, cfg config.Config) *Engine {
	return &Engine{searcher: searcher, embedder: embedder, llm: llm, cfg: cfg}
}

// Query embeds the question, retrieves the topK nearest chunks and asks the
// model for a cited answer. An empty retrieval returns a fixed answer
// without calling the model.
func (e *Engine) Query(ctx context.Context, question string, topK int) (models.ChatResult, error) {
	if topK <= 0 {
		topK = e.cfg.RetrievalTopK
	}

	vectors, _, err := e.embedder.Embed(ctx, providers.EmbedRequest{
		Inputs:    []string{question},
		Dimension: e.cfg.EmbedDim,
	})
	if err != nil {
		return models.ChatResult{}, fmt.Errorf("embed question: %w", err)
	}
	if len(vectors) != 1 {
		return models.ChatResult{}, fmt.Errorf("embed question: got %d vectors", len(vectors))
	}

	results, err := e.searcher.SearchChunks(ctx, vectors[0], topK, e.cfg.EmbedVersion)
	if err != nil {
		return models.ChatResult{}, fmt.Errorf("search corpus: %w", err)
	}
	if len(results) == 0 {
		return models.ChatResult{Answer: noInformationAnswer, Sources: []models.Source{}}, nil
	}

	parts := make([]string, 0, len(results))
	sources := make([]models.Source, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("[arXiv:%s]: %s", r.ArticleID, r.Content))
		sources = append(sources, models.Source{
			ArxivID: r.ArticleID,
			Title:   r.PaperMetadata.Title,
			Section: humanSection(r.PaperMetadata.Section),
			Excerpt: excerpt(r.Content),
			URL:     "https://arxiv.org/abs/" + r.ArticleID,
			Score:   round3(r.Similarity),
		})
	}

	resp, _, err := e.llm.Generate(ctx, providers.GenerateRequest{
		Operation:   "chat_answer",
		System:      fmt.Sprintf(systemInstruction, strings.Join(parts, "\n\n")),
		Prompt:      question,
		Temperature: 0,
	})
	if err != nil {
		return models.ChatResult{}, fmt.Errorf("generate answer: %w", err)
	}

	return models.ChatResult{Answer: resp.Text, Sources: sources}, nil
}

// excerpt is the first 200 characters of a chunk, with a trailing ellipsis
// when truncated.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= 200 {
		return strings.TrimSpace(content)
	}
	return strings.TrimSpace(string(runes[:200])) + "..."
}

func humanSection(section string) string {
	switch section {
	case "title_abstract":
		return "Abstract"
	default:
		return "Body"
	}
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
