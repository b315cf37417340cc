package rag

import (
	"context"
	"strings"
	"testing"

	"litsearch/internal/config"
	"litsearch/internal/models"
	"litsearch/internal/providers"

	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	results []models.ChunkResult
	gotTopK int
	gotVer  string
}

func (f *fakeSearcher) SearchChunks(ctx context.Context, queryVec []float32, topK int, embeddingVersion string) ([]models.ChunkResult, error) {
	f.gotTopK = topK
	f.gotVer = embeddingVersion
	return f.results, nil
}

type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	f.calls++
	out := make([][]float32, len(req.Inputs))
	for i := range out {
		out[i] = []float32{0.1, 0.2, 0.3}
	}
	return out, providers.ProviderInfo{Name: "fake"}, nil
}

type fakeLLM struct {
	calls     int
	gotSystem string
}

func (f *fakeLLM) Generate(ctx context.Context, req providers.GenerateRequest) (providers.GenerateResponse, providers.ProviderInfo, error) {
	f.calls++
	f.gotSystem = req.System
	return providers.GenerateResponse{Text: "Transformers use attention [arXiv:1706.03762v7]."}, providers.ProviderInfo{Name: "fake"}, nil
}

func testConfig() config.Config {
	return config.Config{EmbedDim: 3, EmbedVersion: "v1", RetrievalTopK: 5}
}

func TestQueryEmptyCorpus(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := &fakeLLM{}
	e := NewEngine(searcher, &fakeEmbedder{}, llm, testConfig())

	res, err := e.Query(context.Background(), "what is attention?", 0)
	require.NoError(t, err)
	require.Equal(t, "No relevant information found in the corpus.", res.Answer)
	require.Empty(t, res.Sources)
	require.NotNil(t, res.Sources)
	require.Zero(t, llm.calls, "model must not be called when retrieval is empty")
	require.Equal(t, 5, searcher.gotTopK)
	require.Equal(t, "v1", searcher.gotVer)
}

func TestQueryBuildsSourcesAndContext(t *testing.T) {
	long := strings.Repeat("attention is computed over keys and values ", 10)
	searcher := &fakeSearcher{results: []models.ChunkResult{
		{
			ChunkID:       "c1",
			ArticleID:     "1706.03762v7",
			Content:       "Title: Attention Is All You Need\n\nAbstract: We propose the Transformer.",
			PaperMetadata: models.PaperMetadata{Title: "Attention Is All You Need", Section: "title_abstract"},
			Similarity:    0.91239,
		},
		{
			ChunkID:       "c2",
			ArticleID:     "1706.03762v7",
			Content:       long,
			PaperMetadata: models.PaperMetadata{Title: "Attention Is All You Need", Section: "body"},
			Similarity:    0.8006,
		},
	}}
	llm := &fakeLLM{}
	e := NewEngine(searcher, &fakeEmbedder{}, llm, testConfig())

	res, err := e.Query(context.Background(), "what is attention?", 2)
	require.NoError(t, err)
	require.Equal(t, 1, llm.calls)
	require.Len(t, res.Sources, 2)

	first := res.Sources[0]
	require.Equal(t, "1706.03762v7", first.ArxivID)
	require.Equal(t, "Abstract", first.Section)
	require.Equal(t, "https://arxiv.org/abs/1706.03762v7", first.URL)
	require.Equal(t, 0.912, first.Score)
	// Short content passes through untruncated.
	require.Equal(t, strings.TrimSpace(searcher.results[0].Content), first.Excerpt)

	second := res.Sources[1]
	require.Equal(t, "Body", second.Section)
	require.Equal(t, 0.801, second.Score)
	require.True(t, strings.HasSuffix(second.Excerpt, "..."))
	require.LessOrEqual(t, len([]rune(second.Excerpt)), 203)
	require.True(t, strings.HasPrefix(long, strings.TrimSuffix(second.Excerpt, "...")))

	// The prompt context carries every retrieved chunk, most similar first.
	require.Contains(t, llm.gotSystem, "[arXiv:1706.03762v7]: Title: Attention Is All You Need")
	require.Less(t,
		strings.Index(llm.gotSystem, "Abstract: We propose"),
		strings.Index(llm.gotSystem, "attention is computed"),
	)
}
