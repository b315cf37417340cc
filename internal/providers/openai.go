package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIProvider serves both embeddings and chat completions through the
// OpenAI API. The client reads OPENAI_API_KEY from the environment.
type OpenAIProvider struct {
	client     openai.Client
	embedModel string
	llmModel   string
}

func NewOpenAIProvider(embedModel, llmModel string) *OpenAIProvider {
	return &OpenAIProvider{
		client:     openai.NewClient(),
		embedModel: embedModel,
		llmModel:   llmModel,
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "openai", Model: p.embedModel}
	if len(req.Inputs) == 0 {
		return nil, info, nil
	}
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.embedModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: req.Inputs,
		},
	}
	if req.Dimension > 0 {
		params.Dimensions = openai.Int(int64(req.Dimension))
	}
	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, info, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(req.Inputs) {
		return nil, info, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(req.Inputs))
	}
	vectors := make([][]float32, len(req.Inputs))
	for _, d := range resp.Data {
		vec := make([]float32, len(d.Embedding))
		for i, v := range d.Embedding {
			vec[i] = float32(v)
		}
		if d.Index < 0 || int(d.Index) >= len(vectors) {
			return nil, info, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		vectors[d.Index] = vec
	}
	return vectors, info, nil
}

func (p *OpenAIProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "openai", Model: p.llmModel}
	resp, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.llmModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	})
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return GenerateResponse{}, info, fmt.Errorf("openai chat completion: empty choices")
	}
	return GenerateResponse{Text: resp.Choices[0].Message.Content}, info, nil
}
