package providers

import "context"

// EmbedRequest asks for one embedding per input, in input order.
type EmbedRequest struct {
	Inputs    []string
	Dimension int
}

type GenerateRequest struct {
	Operation   string
	System      string
	Prompt      string
	Temperature float64
}

type GenerateResponse struct {
	Text string
}

// ProviderInfo identifies which backend served a call, for audit records.
type ProviderInfo struct {
	Name  string
	Model string
}

// EmbeddingProvider returns vectors[i] for Inputs[i]. Callers rely on the
// output preserving input order and length.
type EmbeddingProvider interface {
	Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error)
}

type LLMProvider interface {
	Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error)
}
