package providers

import (
	"fmt"

	"litsearch/internal/config"
)

func NewEmbedder(cfg config.Config) (EmbeddingProvider, error) {
	switch cfg.EmbedProvider {
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	case "openai":
		return NewOpenAIProvider(cfg.EmbedModel, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.EmbedProvider)
	}
}

func NewLLM(cfg config.Config) (LLMProvider, error) {
	switch cfg.LLMProvider {
	case "mock":
		return NewMockProvider(cfg.EmbedDim), nil
	case "openai":
		return NewOpenAIProvider(cfg.EmbedModel, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.LLMProvider)
	}
}
