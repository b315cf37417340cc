package providers

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// MockProvider is a deterministic, offline stand-in used in development and
// tests. Embeddings are derived from a hash of the input text, so equal
// inputs always embed to equal vectors.
type MockProvider struct {
	dim int
}

func NewMockProvider(dim int) *MockProvider {
	if dim <= 0 {
		dim = 1536
	}
	return &MockProvider{dim: dim}
}

func (p *MockProvider) Embed(ctx context.Context, req EmbedRequest) ([][]float32, ProviderInfo, error) {
	info := ProviderInfo{Name: "mock", Model: "mock-embed"}
	dim := p.dim
	if req.Dimension > 0 {
		dim = req.Dimension
	}
	vectors := make([][]float32, len(req.Inputs))
	for i, in := range req.Inputs {
		vectors[i] = hashVector(in, dim)
	}
	return vectors, info, nil
}

func (p *MockProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "mock", Model: "mock-llm"}
	// Echo the first citation tag from the context so grounded-answer
	// plumbing can be exercised end to end without a real model.
	answer := "Mock answer."
	if i := strings.Index(req.System, "[arXiv:"); i >= 0 {
		if j := strings.Index(req.System[i:], "]"); j >= 0 {
			answer = fmt.Sprintf("Mock answer based on %s.", req.System[i:i+j+1])
		}
	}
	return GenerateResponse{Text: answer}, info, nil
}

// hashVector expands a sha256 of the input into a unit-length vector.
func hashVector(s string, dim int) []float32 {
	seed := sha256.Sum256([]byte(s))
	vec := make([]float32, dim)
	var norm float64
	for i := range vec {
		var buf [40]byte
		copy(buf[:32], seed[:])
		binary.LittleEndian.PutUint64(buf[32:], uint64(i))
		h := sha256.Sum256(buf[:])
		u := binary.LittleEndian.Uint64(h[:8])
		v := float64(u)/float64(math.MaxUint64)*2 - 1
		vec[i] = float32(v)
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return vec
	}
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec
}
