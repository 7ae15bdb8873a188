package domain

import (
	"context"
	"fmt"
)

// Embedder turns query or document text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult is a vector plus the provider's token accounting (zero when served from cache).
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// WithInstruction prefixes every text with instruction before embedding, as
// instruction-tuned models expect distinct query and document prompts.
// An empty instruction returns inner unchanged.
func WithInstruction(inner Embedder, instruction string) Embedder {
	if instruction == "" {
		return inner
	}
	return &instructionEmbedder{inner: inner, instruction: instruction}
}

type instructionEmbedder struct {
	inner       Embedder
	instruction string
}

func (e *instructionEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	result, err := e.inner.Embed(ctx, e.instruction+text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("embed with instruction: %w", err)
	}
	return result, nil
}
