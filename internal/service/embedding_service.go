package service

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"
)

// EmbeddingServiceInterface is implemented by every embedding backend.
type EmbeddingServiceInterface interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

const maxEmbeddingTextLen = 10000

func validateVector(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("embedding vector is empty")
	}
	for i, val := range vec {
		if math.IsNaN(float64(val)) || math.IsInf(float64(val), 0) {
			return fmt.Errorf("invalid embedding value at index %d: %v", i, val)
		}
	}
	return nil
}

func clampText(text string) string {
	if len(text) <= maxEmbeddingTextLen {
		return text
	}
	cut := maxEmbeddingTextLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
