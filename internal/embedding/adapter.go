// Package embedding turns text into vectors through a pluggable provider.
// Provider failures never escape: they are logged and surface as nil vectors.
package embedding

import (
	"context"
	"fmt"
	"strings"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/metrics"
	"github.com/fadilmartias/job-matcher/internal/util"
	"go.uber.org/zap"
)

// Provider is the hosted embedding API as seen by the adapter.
type Provider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

type Adapter struct {
	provider Provider
	log      *zap.Logger
}

func NewAdapter(provider Provider, log *zap.Logger) *Adapter {
	return &Adapter{
		provider: provider,
		log:      logger.OrNop(log).Named("embedding"),
	}
}

// EmbedOne returns nil for blank text without calling the provider, and nil
// when the provider fails.
func (a *Adapter) EmbedOne(ctx context.Context, text string) []float32 {
	if strings.TrimSpace(text) == "" {
		metrics.EmbeddingCalls.WithLabelValues(metrics.ModeOne, metrics.OutcomeSkipped).Inc()
		return nil
	}
	return a.embedSingle(ctx, text, metrics.ModeOne)
}

// EmbedBatch returns a slice aligned with texts. Blank texts map to nil. If the
// batched call fails, each text is retried on its own.
func (a *Adapter) EmbedBatch(ctx context.Context, texts []string) [][]float32 {
	out := make([][]float32, len(texts))

	positions := make([]int, 0, len(texts))
	pending := make([]string, 0, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		positions = append(positions, i)
		pending = append(pending, text)
	}
	if len(pending) == 0 {
		return out
	}

	vecs, err := a.provider.GenerateEmbeddings(ctx, pending)
	if err == nil && len(vecs) != len(pending) {
		err = fmt.Errorf("provider returned %d embeddings for %d texts", len(vecs), len(pending))
	}
	if err == nil {
		metrics.EmbeddingCalls.WithLabelValues(metrics.ModeBatch, metrics.OutcomeOK).Inc()
		for j, pos := range positions {
			if len(vecs[j]) > 0 {
				out[pos] = vecs[j]
			}
		}
		return out
	}

	metrics.EmbeddingCalls.WithLabelValues(metrics.ModeBatch, metrics.OutcomeError).Inc()
	a.log.Warn("batch embedding failed, falling back to single calls",
		zap.Int("texts", len(pending)),
		zap.Error(err))

	for j, pos := range positions {
		if ctx.Err() != nil {
			break
		}
		out[pos] = a.embedSingle(ctx, pending[j], metrics.ModeFallback)
	}
	return out
}

func (a *Adapter) embedSingle(ctx context.Context, text, mode string) []float32 {
	vec, err := a.provider.GenerateEmbedding(ctx, text)
	if err != nil || len(vec) == 0 {
		metrics.EmbeddingCalls.WithLabelValues(mode, metrics.OutcomeError).Inc()
		a.log.Warn("embedding failed",
			zap.String("mode", mode),
			zap.Bool("provider_error", apperror.IsEmbeddingProvider(err)),
			zap.String("text", util.TruncateForLog(text, 80)),
			zap.Error(err))
		return nil
	}
	metrics.EmbeddingCalls.WithLabelValues(mode, metrics.OutcomeOK).Inc()
	return vec
}
