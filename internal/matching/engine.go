// Package matching ranks the job corpus against a candidate query: cosine
// similarity on embeddings, a chain of hard filters, then top-N.
package matching

import (
	"context"
	"sort"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/profile"
	"github.com/fadilmartias/job-matcher/internal/util"
	"go.uber.org/zap"
)

// QueryEmbedder embeds one text, returning nil when it cannot.
type QueryEmbedder interface {
	EmbedOne(ctx context.Context, text string) []float32
}

// Ranked is a job that survived every filter, with its score for this query.
type Ranked struct {
	Job   *corpus.JobRecord
	Score float64
}

type Engine struct {
	embedder QueryEmbedder
	filters  []Filter
	log      *zap.Logger
}

func NewEngine(embedder QueryEmbedder, log *zap.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		filters:  DefaultFilters(),
		log:      logger.OrNop(log).Named("matching"),
	}
}

// Match embeds the query, scores every job, applies the hard filters and
// returns at most topN jobs by descending score. It fails with
// apperror.ErrQueryEmbedding when the query cannot be embedded. No job
// surviving the filters is an empty result, not an error. Scores live in
// a per-call slice so concurrent matches never share state.
func (e *Engine) Match(ctx context.Context, q profile.CandidateQuery, c *corpus.Corpus, topN int) ([]Ranked, error) {
	text := q.CombinedText()
	vec := e.embedder.EmbedOne(ctx, text)
	if len(vec) == 0 {
		e.log.Warn("could not embed match query", zap.String("query", util.TruncateForLog(text, 80)))
		return nil, apperror.ErrQueryEmbedding
	}
	if c.Len() > 0 && len(vec) != c.Dimension() {
		e.log.Error("query embedding dimension does not match corpus",
			zap.Int("query", len(vec)),
			zap.Int("corpus", c.Dimension()))
		return nil, apperror.ErrQueryEmbedding
	}

	scores := Scores(vec, c)

	positions := make([]int, c.Len())
	for i := range positions {
		positions[i] = i
	}
	positions, steps := applyFilters(e.filters, &q, c, positions)
	for _, s := range steps {
		e.log.Debug("filter applied",
			zap.String("filter", s.Filter),
			zap.Int("initial", s.Initial),
			zap.Int("dropped", s.Dropped),
			zap.Int("left", s.Left))
	}

	if len(positions) == 0 {
		e.log.Info("no jobs matched the filters", zap.Int("corpus", c.Len()))
		return []Ranked{}, nil
	}

	sort.SliceStable(positions, func(a, b int) bool {
		return scores[positions[a]] > scores[positions[b]]
	})

	if topN > 0 && len(positions) > topN {
		positions = positions[:topN]
	}
	out := make([]Ranked, len(positions))
	for i, pos := range positions {
		out[i] = Ranked{Job: c.At(pos), Score: scores[pos]}
	}
	return out, nil
}
