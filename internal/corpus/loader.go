package corpus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"go.uber.org/zap"
)

// State is the loader's position in its lifecycle.
type State string

const (
	StateNoCache   State = "NO_CACHE"
	StateLoading   State = "LOADING"
	StateEmbedding State = "EMBEDDING"
	StateCached    State = "CACHED"
)

const DefaultBatchSize = 100

var (
	// ErrNoCache is returned by a CacheStore that holds nothing yet.
	ErrNoCache = errors.New("no embedding cache")
	// ErrInvalidCache is returned by a CacheStore whose content cannot be reused.
	ErrInvalidCache = errors.New("embedding cache is not usable")
)

// Source yields the raw job rows, one map per row keyed by column name.
type Source interface {
	FetchJobRows(ctx context.Context) ([]map[string]any, error)
}

// CacheStore persists an embedded corpus between runs.
type CacheStore interface {
	Load(ctx context.Context) ([]JobRecord, error)
	Save(ctx context.Context, jobs []JobRecord) error
}

// Embedder embeds a batch of texts, returning a slice aligned with the input
// where nil marks a text that could not be embedded.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) [][]float32
}

type LoadOptions struct {
	// SkipCache rebuilds from the source even when a valid cache exists.
	SkipCache bool
}

type Loader struct {
	source    Source
	cache     CacheStore
	embedder  Embedder
	batchSize int
	log       *zap.Logger
	state     atomic.Value
	now       func() time.Time
}

// NewLoader wires a loader. cache may be nil, in which case every load goes to the source.
func NewLoader(source Source, cache CacheStore, embedder Embedder, batchSize int, log *zap.Logger) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	l := &Loader{
		source:    source,
		cache:     cache,
		embedder:  embedder,
		batchSize: batchSize,
		log:       logger.OrNop(log).Named("corpus"),
		now:       time.Now,
	}
	l.state.Store(StateNoCache)
	return l
}

func (l *Loader) State() State { return l.state.Load().(State) }

func (l *Loader) setState(s State) {
	l.state.Store(s)
	l.log.Debug("loader state", zap.String("state", string(s)))
}

// Load returns a fully embedded corpus, from the cache when it is valid and
// from the source otherwise. Source failures are reported as
// *apperror.DataSourceError.
func (l *Loader) Load(ctx context.Context, opts LoadOptions) (*Corpus, error) {
	if l.cache != nil && !opts.SkipCache {
		c, err := l.loadCached(ctx)
		if err == nil {
			l.setState(StateCached)
			return c, nil
		}
		if errors.Is(err, ErrNoCache) {
			l.log.Info("no embedding cache, building from source")
		} else {
			l.log.Warn("embedding cache rejected, building from source", zap.Error(err))
		}
	}

	c, err := l.build(ctx)
	if err != nil {
		l.setState(StateNoCache)
		return nil, err
	}
	l.setState(StateCached)
	return c, nil
}

func (l *Loader) loadCached(ctx context.Context) (*Corpus, error) {
	jobs, err := l.cache.Load(ctx)
	if err != nil {
		return nil, err
	}

	embedded := 0
	for i := range jobs {
		if len(jobs[i].Embedding) > 0 {
			embedded++
		}
	}
	if embedded == 0 {
		return nil, fmt.Errorf("%w: no record carries an embedding", ErrInvalidCache)
	}

	kept := make([]JobRecord, 0, embedded)
	for _, j := range jobs {
		if len(j.Embedding) == 0 {
			continue
		}
		j.derive()
		kept = append(kept, j)
	}
	kept = l.keepDimension(kept)

	c, err := New(kept, l.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCache, err)
	}
	l.log.Info("corpus loaded from cache", zap.Int("jobs", c.Len()), zap.Int("dimension", c.Dimension()))
	return c, nil
}

func (l *Loader) build(ctx context.Context) (*Corpus, error) {
	l.setState(StateLoading)
	rows, err := l.source.FetchJobRows(ctx)
	if err != nil {
		return nil, apperror.NewDataSourceError("fetch job rows", err)
	}

	jobs := make([]JobRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := RecordFromRow(row)
		if err != nil {
			l.log.Warn("skipping job row", zap.Error(err))
			continue
		}
		jobs = append(jobs, rec)
	}
	l.log.Info("job rows fetched", zap.Int("rows", len(rows)), zap.Int("usable", len(jobs)))

	l.setState(StateEmbedding)
	if err := l.embed(ctx, jobs); err != nil {
		return nil, err
	}

	kept := jobs[:0]
	for _, j := range jobs {
		if len(j.Embedding) > 0 {
			kept = append(kept, j)
		}
	}
	if dropped := len(jobs) - len(kept); dropped > 0 {
		l.log.Warn("dropped jobs without embeddings", zap.Int("dropped", dropped))
	}
	kept = l.keepDimension(kept)

	c, err := New(kept, l.now())
	if err != nil {
		return nil, err
	}

	if l.cache != nil && c.Len() > 0 {
		if err := l.cache.Save(ctx, kept); err != nil {
			l.log.Warn("failed to persist embedding cache", zap.Error(err))
		}
	}
	l.log.Info("corpus built from source", zap.Int("jobs", c.Len()), zap.Int("dimension", c.Dimension()))
	return c, nil
}

func (l *Loader) embed(ctx context.Context, jobs []JobRecord) error {
	total := len(jobs)
	for start := 0; start < total; start += l.batchSize {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("embedding corpus: %w", err)
		}
		end := min(start+l.batchSize, total)

		texts := make([]string, end-start)
		for i := start; i < end; i++ {
			texts[i-start] = jobs[i].CombinedText
		}
		vecs := l.embedder.EmbedBatch(ctx, texts)

		ok := 0
		for i := range texts {
			if i < len(vecs) && len(vecs[i]) > 0 && strings.TrimSpace(texts[i]) != "" {
				jobs[start+i].Embedding = vecs[i]
				ok++
			}
		}
		l.log.Info("embedded batch",
			zap.Int("from", start),
			zap.Int("to", end),
			zap.Int("total", total),
			zap.Int("embedded", ok))
	}
	return nil
}

// keepDimension drops records whose embedding length differs from the first
// record's, so a mixed cache or a misbehaving provider cannot break scoring.
func (l *Loader) keepDimension(jobs []JobRecord) []JobRecord {
	if len(jobs) == 0 {
		return jobs
	}
	dim := len(jobs[0].Embedding)
	kept := jobs[:0]
	for _, j := range jobs {
		if len(j.Embedding) != dim {
			l.log.Warn("dropping job with mismatched embedding dimension",
				zap.Int64("job_id", j.JobID),
				zap.Int("dimension", len(j.Embedding)),
				zap.Int("want", dim))
			continue
		}
		kept = append(kept, j)
	}
	return kept
}
