package corpus

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/fadilmartias/job-matcher/internal/metrics"
	"go.uber.org/zap"
)

// Store publishes the current corpus to concurrent readers. A reload builds a
// complete new corpus and swaps it in; readers see either the old or the new
// one. A failed reload leaves the previous corpus in place.
type Store struct {
	loader  *Loader
	current atomic.Pointer[Corpus]
	mu      sync.Mutex
	log     *zap.Logger
}

func NewStore(loader *Loader, log *zap.Logger) *Store {
	return &Store{
		loader: loader,
		log:    logger.OrNop(log).Named("corpus"),
	}
}

// Current returns the published corpus or apperror.ErrCorpusNotReady.
func (s *Store) Current() (*Corpus, error) {
	c := s.current.Load()
	if c == nil {
		return nil, apperror.ErrCorpusNotReady
	}
	return c, nil
}

// Ready reports whether a corpus has been published.
func (s *Store) Ready() bool { return s.current.Load() != nil }

// State is the loader state, except that a store still serving an older
// corpus after a failed reload reports CACHED.
func (s *Store) State() State {
	st := s.loader.State()
	if st == StateNoCache && s.Ready() {
		return StateCached
	}
	return st
}

// Reload loads a corpus and publishes it. With refresh set the cache is
// bypassed and rebuilt from the source. Reloads run one at a time.
func (s *Store) Reload(ctx context.Context, refresh bool) (*Corpus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.loader.Load(ctx, LoadOptions{SkipCache: refresh})
	if err != nil {
		metrics.CorpusReloads.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.log.Error("corpus reload failed", zap.Bool("refresh", refresh), zap.Error(err))
		return nil, err
	}

	s.current.Store(c)
	metrics.CorpusJobs.Set(float64(c.Len()))
	metrics.CorpusReloads.WithLabelValues(metrics.OutcomeOK).Inc()
	s.log.Info("corpus published", zap.Int("jobs", c.Len()), zap.Bool("refresh", refresh))
	return c, nil
}
