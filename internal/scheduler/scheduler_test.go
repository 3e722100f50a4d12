package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fadilmartias/job-matcher/internal/corpus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingReloader struct {
	calls   atomic.Int32
	refresh atomic.Bool
	err     error
	c       *corpus.Corpus
}

func (r *countingReloader) Reload(_ context.Context, refresh bool) (*corpus.Corpus, error) {
	r.calls.Add(1)
	r.refresh.Store(refresh)
	if r.err != nil {
		return nil, r.err
	}
	return r.c, nil
}

func emptyCorpus(t *testing.T) *corpus.Corpus {
	t.Helper()
	c, err := corpus.New(nil, time.Now())
	require.NoError(t, err)
	return c
}

func TestRunReloadRefreshesFromSource(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := &countingReloader{c: emptyCorpus(t)}
	s := New(r, "@hourly", zap.New(core))

	s.runReload(context.Background())

	assert.EqualValues(t, 1, r.calls.Load())
	assert.True(t, r.refresh.Load())
	assert.Equal(t, 1, logs.FilterMessage("scheduled reload complete").Len())
}

func TestRunReloadLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := &countingReloader{err: errors.New("source down")}
	s := New(r, "@hourly", zap.New(core))

	s.runReload(context.Background())

	entries := logs.FilterMessage("scheduled reload failed, keeping previous corpus").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New(&countingReloader{}, "every tuesday", nil)

	err := s.Start(context.Background())

	assert.ErrorContains(t, err, `schedule "every tuesday"`)
}

func TestStartAndStop(t *testing.T) {
	r := &countingReloader{c: emptyCorpus(t)}
	s := New(r, "@every 1s", nil)

	require.NoError(t, s.Start(context.Background()))
	assert.Eventually(t, func() bool { return r.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
	s.Stop()
}
