package corpus

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreNotReadyBeforeFirstLoad(t *testing.T) {
	s := NewStore(NewLoader(&fakeSource{}, nil, &fakeEmbedder{}, 10, zap.NewNop()), zap.NewNop())

	_, err := s.Current()
	assert.ErrorIs(t, err, apperror.ErrCorpusNotReady)
	assert.False(t, s.Ready())
	assert.Equal(t, StateNoCache, s.State())
}

func TestStoreReloadPublishes(t *testing.T) {
	s := NewStore(NewLoader(&fakeSource{rows: sourceRows()}, nil, &fakeEmbedder{}, 10, zap.NewNop()), zap.NewNop())

	c, err := s.Reload(context.Background(), false)
	require.NoError(t, err)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, c, cur)
	assert.Equal(t, StateCached, s.State())
}

func TestStoreKeepsPreviousCorpusOnFailedReload(t *testing.T) {
	src := &fakeSource{rows: sourceRows()}
	s := NewStore(NewLoader(src, nil, &fakeEmbedder{}, 10, zap.NewNop()), zap.NewNop())

	old, err := s.Reload(context.Background(), false)
	require.NoError(t, err)

	src.err = errors.New("db down")
	_, err = s.Reload(context.Background(), true)
	require.Error(t, err)

	cur, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, old, cur)
	assert.Equal(t, StateCached, s.State())
}

func TestStoreConcurrentReadersDuringReload(t *testing.T) {
	s := NewStore(NewLoader(&fakeSource{rows: sourceRows()}, &memCache{}, &fakeEmbedder{}, 10, zap.NewNop()), zap.NewNop())
	_, err := s.Reload(context.Background(), false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c, err := s.Current()
				if assert.NoError(t, err) {
					assert.Equal(t, 3, c.Len())
				}
			}
		}()
	}
	for i := 0; i < 3; i++ {
		_, err := s.Reload(context.Background(), false)
		require.NoError(t, err)
	}
	wg.Wait()
}
