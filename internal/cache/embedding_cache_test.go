package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingProvider struct {
	single [][]string
	batch  [][]string
	err    error
}

func (p *countingProvider) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	p.single = append(p.single, []string{text})
	if p.err != nil {
		return nil, p.err
	}
	return []float32{float32(len(text)), 0.25}, nil
}

func (p *countingProvider) GenerateEmbeddings(_ context.Context, texts []string) ([][]float32, error) {
	p.batch = append(p.batch, append([]string(nil), texts...))
	if p.err != nil {
		return nil, p.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = []float32{float32(len(text)), 0.25}
	}
	return out, nil
}

func setupCache(t *testing.T) (*EmbeddingCache, *countingProvider, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p := &countingProvider{}
	return NewEmbeddingCache(p, rdb, "test-model", time.Hour, zap.NewNop()), p, mr
}

func TestGenerateEmbeddingCachesResult(t *testing.T) {
	c, p, mr := setupCache(t)
	ctx := context.Background()

	first, err := c.GenerateEmbedding(ctx, "remote golang")
	require.NoError(t, err)
	second, err := c.GenerateEmbedding(ctx, "remote golang")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, p.single, 1)
	assert.True(t, mr.Exists(c.Key("remote golang")))
	assert.Equal(t, time.Hour, mr.TTL(c.Key("remote golang")))
}

func TestGenerateEmbeddingsOnlySendsMisses(t *testing.T) {
	c, p, _ := setupCache(t)
	ctx := context.Background()

	_, err := c.GenerateEmbedding(ctx, "beta")
	require.NoError(t, err)

	out, err := c.GenerateEmbeddings(ctx, []string{"alpha", "beta", "gamma!"})
	require.NoError(t, err)

	require.Len(t, out, 3)
	assert.Equal(t, []float32{5, 0.25}, out[0])
	assert.Equal(t, []float32{4, 0.25}, out[1])
	assert.Equal(t, []float32{6, 0.25}, out[2])
	require.Len(t, p.batch, 1)
	assert.Equal(t, []string{"alpha", "gamma!"}, p.batch[0])

	_, err = c.GenerateEmbeddings(ctx, []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Len(t, p.batch, 1, "all hits, no provider call")
}

func TestGenerateEmbeddingsPropagatesProviderError(t *testing.T) {
	c, p, _ := setupCache(t)
	p.err = errors.New("boom")

	_, err := c.GenerateEmbeddings(context.Background(), []string{"alpha"})
	assert.Error(t, err)
}

func TestRedisOutageFallsThrough(t *testing.T) {
	c, p, mr := setupCache(t)
	mr.Close()

	vec, err := c.GenerateEmbedding(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, []float32{5, 0.25}, vec)

	out, err := c.GenerateEmbeddings(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, p.batch, 1)
}

func TestVectorCodecRoundTrip(t *testing.T) {
	vec := []float32{0.1, -2.5, 3e-7}
	got, ok := decodeVector(encodeVector(vec))
	require.True(t, ok)
	assert.Equal(t, vec, got)

	_, ok = decodeVector([]byte{1, 2, 3})
	assert.False(t, ok)
}
