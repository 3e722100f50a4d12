// Package cache keeps computed embeddings in Redis so repeated texts (the same
// query or an unchanged job) do not cost another provider call.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/fadilmartias/job-matcher/internal/embedding"
	"github.com/fadilmartias/job-matcher/internal/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// EmbeddingCache decorates an embedding.Provider. Redis problems are logged and
// the call goes straight to the wrapped provider.
type EmbeddingCache struct {
	next  embedding.Provider
	rdb   *redis.Client
	model string
	ttl   time.Duration
	log   *zap.Logger
}

func NewEmbeddingCache(next embedding.Provider, rdb *redis.Client, model string, ttl time.Duration, log *zap.Logger) *EmbeddingCache {
	return &EmbeddingCache{
		next:  next,
		rdb:   rdb,
		model: model,
		ttl:   ttl,
		log:   logger.OrNop(log).Named("embedding_cache"),
	}
}

func (c *EmbeddingCache) Key(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("emb:%s:%s", c.model, hex.EncodeToString(sum[:]))
}

func (c *EmbeddingCache) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	key := c.Key(text)
	raw, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		if vec, ok := decodeVector(raw); ok {
			return vec, nil
		}
	case err != redis.Nil:
		c.log.Warn("redis get failed", zap.Error(err))
	}

	vec, err := c.next.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.Set(ctx, key, encodeVector(vec), c.ttl).Err(); err != nil {
		c.log.Warn("redis set failed", zap.Error(err))
	}
	return vec, nil
}

// GenerateEmbeddings serves hits from Redis and sends only the misses to the
// wrapped provider, in their original order.
func (c *EmbeddingCache) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.Key(text)
	}

	values, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("redis mget failed", zap.Error(err))
		values = nil
	}

	missIdx := make([]int, 0, len(texts))
	missTexts := make([]string, 0, len(texts))
	for i := range texts {
		if i < len(values) {
			if s, ok := values[i].(string); ok {
				if vec, ok := decodeVector([]byte(s)); ok {
					out[i] = vec
					continue
				}
			}
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, texts[i])
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.GenerateEmbeddings(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("provider returned %d embeddings for %d texts", len(vecs), len(missTexts))
	}

	pipe := c.rdb.Pipeline()
	for j, i := range missIdx {
		out[i] = vecs[j]
		pipe.Set(ctx, keys[i], encodeVector(vecs[j]), c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("redis pipeline set failed", zap.Error(err))
	}
	return out, nil
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(raw []byte) ([]float32, bool) {
	if len(raw) == 0 || len(raw)%4 != 0 {
		return nil, false
	}
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec, true
}
