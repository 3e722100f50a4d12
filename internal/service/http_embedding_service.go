package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/config"
	"github.com/fadilmartias/job-matcher/internal/util"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HTTPEmbeddingService talks to an OpenAI-compatible /embeddings endpoint
// (OpenRouter by default).
type HTTPEmbeddingService struct {
	client  *resty.Client
	url     string
	model   string
	timeout time.Duration
	log     *zap.Logger
}

func NewHTTPEmbeddingService(cfg *config.EmbeddingConfig, log *zap.Logger) (*HTTPEmbeddingService, error) {
	if cfg.HTTPAPIKey == "" {
		return nil, fmt.Errorf("EMBEDDING_HTTP_API_KEY not set")
	}
	if cfg.HTTPURL == "" {
		return nil, fmt.Errorf("EMBEDDING_HTTP_URL not set")
	}

	log = log.Named("http_embedding")
	client := resty.New().
		SetLogger(log.Sugar()).
		SetTimeout(cfg.RequestTimeout).
		SetAuthToken(cfg.HTTPAPIKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() == http.StatusTooManyRequests || r.StatusCode() >= http.StatusInternalServerError
		})

	return &HTTPEmbeddingService{
		client:  client,
		url:     cfg.HTTPURL,
		model:   cfg.HTTPModel,
		timeout: cfg.RequestTimeout,
		log:     log,
	}, nil
}

func (s *HTTPEmbeddingService) ModelName() string {
	return s.model
}

func (s *HTTPEmbeddingService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (s *HTTPEmbeddingService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}
	input := make([]string, len(texts))
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, fmt.Errorf("text for embedding cannot be empty (index %d)", i)
		}
		input[i] = clampText(trimmed)
	}

	// Retries share one deadline.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": s.model,
			"input": input,
		}).
		Post(s.url)
	if err != nil {
		return nil, apperror.NewEmbeddingProviderError("post embeddings", err)
	}
	if resp.IsError() {
		return nil, apperror.NewEmbeddingProviderError("post embeddings",
			fmt.Errorf("status %d: %s", resp.StatusCode(), util.TruncateForLog(resp.String(), 200)))
	}

	vecs, err := parseEmbeddingsBody(resp.String(), len(texts))
	if err != nil {
		s.log.Warn("unexpected embeddings payload",
			zap.String("body", util.TruncateForLog(resp.String(), 200)),
			zap.Error(err))
		return nil, apperror.NewEmbeddingProviderError("decode embeddings", err)
	}
	return vecs, nil
}

// parseEmbeddingsBody reads data[].embedding, honouring data[].index when the
// provider returns items out of order.
func parseEmbeddingsBody(body string, want int) ([][]float32, error) {
	if !gjson.Valid(body) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	data := gjson.Get(body, "data")
	if !data.IsArray() {
		if msg := gjson.Get(body, "error.message").String(); msg != "" {
			return nil, fmt.Errorf("provider error: %s", msg)
		}
		return nil, fmt.Errorf("response has no data array")
	}

	items := data.Array()
	if len(items) != want {
		return nil, fmt.Errorf("expected %d embeddings, got %d", want, len(items))
	}

	out := make([][]float32, want)
	for pos, item := range items {
		idx := pos
		if v := item.Get("index"); v.Exists() {
			idx = int(v.Int())
		}
		if idx < 0 || idx >= want || out[idx] != nil {
			return nil, fmt.Errorf("bad embedding index %d", idx)
		}

		values := item.Get("embedding").Array()
		vec := make([]float32, len(values))
		for i, v := range values {
			vec[i] = float32(v.Float())
		}
		if err := validateVector(vec); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", idx, err)
		}
		out[idx] = vec
	}
	return out, nil
}
