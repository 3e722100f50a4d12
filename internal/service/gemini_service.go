package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/config"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type embedFunc func(ctx context.Context, model string, contents []*genai.Content) (*genai.EmbedContentResponse, error)

type GeminiService struct {
	Client         *genai.Client
	EmbeddingModel string
	MaxRetries     int
	BaseDelay      time.Duration
	MaxDelay       time.Duration
	RequestTimeout time.Duration

	log   *zap.Logger
	embed embedFunc

	mu                sync.Mutex
	consecutiveErrors int
	circuitBreakerMax int
	circuitCooldown   time.Duration
	openedAt          time.Time
}

func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig, embCfg *config.EmbeddingConfig, log *zap.Logger) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	s := &GeminiService{
		Client:            client,
		EmbeddingModel:    cfg.EmbeddingModel,
		MaxRetries:        embCfg.MaxRetries,
		BaseDelay:         500 * time.Millisecond,
		MaxDelay:          5 * time.Second,
		RequestTimeout:    embCfg.RequestTimeout,
		log:               log.Named("gemini"),
		circuitBreakerMax: 5,
		circuitCooldown:   30 * time.Second,
	}
	s.embed = func(ctx context.Context, model string, contents []*genai.Content) (*genai.EmbedContentResponse, error) {
		return s.Client.Models.EmbedContent(ctx, model, contents, nil)
	}
	return s, nil
}

func (s *GeminiService) ModelName() string {
	return s.EmbeddingModel
}

func (s *GeminiService) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// GenerateEmbeddings embeds all texts in a single EmbedContent call. The
// result is aligned with texts; any invalid vector fails the whole call.
func (s *GeminiService) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("no texts to embed")
	}

	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil, fmt.Errorf("text for embedding cannot be empty (index %d)", i)
		}
		contents[i] = genai.NewContentFromText(clampText(trimmed), genai.RoleUser)
	}

	op := "embed content"
	if len(texts) > 1 {
		op = "batch embed content"
	}

	var out [][]float32
	err := s.withRetry(ctx, op, func(callCtx context.Context) error {
		result, err := s.embed(callCtx, s.EmbeddingModel, contents)
		if err != nil {
			return err
		}
		vecs, err := s.validateEmbeddingResponse(result, len(texts))
		if err != nil {
			return &invalidResponseError{err}
		}
		out = vecs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type invalidResponseError struct{ err error }

func (e *invalidResponseError) Error() string { return "invalid embedding response: " + e.err.Error() }
func (e *invalidResponseError) Unwrap() error { return e.err }

func (s *GeminiService) withRetry(ctx context.Context, op string, call func(ctx context.Context) error) error {
	if open, n := s.circuitOpen(); open {
		return apperror.NewEmbeddingProviderError(op,
			fmt.Errorf("circuit breaker open: too many consecutive errors (%d)", n))
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.RequestTimeout)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.calculateBackoff(attempt)
			s.log.Debug("retrying embedding call",
				zap.String("op", op),
				zap.Int("attempt", attempt),
				zap.Int("max_retries", s.MaxRetries),
				zap.Duration("delay", delay))

			select {
			case <-time.After(delay):
			case <-timeoutCtx.Done():
				s.recordFailure()
				return apperror.NewEmbeddingProviderError(op,
					fmt.Errorf("context timeout during retry: %w", timeoutCtx.Err()))
			}
		}

		err := call(timeoutCtx)
		if err == nil {
			s.recordSuccess()
			return nil
		}
		lastErr = err

		if !isRetryableError(err) {
			s.recordFailure()
			return apperror.NewEmbeddingProviderError(op, err)
		}
		s.log.Warn("retryable embedding error", zap.String("op", op), zap.Int("attempt", attempt+1), zap.Error(err))
	}

	s.recordFailure()
	return apperror.NewEmbeddingProviderError(op,
		fmt.Errorf("max retries (%d) exceeded: %w", s.MaxRetries, lastErr))
}

func (s *GeminiService) calculateBackoff(attempt int) time.Duration {
	delay := s.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > s.MaxDelay {
		delay = s.MaxDelay
	}
	if delay <= 0 {
		return 0
	}
	jitter := time.Duration(rand.Int64N(int64(delay)/4 + 1))
	return delay - delay/8 + jitter
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var invalid *invalidResponseError
	if errors.As(err, &invalid) {
		return false
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case 429, 500, 502, 503, 504:
			return true
		default:
			return false
		}
	}

	errMsg := err.Error()
	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func (s *GeminiService) validateEmbeddingResponse(resp *genai.EmbedContentResponse, want int) ([][]float32, error) {
	if resp == nil {
		return nil, fmt.Errorf("response is nil")
	}
	if len(resp.Embeddings) != want {
		return nil, fmt.Errorf("expected %d embeddings, got %d", want, len(resp.Embeddings))
	}

	out := make([][]float32, want)
	for i, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("embedding %d is nil", i)
		}
		if err := validateVector(emb.Values); err != nil {
			return nil, fmt.Errorf("embedding %d: %w", i, err)
		}
		out[i] = emb.Values
	}
	return out, nil
}

// circuitOpen reports whether calls are currently refused. After the cooldown
// one call is let through; its outcome closes or re-opens the breaker.
func (s *GeminiService) circuitOpen() (bool, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.consecutiveErrors < s.circuitBreakerMax {
		return false, s.consecutiveErrors
	}
	return time.Since(s.openedAt) < s.circuitCooldown, s.consecutiveErrors
}

func (s *GeminiService) recordSuccess() {
	s.mu.Lock()
	s.consecutiveErrors = 0
	s.mu.Unlock()
}

func (s *GeminiService) recordFailure() {
	s.mu.Lock()
	s.consecutiveErrors++
	if s.consecutiveErrors >= s.circuitBreakerMax {
		s.openedAt = time.Now()
	}
	s.mu.Unlock()
}

func (s *GeminiService) resetCircuitBreaker() {
	s.recordSuccess()
	s.log.Info("circuit breaker reset")
}

func (s *GeminiService) circuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.consecutiveErrors, s.consecutiveErrors >= s.circuitBreakerMax
}
