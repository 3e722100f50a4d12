package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/job-matcher/internal/apperror"
	"github.com/fadilmartias/job-matcher/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHTTPService(t *testing.T, handler http.HandlerFunc) *HTTPEmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewHTTPEmbeddingService(&config.EmbeddingConfig{
		HTTPURL:        srv.URL,
		HTTPAPIKey:     "test-key",
		HTTPModel:      "test-model",
		RequestTimeout: 2 * time.Second,
		MaxRetries:     0,
	}, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestHTTPEmbeddingServiceSendsBatch(t *testing.T) {
	svc := newTestHTTPService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "test-model", body.Model)
		assert.Equal(t, []string{"remote golang", "onsite java"}, body.Input)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[
			{"index":1,"embedding":[0.3,0.4]},
			{"index":0,"embedding":[0.1,0.2]}
		]}`))
	})

	vecs, err := svc.GenerateEmbeddings(context.Background(), []string{"remote golang", " onsite java "})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.InDeltaSlice(t, []float32{0.1, 0.2}, vecs[0], 1e-6)
	assert.InDeltaSlice(t, []float32{0.3, 0.4}, vecs[1], 1e-6)
}

func TestHTTPEmbeddingServiceErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusBadRequest, `{"error":{"message":"bad model"}}`},
		{"error payload", http.StatusOK, `{"error":{"message":"quota"}}`},
		{"count mismatch", http.StatusOK, `{"data":[{"embedding":[0.1]}]}`},
		{"empty vector", http.StatusOK, `{"data":[{"embedding":[]},{"embedding":[1]}]}`},
		{"not json", http.StatusOK, `<html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestHTTPService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := svc.GenerateEmbeddings(context.Background(), []string{"a", "b"})
			require.Error(t, err)
			assert.True(t, apperror.IsEmbeddingProvider(err))
		})
	}
}

func TestHTTPEmbeddingServiceTimeoutBoundsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	core, logs := observer.New(zapcore.WarnLevel)
	svc, err := NewHTTPEmbeddingService(&config.EmbeddingConfig{
		HTTPURL:        srv.URL,
		HTTPAPIKey:     "test-key",
		HTTPModel:      "test-model",
		RequestTimeout: 300 * time.Millisecond,
		MaxRetries:     3,
	}, zap.New(core))
	require.NoError(t, err)

	start := time.Now()
	_, err = svc.GenerateEmbedding(context.Background(), "remote golang")
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.True(t, apperror.IsEmbeddingProvider(err))
	assert.Less(t, elapsed, time.Second)
	restyLogs := logs.Filter(func(e observer.LoggedEntry) bool {
		return e.LoggerName == "http_embedding"
	})
	assert.NotZero(t, restyLogs.Len())
}

func TestNewHTTPEmbeddingServiceRequiresKey(t *testing.T) {
	_, err := NewHTTPEmbeddingService(&config.EmbeddingConfig{HTTPURL: "http://x"}, zap.NewNop())
	assert.Error(t, err)
}
