package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

const (
	EmbeddingProviderGemini = "gemini"
	EmbeddingProviderHTTP   = "http"
)

// EmbeddingConfig selects the embedding provider and bounds every call to it.
type EmbeddingConfig struct {
	Provider       string
	HTTPURL        string
	HTTPAPIKey     string
	HTTPModel      string
	RequestTimeout time.Duration
	MaxRetries     int
}

var (
	embeddingConfig *EmbeddingConfig
	embeddingOnce   sync.Once
)

func LoadEmbeddingConfig() *EmbeddingConfig {
	embeddingOnce.Do(func() {
		embeddingConfig = newEmbeddingConfig(source())
	})
	return embeddingConfig
}

func newEmbeddingConfig(v *viper.Viper) *EmbeddingConfig {
	timeout := v.GetDuration("embedding.request_timeout")
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retries := v.GetInt("embedding.max_retries")
	if retries < 0 {
		retries = 0
	}
	return &EmbeddingConfig{
		Provider:       v.GetString("embedding.provider"),
		HTTPURL:        v.GetString("embedding.http_url"),
		HTTPAPIKey:     v.GetString("embedding.http_api_key"),
		HTTPModel:      v.GetString("embedding.http_model"),
		RequestTimeout: timeout,
		MaxRetries:     retries,
	}
}
