package config

import (
	"sync"

	"github.com/spf13/viper"
)

type GeminiConfig struct {
	APIKey         string
	EmbeddingModel string
}

var (
	geminiConfig *GeminiConfig
	geminiOnce   sync.Once
)

func LoadGeminiConfig() *GeminiConfig {
	geminiOnce.Do(func() {
		geminiConfig = newGeminiConfig(source())
	})
	return geminiConfig
}

func newGeminiConfig(v *viper.Viper) *GeminiConfig {
	return &GeminiConfig{
		APIKey:         v.GetString("gemini.api_key"),
		EmbeddingModel: v.GetString("gemini.embedding_model"),
	}
}
