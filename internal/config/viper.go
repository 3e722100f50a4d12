package config

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

var (
	v     *viper.Viper
	vOnce sync.Once
)

// source returns the process-wide viper instance. Values come from an optional
// config.yaml and are overridden by environment variables (app.port -> APP_PORT).
func source() *viper.Viper {
	vOnce.Do(func() {
		v = newViper()
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				log.Printf("Warning: could not read config file: %v", err)
			}
		}
	})
	return v
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetConfigName("config")
	nv.SetConfigType("yaml")
	nv.AddConfigPath(".")
	nv.AddConfigPath("./configs")
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	setDefaults(nv)
	return nv
}

func setDefaults(nv *viper.Viper) {
	nv.SetDefault("app.name", "job-matcher")
	nv.SetDefault("app.env", "development")
	nv.SetDefault("app.port", ":8000")
	nv.SetDefault("app.url", "")

	nv.SetDefault("log.level", "info")
	nv.SetDefault("log.format", "json")

	nv.SetDefault("db.url", "")
	nv.SetDefault("db.host", "localhost")
	nv.SetDefault("db.port", "5432")
	nv.SetDefault("db.user", "postgres")
	nv.SetDefault("db.password", "")
	nv.SetDefault("db.name", "jobs")
	nv.SetDefault("db.sslmode", "disable")
	nv.SetDefault("db.timezone", "UTC")

	nv.SetDefault("gemini.api_key", "")
	nv.SetDefault("gemini.embedding_model", "text-embedding-004")

	nv.SetDefault("embedding.provider", "gemini")
	nv.SetDefault("embedding.http_url", "https://openrouter.ai/api/v1/embeddings")
	nv.SetDefault("embedding.http_api_key", "")
	nv.SetDefault("embedding.http_model", "openai/text-embedding-3-small")
	nv.SetDefault("embedding.request_timeout", 15*time.Second)
	nv.SetDefault("embedding.max_retries", 3)

	nv.SetDefault("matcher.cache_backend", "file")
	nv.SetDefault("matcher.cache_path", "jobs_embeddings_cache.json")
	nv.SetDefault("matcher.batch_size", 100)
	nv.SetDefault("matcher.default_top_n", 10)
	nv.SetDefault("matcher.reload_schedule", "")

	nv.SetDefault("redis.addr", "")
	nv.SetDefault("redis.password", "")
	nv.SetDefault("redis.db", 0)
	nv.SetDefault("redis.ttl", 24*time.Hour)
}
