package config

import (
	"sync"

	"github.com/spf13/viper"
)

const (
	CacheBackendFile     = "file"
	CacheBackendPgVector = "pgvector"
)

type MatcherConfig struct {
	CacheBackend   string
	CachePath      string
	BatchSize      int
	DefaultTopN    int
	ReloadSchedule string
}

var (
	matcherConfig *MatcherConfig
	matcherOnce   sync.Once
)

func LoadMatcherConfig() *MatcherConfig {
	matcherOnce.Do(func() {
		matcherConfig = newMatcherConfig(source())
	})
	return matcherConfig
}

func newMatcherConfig(v *viper.Viper) *MatcherConfig {
	cfg := &MatcherConfig{
		CacheBackend:   v.GetString("matcher.cache_backend"),
		CachePath:      v.GetString("matcher.cache_path"),
		BatchSize:      v.GetInt("matcher.batch_size"),
		DefaultTopN:    v.GetInt("matcher.default_top_n"),
		ReloadSchedule: v.GetString("matcher.reload_schedule"),
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 10
	}
	return cfg
}
