package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// RedisConfig configures the optional embedding cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = newRedisConfig(source())
	})
	return redisConfig
}

func newRedisConfig(v *viper.Viper) *RedisConfig {
	return &RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
		TTL:      v.GetDuration("redis.ttl"),
	}
}

func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}
