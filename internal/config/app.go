package config

import (
	"log"
	"os"
	"sync"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	BaseURL   string
	LogLevel  string
	LogFormat string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = newAppConfig(source())
		if os.Getenv("APP_ENV") == "" {
			log.Printf("Warning: APP_ENV not set, defaulting to %s", appConfig.Env)
		}
	})
	return appConfig
}

func newAppConfig(v *viper.Viper) *AppConfig {
	return &AppConfig{
		Name:      v.GetString("app.name"),
		Env:       v.GetString("app.env"),
		Port:      v.GetString("app.port"),
		BaseURL:   v.GetString("app.url"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
