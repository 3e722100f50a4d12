package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

type DBConfig struct {
	URL      string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	TimeZone string
}

var (
	dbConfig *DBConfig
	dbOnce   sync.Once
)

func LoadDBConfig() *DBConfig {
	dbOnce.Do(func() {
		dbConfig = newDBConfig(source())
	})
	return dbConfig
}

func newDBConfig(v *viper.Viper) *DBConfig {
	return &DBConfig{
		URL:      v.GetString("db.url"),
		Host:     v.GetString("db.host"),
		Port:     v.GetString("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		TimeZone: v.GetString("db.timezone"),
	}
}

// DSN returns DB_URL verbatim when set, otherwise a key/value DSN for the pgx driver.
func (c *DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host,
		c.User,
		c.Password,
		c.Name,
		c.Port,
		c.SSLMode,
		c.TimeZone,
	)
}
