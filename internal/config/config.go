package config

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string
	APIPrefix        string
	DatabaseURL      string
	DBName           string
	NotionToken      string
	NotionDatabaseID string
	NotionTimeout    time.Duration
}

// NotionConfigured reports whether remote sync is enabled. Local CRUD never depends on it.
func (c Config) NotionConfigured() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}

func (c Config) DatabaseConfigured() bool {
	return c.DatabaseURL != ""
}

// Load reads the environment, optionally overlaid on a .env file (ENV_FILE overrides the path).
func Load() (Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("API_PREFIX", "/api")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_NAME", "public")
	v.SetDefault("NOTION_TOKEN", "")
	v.SetDefault("NOTION_DATABASE_ID", "")
	v.SetDefault("NOTION_TIMEOUT", 30*time.Second)
	v.AutomaticEnv()

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	return Config{
		Port:             v.GetString("PORT"),
		APIPrefix:        v.GetString("API_PREFIX"),
		DatabaseURL:      v.GetString("DATABASE_URL"),
		DBName:           v.GetString("DB_NAME"),
		NotionToken:      v.GetString("NOTION_TOKEN"),
		NotionDatabaseID: v.GetString("NOTION_DATABASE_ID"),
		NotionTimeout:    v.GetDuration("NOTION_TIMEOUT"),
	}, nil
}
