package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       App
	LLM       LLM
	Trends    Trends
	Suppliers Suppliers
	StoreHost StoreHost
	Mail      Mail
	Pipeline  Pipeline
	Database  Database
	Redis     Redis
	Bot       Bot
	Server    Server
	Watch     Watch
}

type App struct {
	Name      string `env:"APP_NAME" envDefault:"storepilot"`
	Version   string `env:"APP_VERSION" envDefault:"dev"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
	// LogFieldMaxLen ограничивает длину дампов HTTP в логах.
	LogFieldMaxLen int `env:"LOG_FIELD_MAX_LEN" envDefault:"4096"`
}

// Load reads .env (if present) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
