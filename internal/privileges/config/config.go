// Package config содержит логику чтения конфигурации сервиса привилегий.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultRunAddress — адрес HTTP-сервера сервиса привилегий по умолчанию.
const DefaultRunAddress = "localhost:8050"

// Config содержит параметры конфигурации сервиса привилегий.
// При пустом DatabaseURI сервис работает с хранилищем в памяти.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI

	flag.StringVar(&cfg.RunAddress, "a", DefaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = DefaultRunAddress
	}

	return cfg, nil
}
