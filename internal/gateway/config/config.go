// Package config содержит логику чтения конфигурации шлюза.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Адреса нижестоящих сервисов по умолчанию.
const (
	DefaultRunAddress        = "localhost:8080"
	DefaultFlightsAddress    = "http://localhost:8060"
	DefaultTicketsAddress    = "http://localhost:8070"
	DefaultPrivilegesAddress = "http://localhost:8050"
)

// Config содержит параметры конфигурации шлюза.
type Config struct {
	RunAddress        string `env:"RUN_ADDRESS"`
	FlightsAddress    string `env:"FLIGHTS_ADDRESS"`
	TicketsAddress    string `env:"TICKETS_ADDRESS"`
	PrivilegesAddress string `env:"PRIVILEGES_ADDRESS"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envFlights := cfg.FlightsAddress
	envTickets := cfg.TicketsAddress
	envPrivileges := cfg.PrivilegesAddress

	flag.StringVar(&cfg.RunAddress, "a", DefaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.FlightsAddress, "f", DefaultFlightsAddress, "flights service base URL")
	flag.StringVar(&cfg.TicketsAddress, "t", DefaultTicketsAddress, "tickets service base URL")
	flag.StringVar(&cfg.PrivilegesAddress, "p", DefaultPrivilegesAddress, "privileges service base URL")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envFlights != "" {
		cfg.FlightsAddress = envFlights
	}
	if envTickets != "" {
		cfg.TicketsAddress = envTickets
	}
	if envPrivileges != "" {
		cfg.PrivilegesAddress = envPrivileges
	}

	return cfg, nil
}
