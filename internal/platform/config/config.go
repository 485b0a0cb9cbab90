package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Defaults mirror the legacy guard process so existing extension builds keep
// working against a stock install.
const (
	DefaultPort            = 8788
	DefaultTicketTTL       = 60 * time.Second
	DefaultEventCapacity   = 200
	DefaultCleanupInterval = 30 * time.Second
)

// ServiceName identifies the authority in /status responses and startup events.
const ServiceName = "kasbah-guard-local"

// Server captures the guard's runtime configuration.
type Server struct {
	Port            int
	TicketTTL       time.Duration
	EventCapacity   int
	CleanupInterval time.Duration
	LogLevel        slog.Level
}

// Addr returns the loopback listen address. The guard never binds a
// non-loopback interface; proximity is the trust boundary.
func (s Server) Addr() string {
	return fmt.Sprintf("127.0.0.1:%d", s.Port)
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Port:            DefaultPort,
		TicketTTL:       DefaultTicketTTL,
		EventCapacity:   DefaultEventCapacity,
		CleanupInterval: DefaultCleanupInterval,
		LogLevel:        slog.LevelInfo,
	}

	if v := os.Getenv("GUARD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 && port < 65536 {
			cfg.Port = port
		}
	}
	if v := os.Getenv("TICKET_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TicketTTL = d
		}
	}
	if v := os.Getenv("EVENT_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.EventCapacity = n
		}
	}
	if v := os.Getenv("CLEANUP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.CleanupInterval = d
		}
	}
	if v := os.Getenv("GUARD_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = lvl
		}
	}

	return cfg
}
