package cleanup

import (
	"time"

	"github.com/AtRiskMedia/tractstack-builder/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval time.Duration
	IdleTimeout     time.Duration
}

// NewConfig reads the already-initialized values in /pkg/config.
func NewConfig() *Config {
	return &Config{
		CleanupInterval: config.SessionCleanupInterval,
		IdleTimeout:     config.SessionIdleTimeout,
	}
}
