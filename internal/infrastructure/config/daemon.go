package config

import "time"

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	// PID file location, used to enforce a single running instance
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}
