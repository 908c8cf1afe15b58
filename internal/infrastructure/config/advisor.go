package config

// AdvisorConfig holds the embedded HTTP advisory surface configuration.
// The advisor exposes read-only tick summaries and accepts strategy
// updates between ticks; it never participates in tick decisions.
type AdvisorConfig struct {
	// Enable the HTTP server
	Enabled bool `mapstructure:"enabled"`

	// Listen address (host:port)
	Address string `mapstructure:"address"`
}

// StrategyConfig holds the strategy file settings
type StrategyConfig struct {
	// Path to the strategy YAML file. Empty means built-in defaults.
	File string `mapstructure:"file"`

	// Reload the strategy file on change without restarting
	Watch bool `mapstructure:"watch"`
}
