package internal

import "github.com/driftlab/driftwatch/internal/oracle"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	oracle oracle.Oracle
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithOracle overrides the inference oracle. Tests use this to inject a
// deterministic stub instead of the OpenAI-backed client.
func WithOracle(o oracle.Oracle) Option {
	return func(a *application) {
		a.oracle = o
	}
}
