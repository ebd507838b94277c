package config

import (
	"github.com/caarlos0/env/v11"

	"repuestos-ads/internal/config/configs"
)

// Config aggregates all configuration sections for the application. Fields
// are populated from environment variables using the caarlos0/env library.
// The nested structs are tagged with envPrefix so their fields are parsed
// with the given prefix. See the individual types in the configs package
// for default values and options. Use Load to construct a Config.
type Config struct {
	// Env specifies the deployment environment (e.g. prod, dev). Reported
	// on traces.
	Env string `env:"ENV" envDefault:"prod"`

	// HTTP holds configuration for the HTTP server.
	HTTP configs.HTTP `envPrefix:"HTTP_"`

	// Log configures the structured logger.
	Log configs.Logger `envPrefix:"LOG_"`

	// Psql configures the PostgreSQL connection.
	Psql configs.Postgres `envPrefix:"PSQL_"`

	// Redis configures the frequency-cap counter store.
	Redis configs.Redis `envPrefix:"REDIS_"`

	// Engine configures the selection engine: reference timezone and
	// snapshot staleness bound.
	Engine configs.Engine `envPrefix:"ENGINE_"`

	// Tracing configures the OpenTelemetry exporter.
	Tracing configs.Tracing `envPrefix:"TRACING_"`
}

// Load reads configuration from environment variables into a Config. All
// fields fall back to their defaults when no environment variable is set.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
