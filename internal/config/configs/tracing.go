package configs

// Tracing configures the OpenTelemetry exporter. Disabled by default.
type Tracing struct {
	Enabled     bool   `env:"ENABLED" envDefault:"false"`
	Endpoint    string `env:"ENDPOINT" envDefault:"http://localhost:14268/api/traces"`
	ServiceName string `env:"SERVICE" envDefault:"repuestos-ads"`
}
