// Package atlas parses atlas service flags and launches the service.
package atlas

import (
	"context"
	"flag"

	entrypoint "github.com/ravencote/lorekeep/internal/platform/cmd"
	server "github.com/ravencote/lorekeep/internal/services/atlas/app"
)

// Config holds atlas command configuration.
type Config struct {
	Port       int `env:"LOREKEEP_ATLAS_PORT" envDefault:"8080"`
	HealthPort int `env:"LOREKEEP_ATLAS_HEALTH_PORT" envDefault:"8081"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The atlas HTTP server port")
	fs.IntVar(&cfg.HealthPort, "health-port", cfg.HealthPort, "The atlas gRPC health port")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the atlas HTTP API service.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceAtlas, func(context.Context) error {
		return server.Run(ctx, cfg.Port, cfg.HealthPort)
	})
}
