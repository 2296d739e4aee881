// Package watch parses watch command flags and starts the observation service.
package watch

import (
	"context"
	"flag"

	"github.com/cardhall/pitwatch/internal/app"
	entrypoint "github.com/cardhall/pitwatch/internal/platform/cmd"
	"github.com/cardhall/pitwatch/internal/storage"
	"github.com/cardhall/pitwatch/internal/storage/sqlite"
)

// Config holds watch command configuration.
type Config struct {
	Port int    `env:"PITWATCH_PORT" envDefault:"8090"`
	Addr string `env:"PITWATCH_ADDR"`
	// DBPath enables SQLite persistence when set.
	DBPath string `env:"PITWATCH_DB"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The watch server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The watch server listen address (overrides -port)")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite ledger store (in-memory only when empty)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the watch observation service.
func Run(ctx context.Context, cfg Config) error {
	var store storage.RecordStore
	if cfg.DBPath != "" {
		sqliteStore, err := sqlite.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()
		store = sqliteStore
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWatch, func(context.Context) error {
		opts := app.Options{Store: store}
		if cfg.Addr != "" {
			return app.RunWithAddr(ctx, cfg.Addr, opts)
		}
		return app.Run(ctx, cfg.Port, opts)
	})
}
