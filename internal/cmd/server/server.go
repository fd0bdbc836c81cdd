// Package server parses server command flags and runs the MCP server over
// the sqlite-backed research tracker.
package server

import (
	"context"
	"flag"
	"log"
	"time"

	mcpservice "github.com/louisbranch/lorekeeper/internal/mcp/service"
	"github.com/louisbranch/lorekeeper/internal/notify"
	"github.com/louisbranch/lorekeeper/internal/notify/render"
	"github.com/louisbranch/lorekeeper/internal/platform/config"
	"github.com/louisbranch/lorekeeper/internal/platform/otel"
	"github.com/louisbranch/lorekeeper/internal/research/matcher"
	"github.com/louisbranch/lorekeeper/internal/research/tracker"
	"github.com/louisbranch/lorekeeper/internal/storage/sqlite"
)

// Config holds server command configuration.
type Config struct {
	DBPath string `env:"LOREKEEPER_DB_PATH" envDefault:"lorekeeper.db"`
	Locale string `env:"LOREKEEPER_LOCALE"  envDefault:"en"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "sqlite database path")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "notification locale (en, pt-BR)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the research tracker and serves MCP on stdio until the
// context ends.
func Run(ctx context.Context, cfg Config) error {
	shutdown, err := otel.Setup(ctx, "server")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close store: %v", err)
		}
	}()

	svc, err := tracker.New(tracker.Config{
		Store:     store,
		Notifier:  notify.NewLogNotifier(log.Default()),
		Localizer: render.Printer(cfg.Locale),
	})
	if err != nil {
		return err
	}
	if err := svc.Load(ctx); err != nil {
		return err
	}

	server, err := mcpservice.New(svc, matcher.New(svc, log.Default()))
	if err != nil {
		return err
	}
	return server.Serve(ctx)
}
