package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/tendant/content-provisioning/pkg/provisioning"
	"github.com/tendant/content-provisioning/pkg/provisioning/config"
	repopg "github.com/tendant/content-provisioning/pkg/provisioning/repo/postgres"
)

const usage = `provision - build the presentation object for a stored content

Usage:
  provision [flags]

Flags:
  -id string     content id to provision
  -migrate       apply the Postgres schema before anything else
  -seed          ensure the canonical content types exist
  -verbose       log every provisioning transition

Configuration is read from the environment (and .env when present);
see DATABASE_URL, PROBE_BASE_DIR, REDIS_URL and URL_SIGNING_SECRET.
`

func main() {
	_ = godotenv.Load()

	var (
		id      = flag.String("id", "", "content id to provision")
		migrate = flag.Bool("migrate", false, "apply the Postgres schema")
		seed    = flag.Bool("seed", false, "ensure the canonical content types exist")
		verbose = flag.Bool("verbose", false, "log every provisioning transition")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *id == "" && !*seed && !*migrate {
		flag.Usage()
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(context.Background(), logger, *id, *migrate, *seed); err != nil {
		logger.Error("provision failed", "err", err, "kind", provisioning.Kind(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, id string, migrate, seed bool) error {
	cfg, err := config.LoadServerConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if migrate {
		if cfg.DatabaseType != "postgres" {
			return fmt.Errorf("-migrate requires a postgres DATABASE_URL")
		}
		pool, err := config.NewPool(ctx, cfg.DatabaseURL, cfg.DBSchema)
		if err != nil {
			return err
		}
		err = repopg.NewWithPool(pool).Migrate(ctx, cfg.DBSchema)
		pool.Close()
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}
		logger.Info("schema applied", "schema", cfg.DBSchema)
	}

	cfg.SeedTypes = seed
	rt, err := cfg.Build(ctx, provisioning.WithObserver(provisioning.NewLogObserver(logger)))
	if err != nil {
		return err
	}
	defer rt.Close()

	if seed {
		for _, ct := range provisioning.DefaultContentTypes {
			stored, err := rt.Repository.GetContentTypeByName(ctx, ct.Name)
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", stored.ID, stored.Name)
		}
	}

	if id == "" {
		return nil
	}

	presentation, err := rt.Service.Provision(ctx, id)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(presentation)
}
