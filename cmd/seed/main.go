package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/swasthyasathi/internal/app/bootstrap"
	appconfig "github.com/wolfman30/swasthyasathi/internal/config"
	"github.com/wolfman30/swasthyasathi/internal/records"
	"github.com/wolfman30/swasthyasathi/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := appconfig.Load()

	dir := flag.String("dir", cfg.DataDir, "directory holding <table>.csv files")
	dryRun := flag.Bool("dry-run", false, "read the CSV files without writing")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	logger := logging.NewWithWriter(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	dst, closeStore, err := bootstrap.BuildStore(ctx, cfg, logger, nil)
	if err != nil {
		logger.Error("failed to open destination store", "backend", cfg.StorageBackend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	if *dryRun {
		dst = nil
	}

	copied, err := seedTables(ctx, records.NewCSVStore(*dir), dst, bootstrap.TableNames(cfg), logger)
	if err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d tables into %s\n", copied, cfg.StorageBackend)
}

// seedTables copies every named table from src into dst. Missing source
// files are skipped; a nil dst only validates the source.
func seedTables(ctx context.Context, src, dst records.Store, names records.Names, logger *logging.Logger) (int, error) {
	copied := 0
	for _, name := range names.All() {
		t, err := src.LoadTable(ctx, name)
		if errors.Is(err, records.ErrTableNotFound) {
			logger.Warn("source table missing; skipping", "table", name)
			continue
		}
		if err != nil {
			return copied, fmt.Errorf("seed: load %s: %w", name, err)
		}
		if dst != nil {
			if err := dst.SaveTable(ctx, name, t); err != nil {
				return copied, fmt.Errorf("seed: save %s: %w", name, err)
			}
		}
		logger.Info("table seeded", "table", name, "rows", t.Len(), "dry_run", dst == nil)
		copied++
	}
	return copied, nil
}
