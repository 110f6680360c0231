// Loads documents into the SQLite FTS5 database served by sqlite_fts providers.
//
// Использование:
//
//	fixtureload -db data/contextlite.db -file docs.json
//
// Without -file the built-in fixture corpus is loaded. Documents are upserted by id,
// so the command can be re-run against an existing database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/searchcompare/internal/logger"
	"github.com/kailas-cloud/searchcompare/internal/repository/fixture"
	"github.com/kailas-cloud/searchcompare/internal/repository/sqlitefts"
)

type config struct {
	dbPath string
	file   string
	level  string
}

func main() {
	cfg := parseFlags()

	logger, err := logpkg.NewLogger("local", cfg.level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(
		context.Background(), syscall.SIGTERM, syscall.SIGINT,
	)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		cancel()
		logger.Fatal("Fixture load failed", zap.Error(err))
	}
}

func parseFlags() config {
	cfg := config{}
	flag.StringVar(&cfg.dbPath, "db", "data/contextlite.db", "SQLite database path")
	flag.StringVar(&cfg.file, "file", "", "JSON array of {id,title,content,path}; empty loads the built-in corpus")
	flag.StringVar(&cfg.level, "log-level", "info", "log level")
	flag.Parse()
	return cfg
}

func run(ctx context.Context, cfg config, logger *zap.Logger) error {
	start := time.Now()

	docs, err := fixture.LoadOrBuiltin(cfg.file)
	if err != nil {
		return fmt.Errorf("read documents: %w", err)
	}

	store, err := sqlitefts.Create(ctx, cfg.dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}()

	if err := store.Load(ctx, docs); err != nil {
		return fmt.Errorf("load documents: %w", err)
	}

	total, err := store.Count(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	source := cfg.file
	if source == "" {
		source = "builtin"
	}
	logger.Info("Fixture load complete",
		zap.String("db", cfg.dbPath),
		zap.String("source", source),
		zap.Int("loaded", len(docs)),
		zap.Int("total", total),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
