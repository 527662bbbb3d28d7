// cmd/worker/main.go
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/unclebandit/coldreach/internal/config"
	"github.com/unclebandit/coldreach/internal/logger"
	"github.com/unclebandit/coldreach/internal/repository"
	"github.com/unclebandit/coldreach/internal/service"
)

func main() {
	once := flag.Bool("once", false, "run a single sweep and exit")
	flag.Parse()

	cfg, err := config.LoadWorker()
	if err != nil {
		log.Printf("configuration error: %v", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	worker := newWorker(cfg)

	if *once {
		removed, err := worker.Sweep(ctx)
		if err != nil {
			slog.Error("sweep failed", "error", err)
			os.Exit(1)
		}
		slog.Info("sweep finished", "removed", removed, "dir", cfg.Storage.OutputDir)
		return
	}

	slog.Info("retention worker started",
		"dir", cfg.Storage.OutputDir,
		"ttl", cfg.Retention.TTL.String(),
		"interval", cfg.Retention.Interval.String())
	worker.Start(ctx)
	slog.Info("retention worker stopped")
}

func newWorker(cfg config.WorkerConfig) *service.RetentionWorker {
	repo := repository.NewArtifactRepository(cfg.Storage.OutputDir)
	return service.NewRetentionWorker(repo, cfg.Retention.TTL, cfg.Retention.Interval)
}
