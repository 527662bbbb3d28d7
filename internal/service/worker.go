package service

import (
	"context"
	"log/slog"
	"time"
)

// ArtifactSweeper defines the methods the retention worker needs
type ArtifactSweeper interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// RetentionWorker evicts PDF artifacts older than TTL
type RetentionWorker struct {
	Repo     ArtifactSweeper
	TTL      time.Duration
	Interval time.Duration
	Now      func() time.Time
}

// Constructor
func NewRetentionWorker(repo ArtifactSweeper, ttl, interval time.Duration) *RetentionWorker {
	return &RetentionWorker{
		Repo:     repo,
		TTL:      ttl,
		Interval: interval,
		Now:      time.Now,
	}
}

// Start sweeps once immediately, then every Interval until ctx is done.
func (w *RetentionWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		if _, err := w.Sweep(ctx); err != nil && ctx.Err() == nil {
			slog.WarnContext(ctx, "artifact sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep removes every artifact older than TTL.
func (w *RetentionWorker) Sweep(ctx context.Context) (int, error) {
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	removed, err := w.Repo.DeleteOlderThan(ctx, now().Add(-w.TTL))
	if removed > 0 {
		slog.InfoContext(ctx, "evicted expired artifacts", "count", removed, "ttl", w.TTL.String())
	}
	return removed, err
}
