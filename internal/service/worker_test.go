package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/unclebandit/coldreach/internal/service"
)

func TestRetentionWorkerSweepUsesTTL(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	repo := &MockArtifactRepo{evict: 3}
	worker := service.NewRetentionWorker(repo, 15*time.Minute, time.Minute)
	worker.Now = func() time.Time { return now }

	removed, err := worker.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}
	cutoffs := repo.Cutoffs()
	if len(cutoffs) != 1 || !cutoffs[0].Equal(now.Add(-15*time.Minute)) {
		t.Errorf("unexpected cutoffs %v", cutoffs)
	}
}

func TestRetentionWorkerStartStopsOnCancel(t *testing.T) {
	repo := &MockArtifactRepo{}
	worker := service.NewRetentionWorker(repo, time.Minute, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for len(repo.Cutoffs()) < 2 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 2 sweeps, got %d", len(repo.Cutoffs()))
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("worker did not stop after cancel")
	}
}
