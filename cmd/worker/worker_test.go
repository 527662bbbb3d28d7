package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/unclebandit/coldreach/internal/config"
)

func TestWorkerSweepsExpiredArtifacts(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.ParseWorker(map[string]string{
		"OUTPUT_DIR":    dir,
		"RETENTION_TTL": "10m",
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}

	expired := filepath.Join(dir, "expired.pdf")
	fresh := filepath.Join(dir, "fresh.pdf")
	for _, p := range []string{expired, fresh} {
		if err := os.WriteFile(p, []byte("%PDF"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(expired, past, past); err != nil {
		t.Fatal(err)
	}

	removed, err := newWorker(cfg).Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removed, got %d", removed)
	}
	if _, err := os.Stat(expired); !os.IsNotExist(err) {
		t.Errorf("expected expired artifact removed")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("expected fresh artifact kept: %v", err)
	}
}
