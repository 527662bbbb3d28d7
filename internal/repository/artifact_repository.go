package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/unclebandit/coldreach/internal/model"
)

const artifactExt = ".pdf"

type ArtifactRepositoryInterface interface {
	Create(ctx context.Context, data []byte) (*model.PdfArtifact, error)
	Open(ctx context.Context, key string) (*os.File, error)
	Delete(ctx context.Context, key string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error)
}

// ArtifactRepository stores rendered PDFs as uniquely named files in Dir.
type ArtifactRepository struct {
	Dir string
	Now func() time.Time
}

func NewArtifactRepository(dir string) *ArtifactRepository {
	return &ArtifactRepository{Dir: dir, Now: time.Now}
}

// ====================== Writes ======================

func (r *ArtifactRepository) Create(ctx context.Context, data []byte) (*model.PdfArtifact, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	key := uuid.NewString() + artifactExt
	target := filepath.Join(r.Dir, key)

	tmp, err := os.CreateTemp(r.Dir, ".artifact-*")
	if err != nil {
		return nil, fmt.Errorf("create temp artifact: %w", err)
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return nil, fmt.Errorf("publish artifact: %w", err)
	}

	artifact := &model.PdfArtifact{
		Key:       key,
		Path:      target,
		Size:      size,
		CreatedAt: r.now(),
	}
	slog.DebugContext(ctx, "artifact stored", "key", key, "size", size)
	return artifact, nil
}

func (r *ArtifactRepository) Delete(ctx context.Context, key string) error {
	target, err := r.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete artifact %s: %w", key, err)
	}
	slog.DebugContext(ctx, "artifact deleted", "key", key)
	return nil
}

// DeleteOlderThan removes artifacts (and stale temp files) last modified
// before cutoff and returns how many were removed.
func (r *ArtifactRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(r.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read output dir: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		name := entry.Name()
		if entry.IsDir() || !isArtifactName(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(r.Dir, name)); err != nil && !os.IsNotExist(err) {
			slog.WarnContext(ctx, "failed to evict artifact", "name", name, "error", err)
			continue
		}
		removed++
	}
	return removed, nil
}

// ====================== Reads ======================

func (r *ArtifactRepository) Open(ctx context.Context, key string) (*os.File, error) {
	target, err := r.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(target)
}

func (r *ArtifactRepository) resolve(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || !strings.HasSuffix(key, artifactExt) {
		return "", fmt.Errorf("invalid artifact key %q", key)
	}
	return filepath.Join(r.Dir, key), nil
}

func (r *ArtifactRepository) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func isArtifactName(name string) bool {
	return strings.HasSuffix(name, artifactExt) || strings.HasPrefix(name, ".artifact-")
}
