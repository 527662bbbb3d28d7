package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
	"github.com/unclebandit/coldreach/internal/model"
	"github.com/unclebandit/coldreach/internal/pdf"
	"github.com/unclebandit/coldreach/internal/service"
	"github.com/unclebandit/coldreach/internal/view"
)

func newViews(t *testing.T) *view.Renderer {
	t.Helper()
	views, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("views: %v", err)
	}
	return views
}

func TestExportPDFRendersTemplateAndStores(t *testing.T) {
	var seenHTML string
	engine := pdf.EngineFunc(func(ctx context.Context, html []byte) ([]byte, error) {
		seenHTML = string(html)
		return []byte("%PDF-1.4 fake"), nil
	})
	repo := &MockArtifactRepo{}
	svc := &service.ExportService{
		Views:     newViews(t),
		Engine:    engine,
		Artifacts: repo,
		Now:       func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) },
	}

	artifact, err := svc.ExportPDF(context.Background(), model.GeneratedContent{
		Niche: "SaaS founders", Offer: "free audit call", Content: "Email 1: Hook",
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	for _, want := range []string{"SaaS founders", "free audit call", "Email 1: Hook", "October 18, 2026"} {
		if !strings.Contains(seenHTML, want) {
			t.Errorf("expected %q in rendered html", want)
		}
	}
	if len(repo.created) != 1 || string(repo.created[0]) != "%PDF-1.4 fake" {
		t.Errorf("expected pdf bytes to be stored, got %v", repo.created)
	}
	if artifact.Key == "" {
		t.Errorf("expected artifact key")
	}

	svc.Release(context.Background(), artifact)
	if len(repo.deleted) != 1 || repo.deleted[0] != artifact.Key {
		t.Errorf("expected artifact released, got %v", repo.deleted)
	}
}

func TestExportPDFEngineFailure(t *testing.T) {
	repo := &MockArtifactRepo{}
	svc := &service.ExportService{
		Views: newViews(t),
		Engine: pdf.EngineFunc(func(ctx context.Context, html []byte) ([]byte, error) {
			return nil, errors.New("chrome crashed")
		}),
		Artifacts: repo,
	}

	_, err := svc.ExportPDF(context.Background(), model.GeneratedContent{Niche: "a", Offer: "b", Content: "c"})
	if !appErrors.Is(err, appErrors.KindPdfRenderFailure) {
		t.Fatalf("expected pdf render failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "chrome crashed") {
		t.Errorf("expected underlying message, got %q", err.Error())
	}
	if len(repo.created) != 0 {
		t.Errorf("expected nothing stored")
	}
}

func TestExportPDFRejectsNonPDFOutput(t *testing.T) {
	svc := &service.ExportService{
		Views: newViews(t),
		Engine: pdf.EngineFunc(func(ctx context.Context, html []byte) ([]byte, error) {
			return []byte("<html>"), nil
		}),
		Artifacts: &MockArtifactRepo{},
	}

	_, err := svc.ExportPDF(context.Background(), model.GeneratedContent{Niche: "a", Offer: "b", Content: "c"})
	if !appErrors.Is(err, appErrors.KindPdfRenderFailure) {
		t.Fatalf("expected pdf render failure, got %v", err)
	}
}

func TestExportPDFTimeoutKind(t *testing.T) {
	svc := &service.ExportService{
		Views: newViews(t),
		Engine: pdf.EngineFunc(func(ctx context.Context, html []byte) ([]byte, error) {
			return nil, appErrors.NewPdfRender("chromium pdf render timed out", context.DeadlineExceeded)
		}),
		Artifacts: &MockArtifactRepo{},
	}

	_, err := svc.ExportPDF(context.Background(), model.GeneratedContent{Niche: "a", Offer: "b", Content: "c"})
	if !appErrors.Is(err, appErrors.KindTimeout) {
		t.Fatalf("expected timeout kind, got %v", err)
	}
}
