// internal/service/export_service.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
	"github.com/unclebandit/coldreach/internal/model"
	"github.com/unclebandit/coldreach/internal/pdf"
	"github.com/unclebandit/coldreach/internal/repository"
	"github.com/unclebandit/coldreach/internal/view"
)

// TemplateRenderer renders a named template to bytes.
type TemplateRenderer interface {
	RenderBytes(name string, data view.Data) ([]byte, error)
}

// ExportService renders generated content into a PDF artifact.
type ExportService struct {
	Views     TemplateRenderer
	Engine    pdf.Engine
	Artifacts repository.ArtifactRepositoryInterface
	Now       func() time.Time
}

// ExportPDF renders content through the PDF template and stores the result
// as a new artifact. Callers release it with Release once served.
func (s *ExportService) ExportPDF(ctx context.Context, content model.GeneratedContent) (*model.PdfArtifact, error) {
	html, err := s.Views.RenderBytes(view.PDFTemplate, view.Data{
		"niche":        content.Niche,
		"offer":        content.Offer,
		"content":      content.Content,
		"generated_at": s.now().Format("January 2, 2006"),
	})
	if err != nil {
		return nil, appErrors.NewPdfRender("could not render pdf template", err)
	}

	start := time.Now()
	data, err := s.Engine.Render(ctx, html)
	if err != nil {
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.NewPdfRender("pdf render failed", err)
	}
	if !pdf.HasSignature(data) {
		return nil, appErrors.NewPdfRender("pdf renderer returned invalid output", nil)
	}

	artifact, err := s.Artifacts.Create(ctx, data)
	if err != nil {
		return nil, appErrors.NewPdfRender("could not store pdf", err)
	}

	slog.InfoContext(ctx, "pdf exported",
		"key", artifact.Key,
		"size", artifact.Size,
		"duration_ms", time.Since(start).Milliseconds())
	return artifact, nil
}

// Release deletes a served artifact. Failures are logged; the retention
// worker picks up anything left behind.
func (s *ExportService) Release(ctx context.Context, artifact *model.PdfArtifact) {
	if artifact == nil {
		return
	}
	if err := s.Artifacts.Delete(ctx, artifact.Key); err != nil {
		slog.WarnContext(ctx, "failed to release artifact", "key", artifact.Key, "error", err)
	}
}

func (s *ExportService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
