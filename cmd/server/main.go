// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/unclebandit/coldreach/internal/config"
	"github.com/unclebandit/coldreach/internal/controller"
	"github.com/unclebandit/coldreach/internal/handler"
	"github.com/unclebandit/coldreach/internal/license"
	"github.com/unclebandit/coldreach/internal/llm"
	"github.com/unclebandit/coldreach/internal/logger"
	"github.com/unclebandit/coldreach/internal/pdf"
	"github.com/unclebandit/coldreach/internal/repository"
	"github.com/unclebandit/coldreach/internal/service"
	"github.com/unclebandit/coldreach/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("configuration error: %v", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Env)

	llmClient, err := llm.New(llm.Config{
		APIKey:  cfg.OpenAI.APIKey,
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Timeout: cfg.OpenAI.Timeout,
	})
	if err != nil {
		slog.Error("failed to create llm client", "error", err)
		os.Exit(1)
	}

	campaignService := &service.CampaignService{
		LLM:         llmClient,
		MaxTokens:   cfg.OpenAI.MaxTokens,
		Temperature: cfg.OpenAI.Temperature,
	}
	if cfg.License.Enabled {
		campaignService.License = license.NewHTTPValidator(license.Config{
			APIURL:    cfg.License.APIURL,
			ProductID: cfg.License.ProductID,
			Timeout:   cfg.License.Timeout,
		}, nil)
	}

	views, err := view.NewRenderer()
	if err != nil {
		slog.Error("failed to load templates", "error", err)
		os.Exit(1)
	}

	engine, closeEngine := newPDFEngine(cfg.PDF)
	defer closeEngine()

	artifactRepo := repository.NewArtifactRepository(cfg.Storage.OutputDir)
	exportService := &service.ExportService{
		Views:     views,
		Engine:    engine,
		Artifacts: artifactRepo,
	}

	campaignController := &controller.CampaignController{
		CampaignService: campaignService,
		ExportService:   exportService,
		Views:           views,
	}

	router := handler.NewRouter(campaignController, handler.RouterConfig{
		StaticDir: cfg.Storage.StaticDir,
		OutputDir: cfg.Storage.OutputDir,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	retention := service.NewRetentionWorker(artifactRepo, cfg.Retention.TTL, cfg.Retention.Interval)
	go retention.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// generation and rendering can run up to their own timeouts
		WriteTimeout: cfg.OpenAI.Timeout + cfg.PDF.Timeout + 10*time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		slog.Info("server running",
			"addr", srv.Addr,
			"env", cfg.Env,
			"model", llmClient.Model(),
			"pdf_engine", cfg.PDF.Engine,
			"license_enabled", cfg.License.Enabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

func newPDFEngine(cfg config.PDFConfig) (pdf.Engine, func()) {
	if cfg.Engine == config.EngineWKHTMLTOPDF {
		return pdf.WKHTMLTOPDFEngine{
			Command: cfg.WKHTMLTOPDF,
			Args:    cfg.WKHTMLArgs,
			Timeout: cfg.Timeout,
		}, func() {}
	}

	engine := &pdf.ChromiumEngine{
		BrowserPath:   cfg.BrowserPath,
		Timeout:       cfg.Timeout,
		MaxConcurrent: cfg.MaxConcurrent,
		Args:          cfg.BrowserArgs,
	}
	return engine, func() {
		if err := engine.Close(); err != nil {
			slog.Warn("failed to close browser", "error", err)
		}
	}
}
