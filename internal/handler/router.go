// internal/handler/router.go
package handler

import (
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/unclebandit/coldreach/internal/controller"
)

// RouterConfig holds what the router needs beyond the controller.
type RouterConfig struct {
	StaticDir string
	// OutputDir is the subtree of StaticDir that must never be served.
	OutputDir string
}

func NewRouter(ctrl *controller.CampaignController, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", ctrl.ShowForm)
	r.Post("/generate", ctrl.Generate)
	r.Post("/download-pdf", ctrl.DownloadPDF)
	r.Get("/healthz", Health)

	if cfg.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.Handle("/static/*", blockSubtree(fs, outputPrefix(cfg)))
	}

	return r
}

// RequestLogger logs one line per request with the chi request id.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// outputPrefix returns the URL path under /static/ that maps to OutputDir,
// or "" when OutputDir is not inside StaticDir.
func outputPrefix(cfg RouterConfig) string {
	if cfg.OutputDir == "" {
		return ""
	}
	static := path.Clean("/" + strings.ReplaceAll(cfg.StaticDir, "\\", "/"))
	output := path.Clean("/" + strings.ReplaceAll(cfg.OutputDir, "\\", "/"))
	if !strings.HasPrefix(output+"/", static+"/") || output == static {
		return ""
	}
	return "/static" + strings.TrimPrefix(output, static)
}

func blockSubtree(next http.Handler, prefix string) http.Handler {
	if prefix == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := path.Clean(r.URL.Path)
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
