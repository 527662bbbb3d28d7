// internal/controller/campaign_controller.go
package controller

import (
	"log/slog"
	"net/http"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
	"github.com/unclebandit/coldreach/internal/model"
	"github.com/unclebandit/coldreach/internal/service"
	"github.com/unclebandit/coldreach/internal/view"
)

const (
	pdfFilename         = "cold_outreach_campaign.pdf"
	msgGenerationFailed = "Something went wrong while generating your campaign. Please try again."
)

type CampaignController struct {
	CampaignService *service.CampaignService
	ExportService   *service.ExportService
	Views           *view.Renderer
}

func (c *CampaignController) ShowForm(w http.ResponseWriter, r *http.Request) {
	c.renderForm(w, r, http.StatusOK, model.CampaignRequest{}, "")
}

func (c *CampaignController) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		c.renderForm(w, r, http.StatusBadRequest, model.CampaignRequest{}, "Could not read the submitted form.")
		return
	}

	req := model.CampaignRequest{
		Niche:      r.PostFormValue("niche"),
		Offer:      r.PostFormValue("offer"),
		LicenseKey: r.PostFormValue("license_key"),
	}

	content, err := c.CampaignService.Generate(r.Context(), req)
	if err != nil {
		status := http.StatusOK
		msg := appErrors.Message(err)

		switch appErrors.KindOf(err) {
		case appErrors.KindInvalidInput:
			status = http.StatusBadRequest
		case appErrors.KindLicenseInvalid, appErrors.KindUpstreamLicenseFailure,
			appErrors.KindUpstreamLLMFailure, appErrors.KindTimeout:
		default:
			slog.ErrorContext(r.Context(), "unexpected generate error", "error", err)
			msg = msgGenerationFailed
		}
		if msg == "" {
			msg = msgGenerationFailed
		}

		c.renderForm(w, r, status, req.Normalize(), msg)
		return
	}

	c.render(w, r, http.StatusOK, view.ResultTemplate, view.Data{
		"niche":   content.Niche,
		"offer":   content.Offer,
		"content": content.Content,
	})
}

func (c *CampaignController) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	content := model.GeneratedContent{
		Niche:   r.PostFormValue("niche"),
		Offer:   r.PostFormValue("offer"),
		Content: r.PostFormValue("content"),
	}

	artifact, err := c.ExportService.ExportPDF(r.Context(), content)
	if err != nil {
		status := http.StatusInternalServerError
		if appErrors.KindOf(err) == appErrors.KindTimeout {
			status = http.StatusGatewayTimeout
		}
		slog.ErrorContext(r.Context(), "pdf export failed", "error", err, "kind", appErrors.KindOf(err))
		http.Error(w, err.Error(), status)
		return
	}
	defer c.ExportService.Release(r.Context(), artifact)

	f, err := c.ExportService.Artifacts.Open(r.Context(), artifact.Key)
	if err != nil {
		slog.ErrorContext(r.Context(), "open artifact failed", "key", artifact.Key, "error", err)
		http.Error(w, "could not open generated pdf", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+pdfFilename+`"`)
	http.ServeContent(w, r, pdfFilename, artifact.CreatedAt, f)
}

func (c *CampaignController) renderForm(w http.ResponseWriter, r *http.Request, status int, req model.CampaignRequest, errMsg string) {
	c.render(w, r, status, view.FormTemplate, view.Data{
		"error":           errMsg,
		"niche":           req.Niche,
		"offer":           req.Offer,
		"license_key":     req.LicenseKey,
		"license_enabled": c.CampaignService.LicenseEnabled(),
	})
}

// render buffers the page so a template failure can still become a 500.
func (c *CampaignController) render(w http.ResponseWriter, r *http.Request, status int, name string, data view.Data) {
	body, err := c.Views.RenderBytes(name, data)
	if err != nil {
		slog.ErrorContext(r.Context(), "template render failed", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
