// internal/service/campaign_service.go
package service

import (
	"context"
	"log/slog"
	"time"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
	"github.com/unclebandit/coldreach/internal/license"
	"github.com/unclebandit/coldreach/internal/llm"
	"github.com/unclebandit/coldreach/internal/logger"
	"github.com/unclebandit/coldreach/internal/model"
)

const (
	msgLicenseMissing = "Please enter your license key."
	msgLicenseInvalid = "Invalid or expired license key."
)

// CampaignService turns a niche/offer pair into campaign copy. License is
// nil when license gating is disabled.
type CampaignService struct {
	LLM         llm.Client
	License     license.Validator
	MaxTokens   int
	Temperature *float64
	Now         func() time.Time
}

// LicenseEnabled reports whether a license key is required.
func (s *CampaignService) LicenseEnabled() bool {
	return s.License != nil
}

// Generate checks the license (when enabled), validates the input and asks
// the LLM for the campaign. No LLM call is made unless both checks pass.
func (s *CampaignService) Generate(ctx context.Context, req model.CampaignRequest) (*model.GeneratedContent, error) {
	req = req.Normalize()

	if s.License != nil {
		if err := s.checkLicense(ctx, req.LicenseKey); err != nil {
			return nil, err
		}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "generating campaign", "niche", req.Niche, "offer", req.Offer, "model", s.LLM.Model())

	resp, err := s.LLM.Complete(ctx, llm.Request{
		SystemPrompt: SystemPrompt,
		UserPrompt:   BuildPrompt(req.Niche, req.Offer),
		MaxTokens:    s.MaxTokens,
		Temperature:  s.Temperature,
	})
	if err != nil {
		slog.ErrorContext(ctx, "campaign generation failed", "error", err, "kind", appErrors.KindOf(err))
		return nil, err
	}

	slog.DebugContext(ctx, "campaign generated", "preview", logger.Truncate(resp.Content, 120))

	return &model.GeneratedContent{
		Niche:       req.Niche,
		Offer:       req.Offer,
		Content:     resp.Content,
		Model:       s.LLM.Model(),
		GeneratedAt: s.now(),
	}, nil
}

func (s *CampaignService) checkLicense(ctx context.Context, key string) error {
	if key == "" {
		return appErrors.NewLicenseInvalid(msgLicenseMissing)
	}

	verdict, err := s.License.Validate(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "license validation failed", "error", err, "kind", appErrors.KindOf(err))
		return err
	}
	if !verdict.Valid() {
		slog.InfoContext(ctx, "license rejected", "message", verdict.Message)
		return appErrors.NewLicenseInvalid(msgLicenseInvalid)
	}
	return nil
}

func (s *CampaignService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
