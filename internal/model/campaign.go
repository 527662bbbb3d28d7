// internal/model/campaign.go
package model

import (
	"strings"
	"time"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
)

// CampaignRequest is a single form submission.
type CampaignRequest struct {
	Niche      string `json:"niche"`
	Offer      string `json:"offer"`
	LicenseKey string `json:"license_key,omitempty"`
}

// Normalize trims surrounding whitespace from every field.
func (r CampaignRequest) Normalize() CampaignRequest {
	return CampaignRequest{
		Niche:      strings.TrimSpace(r.Niche),
		Offer:      strings.TrimSpace(r.Offer),
		LicenseKey: strings.TrimSpace(r.LicenseKey),
	}
}

// Validate requires a non-empty niche and offer. Call Normalize first.
func (r CampaignRequest) Validate() error {
	switch {
	case r.Niche == "" && r.Offer == "":
		return appErrors.NewInvalidInput("Please enter both a niche and an offer.")
	case r.Niche == "":
		return appErrors.NewInvalidInput("Please enter a niche.")
	case r.Offer == "":
		return appErrors.NewInvalidInput("Please enter an offer.")
	}
	return nil
}

// GeneratedContent is the LLM output for a campaign.
type GeneratedContent struct {
	Niche       string    `json:"niche"`
	Offer       string    `json:"offer"`
	Content     string    `json:"content"`
	Model       string    `json:"model"`
	GeneratedAt time.Time `json:"generated_at"`
}
