// Package license checks license keys against a Gumroad-compatible
// verification endpoint.
package license

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
	"github.com/unclebandit/coldreach/internal/model"
)

const maxResponseBytes = 1 << 20

type Validator interface {
	Validate(ctx context.Context, licenseKey string) (*model.LicenseVerdict, error)
}

type Config struct {
	APIURL    string
	ProductID string
	Timeout   time.Duration
}

type HTTPValidator struct {
	cfg    Config
	client *http.Client
}

func NewHTTPValidator(cfg Config, client *http.Client) *HTTPValidator {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPValidator{cfg: cfg, client: client}
}

// Validate posts the product id and key and decodes the verdict. The body is
// decoded regardless of status, since unknown keys come back as a 404 with
// success=false.
func (v *HTTPValidator) Validate(ctx context.Context, licenseKey string) (*model.LicenseVerdict, error) {
	if v.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.cfg.Timeout)
		defer cancel()
	}

	form := url.Values{
		"product_id":  {v.cfg.ProductID},
		"license_key": {licenseKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.cfg.APIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, appErrors.NewUpstreamLicense("could not build license request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, appErrors.NewUpstreamLicense("We could not verify your license right now. Please try again.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, appErrors.NewUpstreamLicense("We could not verify your license right now. Please try again.", err)
	}

	var verdict model.LicenseVerdict
	if err := json.Unmarshal(body, &verdict); err != nil {
		return nil, appErrors.NewUpstreamLicense(
			"We could not verify your license right now. Please try again.",
			fmt.Errorf("decode license response (status %d): %w", resp.StatusCode, err),
		)
	}

	slog.DebugContext(ctx, "license verdict received",
		"status_code", resp.StatusCode,
		"success", verdict.Success,
		"uses", verdict.Uses)

	return &verdict, nil
}
