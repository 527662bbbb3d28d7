// internal/errors/errors.go
package appErrors

import (
	"context"
	"errors"
)

// Kind classifies failures so handlers can pick a response.
type Kind string

const (
	KindInvalidInput           Kind = "invalid_input"
	KindLicenseInvalid         Kind = "license_invalid"
	KindUpstreamLLMFailure     Kind = "upstream_llm_failure"
	KindUpstreamLicenseFailure Kind = "upstream_license_failure"
	KindPdfRenderFailure       Kind = "pdf_render_failure"
	KindConfiguration          Kind = "configuration_error"
	KindTimeout                Kind = "timeout"
	KindInternal               Kind = "internal"
)

// AppError wraps an underlying error with a kind and a user facing message.
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError.
func New(kind Kind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Msg: msg, Err: err}
}

func NewInvalidInput(msg string) error {
	return New(KindInvalidInput, msg, nil)
}

func NewLicenseInvalid(msg string) error {
	return New(KindLicenseInvalid, msg, nil)
}

func NewUpstreamLLM(msg string, err error) error {
	return New(KindUpstreamLLMFailure, msg, err)
}

func NewUpstreamLicense(msg string, err error) error {
	return New(KindUpstreamLicenseFailure, msg, err)
}

func NewPdfRender(msg string, err error) error {
	return New(KindPdfRenderFailure, msg, err)
}

func NewConfiguration(msg string, err error) error {
	return New(KindConfiguration, msg, err)
}

// KindOf reports the kind of err. Deadline errors anywhere in the chain win
// over the wrapping kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is of the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the user facing message of err, falling back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Msg != "" {
		return appErr.Msg
	}
	return err.Error()
}
