// Package pdf converts rendered HTML into PDF bytes.
//
// Two engines are provided: ChromiumEngine drives a shared headless Chromium
// through the DevTools protocol, WKHTMLTOPDFEngine shells out to wkhtmltopdf.
package pdf

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
)

// Engine renders HTML content into PDF bytes.
type Engine interface {
	Render(ctx context.Context, html []byte) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, html []byte) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, html []byte) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, html)
}

// Signature is the magic prefix of every PDF file.
var Signature = []byte("%PDF")

// HasSignature reports whether data looks like a PDF.
func HasSignature(data []byte) bool {
	return bytes.HasPrefix(data, Signature)
}

// WKHTMLTOPDFEngine invokes wkhtmltopdf using stdin/stdout.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Timeout time.Duration
}

func (e WKHTMLTOPDFEngine) Render(ctx context.Context, html []byte) ([]byte, error) {
	cmdPath := strings.TrimSpace(e.Command)
	if cmdPath == "" {
		cmdPath = "wkhtmltopdf"
	}
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args := append([]string{"--quiet", "--encoding", "utf-8"}, e.Args...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(ctx, cmdPath, args...)
	cmd.Env = os.Environ()
	cmd.Stdin = bytes.NewReader(html)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, appErrors.NewPdfRender("wkhtmltopdf timed out", ctxErr)
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, appErrors.NewPdfRender(message, err)
	}
	if !HasSignature(stdout.Bytes()) {
		return nil, appErrors.NewPdfRender("wkhtmltopdf produced no pdf output", nil)
	}
	return stdout.Bytes(), nil
}
