package pdf

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"

	appErrors "github.com/unclebandit/coldreach/internal/errors"
)

// A4 in inches.
const (
	paperWidth  = 8.27
	paperHeight = 11.69
	margin      = 0.6
)

// ChromiumEngine renders PDFs using one shared headless Chromium process,
// opening a tab per render.
type ChromiumEngine struct {
	BrowserPath   string
	Timeout       time.Duration
	MaxConcurrent int64
	Args          []string

	mu            sync.Mutex
	launches      int
	sem           *semaphore.Weighted
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func (e *ChromiumEngine) Render(ctx context.Context, html []byte) ([]byte, error) {
	if e == nil {
		return nil, appErrors.NewPdfRender("chromium engine is nil", nil)
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	browserCtx, err := e.ensureBrowser(ctx)
	if err != nil {
		return nil, appErrors.NewPdfRender("chromium engine init failed", err)
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, appErrors.NewPdfRender("timed out waiting for a free renderer", err)
	}
	defer e.sem.Release(1)

	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	// The tab hangs off the browser context, so follow the request context
	// by hand.
	go func() {
		select {
		case <-ctx.Done():
			cancelTab()
		case <-tabCtx.Done():
		}
	}()

	var out []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			out, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(margin).
				WithMarginBottom(margin).
				WithMarginLeft(margin).
				WithMarginRight(margin).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, appErrors.NewPdfRender("chromium pdf render timed out", ctxErr)
		}
		return nil, appErrors.NewPdfRender("chromium pdf render failed", err)
	}
	return out, nil
}

// Close releases the browser process if it was started.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdownLocked()
	return nil
}

// ensureBrowser returns a live browser context, launching Chromium when none
// is running or the previous one has died. The launch is bounded by ctx.
func (e *ChromiumEngine) ensureBrowser(ctx context.Context) (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.sem == nil {
		limit := e.MaxConcurrent
		if limit < 1 {
			limit = 1
		}
		e.sem = semaphore.NewWeighted(limit)
	}

	if e.browserCtx != nil && e.browserCtx.Err() == nil {
		return e.browserCtx, nil
	}
	e.shutdownLocked()
	e.launches++

	options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if e.BrowserPath != "" {
		options = append(options, chromedp.ExecPath(e.BrowserPath))
	}
	for _, arg := range e.Args {
		if strings.TrimSpace(arg) == "" {
			continue
		}
		options = append(options, browserFlag(arg))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), options...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	started := make(chan error, 1)
	go func() { started <- chromedp.Run(browserCtx) }()

	var err error
	select {
	case err = <-started:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if err != nil {
		browserCancel()
		allocCancel()
		return nil, err
	}

	e.allocCtx, e.allocCancel = allocCtx, allocCancel
	e.browserCtx, e.browserCancel = browserCtx, browserCancel
	return browserCtx, nil
}

func (e *ChromiumEngine) shutdownLocked() {
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	e.allocCtx, e.allocCancel = nil, nil
	e.browserCtx, e.browserCancel = nil, nil
}

// browserFlag turns "name" into a boolean switch and "name=value" into a
// valued flag. Leading dashes are ignored.
func browserFlag(arg string) chromedp.ExecAllocatorOption {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	if name, value, ok := strings.Cut(arg, "="); ok {
		return chromedp.Flag(name, value)
	}
	return chromedp.Flag(arg, true)
}
