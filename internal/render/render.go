// Package render captures full-page PNG screenshots of HTML documents with
// headless Chrome.
package render

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/chromedp/chromedp"
)

// Viewport used for every capture, in logical pixels.
const (
	ViewportWidth  = 1200
	ViewportHeight = 800
)

// DefaultTimeout bounds a single render, browser launch included.
const DefaultTimeout = 30 * time.Second

// screenshotQuality must stay 100: chromedp encodes the capture as JPEG for
// any lower value, and the output file and downstream vision call both
// declare PNG.
const screenshotQuality = 100

// Error wraps a browser automation failure.
type Error struct {
	Err error
}

func (e *Error) Error() string { return "render: " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Renderer produces screenshots. The zero value is not usable; use New.
type Renderer struct {
	timeout time.Duration
}

// New builds a Renderer with the default per-render timeout.
func New() *Renderer {
	return &Renderer{timeout: DefaultTimeout}
}

// WithTimeout returns a copy of the Renderer with a different per-render
// deadline.
func (r *Renderer) WithTimeout(d time.Duration) *Renderer {
	return &Renderer{timeout: d}
}

// Render loads the HTML document in a fresh headless browser instance, waits
// for the page to become ready, and writes a full-page PNG to outputPath.
// The browser is torn down on every path; no instance is reused across calls.
func (r *Renderer) Render(ctx context.Context, htmlDoc, outputPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(ctx)
	defer browserCancel()

	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(htmlDoc)

	var buf []byte
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(ViewportWidth, ViewportHeight),
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("body"),
		// Remote images and fonts load after readiness; give them a beat.
		chromedp.Sleep(500*time.Millisecond),
		chromedp.FullScreenshot(&buf, screenshotQuality),
	)
	if err != nil {
		return "", &Error{Err: fmt.Errorf("capture screenshot: %w", err)}
	}

	if err := os.WriteFile(outputPath, buf, 0644); err != nil {
		return "", &Error{Err: fmt.Errorf("write screenshot: %w", err)}
	}
	return outputPath, nil
}
