// Package capture renders the /timetable page in headless Chromium and
// saves it as a PNG.
package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	appLog "timetable/internal/log"
)

// Default viewport, roughly a phone held upright.
const (
	DefaultWidth   = 480
	DefaultHeight  = 900
	DefaultTimeout = 30 * time.Second
)

// ReadySelector matches the element /timetable marks once it is rendered.
const ReadySelector = `[data-ready="true"]`

// Options defines parameters for a snapshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/timetable?day=Monday".
	URL string

	// OutputPath is where the PNG is written. Parent directories are created.
	OutputPath string

	// Width and Height are the viewport in pixels; zero means the defaults.
	Width  int
	Height int

	// Timeout bounds the whole capture. Zero means DefaultTimeout.
	Timeout time.Duration

	// Headers are sent with every request, e.g. an Authorization header
	// when the page sits behind Basic Auth.
	Headers map[string]string
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return nil
}

// Tasks is the chromedp action list for one capture. The screenshot lands
// in *buf.
func Tasks(o Options, buf *[]byte) chromedp.Tasks {
	tasks := chromedp.Tasks{}
	if len(o.Headers) > 0 {
		h := make(network.Headers, len(o.Headers))
		for k, v := range o.Headers {
			h[k] = v
		}
		tasks = append(tasks, network.Enable(), network.SetExtraHTTPHeaders(h))
	}
	return append(tasks,
		chromedp.EmulateViewport(int64(o.Width), int64(o.Height)),
		chromedp.Navigate(o.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(buf, 100),
	)
}

// CapturePNG navigates a fresh headless browser to opts.URL, waits for
// ReadySelector and writes a full-page PNG to opts.OutputPath.
func CapturePNG(parentCtx context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	start := time.Now()
	var png []byte
	if err := chromedp.Run(ctx, Tasks(opts, &png)); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := writeFile(opts.OutputPath, png); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}

	appLog.Info("snapshot captured",
		"url", opts.URL,
		"out", opts.OutputPath,
		"bytes", len(png),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// writeFile replaces path atomically so /preview.png never serves a
// half-written image.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".preview-*.png")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
