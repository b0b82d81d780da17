package render

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"github.com/chromedp/chromedp"
)

// ScreenshotOptions controls headless Chrome rendering.
type ScreenshotOptions struct {
	Width     int    // viewport width
	Height    int    // viewport height
	Selector  string // element to capture; "" captures the slider
	NoSandbox bool   // needed when running as root in containers
}

// Screenshot loads an HTML page (as produced by RenderHTML) in headless
// Chrome and returns a PNG of the selected element.
func Screenshot(ctx context.Context, page []byte, opts ScreenshotOptions) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = 1024
	}
	if opts.Height <= 0 {
		opts.Height = 768
	}
	if opts.Selector == "" {
		opts.Selector = ".slider"
	}

	dataURI := "data:text/html;base64," + base64.StdEncoding.EncodeToString(page)

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.WindowSize(opts.Width, opts.Height),
	)
	if opts.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(dataURI),
		chromedp.WaitVisible(opts.Selector, chromedp.ByQuery),
		chromedp.Screenshot(opts.Selector, &buf, chromedp.ByQuery),
	}

	log.Printf("render: capturing %s at %dx%d", opts.Selector, opts.Width, opts.Height)
	if err := chromedp.Run(browserCtx, tasks); err != nil {
		return nil, fmt.Errorf("chromedp: %w", err)
	}
	if len(buf) == 0 {
		return nil, errors.New("chromedp: empty screenshot")
	}
	return buf, nil
}
