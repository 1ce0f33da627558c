package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"flightwatch-service/pkg/logger"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// TokenCapturer obtains a short-lived capability token for an upstream API.
type TokenCapturer interface {
	Capture(ctx context.Context) (string, error)
}

// ChromeTokenCapturer sniffs the token off a real browser session: it loads
// the upstream's landing page headless and watches outgoing requests until
// one carries the auth header the site's own frontend uses.
type ChromeTokenCapturer struct {
	pageURL    string
	apiHost    string
	headerName string
	timeout    time.Duration
	logger     logger.Logger
}

// NewChromeTokenCapturer creates a new browser-based token capturer
func NewChromeTokenCapturer(pageURL, apiHost, headerName string, timeout time.Duration, logger logger.Logger) *ChromeTokenCapturer {
	return &ChromeTokenCapturer{
		pageURL:    pageURL,
		apiHost:    apiHost,
		headerName: headerName,
		timeout:    timeout,
		logger:     logger,
	}
}

// Capture runs one headless session under a hard wall-clock deadline. The
// browser is torn down on every exit path. No observed token within the
// deadline is a fatal failure for the calling source job.
func (c *ChromeTokenCapturer) Capture(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	tokenCh := make(chan string, 1)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		req, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}
		if !strings.Contains(req.Request.URL, c.apiHost) {
			return
		}
		for name, value := range req.Request.Headers {
			if !strings.EqualFold(name, c.headerName) {
				continue
			}
			if token, ok := value.(string); ok && token != "" {
				select {
				case tokenCh <- token:
				default:
				}
			}
		}
	})

	c.logger.Info("Launching headless browser to capture API key", "page", c.pageURL)

	if err := chromedp.Run(browserCtx,
		network.Enable(),
		chromedp.Navigate(c.pageURL),
	); err != nil {
		// Navigation errors are not necessarily fatal; the frontend may have
		// fired the instrumented request before the failure.
		c.logger.Warn("Browser navigation error during token capture", "error", err)
	}

	select {
	case token := <-tokenCh:
		c.logger.Info("API key captured", "prefix", tokenPrefix(token))
		return token, nil
	case <-browserCtx.Done():
		return "", fmt.Errorf("no %s header observed within %s", c.headerName, c.timeout)
	}
}

// tokenPrefix keeps captured secrets out of the logs.
func tokenPrefix(token string) string {
	if len(token) <= 10 {
		return token
	}
	return token[:10] + "..."
}
