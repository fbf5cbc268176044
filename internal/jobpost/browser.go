package jobpost

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// minDescriptionLen is the shortest description accepted without
// rendering. Shorter text usually means the page is built client-side.
const minDescriptionLen = 200

// hydrationDelay gives marketplace pages time to load the description.
const hydrationDelay = 3 * time.Second

func needsRendering(description string) bool {
	return len(strings.TrimSpace(description)) < minDescriptionLen
}

// Renderer returns the HTML of a page after scripts have run.
type Renderer func(ctx context.Context, url string, timeout time.Duration) (string, error)

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must
// be installed. Every request the page makes passes the same address
// checks as a plain fetch.
func ChromeRenderer(logger *zap.Logger, opts *Options) Renderer {
	if opts == nil {
		opts = DefaultOptions()
	}
	guard := newAddressGuard(opts)

	return func(ctx context.Context, url string, timeout time.Duration) (string, error) {
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...)
		defer cancelAlloc()

		tabCtx, cancelTab := chromedp.NewContext(allocCtx)
		defer cancelTab()
		tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
		defer cancelTimeout()

		var actions []chromedp.Action
		if !guard.allowPrivate {
			guardRequests(tabCtx, guard, logger)
			actions = append(actions, fetch.Enable())
		}

		start := time.Now()
		var html string
		actions = append(actions,
			chromedp.Navigate(url),
			chromedp.WaitReady("body"),
			chromedp.Sleep(hydrationDelay),
			chromedp.OuterHTML("html", &html),
		)
		if err := chromedp.Run(tabCtx, actions...); err != nil {
			return "", fmt.Errorf("render %s: %w", url, err)
		}

		logger.Debug("rendered job page",
			zap.String("url", url),
			zap.Int("bytes", len(html)),
			zap.Duration("took", time.Since(start)))
		return html, nil
	}
}

// guardRequests pauses every request in the tab and fails those whose host
// resolves to a blocked address. fetch.Enable must run in the same tab.
func guardRequests(tabCtx context.Context, guard *addressGuard, logger *zap.Logger) {
	chromedp.ListenTarget(tabCtx, func(ev any) {
		paused, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			execCtx := cdp.WithExecutor(tabCtx, chromedp.FromContext(tabCtx).Target)

			var err error
			if u, perr := url.Parse(paused.Request.URL); perr != nil {
				err = perr
			} else if u.Scheme == "http" || u.Scheme == "https" || u.Scheme == "ws" || u.Scheme == "wss" {
				err = guard.checkHost(tabCtx, u.Hostname())
			}

			if err != nil {
				logger.Warn("blocked browser request", zap.String("url", paused.Request.URL), zap.Error(err))
				_ = fetch.FailRequest(paused.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
				return
			}
			_ = fetch.ContinueRequest(paused.RequestID).Do(execCtx)
		}()
	})
}
