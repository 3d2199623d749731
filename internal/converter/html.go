package converter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"sync"
	"time"

	"pdf-toolkit/internal/domain"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/go-rod/rod/lib/launcher"
)

// US Letter in inches, with a 0.4in margin.
const (
	paperWidth  = 8.5
	paperHeight = 11.0
	paperMargin = 0.4
)

var chromeNames = []string{
	"chromium-browser", "chromium", "google-chrome",
	"google-chrome-stable", "chrome",
}

// resolveBrowser finds a Chrome executable: the configured path, then PATH,
// then a download through rod's launcher when allowed.
func resolveBrowser(chromePath string, autoDownload bool) (string, error) {
	if chromePath != "" {
		if _, err := os.Stat(chromePath); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrBrowserUnavailable, err)
		}
		return chromePath, nil
	}
	for _, name := range chromeNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if !autoDownload {
		return "", domain.ErrBrowserUnavailable
	}

	path, err := launcher.NewBrowser().Get()
	if err != nil {
		return "", fmt.Errorf("%w: downloading browser: %v", domain.ErrBrowserUnavailable, err)
	}
	return path, nil
}

// htmlRenderer owns one headless browser; each conversion opens a tab.
// The browser starts on first use.
type htmlRenderer struct {
	chromePath   string
	autoDownload bool
	timeout      time.Duration
	policy       requestPolicy
	logger       domain.Logger

	mu            sync.Mutex
	started       bool
	closed        bool
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var errRendererClosed = errors.New("html renderer is closed")

func (r *htmlRenderer) browser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, errRendererClosed
	}
	if r.started {
		return r.browserCtx, nil
	}

	execPath, err := resolveBrowser(r.chromePath, r.autoDownload)
	if err != nil {
		return nil, err
	}

	allocOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("headless", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: starting browser: %v", domain.ErrBrowserUnavailable, err)
	}

	r.logger.Info("Headless browser started", "path", execPath)
	r.started = true
	r.allocCancel = allocCancel
	r.browserCtx = browserCtx
	r.browserCancel = browserCancel
	return browserCtx, nil
}

// renderHTML prints a posted document. It is loaded into about:blank so it
// never gets a file:// origin.
func (r *htmlRenderer) renderHTML(ctx context.Context, html string) ([]byte, error) {
	return r.render(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
	)
}

func (r *htmlRenderer) renderURL(ctx context.Context, rawURL string) ([]byte, error) {
	u, err := url.ParseRequestURI(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, &domain.ValidationError{Field: "url", Message: "must be an absolute http or https URL"}
	}
	if err := r.policy.check(ctx, u.String()); err != nil {
		r.logger.Warn("URL conversion refused", "url", u.Redacted(), "error", err)
		return nil, &domain.ValidationError{Field: "url", Message: "must point to a public host"}
	}
	return r.render(ctx, chromedp.Navigate(u.String()))
}

func (r *htmlRenderer) render(ctx context.Context, load ...chromedp.Action) ([]byte, error) {
	browserCtx, err := r.browser()
	if err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()

	// Tie the tab to the request so a cancelled request closes it.
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if e, ok := ev.(*fetch.EventRequestPaused); ok {
			go r.decide(tabCtx, e)
		}
	})

	var buf []byte
	actions := []chromedp.Action{
		fetch.Enable().WithPatterns([]*fetch.RequestPattern{{URLPattern: "*"}}),
	}
	actions = append(actions, load...)
	actions = append(actions,
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				WithMarginTop(paperMargin).
				WithMarginRight(paperMargin).
				WithMarginBottom(paperMargin).
				WithMarginLeft(paperMargin).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("printing page: %w", err)
	}
	return buf, nil
}

// decide lets a paused request through or fails it. Redirects pause again,
// so every hop is checked.
func (r *htmlRenderer) decide(tabCtx context.Context, e *fetch.EventRequestPaused) {
	execCtx := cdp.WithExecutor(tabCtx, chromedp.FromContext(tabCtx).Target)

	var err error
	if checkErr := r.policy.check(tabCtx, e.Request.URL); checkErr != nil {
		r.logger.Warn("Browser request blocked", "url", e.Request.URL, "error", checkErr)
		err = fetch.FailRequest(e.RequestID, network.ErrorReasonBlockedByClient).Do(execCtx)
	} else {
		err = fetch.ContinueRequest(e.RequestID).Do(execCtx)
	}
	if err != nil && tabCtx.Err() == nil {
		r.logger.Debug("Paused request not resumed", "url", e.Request.URL, "error", err)
	}
}

func (r *htmlRenderer) close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	if r.started {
		r.browserCancel()
		r.allocCancel()
	}
}
