package services

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/config"
	"github.com/vidica-ai/prospeccao-levidica-sub000/internal/logging"
)

const renderUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// ChromeRenderer loads a page in headless Chrome and returns the DOM after
// client-side scripts have run. A fresh browser is started per page.
type ChromeRenderer struct {
	cfg    config.RenderConfig
	logger *zap.Logger
}

// NewChromeRenderer creates a renderer from render settings
func NewChromeRenderer(cfg config.RenderConfig, logger *zap.Logger) *ChromeRenderer {
	return &ChromeRenderer{cfg: cfg, logger: logging.OrNop(logger)}
}

func (r *ChromeRenderer) Name() string { return "headless_render" }

// FetchPage renders pageURL and captures the full outer HTML
func (r *ChromeRenderer) FetchPage(ctx context.Context, pageURL string) (string, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("lang", "pt-BR"),
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(renderUserAgent),
	)
	if r.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(r.cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// Start the browser on the parent context so per-step timeouts below
	// do not tear it down.
	if err := chromedp.Run(browserCtx); err != nil {
		return "", fmt.Errorf("%w: failed to start browser: %v", ErrRenderFailed, err)
	}

	if err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(network.Headers{"Accept-Language": "pt-BR,pt;q=0.9,en-US;q=0.8"}),
		emulation.SetLocaleOverride().WithLocale("pt-BR"),
	); err != nil {
		return "", fmt.Errorf("%w: failed to configure page: %v", ErrRenderFailed, err)
	}

	navCtx, cancelNav := context.WithTimeout(browserCtx, r.navigationTimeout())
	defer cancelNav()
	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		return "", fmt.Errorf("%w: navigation failed: %v", ErrRenderFailed, err)
	}

	if r.cfg.SettleDelay > 0 {
		select {
		case <-time.After(r.cfg.SettleDelay):
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %v", ErrRenderFailed, ctx.Err())
		}
	}

	if r.cfg.SelectorTimeout > 0 {
		waitCtx, cancelWait := context.WithTimeout(browserCtx, r.cfg.SelectorTimeout)
		if err := chromedp.Run(waitCtx, chromedp.WaitVisible("h1", chromedp.ByQuery)); err != nil {
			r.logger.Debug("Heading did not become visible, capturing anyway",
				zap.String("url", pageURL),
				zap.Error(err))
		}
		cancelWait()
	}

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("%w: failed to capture DOM: %v", ErrRenderFailed, err)
	}

	return html, nil
}

func (r *ChromeRenderer) navigationTimeout() time.Duration {
	if r.cfg.NavigationTimeout > 0 {
		return r.cfg.NavigationTimeout
	}
	return 30 * time.Second
}
