package extractor

import (
	"context"
	"os/exec"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	cerrors "leadscout/worker/pkg/errors"
)

const renderTimeout = 40 * time.Second

// chromeBinaries are probed in order to find a usable browser.
var chromeBinaries = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// blockedResources lists resource types the renderer refuses to load.
// Text extraction needs none of them and skipping them cuts render time.
var blockedResources = map[network.ResourceType]bool{
	network.ResourceTypeStylesheet: true,
	network.ResourceTypeFont:       true,
	network.ResourceTypeImage:      true,
	network.ResourceTypeMedia:      true,
}

// autoScrollScript scrolls the page in 100px steps so lazy-loaded content
// mounts, capped at 3000px to bound render time on infinite feeds.
const autoScrollScript = `new Promise((resolve) => {
	let total = 0;
	const distance = 100;
	const timer = setInterval(() => {
		const scrollHeight = document.body.scrollHeight;
		window.scrollBy(0, distance);
		total += distance;
		if (total >= scrollHeight || total > 3000) {
			clearInterval(timer);
			resolve();
		}
	}, 100);
})`

// HeadlessStrategy renders a page in headless Chrome before parsing, for
// pages that build their content client-side.
type HeadlessStrategy struct {
	execPath string
	disabled bool
}

// NewHeadlessStrategy probes for a Chrome binary. When none is installed
// (or the strategy is disabled by configuration) Available reports false
// and the chain skips it.
func NewHeadlessStrategy(disabled bool) *HeadlessStrategy {
	s := &HeadlessStrategy{disabled: disabled}
	if disabled {
		return s
	}
	for _, bin := range chromeBinaries {
		if path, err := exec.LookPath(bin); err == nil {
			s.execPath = path
			break
		}
	}
	return s
}

func (s *HeadlessStrategy) Name() string { return MethodHeadlessRender }

func (s *HeadlessStrategy) Available() bool { return !s.disabled && s.execPath != "" }

func (s *HeadlessStrategy) Fetch(ctx context.Context, url string) (*StrategyResult, error) {
	renderCtx, cancel := context.WithTimeout(ctx, renderTimeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(s.execPath),
		chromedp.Flag("headless", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.WindowSize(1200, 800),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(renderCtx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	s.blockHeavyResources(browserCtx)

	var html, finalURL string
	err := chromedp.Run(browserCtx,
		fetch.Enable(),
		chromedp.Navigate(url),
		chromedp.Evaluate(autoScrollScript, nil, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		}),
		chromedp.Location(&finalURL),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, cerrors.NewRender(url, "headless render failed", err)
	}

	content, err := parsePage(html)
	if err != nil {
		return nil, cerrors.NewParsing(url, "failed to parse rendered HTML", err)
	}
	if finalURL == "" {
		finalURL = url
	}

	return &StrategyResult{
		Method:   MethodHeadlessRender,
		HTML:     html,
		FinalURL: finalURL,
		Content:  content,
	}, nil
}

// blockHeavyResources intercepts paused requests and fails the ones whose
// resource type contributes nothing to text extraction.
func (s *HeadlessStrategy) blockHeavyResources(browserCtx context.Context) {
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		pev, ok := ev.(*fetch.EventRequestPaused)
		if !ok {
			return
		}
		go func() {
			c := chromedp.FromContext(browserCtx)
			ectx := cdp.WithExecutor(browserCtx, c.Target)
			if blockedResources[pev.ResourceType] {
				_ = fetch.FailRequest(pev.RequestID, network.ErrorReasonBlockedByClient).Do(ectx)
			} else {
				_ = fetch.ContinueRequest(pev.RequestID).Do(ectx)
			}
		}()
	})
}
