package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/target"
	"github.com/chromedp/chromedp"

	"github.com/benaskins/agentvault/internal/origin"
)

// connectTimeout bounds the attach handshake so a hung browser cannot
// block the CLI indefinitely.
const connectTimeout = 10 * time.Second

// Connect validates the CDP endpoint against the allowlist, attaches to
// the browser, and binds to its first page target.
func Connect(ctx context.Context, endpoint string, allowlist []string) (Session, error) {
	if err := origin.ValidateCDPEndpoint(endpoint, allowlist); err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(ctx, endpoint, chromedp.NoModifyURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	cancelAll := func() {
		browserCancel()
		allocCancel()
	}

	dialCtx, dialCancel := context.WithTimeout(browserCtx, connectTimeout)
	defer dialCancel()
	targets, err := chromedp.Targets(dialCtx)
	if err != nil {
		cancelAll()
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrConnectionTimeout
		}
		return nil, ErrConnectionFailed
	}

	var pageTarget *target.Info
	for _, t := range targets {
		if t.Type == "page" {
			pageTarget = t
			break
		}
	}
	if pageTarget == nil {
		cancelAll()
		return nil, ErrNoPage
	}

	pageCtx, pageCancel := chromedp.NewContext(browserCtx, chromedp.WithTargetID(pageTarget.TargetID))
	return &cdpSession{
		ctx: pageCtx,
		cancel: func() {
			pageCancel()
			cancelAll()
		},
	}, nil
}

// cdpSession implements Session over an attached chromedp context.
type cdpSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *cdpSession) CurrentURL(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("reading page location: %w", ErrConnectionFailed)
	}
	return url, nil
}

func (s *cdpSession) Fill(ctx context.Context, selector, value string) error {
	err := s.run(ctx,
		chromedp.SetValue(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return ErrElementNotFound
	}
	return nil
}

func (s *cdpSession) Click(ctx context.Context, selector string) error {
	if err := s.run(ctx, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return ErrElementNotFound
	}
	return nil
}

func (s *cdpSession) ElementVisible(ctx context.Context, selector string) (bool, error) {
	var visible bool
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el !== null && el.offsetParent !== null; })()`,
		selector,
	)
	if err := s.run(ctx, chromedp.Evaluate(expr, &visible)); err != nil {
		return false, nil
	}
	return visible, nil
}

func (s *cdpSession) Close() error {
	s.cancel()
	return nil
}

// run executes actions against the page, honoring the caller's context
// in addition to the session's own.
func (s *cdpSession) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.ctx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(s.ctx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}
