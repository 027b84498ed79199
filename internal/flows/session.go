package flows

import (
	"context"

	"github.com/benaskins/agentvault/internal/browser"
	"github.com/benaskins/agentvault/internal/origin"
)

// verifyOrigin re-reads the page's current origin and compares it to the
// one the operation was authorized for. Called before any field is
// written and again after each write, so a navigation racing the
// operation cannot redirect credential material to a different site.
func verifyOrigin(ctx context.Context, sess browser.Session, want string) error {
	rawURL, err := sess.CurrentURL(ctx)
	if err != nil {
		return err
	}
	got, err := origin.Extract(rawURL)
	if err != nil {
		return origin.ErrMismatch
	}
	if got != want {
		return origin.ErrMismatch
	}
	return nil
}
