// Package browser drives a live page over the Chrome DevTools Protocol.
//
// The vault only ever attaches to an already-running browser through a
// validated CDP WebSocket endpoint; it never launches one. Element errors
// are sanitized before they cross this package boundary — selectors and
// page content never appear in returned errors.
package browser

import (
	"context"
	"errors"
)

var (
	// ErrConnectionTimeout is returned when the browser does not answer
	// within the connect deadline.
	ErrConnectionTimeout = errors.New("CDP connection timeout")

	// ErrConnectionFailed is returned for any other connect failure.
	ErrConnectionFailed = errors.New("CDP connection failed")

	// ErrNoPage is returned when the browser has no page target.
	ErrNoPage = errors.New("no page found")

	// ErrElementNotFound is returned when a selector does not resolve.
	// Deliberately free of selector and page detail.
	ErrElementNotFound = errors.New("element not found on page")
)

// Session is an attached browser page.
type Session interface {
	// CurrentURL returns the page's current location.
	CurrentURL(ctx context.Context) (string, error)
	// Fill sets the value of the element matching selector.
	Fill(ctx context.Context, selector, value string) error
	// Click clicks the element matching selector.
	Click(ctx context.Context, selector string) error
	// ElementVisible reports whether selector resolves to a visible
	// element.
	ElementVisible(ctx context.Context, selector string) (bool, error)
	// Close releases the remote-debugging connection.
	Close() error
}
