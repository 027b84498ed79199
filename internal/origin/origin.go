// Package origin implements the trust-boundary checks applied to web
// origins before any credential material is read, written, or filled.
//
// An origin is the normalized scheme+host+port of a URL (default ports
// stripped), compared by exact string equality. Policy is layered: HTTPS
// is required unless explicitly allowed, loopback/internal hosts and
// non-network schemes can be blocked, and a small set of TLDs favored by
// phishing campaigns can be flagged. CDP WebSocket endpoints go through a
// separate hostname allowlist before any connection is attempted.
package origin

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidOrigin is returned for URLs that cannot be parsed or do
	// not use an http(s) scheme.
	ErrInvalidOrigin = errors.New("invalid origin")

	// ErrInsecureProtocol is returned for http origins when plain HTTP
	// has not been allowed.
	ErrInsecureProtocol = errors.New("insecure protocol: HTTPS is required (set allowHttp=true to override)")

	// ErrBlockedOrigin is returned for loopback/internal hosts and
	// non-network schemes.
	ErrBlockedOrigin = errors.New("origin is blocked by security policy")

	// ErrSuspiciousTLD is returned for origins under TLDs commonly used
	// in phishing campaigns.
	ErrSuspiciousTLD = errors.New("origin uses a suspicious top-level domain")

	// ErrCDPHostNotAllowed is returned when a CDP endpoint host is not in
	// the configured allowlist.
	ErrCDPHostNotAllowed = errors.New("CDP endpoint host not allowed (extend the cdpAllowlist config key to permit it)")

	// ErrMismatch is the security error raised when the page origin
	// changes between validation and use. Always fatal to the flow.
	ErrMismatch = errors.New("page origin changed during operation")
)

// Non-network schemes that can never hold registrable credentials.
var blockedSchemePrefixes = []string{
	"file:",
	"about:",
	"chrome:",
	"chrome-extension:",
}

// Loopback and internal hosts blocked by the secure validation path.
var blockedHosts = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"[::1]",
	"::1",
}

// TLDs disproportionately used by phishing campaigns.
var suspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

// Options control which policy layers apply during Validate.
type Options struct {
	// AllowHTTP permits http origins. An explicit true here overrides the
	// persisted allowHttp config value.
	AllowHTTP bool
	// AllowLoopback permits localhost/127.0.0.1/[::1] and friends.
	AllowLoopback bool
	// AllowSuspiciousTLD skips the phishing-TLD check.
	AllowSuspiciousTLD bool
}

// Extract derives the normalized origin from a URL: lowercased scheme and
// host, default port stripped. Only http and https URLs have an origin.
func Extract(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: unparseable URL", ErrInvalidOrigin)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q", ErrInvalidOrigin, u.Scheme)
	}
	host := strings.ToLower(u.Host)
	if u.Hostname() == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidOrigin)
	}
	// Default ports are not part of the origin.
	if scheme == "http" {
		host = strings.TrimSuffix(host, ":80")
	} else {
		host = strings.TrimSuffix(host, ":443")
	}
	return scheme + "://" + host, nil
}

// Validate applies the security policy to an already-extracted origin.
func Validate(origin string, opts Options) error {
	lower := strings.ToLower(origin)
	for _, prefix := range blockedSchemePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return ErrBlockedOrigin
		}
	}

	u, err := url.Parse(origin)
	if err != nil || u.Hostname() == "" {
		return ErrInvalidOrigin
	}
	switch u.Scheme {
	case "https":
	case "http":
		if !opts.AllowHTTP {
			return ErrInsecureProtocol
		}
	default:
		return fmt.Errorf("%w: scheme %q", ErrInvalidOrigin, u.Scheme)
	}

	if !opts.AllowLoopback {
		hostname := strings.ToLower(u.Hostname())
		for _, blocked := range blockedHosts {
			if hostname == strings.Trim(blocked, "[]") {
				return ErrBlockedOrigin
			}
		}
	}

	if !opts.AllowSuspiciousTLD {
		host := strings.ToLower(u.Hostname())
		for _, tld := range suspiciousTLDs {
			if strings.HasSuffix(host, tld) {
				return ErrSuspiciousTLD
			}
		}
	}

	return nil
}

// ExtractAndValidate is the secure path used at registration time:
// extract the origin, then apply the full policy.
func ExtractAndValidate(rawURL string, opts Options) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	for _, prefix := range blockedSchemePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return "", ErrBlockedOrigin
		}
	}
	o, err := Extract(rawURL)
	if err != nil {
		return "", err
	}
	if err := Validate(o, opts); err != nil {
		return "", err
	}
	return o, nil
}

// ValidateCDPEndpoint checks a CDP WebSocket URL against the endpoint
// allowlist before any connection is attempted.
func ValidateCDPEndpoint(endpoint string, allowlist []string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("%w: unparseable CDP endpoint", ErrInvalidOrigin)
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return fmt.Errorf("%w: CDP endpoint must use ws:// or wss://", ErrInvalidOrigin)
	}
	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return fmt.Errorf("%w: CDP endpoint missing hostname", ErrInvalidOrigin)
	}
	for _, allowed := range allowlist {
		if hostname == strings.ToLower(strings.TrimSpace(allowed)) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrCDPHostNotAllowed, hostname)
}
