// Package ratelimit guards credential-store operations with a persisted
// sliding-window counter and lockout.
//
// The counter is a single global instance shared by every operation class
// and every process invocation: it throttles the agent's overall
// credential-access velocity, not any one site. State persists across
// invocations in ~/.agent-vault/.ratelimit; concurrent invocations are
// best-effort rather than strictly linearizable, which is acceptable for
// coarse throttling.
package ratelimit

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/benaskins/agentvault/internal/audit"
)

const (
	// DefaultMaxAttempts is the attempt threshold within the window.
	DefaultMaxAttempts = 5
	// DefaultWindow is the sliding window length.
	DefaultWindow = time.Minute
	// DefaultLockout is how long all calls are rejected after the
	// threshold is reached.
	DefaultLockout = 5 * time.Minute
)

// ErrLimited marks every rate-limit rejection. Callers distinguish "try
// again later" from permanent failures with errors.Is(err, ErrLimited).
var ErrLimited = errors.New("rate limit exceeded")

// LimitError carries the remaining wait time. Safe to show to users.
type LimitError struct {
	Wait time.Duration
}

func (e *LimitError) Error() string {
	secs := int((e.Wait + time.Second - 1) / time.Second)
	return fmt.Sprintf("rate limit exceeded, wait %d seconds before trying again", secs)
}

func (e *LimitError) Unwrap() error { return ErrLimited }

// state is the on-disk shape. Timestamps are unix milliseconds, matching
// the persisted format.
type state struct {
	Attempts    []int64 `json:"attempts"`
	LockedUntil int64   `json:"lockedUntil,omitempty"`
}

// Limiter checks and records attempts against the persisted state.
// MaxAttempts, Window, and Lockout may be adjusted before first use;
// tests relax them to keep multi-operation scenarios out of lockout.
type Limiter struct {
	MaxAttempts int
	Window      time.Duration
	Lockout     time.Duration

	path  string
	audit *audit.Logger

	// now is swappable for tests.
	now func() time.Time
}

// New returns a limiter persisting to path with default limits.
func New(path string, auditLog *audit.Logger) *Limiter {
	return &Limiter{
		MaxAttempts: DefaultMaxAttempts,
		Window:      DefaultWindow,
		Lockout:     DefaultLockout,
		path:        path,
		audit:       auditLog,
		now:         time.Now,
	}
}

// Check records an attempt for operation, failing with *LimitError when
// the window is exhausted or a lockout is active. A call rejected during
// an active lockout does not consume an attempt slot.
func (l *Limiter) Check(operation string) error {
	now := l.now().UnixMilli()
	st := l.load()

	if st.LockedUntil != 0 && now < st.LockedUntil {
		wait := time.Duration(st.LockedUntil-now) * time.Millisecond
		l.audit.Log(audit.Entry{
			Event:   audit.EventRateLimitExceeded,
			Details: fmt.Sprintf("Operation: %s, locked for %ds", operation, int((wait+time.Second-1)/time.Second)),
			Success: false,
		})
		return &LimitError{Wait: wait}
	}

	// Expired lockout: back to open with a clean slate.
	if st.LockedUntil != 0 && now >= st.LockedUntil {
		st.LockedUntil = 0
		st.Attempts = nil
	}

	windowStart := now - l.Window.Milliseconds()
	pruned := st.Attempts[:0]
	for _, ts := range st.Attempts {
		if ts > windowStart {
			pruned = append(pruned, ts)
		}
	}
	st.Attempts = pruned

	if len(st.Attempts) >= l.MaxAttempts {
		st.LockedUntil = now + l.Lockout.Milliseconds()
		if err := l.save(st); err != nil {
			return fmt.Errorf("persisting rate limit state: %w", err)
		}
		l.audit.Log(audit.Entry{
			Event:   audit.EventRateLimitExceeded,
			Details: fmt.Sprintf("Operation: %s, lockout initiated", operation),
			Success: false,
		})
		return &LimitError{Wait: l.Lockout}
	}

	st.Attempts = append(st.Attempts, now)
	if err := l.save(st); err != nil {
		return fmt.Errorf("persisting rate limit state: %w", err)
	}
	return nil
}

// Reset unconditionally clears the state, for tests and administrative use.
func (l *Limiter) Reset() error {
	return l.save(state{Attempts: []int64{}})
}

func (l *Limiter) load() state {
	st := state{}
	data, err := os.ReadFile(l.path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		slog.Warn("corrupt rate limit state, starting fresh", "path", l.path, "error", err)
		return state{}
	}
	return st
}

func (l *Limiter) save(st state) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(st)
	if err != nil {
		return err
	}
	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, l.path)
}
