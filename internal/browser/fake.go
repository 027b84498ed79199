package browser

import (
	"context"
	"sync"
)

// FillCall records one Fill invocation against a FakeSession.
type FillCall struct {
	Selector string
	Value    string
}

// FakeSession is an in-memory implementation of Session for testing.
// URLs is consumed one entry per CurrentURL call, repeating the final
// entry once exhausted — scripting it with different values simulates a
// page navigating mid-operation.
type FakeSession struct {
	mu sync.Mutex

	URLs    []string
	Hidden  map[string]bool
	FillErr error

	urlCalls int
	Fills    []FillCall
	Clicks   []string
	Closed   bool
}

// NewFakeSession returns a session pinned to a single page URL.
func NewFakeSession(url string) *FakeSession {
	return &FakeSession{URLs: []string{url}}
}

func (s *FakeSession) CurrentURL(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.urlCalls
	if idx >= len(s.URLs) {
		idx = len(s.URLs) - 1
	}
	s.urlCalls++
	return s.URLs[idx], nil
}

func (s *FakeSession) Fill(ctx context.Context, selector, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FillErr != nil {
		return s.FillErr
	}
	s.Fills = append(s.Fills, FillCall{Selector: selector, Value: value})
	return nil
}

func (s *FakeSession) Click(ctx context.Context, selector string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clicks = append(s.Clicks, selector)
	return nil
}

func (s *FakeSession) ElementVisible(ctx context.Context, selector string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.Hidden[selector], nil
}

func (s *FakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// FilledValue returns the last value filled into selector, if any.
func (s *FakeSession) FilledValue(selector string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.Fills) - 1; i >= 0; i-- {
		if s.Fills[i].Selector == selector {
			return s.Fills[i].Value, true
		}
	}
	return "", false
}
