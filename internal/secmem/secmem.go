// Package secmem holds transient plaintext secrets in zeroable memory.
//
// Go strings are immutable and linger until collected, so secrets are
// copied into a byte slice the moment they are obtained and overwritten
// in place once the operation that needed them finishes. Reads after
// Clear fail rather than returning empty data, so a caller can never
// mistake "cleared" for "empty value".
package secmem

import "errors"

// ErrCleared is returned by Value after Clear.
var ErrCleared = errors.New("secure string has been cleared")

// SecureString wraps one secret value in a mutable buffer.
type SecureString struct {
	buf     []byte
	cleared bool
}

// New copies value into a fresh buffer. The caller's string still exists;
// prefer obtaining secrets directly into a SecureString and dropping the
// source as early as possible.
func New(value string) *SecureString {
	return &SecureString{buf: []byte(value)}
}

// Value returns the secret. Fails once cleared.
func (s *SecureString) Value() (string, error) {
	if s.cleared {
		return "", ErrCleared
	}
	return string(s.buf), nil
}

// Clear overwrites the buffer with zeros. Idempotent.
func (s *SecureString) Clear() {
	if s.cleared {
		return
	}
	for i := range s.buf {
		s.buf[i] = 0
	}
	s.buf = nil
	s.cleared = true
}

// Cleared reports whether Clear has been called.
func (s *SecureString) Cleared() bool {
	return s.cleared
}

// Len is the secret's length in bytes, 0 once cleared.
func (s *SecureString) Len() int {
	if s.cleared {
		return 0
	}
	return len(s.buf)
}

// WithSecrets wraps each named value, runs fn, and clears every container
// on the way out — on the success path, the error path, and on panic.
func WithSecrets(values map[string]string, fn func(map[string]*SecureString) error) error {
	secrets := make(map[string]*SecureString, len(values))
	for name, value := range values {
		secrets[name] = New(value)
	}
	defer func() {
		for _, s := range secrets {
			s.Clear()
		}
	}()
	return fn(secrets)
}
