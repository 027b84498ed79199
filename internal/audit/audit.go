// Package audit provides append-only structured logging for every
// security-relevant vault action.
//
// Entries are newline-delimited JSON in ~/.agent-vault/audit.log. The
// entry shape has no field capable of holding a username, password, or
// token, so credential material cannot leak into the log by construction.
// Logging is fire-and-forget: an audit I/O failure must never mask or
// replace the error of the operation being audited.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event describes what happened.
type Event string

const (
	EventCredentialStored    Event = "credential_stored"
	EventCredentialRetrieved Event = "credential_retrieved"
	EventCredentialDeleted   Event = "credential_deleted"
	EventLoginFilled         Event = "login_filled"
	EventConfigChanged       Event = "config_changed"
	EventRateLimitExceeded   Event = "rate_limit_exceeded"

	EventAPICredentialStored  Event = "api_credential_stored"
	EventAPICredentialListed  Event = "api_credential_listed"
	EventAPICredentialDeleted Event = "api_credential_deleted"
	EventAPIRequestExecuted   Event = "api_request_executed"
)

// Entry is a single audit record. Origins, operation names, counts, and
// outcomes only — never secret values.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Event     Event     `json:"event"`
	Origin    string    `json:"origin,omitempty"`
	Details   string    `json:"details,omitempty"`
	Success   bool      `json:"success"`
}

// Logger appends entries to an audit log file, creating the directory on
// demand with restrictive permissions.
type Logger struct {
	mu   sync.Mutex
	path string
}

// NewLogger returns a logger targeting path. The file is opened lazily on
// first write so a read-only invocation never creates it.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// Log appends an entry. A zero Timestamp is filled with the current time.
// All errors are swallowed: audit logging never breaks the primary flow.
// A nil logger discards everything.
func (l *Logger) Log(entry Entry) {
	if l == nil {
		return
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	f.Write(append(data, '\n'))
}

// Path returns the audit log location, for admin/debug use.
func (l *Logger) Path() string {
	return l.path
}
