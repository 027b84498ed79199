package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewLogger(path)

	ts := time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC)

	l.Log(Entry{
		Timestamp: ts,
		Event:     EventCredentialStored,
		Origin:    "https://example.com",
		Success:   true,
	})
	l.Log(Entry{
		Timestamp: ts.Add(time.Minute),
		Event:     EventCredentialRetrieved,
		Origin:    "https://example.com",
		Details:   "Schema validation failed",
		Success:   false,
	})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var e1 Entry
	json.Unmarshal([]byte(lines[0]), &e1)
	if e1.Event != EventCredentialStored {
		t.Errorf("expected credential_stored, got %v", e1.Event)
	}
	if e1.Origin != "https://example.com" {
		t.Errorf("expected origin, got %q", e1.Origin)
	}
	if !e1.Success {
		t.Error("expected success=true")
	}

	var e2 Entry
	json.Unmarshal([]byte(lines[1]), &e2)
	if e2.Event != EventCredentialRetrieved {
		t.Errorf("expected credential_retrieved, got %v", e2.Event)
	}
	if e2.Success {
		t.Error("expected success=false")
	}
	if e2.Details != "Schema validation failed" {
		t.Errorf("details = %q", e2.Details)
	}
}

func TestLoggerAppendsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	NewLogger(path).Log(Entry{Event: EventCredentialStored, Success: true})
	NewLogger(path).Log(Entry{Event: EventCredentialDeleted, Success: true})

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestLoggerDefaultTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l := NewLogger(path)

	before := time.Now().UTC()
	l.Log(Entry{Event: EventLoginFilled, Success: true})
	after := time.Now().UTC()

	data, _ := os.ReadFile(path)
	var e Entry
	json.Unmarshal(data, &e)

	if e.Timestamp.Before(before) || e.Timestamp.After(after) {
		t.Errorf("timestamp %v not between %v and %v", e.Timestamp, before, after)
	}
}

func TestLoggerFilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	NewLogger(path).Log(Entry{Event: EventConfigChanged, Success: true})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600, got %o", perm)
	}
}

func TestLoggerCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "audit.log")
	NewLogger(path).Log(Entry{Event: EventConfigChanged, Success: true})

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat dir: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		t.Errorf("expected dir 0700, got %o", perm)
	}
}

func TestLoggerSwallowsWriteFailures(t *testing.T) {
	// Pointing at a directory makes the open fail; Log must not panic and
	// the caller's flow must be unaffected.
	dir := t.TempDir()
	l := NewLogger(dir)
	l.Log(Entry{Event: EventCredentialStored, Success: true})
}
