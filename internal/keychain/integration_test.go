//go:build integration

package keychain

import (
	"testing"
)

// Integration tests use real macOS Keychain.
// Run with: go test -tags integration ./internal/keychain/
//
// Requires an unlocked login Keychain and an interactive session
// (first run may prompt for Keychain access approval).

const testService = "agent-vault.test"

func cleanupIntegration(t *testing.T, s *SystemStore, accounts ...string) {
	t.Helper()
	for _, a := range accounts {
		s.Delete(testService, a)
	}
}

func TestKeychainSetAndGet(t *testing.T) {
	s := NewSystemStore()
	account := "https://integration.example.com"
	defer cleanupIntegration(t, s, account)

	if err := s.Set(testService, account, "hello-keychain"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := s.Get(testService, account)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "hello-keychain" {
		t.Errorf("expected 'hello-keychain', got %q", val)
	}
}

func TestKeychainOverwrite(t *testing.T) {
	s := NewSystemStore()
	account := "https://overwrite.example.com"
	defer cleanupIntegration(t, s, account)

	s.Set(testService, account, "first")
	s.Set(testService, account, "second")

	val, err := s.Get(testService, account)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "second" {
		t.Errorf("expected 'second', got %q", val)
	}
}

func TestKeychainDelete(t *testing.T) {
	s := NewSystemStore()
	account := "https://delete.example.com"

	s.Set(testService, account, "to-delete")
	existed, err := s.Delete(testService, account)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !existed {
		t.Error("expected Delete to report an existing record")
	}

	if _, err := s.Get(testService, account); err == nil {
		t.Error("expected error after delete")
	}
}

func TestKeychainAccounts(t *testing.T) {
	s := NewSystemStore()
	accounts := []string{"https://list-a.example.com", "https://list-b.example.com"}
	defer cleanupIntegration(t, s, accounts...)

	for _, a := range accounts {
		s.Set(testService, a, "val")
	}

	listed, err := s.Accounts(testService)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}

	found := make(map[string]bool)
	for _, a := range listed {
		found[a] = true
	}
	for _, a := range accounts {
		if !found[a] {
			t.Errorf("expected %q in accounts, not found", a)
		}
	}
}
