package keychain

import (
	"errors"
	"testing"
)

// Unit tests use MemoryStore — no macOS Keychain interaction needed.

func testStore() Store {
	return NewMemoryStore()
}

func TestSetAndGet(t *testing.T) {
	s := testStore()

	if err := s.Set(ServiceSites, "https://example.com", `{"blob":true}`); err != nil {
		t.Fatalf("Set: %v", err)
	}

	val, err := s.Get(ServiceSites, "https://example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != `{"blob":true}` {
		t.Errorf("expected blob, got %q", val)
	}
}

func TestGetNotFound(t *testing.T) {
	s := testStore()

	_, err := s.Get(ServiceSites, "https://nonexistent.example.com")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSetOverwrites(t *testing.T) {
	s := testStore()

	s.Set(ServiceSites, "https://example.com", "first")
	s.Set(ServiceSites, "https://example.com", "second")

	val, err := s.Get(ServiceSites, "https://example.com")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if val != "second" {
		t.Errorf("expected 'second', got %q", val)
	}
}

func TestServicesAreIndependent(t *testing.T) {
	s := testStore()

	s.Set(ServiceSites, "https://example.com", "site-record")
	s.Set(ServiceAPI, "https://example.com", "api-record")

	site, _ := s.Get(ServiceSites, "https://example.com")
	api, _ := s.Get(ServiceAPI, "https://example.com")
	if site != "site-record" || api != "api-record" {
		t.Errorf("namespaces bleed: site=%q api=%q", site, api)
	}

	if _, err := s.Delete(ServiceSites, "https://example.com"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ServiceAPI, "https://example.com"); err != nil {
		t.Errorf("deleting a site record removed the API record: %v", err)
	}
}

func TestDelete(t *testing.T) {
	s := testStore()

	s.Set(ServiceSites, "https://example.com", "to-delete")

	existed, err := s.Delete(ServiceSites, "https://example.com")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !existed {
		t.Error("expected Delete to report an existing record")
	}

	if _, err := s.Get(ServiceSites, "https://example.com"); err == nil {
		t.Error("expected error after delete")
	}
}

func TestDeleteNonexistent(t *testing.T) {
	s := testStore()

	existed, err := s.Delete(ServiceSites, "https://never.example.com")
	if err != nil {
		t.Errorf("Delete nonexistent: %v", err)
	}
	if existed {
		t.Error("expected Delete to report no record")
	}
}

func TestAccounts(t *testing.T) {
	s := testStore()

	s.Set(ServiceAPI, "https://a.example.com", "val")
	s.Set(ServiceAPI, "https://b.example.com", "val")
	s.Set(ServiceSites, "https://c.example.com", "val")

	listed, err := s.Accounts(ServiceAPI)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}

	if len(listed) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(listed))
	}
	if listed[0] != "https://a.example.com" || listed[1] != "https://b.example.com" {
		t.Errorf("unexpected accounts: %v", listed)
	}
}

func TestAccountsEmptyService(t *testing.T) {
	s := testStore()

	listed, err := s.Accounts(ServiceSites)
	if err != nil {
		t.Fatalf("Accounts: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("expected no accounts, got %v", listed)
	}
}
