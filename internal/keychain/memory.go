package keychain

import (
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for testing.
type MemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]map[string]string // service -> account -> blob
}

// NewMemoryStore creates a new in-memory secret store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{secrets: make(map[string]map[string]string)}
}

func (s *MemoryStore) Set(service, account, blob string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.secrets[service] == nil {
		s.secrets[service] = make(map[string]string)
	}
	s.secrets[service][account] = blob
	return nil
}

func (s *MemoryStore) Get(service, account string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.secrets[service][account]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, account)
	}
	return blob, nil
}

func (s *MemoryStore) Delete(service, account string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.secrets[service][account]; !ok {
		return false, nil
	}
	delete(s.secrets[service], account)
	return true, nil
}

func (s *MemoryStore) Accounts(service string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]string, 0, len(s.secrets[service]))
	for a := range s.secrets[service] {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return accounts, nil
}
