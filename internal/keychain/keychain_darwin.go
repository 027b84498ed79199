//go:build darwin

package keychain

import (
	"errors"
	"fmt"

	gokeychain "github.com/keybase/go-keychain"
)

// SystemStore provides CRUD operations for secrets in macOS Keychain.
type SystemStore struct{}

// NewSystemStore creates a new Keychain-backed secret store.
func NewSystemStore() *SystemStore {
	return &SystemStore{}
}

// Set stores a record in the Keychain. Overwrites if it already exists.
func (s *SystemStore) Set(service, account, blob string) error {
	// Update = delete + add.
	_, _ = s.Delete(service, account)

	item := gokeychain.NewGenericPassword(
		service,
		account,
		fmt.Sprintf("%s: %s", service, account),
		[]byte(blob),
		"",
	)
	item.SetSynchronizable(gokeychain.SynchronizableNo)
	item.SetAccessible(gokeychain.AccessibleWhenUnlockedThisDeviceOnly)

	if err := gokeychain.AddItem(item); err != nil {
		return fmt.Errorf("keychain add %q: %w", account, err)
	}
	return nil
}

// Get retrieves a record from the Keychain.
func (s *SystemStore) Get(service, account string) (string, error) {
	data, err := gokeychain.GetGenericPassword(service, account, "", "")
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, account)
		}
		return "", fmt.Errorf("keychain get %q: %w", account, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, account)
	}
	return string(data), nil
}

// Delete removes a record, reporting whether one existed.
func (s *SystemStore) Delete(service, account string) (bool, error) {
	err := gokeychain.DeleteGenericPasswordItem(service, account)
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("keychain delete %q: %w", account, err)
	}
	return true, nil
}

// Accounts returns all account names stored under a service.
func (s *SystemStore) Accounts(service string) ([]string, error) {
	accounts, err := gokeychain.GetGenericPasswordAccounts(service)
	if err != nil {
		if errors.Is(err, gokeychain.ErrorItemNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("keychain list: %w", err)
	}
	return accounts, nil
}
