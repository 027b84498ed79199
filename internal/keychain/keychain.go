// Package keychain provides OS secret storage for vault records.
//
// Records are stored as generic passwords keyed by (service, account):
//   - Service: one of the vault's two namespaces (site logins, API tokens)
//   - Account: the origin string the record belongs to
//   - Blob: the serialized record
//
// On macOS, secrets are scoped kSecAttrAccessibleWhenUnlockedThisDeviceOnly:
// never synced to iCloud, never available while the machine is locked. The
// OS secret store is the root of trust; this package does not add its own
// encryption layer on top of it.
package keychain

import "errors"

const (
	// ServiceSites is the namespace for site login credential records.
	ServiceSites = "agent-vault"
	// ServiceAPI is the namespace for API token credential sets.
	ServiceAPI = "agent-vault-api"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("secret not found")

// Store is the interface for OS secret storage operations.
type Store interface {
	Set(service, account, blob string) error
	Get(service, account string) (string, error)
	Delete(service, account string) (bool, error)
	Accounts(service string) ([]string, error)
}
