// Package vault is the schema-validated serialization layer on top of the
// OS secret store.
//
// It owns two independent record kinds: site login credentials (one record
// per origin) and API token credential sets (one set of named tokens per
// origin). Every operation passes through the rate limiter first and emits
// an audit entry after, with Success reflecting whether a value was
// actually found, stored, or deleted.
//
// The failure mode toward callers is deliberately coarse: corrupt JSON,
// schema violations, and backend errors all read back as "no credential",
// so a caller cannot distinguish a wrong origin from an internal fault.
// Only rate-limit errors pass through distinctly — those mean "try again
// later", not "this will never succeed".
package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/keychain"
	"github.com/benaskins/agentvault/internal/ratelimit"
)

var (
	// ErrInvalidRecord is returned when a record fails schema validation
	// before a write.
	ErrInvalidRecord = errors.New("invalid credential record")

	// ErrDuplicateName is returned when an API credential set carries two
	// credentials with the same name.
	ErrDuplicateName = errors.New("duplicate credential name")
)

// Store validates, serializes, and persists credential records.
type Store struct {
	secrets keychain.Store
	limiter *ratelimit.Limiter
	audit   *audit.Logger

	siteSchema   *jsonschema.Schema
	apiSetSchema *jsonschema.Schema
}

// New builds a Store over the given secret store, rate limiter, and audit
// logger.
func New(secrets keychain.Store, limiter *ratelimit.Limiter, auditLog *audit.Logger) (*Store, error) {
	site, apiSet, err := compileSchemas()
	if err != nil {
		return nil, err
	}
	return &Store{
		secrets:      secrets,
		limiter:      limiter,
		audit:        auditLog,
		siteSchema:   site,
		apiSetSchema: apiSet,
	}, nil
}

// StoreSite validates and persists a site credential record, overwriting
// any existing record for the origin.
func (s *Store) StoreSite(rec SiteCredential) error {
	if err := s.limiter.Check("store_credentials"); err != nil {
		return err
	}
	if err := validateAgainst(s.siteSchema, rec, rec.Origin); err != nil {
		return err
	}

	blob, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := s.secrets.Set(keychain.ServiceSites, rec.Origin, string(blob)); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventCredentialStored, Origin: rec.Origin, Success: false})
		return fmt.Errorf("storing credentials: %w", err)
	}
	s.audit.Log(audit.Entry{Event: audit.EventCredentialStored, Origin: rec.Origin, Success: true})
	return nil
}

// GetSite returns the record for an origin, or nil when absent. A record
// that fails post-read validation reads back as absent: tampering with
// the secret store must not produce a different observable outcome than
// never registering.
func (s *Store) GetSite(origin string) (*SiteCredential, error) {
	if err := s.limiter.Check("get_credentials"); err != nil {
		return nil, err
	}

	blob, err := s.secrets.Get(keychain.ServiceSites, origin)
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			s.audit.Log(audit.Entry{Event: audit.EventCredentialRetrieved, Origin: origin, Success: false})
		} else {
			s.audit.Log(audit.Entry{Event: audit.EventCredentialRetrieved, Origin: origin, Details: "Internal error", Success: false})
		}
		return nil, nil
	}

	var rec SiteCredential
	if err := json.Unmarshal([]byte(blob), &rec); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventCredentialRetrieved, Origin: origin, Details: "Corrupted data", Success: false})
		return nil, nil
	}
	if err := validateAgainst(s.siteSchema, rec, rec.Origin); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventCredentialRetrieved, Origin: origin, Details: "Schema validation failed", Success: false})
		return nil, nil
	}
	if rec.Origin != origin {
		s.audit.Log(audit.Entry{Event: audit.EventCredentialRetrieved, Origin: origin, Details: "Origin mismatch", Success: false})
		return nil, nil
	}

	s.audit.Log(audit.Entry{Event: audit.EventCredentialRetrieved, Origin: origin, Success: true})
	return &rec, nil
}

// DeleteSite removes the record for an origin, reporting whether one
// existed.
func (s *Store) DeleteSite(origin string) (bool, error) {
	if err := s.limiter.Check("delete_credentials"); err != nil {
		return false, err
	}

	existed, err := s.secrets.Delete(keychain.ServiceSites, origin)
	if err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventCredentialDeleted, Origin: origin, Details: "Internal error", Success: false})
		return false, nil
	}
	s.audit.Log(audit.Entry{Event: audit.EventCredentialDeleted, Origin: origin, Success: existed})
	return existed, nil
}

// ListSites returns the origins with stored site credentials.
func (s *Store) ListSites() ([]string, error) {
	if err := s.limiter.Check("list_credentials"); err != nil {
		return nil, err
	}
	return s.secrets.Accounts(keychain.ServiceSites)
}

// StoreAPISet validates and persists an API credential set, overwriting
// any existing set for the origin. Rejects duplicate names and a default
// that references no credential.
func (s *Store) StoreAPISet(set APICredentialSet) error {
	if err := s.limiter.Check("store_api_credentials"); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(set.Credentials))
	for _, c := range set.Credentials {
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, c.Name)
		}
		seen[c.Name] = struct{}{}
	}
	if set.DefaultCredential != "" {
		if _, ok := seen[set.DefaultCredential]; !ok {
			return fmt.Errorf("%w: default credential %q does not exist", ErrInvalidRecord, set.DefaultCredential)
		}
	}
	if err := validateAgainst(s.apiSetSchema, set, set.Origin); err != nil {
		return err
	}

	blob, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := s.secrets.Set(keychain.ServiceAPI, set.Origin, string(blob)); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialStored, Origin: set.Origin, Success: false})
		return fmt.Errorf("storing API credentials: %w", err)
	}
	s.audit.Log(audit.Entry{Event: audit.EventAPICredentialStored, Origin: set.Origin, Details: fmt.Sprintf("%d credentials", len(set.Credentials)), Success: true})
	return nil
}

// GetAPISet returns the API credential set for an origin, or nil when
// absent or invalid, with the same coarse failure mode as GetSite.
func (s *Store) GetAPISet(origin string) (*APICredentialSet, error) {
	if err := s.limiter.Check("get_api_credentials"); err != nil {
		return nil, err
	}
	return s.getAPISetUnmetered(origin)
}

// getAPISetUnmetered is the internal read used by compound operations
// that already consumed a rate-limit slot.
func (s *Store) getAPISetUnmetered(origin string) (*APICredentialSet, error) {
	blob, err := s.secrets.Get(keychain.ServiceAPI, origin)
	if err != nil {
		return nil, nil
	}

	var set APICredentialSet
	if err := json.Unmarshal([]byte(blob), &set); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialListed, Origin: origin, Details: "Corrupted data", Success: false})
		return nil, nil
	}
	if err := validateAgainst(s.apiSetSchema, set, set.Origin); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialListed, Origin: origin, Details: "Schema validation failed", Success: false})
		return nil, nil
	}
	if set.Origin != origin {
		return nil, nil
	}
	return &set, nil
}

// ListAPIOrigins returns the origins with stored API credential sets.
func (s *Store) ListAPIOrigins() ([]string, error) {
	if err := s.limiter.Check("list_api_credentials"); err != nil {
		return nil, err
	}
	return s.secrets.Accounts(keychain.ServiceAPI)
}

// AddAPICredential inserts a credential into an origin's set, replacing
// any existing credential with the same name. A set is created on first
// use.
func (s *Store) AddAPICredential(origin string, cred APICredential) error {
	if err := s.limiter.Check("store_api_credentials"); err != nil {
		return err
	}

	set, err := s.getAPISetUnmetered(origin)
	if err != nil {
		return err
	}
	if set == nil {
		set = &APICredentialSet{Origin: origin}
	}

	replaced := false
	for i := range set.Credentials {
		if set.Credentials[i].Name == cred.Name {
			set.Credentials[i] = cred
			replaced = true
			break
		}
	}
	if !replaced {
		set.Credentials = append(set.Credentials, cred)
	}

	if err := s.writeAPISet(*set); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialStored, Origin: origin, Success: false})
		return err
	}
	s.audit.Log(audit.Entry{Event: audit.EventAPICredentialStored, Origin: origin, Success: true})
	return nil
}

// SetDefaultAPICredential marks the named credential as the origin's
// default. The credential must exist.
func (s *Store) SetDefaultAPICredential(origin, name string) error {
	if err := s.limiter.Check("store_api_credentials"); err != nil {
		return err
	}

	set, err := s.getAPISetUnmetered(origin)
	if err != nil {
		return err
	}
	if set == nil || set.Credential(name) == nil {
		return fmt.Errorf("%w: credential %q does not exist for %s", ErrInvalidRecord, name, origin)
	}
	set.DefaultCredential = name
	return s.writeAPISet(*set)
}

// DeleteAPICredential removes the named credential from an origin's set.
// Deleting the last credential deletes the whole set; deleting the
// credential the default points at clears the default.
func (s *Store) DeleteAPICredential(origin, name string) (bool, error) {
	if err := s.limiter.Check("delete_api_credentials"); err != nil {
		return false, err
	}

	set, err := s.getAPISetUnmetered(origin)
	if err != nil || set == nil {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialDeleted, Origin: origin, Success: false})
		return false, nil
	}

	kept := set.Credentials[:0]
	removed := false
	for _, c := range set.Credentials {
		if c.Name == name {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	if !removed {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialDeleted, Origin: origin, Success: false})
		return false, nil
	}
	set.Credentials = kept

	if len(set.Credentials) == 0 {
		if _, err := s.secrets.Delete(keychain.ServiceAPI, origin); err != nil {
			s.audit.Log(audit.Entry{Event: audit.EventAPICredentialDeleted, Origin: origin, Details: "Internal error", Success: false})
			return false, nil
		}
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialDeleted, Origin: origin, Details: "Last credential removed, set deleted", Success: true})
		return true, nil
	}

	if set.DefaultCredential == name {
		set.DefaultCredential = ""
	}
	if err := s.writeAPISet(*set); err != nil {
		s.audit.Log(audit.Entry{Event: audit.EventAPICredentialDeleted, Origin: origin, Details: "Internal error", Success: false})
		return false, nil
	}
	s.audit.Log(audit.Entry{Event: audit.EventAPICredentialDeleted, Origin: origin, Success: true})
	return true, nil
}

// TouchAPICredential stamps lastUsedAt on the named credential. Rides on
// an access the caller already paid the rate-limit cost for.
func (s *Store) TouchAPICredential(origin, name string, at time.Time) error {
	set, err := s.getAPISetUnmetered(origin)
	if err != nil || set == nil {
		return nil
	}
	cred := set.Credential(name)
	if cred == nil {
		return nil
	}
	cred.LastUsedAt = at.UTC().Format(time.RFC3339)
	return s.writeAPISet(*set)
}

// writeAPISet validates and persists a set without touching the limiter.
func (s *Store) writeAPISet(set APICredentialSet) error {
	if err := validateAgainst(s.apiSetSchema, set, set.Origin); err != nil {
		return err
	}
	blob, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := s.secrets.Set(keychain.ServiceAPI, set.Origin, string(blob)); err != nil {
		return fmt.Errorf("storing API credentials: %w", err)
	}
	return nil
}
