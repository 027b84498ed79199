// Package config holds persistent vault configuration in
// ~/.agent-vault/config.json.
//
// The key set is fixed and enumerated; get/set/unset reject anything
// else. Writes take an exclusive file lock with bounded retries around
// the read-modify-write cycle, so concurrent CLI invocations serialize
// rather than clobber each other.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const (
	// KeyDefaultUsername pre-fills the username prompt at registration.
	KeyDefaultUsername = "defaultUsername"
	// KeyAllowHTTP permits plain-http origins when "true".
	KeyAllowHTTP = "allowHttp"
	// KeyCDPAllowlist is the comma-separated list of hostnames CDP
	// endpoints may resolve to.
	KeyCDPAllowlist = "cdpAllowlist"
)

// DefaultCDPAllowlist is used when cdpAllowlist is unset.
const DefaultCDPAllowlist = "127.0.0.1,localhost,::1"

const lockTimeout = 5 * time.Second

// ErrUnknownKey is returned for keys outside the enumerated set.
var ErrUnknownKey = errors.New("unknown config key")

var validKeys = map[string]bool{
	KeyDefaultUsername: true,
	KeyAllowHTTP:       true,
	KeyCDPAllowlist:    true,
}

// ValidKeys returns the enumerated key set, sorted.
func ValidKeys() []string {
	keys := make([]string, 0, len(validKeys))
	for k := range validKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func checkKey(key string) error {
	if !validKeys[key] {
		return fmt.Errorf("%w: %q (valid keys: %s)", ErrUnknownKey, key, strings.Join(ValidKeys(), ", "))
	}
	return nil
}

// File is a handle to the config file.
type File struct {
	path string
}

// NewFile returns a handle for the config file at path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Load reads the whole config map. A missing file is an empty config; a
// corrupt file is treated the same, with a warning.
func (f *File) Load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	cfg := map[string]string{}
	if err := json.Unmarshal(data, &cfg); err != nil {
		slog.Warn("corrupt config file, treating as empty", "path", f.path, "error", err)
		return map[string]string{}, nil
	}
	return cfg, nil
}

// Get returns the value for an enumerated key and whether it is set.
func (f *File) Get(key string) (string, bool, error) {
	if err := checkKey(key); err != nil {
		return "", false, err
	}
	cfg, err := f.Load()
	if err != nil {
		return "", false, err
	}
	v, ok := cfg[key]
	return v, ok, nil
}

// Set writes a value for an enumerated key under an exclusive lock.
func (f *File) Set(key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if key == KeyAllowHTTP {
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("%s must be true or false, got %q", KeyAllowHTTP, value)
		}
	}
	return f.update(func(cfg map[string]string) {
		cfg[key] = value
	})
}

// Unset removes an enumerated key, reporting whether it was set.
func (f *File) Unset(key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	removed := false
	err := f.update(func(cfg map[string]string) {
		if _, ok := cfg[key]; ok {
			delete(cfg, key)
			removed = true
		}
	})
	return removed, err
}

// update serializes the read-modify-write cycle across processes with an
// exclusive flock, retried on an interval until the lock timeout.
func (f *File) update(mutate func(map[string]string)) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	lock := flock.New(f.path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil {
		return fmt.Errorf("locking config: %w", err)
	}
	if !locked {
		return errors.New("locking config: timed out")
	}
	defer lock.Unlock()

	cfg, err := f.Load()
	if err != nil {
		return err
	}
	mutate(cfg)

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	tmpPath := f.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmpPath, f.path)
}

// DefaultUsername returns the configured default username, if any.
func (f *File) DefaultUsername() string {
	v, _, err := f.Get(KeyDefaultUsername)
	if err != nil {
		return ""
	}
	return v
}

// AllowHTTP reports whether plain-http origins are permitted by config.
func (f *File) AllowHTTP() bool {
	v, ok, err := f.Get(KeyAllowHTTP)
	if err != nil || !ok {
		return false
	}
	allowed, err := strconv.ParseBool(v)
	return err == nil && allowed
}

// CDPAllowlist returns the hostnames CDP endpoints may use.
func (f *File) CDPAllowlist() []string {
	v, ok, err := f.Get(KeyCDPAllowlist)
	if err != nil || !ok || strings.TrimSpace(v) == "" {
		v = DefaultCDPAllowlist
	}
	parts := strings.Split(v, ",")
	hosts := make([]string, 0, len(parts))
	for _, p := range parts {
		if h := strings.TrimSpace(p); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}
