package flows

import (
	"context"
	"fmt"
	"time"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/origin"
	"github.com/benaskins/agentvault/internal/vault"
)

// RegisterAPIOptions are the inputs to RegisterAPI.
type RegisterAPIOptions struct {
	URL         string
	Name        string
	Description string
	// Token comes from the flag; empty triggers a hidden prompt.
	Token string
	// SetDefault marks this credential as the origin's default.
	SetDefault bool
	// Force overwrites an existing credential of the same name without
	// confirmation.
	Force bool
	// AllowHTTP permits an http origin for this invocation.
	AllowHTTP bool
}

// RegisterAPI stores a named API token for an origin. Multiple tokens
// can coexist under one origin; names are unique within it.
func RegisterAPI(ctx context.Context, d *Deps, opts RegisterAPIOptions) error {
	policyOpts := origin.Options{AllowHTTP: opts.AllowHTTP || d.Config.AllowHTTP()}
	target, err := origin.ExtractAndValidate(opts.URL, policyOpts)
	if err != nil {
		return err
	}
	if opts.Name == "" {
		return fmt.Errorf("credential name is required")
	}

	set, err := d.Store.GetAPISet(target)
	if err != nil {
		return err
	}
	if set != nil && set.Credential(opts.Name) != nil && !opts.Force {
		ok, err := d.Prompt.Confirm(fmt.Sprintf("Credential %q already exists for %s. Overwrite?", opts.Name, target), false)
		if err != nil {
			return err
		}
		if !ok {
			d.printf("Cancelled.\n")
			return nil
		}
	}

	token := opts.Token
	if token == "" {
		token, err = d.Prompt.Password("API token")
		if err != nil {
			return err
		}
	}

	cred := vault.APICredential{
		Name:        opts.Name,
		Description: opts.Description,
		Token:       token,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := d.Store.AddAPICredential(target, cred); err != nil {
		return err
	}
	if opts.SetDefault {
		if err := d.Store.SetDefaultAPICredential(target, opts.Name); err != nil {
			return err
		}
	}

	d.printf("API credential %q stored for %s\n", opts.Name, target)
	return nil
}

// ListCredentialsOptions are the inputs to ListCredentials.
type ListCredentialsOptions struct {
	// URL scopes the listing to one origin; empty lists every origin
	// that has API credentials.
	URL string
}

// ListCredentials prints stored API credential metadata. Token values
// are never printed.
func ListCredentials(ctx context.Context, d *Deps, opts ListCredentialsOptions) error {
	if opts.URL == "" {
		origins, err := d.Store.ListAPIOrigins()
		if err != nil {
			return err
		}
		if len(origins) == 0 {
			d.printf("No API credentials stored.\n")
			return nil
		}
		for _, o := range origins {
			d.printf("%s\n", o)
		}
		return nil
	}

	target, err := origin.Extract(opts.URL)
	if err != nil {
		return err
	}
	set, err := d.Store.GetAPISet(target)
	if err != nil {
		return err
	}
	if set == nil {
		return fmt.Errorf("%w for %s", ErrNoCredentials, target)
	}

	d.printf("API credentials for %s:\n", target)
	for _, c := range set.Credentials {
		marker := ""
		if c.Name == set.DefaultCredential {
			marker = " (default)"
		}
		d.printf("  %s%s", c.Name, marker)
		if c.Description != "" {
			d.printf(" - %s", c.Description)
		}
		d.printf("\n")
		d.printf("    created: %s", c.CreatedAt)
		if c.LastUsedAt != "" {
			d.printf("  last used: %s", c.LastUsedAt)
		}
		d.printf("\n")
	}
	d.Audit.Log(audit.Entry{Event: audit.EventAPICredentialListed, Origin: target, Details: fmt.Sprintf("%d credentials", len(set.Credentials)), Success: true})
	return nil
}

// DeleteCredentialOptions are the inputs to DeleteCredential.
type DeleteCredentialOptions struct {
	URL  string
	Name string
	// Force skips the confirmation prompt.
	Force bool
}

// DeleteCredential removes one named API credential from an origin.
func DeleteCredential(ctx context.Context, d *Deps, opts DeleteCredentialOptions) error {
	target, err := origin.Extract(opts.URL)
	if err != nil {
		return err
	}

	if !opts.Force {
		ok, err := d.Prompt.Confirm(fmt.Sprintf("Delete API credential %q for %s?", opts.Name, target), false)
		if err != nil {
			return err
		}
		if !ok {
			d.printf("Cancelled.\n")
			return nil
		}
	}

	removed, err := d.Store.DeleteAPICredential(target, opts.Name)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: no credential %q for %s", ErrNoCredentials, opts.Name, target)
	}
	d.printf("API credential %q deleted for %s\n", opts.Name, target)
	return nil
}
