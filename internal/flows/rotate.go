package flows

import (
	"context"
	"fmt"

	"github.com/benaskins/agentvault/internal/origin"
	"github.com/benaskins/agentvault/internal/secmem"
)

// RotateOptions are the inputs to Rotate.
type RotateOptions struct {
	URL string
	// Password is the replacement from the flag; empty triggers
	// generation or a prompt depending on Generate.
	Password string
	Generate bool
	// Force skips the confirmation prompt.
	Force bool
}

// Rotate replaces the stored password for a site. It never touches the
// browser: updating the password on the site itself is the caller's job,
// typically via the site's change-password form after a login. A
// generated password is acknowledged but never printed.
func Rotate(ctx context.Context, d *Deps, opts RotateOptions) error {
	target, err := origin.Extract(opts.URL)
	if err != nil {
		return err
	}

	rec, err := d.Store.GetSite(target)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w for %s", ErrNoCredentials, target)
	}

	if !opts.Force {
		ok, err := d.Prompt.Confirm(fmt.Sprintf("Rotate the stored password for %s?", target), false)
		if err != nil {
			return err
		}
		if !ok {
			d.printf("Cancelled.\n")
			return nil
		}
	}

	password := opts.Password
	generated := false
	if password == "" {
		if opts.Generate {
			password = d.Generate()
			generated = true
		} else {
			password, err = d.Prompt.Password("New password")
			if err != nil {
				return err
			}
		}
	}

	err = secmem.WithSecrets(map[string]string{"password": password}, func(secrets map[string]*secmem.SecureString) error {
		pw, err := secrets["password"].Value()
		if err != nil {
			return err
		}
		rec.Credentials.Password = pw
		return d.Store.StoreSite(*rec)
	})
	if err != nil {
		return err
	}

	d.printf("Password rotated for %s\n", target)
	if generated {
		d.printf("New secure password generated\n")
	}
	return nil
}
