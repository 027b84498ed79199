package flows

import (
	"context"
	"fmt"

	"github.com/benaskins/agentvault/internal/origin"
	"github.com/benaskins/agentvault/internal/secmem"
	"github.com/benaskins/agentvault/internal/vault"
)

// RegisterOptions are the inputs to Register. Zero-value fields fall
// back to config values or interactive prompts.
type RegisterOptions struct {
	URL       string
	Endpoint  string
	Selectors vault.Selectors

	// Username comes from the flag; empty falls back to the configured
	// defaultUsername, then to a prompt.
	Username string
	// Password comes from the flag; empty triggers generation or a
	// prompt depending on Generate.
	Password string
	Generate bool

	// Force skips the overwrite confirmation.
	Force bool
	// AllowHTTP permits an http origin for this invocation regardless of
	// the persisted allowHttp setting.
	AllowHTTP bool
}

// Register creates new credentials for a site: validates the origin
// under the full security policy, verifies the live page, fills the form
// with the fresh credentials, and persists them only after every fill
// landed on the expected origin.
func Register(ctx context.Context, d *Deps, opts RegisterOptions) error {
	policyOpts := origin.Options{AllowHTTP: opts.AllowHTTP || d.Config.AllowHTTP()}
	target, err := origin.ExtractAndValidate(opts.URL, policyOpts)
	if err != nil {
		return err
	}

	existing, err := d.Store.GetSite(target)
	if err != nil {
		return err
	}
	if existing != nil && !opts.Force {
		ok, err := d.Prompt.Confirm(fmt.Sprintf("Credentials already exist for %s. Overwrite?", target), false)
		if err != nil {
			return err
		}
		if !ok {
			d.printf("Cancelled.\n")
			return nil
		}
	}

	username := opts.Username
	if username == "" {
		username, err = d.Prompt.Input("Username", d.Config.DefaultUsername())
		if err != nil {
			return err
		}
	}

	password := opts.Password
	generated := false
	if password == "" {
		if opts.Generate {
			password = d.Generate()
			generated = true
		} else {
			password, err = d.Prompt.Password("Password")
			if err != nil {
				return err
			}
		}
	}

	sess, err := d.Connect(ctx, opts.Endpoint)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := verifyOrigin(ctx, sess, target); err != nil {
		return fmt.Errorf("page is not at %s: %w", target, err)
	}

	for _, sel := range []string{opts.Selectors.Username, opts.Selectors.Password} {
		visible, err := sess.ElementVisible(ctx, sel)
		if err != nil {
			return err
		}
		if !visible {
			return fmt.Errorf("form field not found or not visible on page")
		}
	}
	if opts.Selectors.Submit != "" {
		visible, err := sess.ElementVisible(ctx, opts.Selectors.Submit)
		if err == nil && !visible {
			d.printf("Warning: submit selector did not match a visible element.\n")
		}
	}

	err = secmem.WithSecrets(map[string]string{"password": password}, func(secrets map[string]*secmem.SecureString) error {
		if err := verifyOrigin(ctx, sess, target); err != nil {
			return err
		}
		if err := sess.Fill(ctx, opts.Selectors.Username, username); err != nil {
			return err
		}
		if err := verifyOrigin(ctx, sess, target); err != nil {
			return err
		}
		pw, err := secrets["password"].Value()
		if err != nil {
			return err
		}
		if err := sess.Fill(ctx, opts.Selectors.Password, pw); err != nil {
			return err
		}
		if err := verifyOrigin(ctx, sess, target); err != nil {
			return err
		}

		return d.Store.StoreSite(vault.SiteCredential{
			Origin:    target,
			Selectors: opts.Selectors,
			Credentials: vault.Credentials{
				Username: username,
				Password: pw,
			},
		})
	})
	if err != nil {
		return err
	}

	d.printf("Credentials stored for %s\n", target)
	if generated {
		d.printf("Generated password filled into the form; submit to complete registration.\n")
	}
	return nil
}
