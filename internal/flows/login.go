package flows

import (
	"context"
	"fmt"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/origin"
	"github.com/benaskins/agentvault/internal/secmem"
)

// LoginOptions are the inputs to Login.
type LoginOptions struct {
	Endpoint string
	// Submit clicks the stored submit selector after filling.
	Submit bool
}

// Login fills stored credentials into whatever page the browser is
// currently showing. The page's own origin selects the record, and the
// origin is re-verified before the first fill and after every fill: if
// the page navigates anywhere else mid-operation the flow aborts with
// origin.ErrMismatch, with at most already-written fields exposed and
// never a write to the new page.
func Login(ctx context.Context, d *Deps, opts LoginOptions) error {
	sess, err := d.Connect(ctx, opts.Endpoint)
	if err != nil {
		return err
	}
	defer sess.Close()

	rawURL, err := sess.CurrentURL(ctx)
	if err != nil {
		return err
	}
	pageOrigin, err := origin.Extract(rawURL)
	if err != nil {
		return err
	}

	rec, err := d.Store.GetSite(pageOrigin)
	if err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w for %s", ErrNoCredentials, pageOrigin)
	}

	err = secmem.WithSecrets(map[string]string{"password": rec.Credentials.Password}, func(secrets map[string]*secmem.SecureString) error {
		if err := verifyOrigin(ctx, sess, pageOrigin); err != nil {
			return err
		}
		if err := sess.Fill(ctx, rec.Selectors.Username, rec.Credentials.Username); err != nil {
			return err
		}
		if err := verifyOrigin(ctx, sess, pageOrigin); err != nil {
			return err
		}
		pw, err := secrets["password"].Value()
		if err != nil {
			return err
		}
		if err := sess.Fill(ctx, rec.Selectors.Password, pw); err != nil {
			return err
		}
		if err := verifyOrigin(ctx, sess, pageOrigin); err != nil {
			return err
		}

		if opts.Submit {
			if rec.Selectors.Submit == "" {
				d.printf("No submit selector stored; fields filled only.\n")
				return nil
			}
			return sess.Click(ctx, rec.Selectors.Submit)
		}
		return nil
	})
	if err != nil {
		d.Audit.Log(audit.Entry{Event: audit.EventLoginFilled, Origin: pageOrigin, Success: false})
		return err
	}

	d.Audit.Log(audit.Entry{Event: audit.EventLoginFilled, Origin: pageOrigin, Success: true})
	d.printf("Login form filled for %s\n", pageOrigin)
	return nil
}
