package flows

import (
	"context"
	"fmt"

	"github.com/benaskins/agentvault/internal/origin"
)

// DeleteOptions are the inputs to Delete.
type DeleteOptions struct {
	URL string
	// Force skips the confirmation prompt.
	Force bool
}

// Delete removes the stored site credentials for an origin.
func Delete(ctx context.Context, d *Deps, opts DeleteOptions) error {
	target, err := origin.Extract(opts.URL)
	if err != nil {
		return err
	}

	if !opts.Force {
		ok, err := d.Prompt.Confirm(fmt.Sprintf("Delete credentials for %s?", target), false)
		if err != nil {
			return err
		}
		if !ok {
			d.printf("Cancelled.\n")
			return nil
		}
	}

	existed, err := d.Store.DeleteSite(target)
	if err != nil {
		return err
	}
	if !existed {
		return fmt.Errorf("%w for %s", ErrNoCredentials, target)
	}
	d.printf("Credentials deleted for %s\n", target)
	return nil
}
