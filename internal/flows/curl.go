package flows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/origin"
	"github.com/benaskins/agentvault/internal/secmem"
	"github.com/benaskins/agentvault/internal/vault"
)

// tokenPlaceholder is replaced with the selected credential's token in
// every curl argument.
const tokenPlaceholder = "{token}"

// ExitError carries a nonzero exit code from the spawned curl process so
// the CLI can propagate it.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("curl exited with code %d", e.Code)
}

// curl options that consume the following argument, so a value like
// "https://..." inside a header is never mistaken for the request URL.
var curlValueOptions = map[string]bool{
	"-H": true, "--header": true,
	"-d": true, "--data": true,
	"-X": true, "--request": true,
	"-o": true, "--output": true,
	"-u": true, "--user": true,
}

// extractRequestURL finds the request URL among curl arguments.
func extractRequestURL(args []string) (string, error) {
	skipNext := false
	for _, arg := range args {
		if skipNext {
			skipNext = false
			continue
		}
		if curlValueOptions[arg] {
			skipNext = true
			continue
		}
		if strings.HasPrefix(arg, "-") {
			continue
		}
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			return arg, nil
		}
	}
	return "", fmt.Errorf("no request URL found in curl arguments")
}

// CurlOptions are the inputs to Curl.
type CurlOptions struct {
	// Args are passed to curl verbatim apart from token substitution.
	Args []string
	// Credential names the API credential to use; empty selects the
	// origin's default.
	Credential string
}

// Curl runs curl with the {token} placeholder replaced by the API token
// stored for the request URL's origin. The token never appears in the
// vault's own output or audit log; it is handed to curl's argument
// vector directly, with no shell in between.
func Curl(ctx context.Context, d *Deps, opts CurlOptions) error {
	rawURL, err := extractRequestURL(opts.Args)
	if err != nil {
		return err
	}
	target, err := origin.Extract(rawURL)
	if err != nil {
		return err
	}

	set, err := d.Store.GetAPISet(target)
	if err != nil {
		return err
	}
	if set == nil {
		return fmt.Errorf("%w for %s (register one with register-api)", ErrNoCredentials, target)
	}

	var cred *vault.APICredential
	switch {
	case opts.Credential != "":
		cred = set.Credential(opts.Credential)
		if cred == nil {
			return fmt.Errorf("%w: no credential %q for %s", ErrNoCredentials, opts.Credential, target)
		}
	case set.DefaultCredential != "":
		cred = set.Credential(set.DefaultCredential)
	default:
		return fmt.Errorf("no default credential set for %s: pass --credential or set a default", target)
	}

	var exitCode int
	err = secmem.WithSecrets(map[string]string{"token": cred.Token}, func(secrets map[string]*secmem.SecureString) error {
		token, err := secrets["token"].Value()
		if err != nil {
			return err
		}
		args := make([]string, len(opts.Args))
		for i, arg := range opts.Args {
			args[i] = strings.ReplaceAll(arg, tokenPlaceholder, token)
		}
		exitCode, err = d.Run(ctx, "curl", args)
		return err
	})
	if err != nil {
		d.Audit.Log(audit.Entry{Event: audit.EventAPIRequestExecuted, Origin: target, Details: "spawn failed", Success: false})
		return err
	}

	if terr := d.Store.TouchAPICredential(target, cred.Name, time.Now()); terr != nil {
		d.printf("Warning: could not record credential use time.\n")
	}
	d.Audit.Log(audit.Entry{
		Event:   audit.EventAPIRequestExecuted,
		Origin:  target,
		Details: fmt.Sprintf("credential=%s exit=%d", cred.Name, exitCode),
		Success: exitCode == 0,
	})

	if exitCode != 0 {
		return &ExitError{Code: exitCode}
	}
	return nil
}
