// Package flows orchestrates the user-facing vault operations across the
// origin policy, rate limiter, credential store, secure memory, and the
// browser session collaborator.
//
// Flows fail whole: validation and policy errors abort before any
// credential material is read or written, and a partially executed
// register or login never commits. Browser sessions are released on every
// exit path.
package flows

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/browser"
	"github.com/benaskins/agentvault/internal/config"
	"github.com/benaskins/agentvault/internal/vault"
)

// ErrNoCredentials is the uniform "nothing stored" failure. Absent and
// corrupt records surface identically through it.
var ErrNoCredentials = errors.New("no credentials found")

// Prompter supplies the interactive inputs a flow may need. Flows only
// call it when the corresponding non-interactive option is absent.
type Prompter interface {
	// Confirm asks a yes/no question.
	Confirm(message string, defaultYes bool) (bool, error)
	// Input asks for a line of text, offering a default.
	Input(message, defaultValue string) (string, error)
	// Password asks for a secret without echoing it.
	Password(message string) (string, error)
}

// Deps carries every collaborator a flow can touch. Tests swap in fakes;
// the CLI wires the real components.
type Deps struct {
	Store  *vault.Store
	Config *config.File
	Audit  *audit.Logger

	// Connect attaches to the browser behind a CDP endpoint.
	Connect func(ctx context.Context, endpoint string) (browser.Session, error)
	// Prompt handles interactive input.
	Prompt Prompter
	// Generate produces a fresh password.
	Generate func() string
	// Run spawns an external process and returns its exit code. The
	// implementation must exec directly, never through a shell.
	Run func(ctx context.Context, name string, args []string) (int, error)
	// Out receives non-sensitive user-facing confirmations.
	Out io.Writer
}

func (d *Deps) printf(format string, args ...any) {
	if d.Out != nil {
		fmt.Fprintf(d.Out, format, args...)
	}
}
