package main

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/benaskins/agentvault/internal/audit"
	"github.com/benaskins/agentvault/internal/browser"
	"github.com/benaskins/agentvault/internal/config"
	"github.com/benaskins/agentvault/internal/flows"
	"github.com/benaskins/agentvault/internal/keychain"
	"github.com/benaskins/agentvault/internal/password"
	"github.com/benaskins/agentvault/internal/ratelimit"
	"github.com/benaskins/agentvault/internal/vault"
)

// vaultHome returns the path to the vault home directory (~/.agent-vault).
func vaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".agent-vault"), nil
}

func auditPath(home string) string     { return filepath.Join(home, "audit.log") }
func configPath(home string) string    { return filepath.Join(home, "config.json") }
func ratelimitPath(home string) string { return filepath.Join(home, ".ratelimit") }

// buildDeps wires the real components behind the flows layer.
func buildDeps() (*flows.Deps, error) {
	home, err := vaultHome()
	if err != nil {
		return nil, err
	}

	auditLog := audit.NewLogger(auditPath(home))
	limiter := ratelimit.New(ratelimitPath(home), auditLog)
	cfg := config.NewFile(configPath(home))

	store, err := vault.New(keychain.NewSystemStore(), limiter, auditLog)
	if err != nil {
		return nil, err
	}

	return &flows.Deps{
		Store:  store,
		Config: cfg,
		Audit:  auditLog,
		Connect: func(ctx context.Context, endpoint string) (browser.Session, error) {
			return browser.Connect(ctx, endpoint, cfg.CDPAllowlist())
		},
		Prompt:   termPrompter{},
		Generate: func() string { return password.Generate(password.DefaultLength) },
		Run:      runProcess,
		Out:      os.Stdout,
	}, nil
}

// runProcess executes a command directly, wired to the terminal, and
// reports its exit code. No shell is involved.
func runProcess(ctx context.Context, name string, args []string) (int, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return 0, err
}
