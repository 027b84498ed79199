package flows

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/benaskins/agentvault/internal/browser"
	"github.com/benaskins/agentvault/internal/vault"
)

func TestExtractRequestURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
		want string
		ok   bool
	}{
		{
			name: "plain",
			args: []string{"https://api.example.com/v1/users"},
			want: "https://api.example.com/v1/users",
			ok:   true,
		},
		{
			name: "url after options",
			args: []string{"-X", "POST", "-H", "Authorization: Bearer {token}", "https://api.example.com/v1"},
			want: "https://api.example.com/v1",
			ok:   true,
		},
		{
			name: "url inside header value ignored",
			args: []string{"-H", "Referer: https://sneaky.example.net/", "https://api.example.com/"},
			want: "https://api.example.com/",
			ok:   true,
		},
		{
			name: "data value ignored",
			args: []string{"--data", "https://not-the-url.example.net", "-o", "out.json", "https://api.example.com/"},
			want: "https://api.example.com/",
			ok:   true,
		},
		{
			name: "no url",
			args: []string{"-X", "GET", "--silent"},
			ok:   false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := extractRequestURL(tc.args)
			if tc.ok && (err != nil || got != tc.want) {
				t.Errorf("got %q, %v; want %q", got, err, tc.want)
			}
			if !tc.ok && err == nil {
				t.Errorf("got %q, want error", got)
			}
		})
	}
}

func seedAPISet(t *testing.T, env *testEnv, origin string, defaultName string, names ...string) {
	t.Helper()
	for _, name := range names {
		err := env.deps.Store.AddAPICredential(origin, vault.APICredential{
			Name:      name,
			Token:     "tok-" + name,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			t.Fatalf("AddAPICredential(%q): %v", name, err)
		}
	}
	if defaultName != "" {
		if err := env.deps.Store.SetDefaultAPICredential(origin, defaultName); err != nil {
			t.Fatalf("SetDefaultAPICredential: %v", err)
		}
	}
}

func TestCurlInjectsToken(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, browser.NewFakeSession("https://api.example.com/"))
	seedAPISet(t, env, "https://api.example.com", "prod", "prod")

	err := Curl(context.Background(), env.deps, CurlOptions{
		Args: []string{"-H", "Authorization: Bearer {token}", "https://api.example.com/v1/users"},
	})
	if err != nil {
		t.Fatalf("Curl: %v", err)
	}

	if len(env.runCalls) != 1 {
		t.Fatalf("runCalls = %v", env.runCalls)
	}
	call := env.runCalls[0]
	if call[0] != "curl" {
		t.Errorf("spawned %q", call[0])
	}
	joined := strings.Join(call, " ")
	if !strings.Contains(joined, "Bearer tok-prod") {
		t.Errorf("token not substituted: %v", call)
	}
	if strings.Contains(joined, "{token}") {
		t.Errorf("placeholder left in args: %v", call)
	}

	set, _ := env.deps.Store.GetAPISet("https://api.example.com")
	if set.Credentials[0].LastUsedAt == "" {
		t.Error("lastUsedAt not stamped")
	}
}

func TestCurlExplicitCredential(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, browser.NewFakeSession("https://api.example.com/"))
	seedAPISet(t, env, "https://api.example.com", "prod", "prod", "staging")

	err := Curl(context.Background(), env.deps, CurlOptions{
		Args:       []string{"-H", "X-Token: {token}", "https://api.example.com/v1"},
		Credential: "staging",
	})
	if err != nil {
		t.Fatalf("Curl: %v", err)
	}
	if !strings.Contains(strings.Join(env.runCalls[0], " "), "tok-staging") {
		t.Errorf("wrong token: %v", env.runCalls[0])
	}
}

func TestCurlCredentialSelectionErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, browser.NewFakeSession("https://api.example.com/"))

	// No set at all.
	err := Curl(context.Background(), env.deps, CurlOptions{Args: []string{"https://api.example.com/"}})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("err = %v, want ErrNoCredentials", err)
	}

	// Two credentials, no default, none named.
	seedAPISet(t, env, "https://api.example.com", "", "prod", "staging")
	err = Curl(context.Background(), env.deps, CurlOptions{Args: []string{"https://api.example.com/"}})
	if err == nil || !strings.Contains(err.Error(), "--credential") {
		t.Fatalf("err = %v, want selection hint", err)
	}

	// Named credential that does not exist.
	err = Curl(context.Background(), env.deps, CurlOptions{
		Args:       []string{"https://api.example.com/"},
		Credential: "missing",
	})
	if !errors.Is(err, ErrNoCredentials) || !strings.Contains(err.Error(), "missing") {
		t.Fatalf("err = %v, want named ErrNoCredentials", err)
	}

	if len(env.runCalls) != 0 {
		t.Errorf("curl spawned despite selection failures: %v", env.runCalls)
	}
}

func TestCurlSingleCredentialStillNeedsDefault(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, browser.NewFakeSession("https://api.example.com/"))
	seedAPISet(t, env, "https://api.example.com", "", "prod")

	// One stored credential is not an implicit default; selection must be
	// explicit either way.
	err := Curl(context.Background(), env.deps, CurlOptions{Args: []string{"https://api.example.com/"}})
	if err == nil || !strings.Contains(err.Error(), "--credential") {
		t.Fatalf("err = %v, want selection hint", err)
	}
	if len(env.runCalls) != 0 {
		t.Errorf("curl spawned without explicit selection: %v", env.runCalls)
	}

	if err := env.deps.Store.SetDefaultAPICredential("https://api.example.com", "prod"); err != nil {
		t.Fatalf("SetDefaultAPICredential: %v", err)
	}
	if err := Curl(context.Background(), env.deps, CurlOptions{Args: []string{"https://api.example.com/"}}); err != nil {
		t.Fatalf("Curl with default set: %v", err)
	}
}

func TestCurlPropagatesExitCode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, browser.NewFakeSession("https://api.example.com/"))
	seedAPISet(t, env, "https://api.example.com", "prod", "prod")
	env.runExit = 22

	err := Curl(context.Background(), env.deps, CurlOptions{Args: []string{"https://api.example.com/"}})
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("err = %v, want ExitError", err)
	}
	if exitErr.Code != 22 {
		t.Errorf("code = %d, want 22", exitErr.Code)
	}
}
