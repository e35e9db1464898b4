package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"github.com/amirgolp/flashcard/internal/config"
	"github.com/amirgolp/flashcard/internal/services/telegram"
	"github.com/amirgolp/flashcard/internal/testsupport"
	"github.com/amirgolp/flashcard/internal/testsupport/fakeapi"
)

const testUser = "anna"

type cliTestEnv struct {
	srv        *fakeapi.Server
	cfg        *config.Config
	configPath string
	baseDir    string
	rootOpts   []rootOption
}

func setupCLITestEnv(t *testing.T, opts ...fakeapi.Option) *cliTestEnv {
	t.Helper()

	for _, key := range []string{config.EnvAPIURL, config.EnvLogLevel, config.EnvStateDir} {
		t.Setenv(key, "")
	}
	srv := fakeapi.Start(t, opts...)
	cfg := testsupport.NewConfig(t, testsupport.WithAPIURL(srv.URL))
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		srv:        srv,
		cfg:        cfg,
		configPath: configPath,
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return e.runWithInput(t, "", args...)
}

func (e *cliTestEnv) runWithInput(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(e.rootOpts...)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

// mustRun runs the CLI and fails the test on error.
func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("flashcard %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

// mustRunJSON runs the CLI with --json and decodes stdout into v.
func (e *cliTestEnv) mustRunJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	out := e.mustRun(t, append([]string{"--json"}, args...)...)
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %s output: %v\n%s", strings.Join(args, " "), err, out)
	}
}

func (e *cliTestEnv) login(t *testing.T) {
	t.Helper()
	if _, err := e.srv.AddUser(testUser, fakeapi.DefaultPassword); err != nil {
		t.Fatalf("add user: %v", err)
	}
	e.mustRun(t, "login", "-u", testUser, "-p", fakeapi.DefaultPassword)
}

func withTelegramOptions(opts ...telegram.Option) rootOption {
	return func(c *commandContext) {
		c.telegramOptions = opts
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func requireNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected %q not to contain %q", haystack, needle)
	}
}
