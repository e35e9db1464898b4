package main

import (
	"os"
	"testing"
)

func TestLogsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	if err := os.MkdirAll(env.cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	requireContains(t, env.mustRun(t, "logs"), "No log entries")

	if err := os.WriteFile(env.cfg.LogPath(), []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	out := env.mustRun(t, "logs", "-n", "2")
	requireContains(t, out, "second")
	requireContains(t, out, "third")
	requireNotContains(t, out, "first")
}
