package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestConfig writes a minimal config file rooted in a fresh temp
// directory and returns its path plus the base directory.
func writeTestConfig(t *testing.T, extra string) (string, string) {
	t.Helper()

	base := t.TempDir()
	content := fmt.Sprintf(`[paths]
output_dir = %q
state_dir = %q
log_dir = %q

[logging]
format = "json"
level = "error"
%s`,
		filepath.Join(base, "out"),
		filepath.Join(base, "state"),
		filepath.Join(base, "logs"),
		extra,
	)

	configPath := filepath.Join(base, "config.toml")
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath, base
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
