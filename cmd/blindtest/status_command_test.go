package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStatusCommandReportsAvailability(t *testing.T) {
	binDir := t.TempDir()
	script := []byte("#!/bin/sh\nexit 0\n")
	for _, name := range []string{"ffmpeg", "ffprobe"} {
		if err := os.WriteFile(filepath.Join(binDir, name), script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir)

	configPath, _ := writeTestConfig(t, "")
	out, err := runCLI(t, configPath, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "ok")
}

func TestStatusCommandFailsWhenToolsMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	configPath, _ := writeTestConfig(t, "")
	out, err := runCLI(t, configPath, "status")
	if err == nil {
		t.Fatal("expected error when tools are missing")
	}
	requireContains(t, out, "not found")
}
