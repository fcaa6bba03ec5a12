package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes ffmpeg invocations. The production implementation shells
// out; tests substitute a recorder to assert on the argument lists.
type Runner interface {
	Run(ctx context.Context, args ...string) error
}

// ExecRunner runs the configured ffmpeg binary as a subprocess.
type ExecRunner struct {
	binary string
}

// NewExecRunner builds an ExecRunner for the given binary name.
func NewExecRunner(binary string) *ExecRunner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &ExecRunner{binary: binary}
}

// Run executes ffmpeg with -hide_banner and error-only logging prepended.
// Stderr is folded into the returned error so callers get the actual
// failure message rather than just an exit code.
func (r *ExecRunner) Run(ctx context.Context, args ...string) error {
	full := append([]string{"-hide_banner", "-loglevel", "error", "-y"}, args...)
	cmd := exec.CommandContext(ctx, r.binary, full...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail == "" {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return fmt.Errorf("ffmpeg: %w: %s", err, detail)
	}
	return nil
}
