// Package hooks runs post-create commands through the platform shell.
// Commands arrive already variable-substituted; each one is executed in
// the created structure's root directory with output and exit status
// captured, and a failing hook never stops the ones after it.
package hooks

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/sprout/pkg/config"
	"github.com/arthur-debert/sprout/pkg/logging"
	"github.com/arthur-debert/sprout/pkg/types"
)

// Runner executes hook command lines with a per-command timeout.
type Runner struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRunner builds a Runner with the timeout from cfg.
func NewRunner(cfg config.HooksConfig) *Runner {
	return &Runner{
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logging.GetLogger("hooks"),
	}
}

// Run executes one command line in workdir through the platform shell and
// reports the outcome. A command that cannot start is a failed result, not
// an error.
func (r *Runner) Run(ctx context.Context, command, workdir string) types.HookResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	shell, flag := platformShell()
	cmd := exec.CommandContext(ctx, shell, flag, command)
	cmd.Dir = workdir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().
		Str("command", command).
		Str("workdir", workdir).
		Msg("running hook")

	err := cmd.Run()

	result := types.HookResult{
		Command: command,
		Success: err == nil,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		code := 0
		result.ExitCode = &code

	case stderrors.As(err, &exitErr):
		// A signal-killed process has no exit code.
		if code := exitErr.ExitCode(); code >= 0 {
			result.ExitCode = &code
		}
		if stderrors.Is(ctx.Err(), context.DeadlineExceeded) && result.Stderr == "" {
			result.Stderr = fmt.Sprintf("Hook timed out after %s", r.timeout)
		}

	default:
		result.Stderr = fmt.Sprintf("Failed to execute command: %v", err)
	}

	r.logger.Debug().
		Str("command", command).
		Bool("success", result.Success).
		Msg("hook finished")
	return result
}

// platformShell returns the shell and its command flag for this OS.
func platformShell() (string, string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/C"
	}
	return "sh", "-c"
}
