package vcs

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
)

// CommandExecutor runs prepared commands
type CommandExecutor interface {
	// Execute runs cmd, discarding its stdout
	Execute(ctx context.Context, cmd *exec.Cmd) error

	// ExecuteWithOutput runs cmd and returns its stdout
	ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error)
}

// ExecExecutor is the default CommandExecutor, delegating to os/exec
type ExecExecutor struct{}

// NewExecExecutor creates a new ExecExecutor
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{}
}

// Execute implements CommandExecutor.Execute
func (e *ExecExecutor) Execute(ctx context.Context, cmd *exec.Cmd) error {
	_, err := e.ExecuteWithOutput(ctx, cmd)
	return err
}

// ExecuteWithOutput implements CommandExecutor.ExecuteWithOutput.
// A non-zero exit becomes a VCS_FAILURE carrying the command line and stderr.
func (e *ExecExecutor) ExecuteWithOutput(ctx context.Context, cmd *exec.Cmd) (string, error) {
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return "", errors.Wrapf(err, errors.ErrVCSFailure, "%s failed", strings.Join(cmd.Args, " ")).
			WithDetail("args", cmd.Args).
			WithDetail("stderr", strings.TrimSpace(stderr.String())).
			WithDetail("dir", cmd.Dir)
	}
	return stdout.String(), nil
}
