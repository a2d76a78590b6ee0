package vcs

import (
	"context"
	"os/exec"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/rs/zerolog"
)

// GitOptions configures a Git gateway
type GitOptions struct {
	// Dir is the repository the commands run in
	Dir string

	// Command is the git executable, "git" when empty
	Command string

	// Push controls whether CommitAndPush pushes after committing
	Push bool

	// Executor runs the commands, an ExecExecutor when nil
	Executor CommandExecutor
}

// Git is the Gateway backed by the git command line
type Git struct {
	dir      string
	command  string
	push     bool
	executor CommandExecutor
	logger   zerolog.Logger
}

// NewGit creates a Git gateway
func NewGit(opts GitOptions) *Git {
	g := &Git{
		dir:      opts.Dir,
		command:  opts.Command,
		push:     opts.Push,
		executor: opts.Executor,
		logger:   logging.GetLogger("vcs.git"),
	}
	if g.command == "" {
		g.command = "git"
	}
	if g.executor == nil {
		g.executor = NewExecExecutor()
	}
	return g
}

// Pull fetches and merges upstream changes into the repo
func (g *Git) Pull(ctx context.Context) error {
	g.logger.Info().Str("dir", g.dir).Msg("Pulling repo")
	return g.run(ctx, "pull")
}

// CommitAndPush stages everything, commits with message and pushes.
// A clean working tree skips the commit but still pushes, so commits left
// behind by an earlier failed push reach the remote.
func (g *Git) CommitAndPush(ctx context.Context, message string) error {
	if err := g.run(ctx, "add", "-A"); err != nil {
		return err
	}

	status, err := g.output(ctx, "status", "--porcelain")
	if err != nil {
		return err
	}
	if strings.TrimSpace(status) == "" {
		g.logger.Info().Msg("Repo unchanged, nothing to commit")
	} else {
		if err := g.run(ctx, "commit", "-m", message); err != nil {
			return err
		}
		g.logger.Info().Str("message", message).Msg("Committed repo changes")
	}

	if !g.push {
		g.logger.Debug().Msg("Push disabled, leaving commit local")
		return nil
	}
	if err := g.run(ctx, "push"); err != nil {
		return err
	}
	g.logger.Info().Msg("Pushed repo changes")
	return nil
}

func (g *Git) newCmd(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, g.command, args...)
	cmd.Dir = g.dir
	logging.LogCommand(g.logger, g.command, args)
	return cmd
}

func (g *Git) run(ctx context.Context, args ...string) error {
	return g.executor.Execute(ctx, g.newCmd(ctx, args...))
}

func (g *Git) output(ctx context.Context, args ...string) (string, error) {
	return g.executor.ExecuteWithOutput(ctx, g.newCmd(ctx, args...))
}
