// Package vcs wraps the version control tool that stores the dotfiles repo.
//
// Mutating commands pull before reading the repo, and commands that change
// the repo commit and push afterwards. Any non-zero exit is fatal for the run.
package vcs

import (
	"context"
	"fmt"
	"time"

	"github.com/arthur-debert/dotsync/pkg/logging"
)

// Gateway is the contract the reconciliation engine needs from version control
type Gateway interface {
	Pull(ctx context.Context) error
	CommitAndPush(ctx context.Context, message string) error
}

// CommitMessageTimeFormat renders the timestamp embedded in commit messages
const CommitMessageTimeFormat = "2006-01-02 15:04:05.000000"

// CommitMessage builds the message recorded for a repo update made from host
func CommitMessage(host string, now time.Time) string {
	return fmt.Sprintf("Update from %s@%s", host, now.Format(CommitMessageTimeFormat))
}

// Noop is a Gateway that only logs. It is used when version control is
// disabled in the settings.
type Noop struct{}

// Pull implements Gateway
func (Noop) Pull(ctx context.Context) error {
	logger := logging.GetLogger("vcs.noop")
	logger.Debug().Msg("Version control disabled, skipping pull")
	return nil
}

// CommitAndPush implements Gateway
func (Noop) CommitAndPush(ctx context.Context, message string) error {
	logger := logging.GetLogger("vcs.noop")
	logger.Debug().Str("message", message).Msg("Version control disabled, skipping commit")
	return nil
}
