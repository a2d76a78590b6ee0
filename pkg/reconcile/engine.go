// Package reconcile decides which copies between home and repo are safe and
// performs them.
//
// Every operation runs in two phases. Plan* functions inspect every selected
// file, comparing content hashes with the ledger, and return a Plan listing
// the copies to make and every problem found. Apply performs the copies only
// when the plan has no problems, so a single conflict rejects the whole batch.
package reconcile

import (
	"context"
	"time"

	"github.com/arthur-debert/dotsync/pkg/fileset"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/tracking"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/arthur-debert/dotsync/pkg/vcs"
	"github.com/rs/zerolog"
)

// Store is the part of tracking.Store the engine writes through
type Store interface {
	fileset.Loader
	SaveConfig(ctx context.Context, cfg tracking.Config, message string) error
	SaveLedger(ledger tracking.Ledger) error
}

// Options wires an Engine
type Options struct {
	FS      types.FS
	Paths   paths.Paths
	Store   Store
	Gateway vcs.Gateway
	Host    string

	// DryRun plans normally but skips pulls, copies, writes and commits
	DryRun bool

	// Now defaults to time.Now
	Now func() time.Time
}

// Engine runs reconciliation operations for one host
type Engine struct {
	fs       types.FS
	paths    paths.Paths
	store    Store
	resolver *fileset.Resolver
	gateway  vcs.Gateway
	host     string
	dryRun   bool
	now      func() time.Time
	logger   zerolog.Logger
}

// New creates an Engine
func New(opts Options) *Engine {
	e := &Engine{
		fs:       opts.FS,
		paths:    opts.Paths,
		store:    opts.Store,
		resolver: fileset.NewResolver(opts.Store, opts.Paths, opts.Host),
		gateway:  opts.Gateway,
		host:     opts.Host,
		dryRun:   opts.DryRun,
		now:      opts.Now,
		logger:   logging.GetLogger("reconcile"),
	}
	if e.gateway == nil {
		e.gateway = vcs.Noop{}
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Host returns the host name the engine resolves locations for
func (e *Engine) Host() string {
	return e.host
}

// DryRun reports whether Apply and Pull are disabled
func (e *Engine) DryRun() bool {
	return e.dryRun
}

// Pull brings the repo up to date. Mutating commands call it before planning.
func (e *Engine) Pull(ctx context.Context) error {
	if e.dryRun {
		e.logger.Info().Msg("Dry run, skipping pull")
		return nil
	}
	return e.gateway.Pull(ctx)
}

func (e *Engine) commitMessage() string {
	return vcs.CommitMessage(e.host, e.now())
}
