package reconcile

import (
	"context"
	"path"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/hasher"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/tracking"
)

// Result describes what Apply did
type Result struct {
	Operation Operation

	// Applied lists the completed copies, with repo names filled in for adds
	Applied []Action

	// Ledger is the ledger as saved after the copies
	Ledger tracking.Ledger

	DryRun bool
}

// Apply performs every action of plan. It refuses a plan with problems.
//
// Copies run in order and update the ledger as they complete. The first
// failing copy stops the run: copies already made are kept and recorded, and
// the error is returned. Successful syncs into the repo and adds are then
// committed and pushed.
func (e *Engine) Apply(ctx context.Context, plan *Plan) (*Result, error) {
	if err := plan.Err(); err != nil {
		return nil, err
	}

	result := &Result{Operation: plan.Operation, DryRun: e.dryRun}
	if e.dryRun {
		e.logger.Info().
			Str("operation", string(plan.Operation)).
			Int("actions", len(plan.Actions)).
			Msg("Dry run, nothing applied")
		result.Applied = plan.Actions
		result.Ledger = plan.ledger
		return result, nil
	}

	done := logging.LogOperationStart(e.logger, string(plan.Operation))
	defer done()

	ledger := make(tracking.Ledger, len(plan.ledger))
	for k, v := range plan.ledger {
		ledger[k] = v
	}
	cfg := make(tracking.Config, len(plan.config))
	for k, v := range plan.config {
		cfg[k] = v
	}
	result.Ledger = ledger

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return result, e.abort(ledger, errors.Wrap(err, errors.ErrInternal, "interrupted"))
		}

		if plan.Operation == OpAdd {
			named, err := e.nameAddition(action)
			if err != nil {
				return result, e.abort(ledger, err)
			}
			action = named
			cfg[action.HomeRelative] = e.addLocation(cfg, action)
		}

		digest, err := e.copyAction(action)
		if err != nil {
			return result, e.abort(ledger, err)
		}
		ledger[action.HomeRelative] = digest
		result.Applied = append(result.Applied, action)

		e.logger.Info().
			Str("file", action.HomeRelative).
			Str("repo", action.RepoRelative).
			Str("direction", action.Direction.String()).
			Msg("Copied")
	}

	if err := e.store.SaveLedger(ledger); err != nil {
		return result, err
	}

	switch plan.Operation {
	case OpSyncHomeIntoRepo:
		if err := e.gateway.CommitAndPush(ctx, e.commitMessage()); err != nil {
			return result, err
		}
	case OpAdd:
		if len(result.Applied) > 0 {
			if err := e.store.SaveConfig(ctx, cfg, e.commitMessage()); err != nil {
				return result, err
			}
		}
	}
	return result, nil
}

// copyAction performs a single action and returns the hash to record
func (e *Engine) copyAction(action Action) (string, error) {
	if err := filesystem.CopyFile(e.fs, action.Source, action.Destination); err != nil {
		return "", errors.Wrapf(err, errors.ErrIOFailure, "cannot copy %s to %s", action.Source, action.Destination).
			WithDetail("path", action.HomeRelative)
	}
	recorded := action.Destination
	if action.Record == HashSource {
		recorded = action.Source
	}
	digest, err := hasher.Hash(e.fs, recorded)
	if err != nil {
		return "", err
	}
	return digest, nil
}

// nameAddition picks the repo name for an add action. Names are chosen one
// at a time so files added earlier in the same batch are taken into account.
func (e *Engine) nameAddition(action Action) (Action, error) {
	base := e.paths.RepoRoot()
	if action.HostSpecific {
		base = e.paths.HostDir(e.host)
	}
	name, err := paths.SynthesizeRepoName(e.fs, base, action.HomeRelative, e.reservedRepoPaths()...)
	if err != nil {
		return action, err
	}
	action.RepoRelative = name
	if action.HostSpecific {
		action.RepoRelative = path.Join(e.host, name)
	}
	action.Destination = e.paths.RepoPath(action.RepoRelative)
	return action, nil
}

// reservedRepoPaths are repo paths no tracked file may be stored under
func (e *Engine) reservedRepoPaths() []string {
	return []string{
		e.paths.ConfigFile(),
		e.paths.ConfigFile() + ".tmp",
		e.paths.LedgerFile(),
		e.paths.LedgerFile() + ".tmp",
		e.paths.RepoPath(".git"),
	}
}

func (e *Engine) addLocation(cfg tracking.Config, action Action) tracking.RepoLocation {
	existing, tracked := cfg[action.HomeRelative]
	switch {
	case !tracked && action.HostSpecific:
		return tracking.PerHostLocation(map[string]string{e.host: action.RepoRelative}, "")
	case !tracked:
		return tracking.DirectLocation(action.RepoRelative)
	case action.HostSpecific:
		return existing.WithHost(e.host, action.RepoRelative)
	default:
		return existing.WithDefault(action.RepoRelative)
	}
}

// abort saves the ledger entries recorded so far and returns cause
func (e *Engine) abort(ledger tracking.Ledger, cause error) error {
	if err := e.store.SaveLedger(ledger); err != nil {
		e.logger.Error().Err(err).Msg("Failed to save ledger after a failed copy")
	}
	e.logger.Error().Err(cause).Msg("Apply stopped")
	return cause
}
