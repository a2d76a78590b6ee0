package reconcile

import (
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/fileset"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/hasher"
)

// PlanInstall copies tracked files that are not present in home yet.
// A home file that already exists is never replaced.
func (e *Engine) PlanInstall(filter []string) (*Plan, error) {
	sel, err := e.resolver.Resolve(filter, false)
	if err != nil {
		return nil, err
	}
	plan := e.planFor(OpInstall, sel)

	for _, entry := range sel.Entries {
		homeExists, err := filesystem.Exists(e.fs, entry.HomePath)
		if err != nil {
			plan.failed(err, entry.HomeRelative)
			continue
		}
		if homeExists {
			plan.problem(errors.ErrAlreadyExists, entry.HomeRelative, "already exists in home")
			continue
		}
		if !e.requireFile(plan, entry.RepoPath, entry.HomeRelative, "repo copy %s is missing", entry.RepoRelative) {
			continue
		}
		plan.add(copyToHome(entry, HashDestination))
	}
	return e.logged(plan), nil
}

// PlanSyncRepoToHome copies repo files over their home copies. Without
// overwrite only files synced before are selected, and a home file whose
// hash moved away from the ledger is a conflict. With overwrite every tracked
// file is copied unconditionally.
func (e *Engine) PlanSyncRepoToHome(filter []string, overwrite bool) (*Plan, error) {
	sel, err := e.resolver.Resolve(filter, !overwrite)
	if err != nil {
		return nil, err
	}
	plan := e.planFor(OpSyncRepoToHome, sel)

	for _, entry := range sel.Entries {
		if !e.requireFile(plan, entry.RepoPath, entry.HomeRelative, "repo copy %s is missing", entry.RepoRelative) {
			continue
		}
		if !overwrite {
			homeExists, err := filesystem.Exists(e.fs, entry.HomePath)
			if err != nil {
				plan.failed(err, entry.HomeRelative)
				continue
			}
			if homeExists && !e.matchesLedger(plan, sel, entry, entry.HomePath, "home copy was modified since the last sync, use --overwrite to replace it") {
				continue
			}
		}
		plan.add(copyToHome(entry, HashSource))
	}
	return e.logged(plan), nil
}

// PlanSyncHomeIntoRepo copies home files into the repo. Without force only
// files synced before are selected, and a repo file that is missing or whose
// hash moved away from the ledger is a conflict. With force every tracked
// file is copied unconditionally. Applying the plan commits and pushes.
func (e *Engine) PlanSyncHomeIntoRepo(filter []string, force bool) (*Plan, error) {
	sel, err := e.resolver.Resolve(filter, !force)
	if err != nil {
		return nil, err
	}
	plan := e.planFor(OpSyncHomeIntoRepo, sel)

	for _, entry := range sel.Entries {
		if !e.requireFile(plan, entry.HomePath, entry.HomeRelative, "home copy is missing") {
			continue
		}
		if !force {
			repoExists, err := filesystem.Exists(e.fs, entry.RepoPath)
			if err != nil {
				plan.failed(err, entry.HomeRelative)
				continue
			}
			if !repoExists {
				plan.problem(errors.ErrConflictModified, entry.HomeRelative,
					"repo copy %s was removed since the last sync, use --force-push to recreate it", entry.RepoRelative)
				continue
			}
			if !e.matchesLedger(plan, sel, entry, entry.RepoPath, "repo copy was modified since the last sync, use --force-push to replace it") {
				continue
			}
		}
		plan.add(Action{
			HomeRelative: entry.HomeRelative,
			RepoRelative: entry.RepoRelative,
			Source:       entry.HomePath,
			Destination:  entry.RepoPath,
			Direction:    HomeToRepo,
			Record:       HashDestination,
		})
	}
	return e.logged(plan), nil
}

func (e *Engine) planFor(op Operation, sel *fileset.Selection) *Plan {
	plan := newPlan(op, sel.Config, sel.Ledger)
	for _, raw := range sel.Unmatched {
		plan.problem(errors.ErrNotTracked, raw, "not tracked, or never synced on %s", e.host)
	}
	return plan
}

// requireFile records NOT_FOUND when path is missing and INVALID_INPUT when
// it is not a regular file.
func (e *Engine) requireFile(plan *Plan, path, key, format string, args ...interface{}) bool {
	info, err := e.fs.Stat(path)
	if err != nil {
		if filesystem.IsNotExist(err) {
			plan.problem(errors.ErrNotFound, key, format, args...)
		} else {
			plan.failed(errors.Wrapf(err, errors.ErrIOFailure, "cannot stat %s", path), key)
		}
		return false
	}
	if !info.Mode().IsRegular() {
		plan.problem(errors.ErrInvalidInput, key, "%s is not a regular file", path)
		return false
	}
	return true
}

// matchesLedger compares the hash of path with the ledger record for entry.
// A missing record counts as modified.
func (e *Engine) matchesLedger(plan *Plan, sel *fileset.Selection, entry fileset.Entry, path, conflict string) bool {
	recorded, ok := sel.Ledger[entry.HomeRelative]
	if !ok {
		plan.problem(errors.ErrConflictModified, entry.HomeRelative, "%s", conflict)
		return false
	}
	current, err := hasher.Hash(e.fs, path)
	if err != nil {
		plan.failed(err, entry.HomeRelative)
		return false
	}
	if current != recorded {
		plan.Problems = append(plan.Problems,
			errors.Newf(errors.ErrConflictModified, "%s: %s", entry.HomeRelative, conflict).
				WithDetail("path", entry.HomeRelative).
				WithDetail("recorded", recorded).
				WithDetail("current", current))
		return false
	}
	return true
}

func copyToHome(entry fileset.Entry, record HashSide) Action {
	return Action{
		HomeRelative: entry.HomeRelative,
		RepoRelative: entry.RepoRelative,
		Source:       entry.RepoPath,
		Destination:  entry.HomePath,
		Direction:    RepoToHome,
		Record:       record,
	}
}

func (e *Engine) logged(plan *Plan) *Plan {
	e.logger.Debug().
		Str("operation", string(plan.Operation)).
		Int("actions", len(plan.Actions)).
		Int("problems", len(plan.Problems)).
		Msg("Plan built")
	return plan
}
