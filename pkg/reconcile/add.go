package reconcile

import (
	"github.com/arthur-debert/dotsync/pkg/errors"
)

// PlanAdd starts tracking files that live in home. Without hostSpecific the
// files are added for every host; with it they are added for this host only,
// under a folder named after the host.
func (e *Engine) PlanAdd(files []string, hostSpecific bool) (*Plan, error) {
	cfg, err := e.store.LoadConfig()
	if err != nil {
		return nil, err
	}
	ledger, err := e.store.LoadLedger()
	if err != nil {
		return nil, err
	}
	plan := newPlan(OpAdd, cfg, ledger)

	if len(files) == 0 {
		plan.problem(errors.ErrInvalidInput, "add", "at least one file is required")
		return plan, nil
	}

	requested := make(map[string]bool, len(files))
	for _, file := range files {
		rel, err := e.paths.ToHomeRelative(file)
		if err != nil {
			plan.failed(err, file)
			continue
		}
		if requested[rel] {
			plan.problem(errors.ErrAlreadyExists, rel, "given more than once")
			continue
		}
		requested[rel] = true

		if location, tracked := cfg[rel]; tracked {
			if hostSpecific && location.HasHost(e.host) {
				plan.problem(errors.ErrAlreadyExists, rel, "already tracked for host %s", e.host)
				continue
			}
			if !hostSpecific && location.HasDefault() {
				plan.problem(errors.ErrAlreadyExists, rel, "already tracked")
				continue
			}
		}

		homePath := e.paths.HomePath(rel)
		if !e.requireFile(plan, homePath, rel, "%s does not exist", homePath) {
			continue
		}
		plan.add(Action{
			HomeRelative: rel,
			Source:       homePath,
			Direction:    HomeToRepo,
			Record:       HashSource,
			HostSpecific: hostSpecific,
		})
	}
	return e.logged(plan), nil
}
