package reconcile

import (
	"fmt"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/tracking"
)

// Operation names a reconciliation command
type Operation string

const (
	OpInstall          Operation = "install"
	OpSyncRepoToHome   Operation = "sync_repo_to_installed_files"
	OpSyncHomeIntoRepo Operation = "sync_installed_into_repo"
	OpAdd              Operation = "add_files_into_repo"
)

// Direction is the way a copy goes
type Direction int

const (
	RepoToHome Direction = iota
	HomeToRepo
)

func (d Direction) String() string {
	if d == HomeToRepo {
		return "home → repo"
	}
	return "repo → home"
}

// HashSide selects which file's hash is written to the ledger after a copy
type HashSide int

const (
	HashSource HashSide = iota
	HashDestination
)

// Action is a single copy collected during validation
type Action struct {
	HomeRelative string

	// RepoRelative is empty for add actions until they are applied, since the
	// repo name is picked right before the file is created.
	RepoRelative string

	Source      string
	Destination string
	Direction   Direction
	Record      HashSide

	// HostSpecific is only meaningful for add actions
	HostSpecific bool
}

// Plan is the outcome of validating an operation. It is applied only when
// Problems is empty.
type Plan struct {
	Operation Operation
	Actions   []Action
	Problems  []*errors.Error

	config tracking.Config
	ledger tracking.Ledger
}

func newPlan(op Operation, cfg tracking.Config, ledger tracking.Ledger) *Plan {
	return &Plan{Operation: op, config: cfg, ledger: ledger}
}

// OK reports whether the plan can be applied
func (p *Plan) OK() bool {
	return len(p.Problems) == 0
}

// Err returns nil for an applicable plan, otherwise a VALIDATION_FAILED
// error wrapping every problem.
func (p *Plan) Err() error {
	if p.OK() {
		return nil
	}
	list := make(errors.List, 0, len(p.Problems))
	for _, problem := range p.Problems {
		list = append(list, problem)
	}
	return errors.Wrapf(list, errors.ErrValidation,
		"%s rejected: %d problem(s), no file was copied", p.Operation, len(p.Problems)).
		WithDetail("problems", len(p.Problems))
}

func (p *Plan) problem(code errors.ErrorCode, path, format string, args ...interface{}) {
	p.Problems = append(p.Problems,
		errors.Newf(code, "%s: %s", path, fmt.Sprintf(format, args...)).WithDetail("path", path))
}

func (p *Plan) failed(err error, path string) {
	var coded *errors.Error
	if e, ok := err.(*errors.Error); ok {
		coded = e
	} else {
		coded = errors.Wrap(err, errors.ErrIOFailure, path)
	}
	p.Problems = append(p.Problems, coded.WithDetail("path", path))
}

func (p *Plan) add(a Action) {
	p.Actions = append(p.Actions, a)
}
