package reconcile

import (
	"github.com/arthur-debert/dotsync/pkg/fileset"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/hasher"
)

// State summarizes how a tracked file compares across home, repo and ledger
type State string

const (
	StateInSync           State = "in-sync"
	StateHomeModified     State = "home-modified"
	StateRepoModified     State = "repo-modified"
	StateBothModified     State = "both-modified"
	StateNotInstalled     State = "not-installed"
	StateUntrackedInstall State = "untracked-install"
	StateHomeMissing      State = "home-missing"
	StateRepoMissing      State = "repo-missing"
)

// FileStatus is the state of one tracked file
type FileStatus struct {
	Entry fileset.Entry
	State State

	// Recorded is the ledger hash, empty when the file was never synced
	Recorded string
	HomeHash string
	RepoHash string
}

// StatusReport is returned by Status
type StatusReport struct {
	Host      string
	Files     []FileStatus
	Unmatched []string
}

// Counts tallies files per state
func (r *StatusReport) Counts() map[State]int {
	counts := make(map[State]int)
	for _, f := range r.Files {
		counts[f.State]++
	}
	return counts
}

// Status compares every selected file without changing anything
func (e *Engine) Status(filter []string) (*StatusReport, error) {
	sel, err := e.resolver.Resolve(filter, false)
	if err != nil {
		return nil, err
	}
	report := &StatusReport{Host: e.host, Unmatched: sel.Unmatched}

	for _, entry := range sel.Entries {
		st := FileStatus{Entry: entry, Recorded: sel.Ledger[entry.HomeRelative]}
		if st.HomeHash, err = e.optionalHash(entry.HomePath); err != nil {
			return nil, err
		}
		if st.RepoHash, err = e.optionalHash(entry.RepoPath); err != nil {
			return nil, err
		}
		st.State = classify(st)
		report.Files = append(report.Files, st)
	}
	return report, nil
}

func classify(st FileStatus) State {
	switch {
	case st.RepoHash == "":
		return StateRepoMissing
	case st.HomeHash == "" && st.Recorded == "":
		return StateNotInstalled
	case st.HomeHash == "":
		return StateHomeMissing
	case st.Recorded == "":
		return StateUntrackedInstall
	}

	homeModified := st.HomeHash != st.Recorded
	repoModified := st.RepoHash != st.Recorded
	switch {
	case homeModified && repoModified:
		return StateBothModified
	case homeModified:
		return StateHomeModified
	case repoModified:
		return StateRepoModified
	default:
		return StateInSync
	}
}

// optionalHash hashes path, returning "" when it does not exist
func (e *Engine) optionalHash(path string) (string, error) {
	exists, err := filesystem.Exists(e.fs, path)
	if err != nil || !exists {
		return "", err
	}
	return hasher.Hash(e.fs, path)
}
