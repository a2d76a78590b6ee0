// Package fileset picks the tracked files a command operates on.
//
// Every tracked entry is resolved to its repo path for the current host, then
// narrowed by an optional filter list and, for the sync commands, by whether
// the file has ever been synced on this machine.
package fileset

import (
	"path/filepath"
	"sort"

	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/tracking"
	"github.com/rs/zerolog"
)

// Entry is one tracked file resolved for the current host
type Entry struct {
	// HomeRelative is the config key, slash separated
	HomeRelative string
	// RepoRelative is the resolved repo path, slash separated
	RepoRelative string

	HomePath string
	RepoPath string

	Location tracking.RepoLocation
}

// Selection is the result of Resolve
type Selection struct {
	// Entries are sorted by HomeRelative
	Entries []Entry

	// Unmatched lists the filters that selected nothing, in the order given
	Unmatched []string

	// Config and Ledger are the documents the selection was computed from
	Config tracking.Config
	Ledger tracking.Ledger
}

// Loader reads the tracking documents. tracking.Store implements it.
type Loader interface {
	LoadConfig() (tracking.Config, error)
	LoadLedger() (tracking.Ledger, error)
}

// Resolver enumerates tracked files for one host
type Resolver struct {
	loader Loader
	paths  paths.Paths
	host   string
	logger zerolog.Logger
}

// NewResolver creates a Resolver for host
func NewResolver(loader Loader, p paths.Paths, host string) *Resolver {
	return &Resolver{
		loader: loader,
		paths:  p,
		host:   host,
		logger: logging.GetLogger("fileset"),
	}
}

// Resolve returns the tracked files matching filter. An empty filter selects
// every entry that resolves on this host. With onlyInstalled, entries without
// a ledger record are left out.
func (r *Resolver) Resolve(filter []string, onlyInstalled bool) (*Selection, error) {
	cfg, err := r.loader.LoadConfig()
	if err != nil {
		return nil, err
	}
	ledger, err := r.loader.LoadLedger()
	if err != nil {
		return nil, err
	}

	sel := &Selection{Config: cfg, Ledger: ledger}
	matchers := r.buildMatchers(filter)

	for _, key := range cfg.Keys() {
		location := cfg[key]
		repoRel, ok := location.Resolve(r.host)
		if !ok {
			r.logger.Debug().
				Str("file", key).
				Str("host", r.host).
				Msg("No repo location for this host, skipping")
			continue
		}
		if onlyInstalled {
			if _, synced := ledger[key]; !synced {
				r.logger.Debug().Str("file", key).Msg("Never synced on this host, skipping")
				continue
			}
		}

		entry := Entry{
			HomeRelative: key,
			RepoRelative: repoRel,
			HomePath:     r.paths.HomePath(key),
			RepoPath:     r.paths.RepoPath(repoRel),
			Location:     location,
		}
		if len(matchers) > 0 && !matchAny(matchers, entry) {
			continue
		}
		sel.Entries = append(sel.Entries, entry)
	}

	for _, m := range matchers {
		if !m.hit {
			sel.Unmatched = append(sel.Unmatched, m.raw)
		}
	}

	sort.Slice(sel.Entries, func(i, j int) bool {
		return sel.Entries[i].HomeRelative < sel.Entries[j].HomeRelative
	})

	r.logger.Debug().
		Int("selected", len(sel.Entries)).
		Int("unmatched", len(sel.Unmatched)).
		Bool("onlyInstalled", onlyInstalled).
		Msg("Resolved file set")
	return sel, nil
}

// matcher holds the forms a single filter string is compared in
type matcher struct {
	raw   string
	forms []string
	hit   bool
}

func (r *Resolver) buildMatchers(filter []string) []*matcher {
	matchers := make([]*matcher, 0, len(filter))
	for _, raw := range filter {
		m := &matcher{raw: raw, forms: []string{raw, filepath.ToSlash(filepath.Clean(raw))}}
		if abs, err := filepath.Abs(r.paths.ExpandHome(raw)); err == nil {
			m.forms = append(m.forms, abs)
		}
		matchers = append(matchers, m)
	}
	return matchers
}

func matchAny(matchers []*matcher, e Entry) bool {
	matched := false
	for _, m := range matchers {
		for _, form := range m.forms {
			if form == e.HomeRelative || form == e.HomePath || form == e.RepoRelative || form == e.RepoPath {
				m.hit = true
				matched = true
				break
			}
		}
	}
	return matched
}
