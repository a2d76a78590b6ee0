package tracking

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultHostKey is the per-host entry used when no override matches
const DefaultHostKey = "__default__"

// LocationKind tags the two shapes a RepoLocation can take
type LocationKind int

const (
	// Direct locations use the same repo path on every host
	Direct LocationKind = iota
	// PerHost locations map host names to repo paths, with an optional default
	PerHost
)

func (k LocationKind) String() string {
	switch k {
	case Direct:
		return "direct"
	case PerHost:
		return "per-host"
	default:
		return fmt.Sprintf("LocationKind(%d)", int(k))
	}
}

// RepoLocation says where a tracked file lives inside the repo.
//
// In JSON a Direct location is a plain string and a PerHost location is an
// object keyed by host name, with the optional fallback under "__default__".
type RepoLocation struct {
	Kind LocationKind

	// Path is set for Direct locations
	Path string

	// Overrides and Default are set for PerHost locations. An empty Default
	// means there is no fallback.
	Overrides map[string]string
	Default   string
}

// DirectLocation returns a host independent location
func DirectLocation(path string) RepoLocation {
	return RepoLocation{Kind: Direct, Path: path}
}

// PerHostLocation returns a host specific location. def may be empty.
func PerHostLocation(overrides map[string]string, def string) RepoLocation {
	copied := make(map[string]string, len(overrides))
	for host, path := range overrides {
		copied[host] = path
	}
	return RepoLocation{Kind: PerHost, Overrides: copied, Default: def}
}

// Resolve returns the repo-relative path to use on host. ok is false when a
// per-host location has neither an override for host nor a default.
func (l RepoLocation) Resolve(host string) (path string, ok bool) {
	if l.Kind == Direct {
		return l.Path, l.Path != ""
	}
	if p, found := l.Overrides[host]; found {
		return p, true
	}
	if l.Default != "" {
		return l.Default, true
	}
	return "", false
}

// HasHost reports whether the location carries an override for host
func (l RepoLocation) HasHost(host string) bool {
	if l.Kind != PerHost {
		return false
	}
	_, ok := l.Overrides[host]
	return ok
}

// HasDefault reports whether the location resolves on hosts without an
// override: always for Direct, only with a default for PerHost.
func (l RepoLocation) HasDefault() bool {
	if l.Kind == Direct {
		return l.Path != ""
	}
	return l.Default != ""
}

// WithHost returns the location with an override for host. A Direct
// location becomes PerHost, keeping its path as the default.
func (l RepoLocation) WithHost(host, path string) RepoLocation {
	if l.Kind == Direct {
		return PerHostLocation(map[string]string{host: path}, l.Path)
	}
	next := PerHostLocation(l.Overrides, l.Default)
	next.Overrides[host] = path
	return next
}

// WithDefault returns the location with path as its host independent entry.
// Per-host overrides are kept.
func (l RepoLocation) WithDefault(path string) RepoLocation {
	if l.Kind == Direct {
		return DirectLocation(path)
	}
	return PerHostLocation(l.Overrides, path)
}

// MarshalJSON implements json.Marshaler
func (l RepoLocation) MarshalJSON() ([]byte, error) {
	if l.Kind == Direct {
		return json.Marshal(l.Path)
	}
	obj := make(map[string]string, len(l.Overrides)+1)
	for host, path := range l.Overrides {
		obj[host] = path
	}
	if l.Default != "" {
		obj[DefaultHostKey] = l.Default
	}
	return json.Marshal(obj)
}

// UnmarshalJSON implements json.Unmarshaler
func (l *RepoLocation) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var path string
		if err := json.Unmarshal(trimmed, &path); err != nil {
			return err
		}
		if path == "" {
			return fmt.Errorf("empty repo path")
		}
		*l = DirectLocation(path)
		return nil
	}

	var obj map[string]string
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return fmt.Errorf("repo location must be a string or an object of strings: %w", err)
	}
	def := obj[DefaultHostKey]
	delete(obj, DefaultHostKey)
	for host, path := range obj {
		if path == "" {
			return fmt.Errorf("empty repo path for host %q", host)
		}
	}
	*l = PerHostLocation(obj, def)
	return nil
}
