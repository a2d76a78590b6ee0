// Package paths provides centralized path handling for dotsync.
// It resolves the home directory and the tracking repository root, and maps
// between home-relative and repo-relative paths.
package paths

import (
	"fmt"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/dotsync/pkg/errors"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"

	// EnvDebug enables path discovery diagnostics on stderr
	EnvDebug = "DOTSYNC_DEBUG"
)

// Default file names, relative to the repo root
const (
	// DefaultConfigFile maps home-relative paths to repo-relative paths
	DefaultConfigFile = "config.json"

	// DefaultLedgerFile records the hash of each file at its last sync
	DefaultLedgerFile = "installed_files.json"
)

// Paths provides centralized path management for dotsync
type Paths interface {
	HomeDir() string
	RepoRoot() string
	UsedFallback() bool
	ConfigFile() string
	LedgerFile() string
	HostDir(host string) string
	RepoPath(repoRelative string) string
	HomePath(homeRelative string) string
	ToHomeRelative(path string) (string, error)
	ExpandHome(path string) string
}

// Options configures New. Empty fields fall back to discovery or defaults.
type Options struct {
	RepoRoot   string
	HomeDir    string
	ConfigFile string
	LedgerFile string
}

type paths struct {
	homeDir  string
	repoRoot string

	// configFile and ledgerFile are relative to repoRoot
	configFile string
	ledgerFile string

	// usedFallback indicates if we fell back to cwd (for warning display)
	usedFallback bool
}

// New creates a new Paths instance.
// The repo root is, in order: opts.RepoRoot, the git toplevel of the working
// directory, the working directory itself (reported by UsedFallback).
func New(opts Options) (Paths, error) {
	p := &paths{
		configFile: opts.ConfigFile,
		ledgerFile: opts.LedgerFile,
	}
	if p.configFile == "" {
		p.configFile = DefaultConfigFile
	}
	if p.ledgerFile == "" {
		p.ledgerFile = DefaultLedgerFile
	}

	home := opts.HomeDir
	if home == "" {
		var err error
		home, err = os.UserHomeDir()
		if err != nil {
			home = os.Getenv(EnvHome)
		}
		if home == "" {
			return nil, errors.New(errors.ErrNotFound, "cannot determine home directory")
		}
	}
	absHome, err := filepath.Abs(home)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to get absolute path for home directory")
	}
	p.homeDir = filepath.Clean(absHome)

	root := opts.RepoRoot
	if root == "" {
		root, p.usedFallback, err = findRepoRoot()
		if err != nil {
			return nil, err
		}
	} else {
		root = p.ExpandHome(root)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIOFailure, "failed to get absolute path for repo root")
	}
	p.repoRoot = filepath.Clean(absRoot)

	return p, nil
}

// findRepoRoot determines the repo root using the following priority:
// 1. Git repository root (found via 'git rev-parse --show-toplevel')
// 2. Current working directory (fallback)
func findRepoRoot() (string, bool, error) {
	gitRoot, err := findGitRoot()
	if err == nil && gitRoot != "" {
		debugf("findRepoRoot using git root: %s\n", gitRoot)
		return gitRoot, false, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrIOFailure, "failed to get current directory")
	}

	return cwd, true, nil
}

// findGitRoot attempts to find the root of the current git repository
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")

	output, err := cmd.Output()
	if err != nil {
		debugf("git command failed: %v\n", err)
		return "", err
	}

	gitRoot := strings.TrimSpace(string(output))
	if gitRoot == "" {
		return "", errors.New(errors.ErrNotFound, "git root is empty")
	}

	return gitRoot, nil
}

func debugf(format string, args ...interface{}) {
	if os.Getenv(EnvDebug) != "" {
		fmt.Fprintf(os.Stderr, "Debug: "+format, args...)
	}
}

// HomeDir returns the resolved home directory
func (p *paths) HomeDir() string {
	return p.homeDir
}

// RepoRoot returns the root of the tracking repository
func (p *paths) RepoRoot() string {
	return p.repoRoot
}

// UsedFallback returns true if the current working directory was used as fallback
func (p *paths) UsedFallback() bool {
	return p.usedFallback
}

// ConfigFile returns the absolute path of the mapping config
func (p *paths) ConfigFile() string {
	return filepath.Join(p.repoRoot, p.configFile)
}

// LedgerFile returns the absolute path of the installed-state ledger
func (p *paths) LedgerFile() string {
	return filepath.Join(p.repoRoot, p.ledgerFile)
}

// HostDir returns the repo folder holding host-specific copies
func (p *paths) HostDir(host string) string {
	return filepath.Join(p.repoRoot, host)
}

// RepoPath turns a slash separated repo-relative path into an absolute one
func (p *paths) RepoPath(repoRelative string) string {
	return filepath.Join(p.repoRoot, filepath.FromSlash(repoRelative))
}

// HomePath turns a slash separated home-relative path into an absolute one
func (p *paths) HomePath(homeRelative string) string {
	return filepath.Join(p.homeDir, filepath.FromSlash(homeRelative))
}

// ToHomeRelative returns path relative to the home directory, slash
// separated. Paths that are not strictly inside home are rejected with
// ErrOutsideHome rather than expressed with "..".
func (p *paths) ToHomeRelative(target string) (string, error) {
	if target == "" {
		return "", errors.New(errors.ErrInvalidInput, "empty path")
	}

	abs, err := filepath.Abs(p.ExpandHome(target))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrIOFailure, "failed to get absolute path for %s", target)
	}

	rel, err := filepath.Rel(p.homeDir, abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrOutsideHome, "%s is not inside %s", target, p.homeDir).
			WithDetail("path", target)
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.Newf(errors.ErrOutsideHome, "%s is not inside %s", target, p.homeDir).
			WithDetail("path", target)
	}
	return path.Clean(rel), nil
}

// ExpandHome expands a leading ~ to the resolved home directory
func (p *paths) ExpandHome(target string) string {
	return expandHomeTo(target, p.homeDir)
}

func expandHomeTo(target, homeDir string) string {
	if target == "" || target[0] != '~' || homeDir == "" {
		return target
	}

	if len(target) == 1 {
		return homeDir
	}

	// Handle both ~/ and ~
	if target[1] == '/' || target[1] == filepath.Separator {
		return filepath.Join(homeDir, target[2:])
	}

	// ~something (not the user's home)
	return target
}
