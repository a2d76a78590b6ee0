// Package paths provides centralized path handling for dotsync.
//
// A dotsync run works between two roots: the user's home directory and the
// tracking repository. Tracked files are keyed by their home-relative path
// (slash separated, never escaping home) and stored in the repo under a
// repo-relative path.
//
// # Repo root discovery
//
// The repo root comes from the repo.root setting (flag --repo, environment
// DOTSYNC_REPO_ROOT). When unset, the toplevel of the git repository around
// the working directory is used, and as a last resort the working directory
// itself; UsedFallback reports that case so the CLI can warn.
//
// # Repo file names
//
// SynthesizeRepoName flattens a home-relative path into a single file name
// inside the repo, adding parent segments only as needed to avoid clashes:
//
//	.bashrc            -> _.bashrc
//	work/.bashrc       -> work___.bashrc   (when _.bashrc is taken)
//	.config/git/config -> config, git__config, _.config__git__config
package paths
