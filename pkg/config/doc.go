// Package config handles dotsync's own settings.
//
// Settings are layered with koanf, later sources overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the user file, $XDG_CONFIG_HOME/dotsync/config.toml
//  3. DOTSYNC_* environment variables
//  4. command line overrides
//
// The tracked-file mapping (config.json) and the installed-state ledger are
// not settings; they belong to pkg/tracking.
package config
