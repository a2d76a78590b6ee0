package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as settings
const EnvPrefix = "DOTSYNC_"

// Settings is dotsync's own configuration
type Settings struct {
	Repo RepoSettings `koanf:"repo" toml:"repo"`
	Home HomeSettings `koanf:"home" toml:"home"`
	Host HostSettings `koanf:"host" toml:"host"`
	VCS  VCSSettings  `koanf:"vcs" toml:"vcs"`
}

// RepoSettings locates the dotfiles repository and its two state documents
type RepoSettings struct {
	Root       string `koanf:"root" toml:"root"`
	ConfigFile string `koanf:"config_file" toml:"config_file"`
	LedgerFile string `koanf:"ledger_file" toml:"ledger_file"`
}

// HomeSettings overrides the home directory tracked files are installed into
type HomeSettings struct {
	Dir string `koanf:"dir" toml:"dir"`
}

// HostSettings names the host used to pick per-host repo locations
type HostSettings struct {
	Name string `koanf:"name" toml:"name"`
}

// VCSSettings controls the pull/commit/push calls around each command
type VCSSettings struct {
	Enabled bool   `koanf:"enabled" toml:"enabled"`
	Command string `koanf:"command" toml:"command"`
	Push    bool   `koanf:"push" toml:"push"`
}

// LoadOptions tweaks where Load reads from
type LoadOptions struct {
	// UserConfigPath overrides the XDG user settings file. A missing file
	// is not an error.
	UserConfigPath string

	// Overrides are dotted keys applied last, typically from CLI flags.
	Overrides map[string]interface{}
}

// DefaultUserConfigPath returns $XDG_CONFIG_HOME/dotsync/config.toml
func DefaultUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "dotsync", "config.toml")
}

// Load builds Settings from defaults, the user file, the environment and
// the given overrides.
func Load(opts LoadOptions) (*Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. User file
	userPath := opts.UserConfigPath
	if userPath == "" {
		userPath = DefaultUserConfigPath()
	}
	if _, err := os.Stat(userPath); err == nil {
		if err := k.Load(file.Provider(userPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load settings from %s", userPath)
		}
		logger.Debug().Str("path", userPath).Msg("Loaded user settings")
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var s Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal settings")
	}

	if s.Repo.ConfigFile == "" || s.Repo.LedgerFile == "" {
		return nil, errors.New(errors.ErrInvalidInput, "repo.config_file and repo.ledger_file must not be empty")
	}
	if s.VCS.Command == "" {
		s.VCS.Command = "git"
	}

	return &s, nil
}

// envKey maps DOTSYNC_REPO_CONFIG_FILE to repo.config_file: the first
// underscore separates the section, the rest belong to the key.
func envKey(s string) string {
	return strings.Replace(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".", 1)
}

// Hostname returns the configured host name, or the machine's hostname.
func (s *Settings) Hostname() (string, error) {
	if s.Host.Name != "" {
		return s.Host.Name, nil
	}
	name, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to detect hostname: %w", err)
	}
	return name, nil
}
