// Package tracking persists the two documents that describe tracked files:
// the mapping config (home-relative path to repo location) and the
// installed-state ledger (home-relative path to the hash both sides agreed on
// at the last sync). Nothing else reads or writes those files.
package tracking

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/logging"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/rs/zerolog"
)

// Config maps home-relative paths to repo locations
type Config map[string]RepoLocation

// Keys returns the home-relative paths in sorted order
func (c Config) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Ledger maps home-relative paths to the content hash recorded at their last
// successful sync. A missing key means the file was never synced here.
type Ledger map[string]string

// Committer records repo changes. The version control gateway implements it.
type Committer interface {
	CommitAndPush(ctx context.Context, message string) error
}

// Locator tells the store where its documents live
type Locator interface {
	ConfigFile() string
	LedgerFile() string
}

// Store reads and writes the mapping config and the ledger
type Store struct {
	fs        types.FS
	locator   Locator
	committer Committer
	logger    zerolog.Logger
}

// NewStore creates a Store. committer is invoked after every SaveConfig.
func NewStore(fs types.FS, locator Locator, committer Committer) *Store {
	return &Store{
		fs:        fs,
		locator:   locator,
		committer: committer,
		logger:    logging.GetLogger("tracking.store"),
	}
}

// LoadConfig reads the mapping config. A missing file yields an empty config
// so that a fresh repo can be bootstrapped with add.
func (s *Store) LoadConfig() (Config, error) {
	cfg := Config{}
	found, err := s.load(s.locator.ConfigFile(), &cfg)
	if err != nil {
		return nil, err
	}
	if !found {
		s.logger.Debug().Str("path", s.locator.ConfigFile()).Msg("No mapping config yet, starting empty")
	}
	return cfg, nil
}

// SaveConfig writes the mapping config, then commits and pushes it with
// message.
func (s *Store) SaveConfig(ctx context.Context, cfg Config, message string) error {
	if err := s.save(s.locator.ConfigFile(), cfg); err != nil {
		return err
	}
	s.logger.Info().Int("entries", len(cfg)).Msg("Saved mapping config")
	if s.committer == nil {
		return nil
	}
	return s.committer.CommitAndPush(ctx, message)
}

// LoadLedger reads the installed-state ledger, empty when it does not exist
func (s *Store) LoadLedger() (Ledger, error) {
	ledger := Ledger{}
	if _, err := s.load(s.locator.LedgerFile(), &ledger); err != nil {
		return nil, err
	}
	return ledger, nil
}

// SaveLedger writes the ledger. Ledger changes are local bookkeeping and are
// never committed on their own.
func (s *Store) SaveLedger(ledger Ledger) error {
	if err := s.save(s.locator.LedgerFile(), ledger); err != nil {
		return err
	}
	s.logger.Debug().Int("entries", len(ledger)).Msg("Saved ledger")
	return nil
}

func (s *Store) load(path string, v interface{}) (bool, error) {
	data, err := s.fs.ReadFile(path)
	if err != nil {
		if filesystem.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, errors.ErrIOFailure, "cannot read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path).
			WithDetail("path", path)
	}
	return true, nil
}

// save writes v as sorted, 4-space indented JSON. The document is written
// next to its destination and renamed into place.
func (s *Store) save(path string, v interface{}) error {
	data, err := Marshal(v)
	if err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "cannot encode %s", path)
	}
	if err := s.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "cannot create directory for %s", path)
	}
	tmp := path + ".tmp"
	if err := s.fs.WriteFile(tmp, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrIOFailure, "cannot write %s", tmp)
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		_ = s.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrIOFailure, "cannot replace %s", path)
	}
	return nil
}

// Marshal encodes a tracking document the way it is stored on disk: keys
// sorted, 4-space indentation, trailing newline.
func Marshal(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
