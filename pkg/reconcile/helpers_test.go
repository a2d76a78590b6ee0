package reconcile_test

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/dotsync/pkg/filesystem"
	"github.com/arthur-debert/dotsync/pkg/hasher"
	"github.com/arthur-debert/dotsync/pkg/paths"
	"github.com/arthur-debert/dotsync/pkg/reconcile"
	"github.com/arthur-debert/dotsync/pkg/tracking"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testHome = "/home/me"
	testRepo = "/repo"
)

var fixedNow = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Pull(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockGateway) CommitAndPush(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

// failingFS fails writes to one path
type failingFS struct {
	types.FS
	failWrite string
}

func (f failingFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	if name == f.failWrite {
		return stderrors.New("disk full")
	}
	return f.FS.WriteFile(name, data, perm)
}

type harnessOptions struct {
	host   string
	dryRun bool
	wrapFS func(types.FS) types.FS
}

type harness struct {
	fs      types.FS
	paths   paths.Paths
	store   *tracking.Store
	gateway *mockGateway
	engine  *reconcile.Engine
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	if opts.host == "" {
		opts.host = "laptop"
	}

	memFS := filesystem.NewMemoryFS()
	require.NoError(t, memFS.MkdirAll(testHome, 0755))
	require.NoError(t, memFS.MkdirAll(testRepo, 0755))

	var engineFS types.FS = memFS
	if opts.wrapFS != nil {
		engineFS = opts.wrapFS(memFS)
	}

	p, err := paths.New(paths.Options{RepoRoot: testRepo, HomeDir: testHome})
	require.NoError(t, err)

	gateway := &mockGateway{}
	store := tracking.NewStore(memFS, p, gateway)
	engine := reconcile.New(reconcile.Options{
		FS:      engineFS,
		Paths:   p,
		Store:   store,
		Gateway: gateway,
		Host:    opts.host,
		DryRun:  opts.dryRun,
		Now:     func() time.Time { return fixedNow },
	})

	return &harness{fs: memFS, paths: p, store: store, gateway: gateway, engine: engine}
}

func (h *harness) write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, h.fs.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, h.fs.WriteFile(path, []byte(content), 0644))
}

func (h *harness) writeHome(t *testing.T, rel, content string) {
	t.Helper()
	h.write(t, filepath.Join(testHome, rel), content)
}

func (h *harness) writeRepo(t *testing.T, rel, content string) {
	t.Helper()
	h.write(t, filepath.Join(testRepo, rel), content)
}

func (h *harness) read(t *testing.T, path string) string {
	t.Helper()
	data, err := h.fs.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func (h *harness) readHome(t *testing.T, rel string) string {
	t.Helper()
	return h.read(t, filepath.Join(testHome, rel))
}

func (h *harness) readRepo(t *testing.T, rel string) string {
	t.Helper()
	return h.read(t, filepath.Join(testRepo, rel))
}

func (h *harness) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := filesystem.Exists(h.fs, path)
	require.NoError(t, err)
	return ok
}

func (h *harness) setConfig(t *testing.T, cfg tracking.Config) {
	t.Helper()
	data, err := tracking.Marshal(cfg)
	require.NoError(t, err)
	require.NoError(t, h.fs.WriteFile(h.paths.ConfigFile(), data, 0644))
}

func (h *harness) setLedger(t *testing.T, ledger tracking.Ledger) {
	t.Helper()
	require.NoError(t, h.store.SaveLedger(ledger))
}

func (h *harness) ledger(t *testing.T) tracking.Ledger {
	t.Helper()
	ledger, err := h.store.LoadLedger()
	require.NoError(t, err)
	return ledger
}

func (h *harness) config(t *testing.T) tracking.Config {
	t.Helper()
	cfg, err := h.store.LoadConfig()
	require.NoError(t, err)
	return cfg
}

func digest(content string) string {
	return hasher.Sum([]byte(content))
}

func commitMessage() string {
	return "Update from laptop@2024-01-02 03:04:05.000000"
}
