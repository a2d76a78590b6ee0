package reconcile_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/reconcile"
	"github.com/arthur-debert/dotsync/pkg/tracking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSyncRepoToHome_RejectsModifiedHomeFile(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"b.txt": tracking.DirectLocation("b.txt")})
	h.setLedger(t, tracking.Ledger{"b.txt": "H1"})
	h.writeRepo(t, "b.txt", "repo beta")
	h.writeHome(t, "b.txt", "edited beta")

	plan, err := h.engine.PlanSyncRepoToHome([]string{"b.txt"}, false)
	require.NoError(t, err)
	require.Len(t, plan.Problems, 1)
	assert.Equal(t, errors.ErrConflictModified, plan.Problems[0].Code)
	assert.Equal(t, "H1", plan.Problems[0].Details["recorded"])
	assert.Equal(t, digest("edited beta"), plan.Problems[0].Details["current"])

	_, err = h.engine.Apply(context.Background(), plan)
	require.Error(t, err)
	assert.Equal(t, "edited beta", h.readHome(t, "b.txt"))
	assert.Equal(t, tracking.Ledger{"b.txt": "H1"}, h.ledger(t))
}

func TestSyncRepoToHome_OneConflictRejectsWholeBatch(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{
		"a.txt": tracking.DirectLocation("a.txt"),
		"b.txt": tracking.DirectLocation("b.txt"),
		"c.txt": tracking.DirectLocation("c.txt"),
	})
	h.setLedger(t, tracking.Ledger{
		"a.txt": digest("alpha"),
		"b.txt": digest("beta"),
		"c.txt": digest("gamma"),
	})
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		h.writeRepo(t, name, "new "+name)
	}
	h.writeHome(t, "a.txt", "alpha")
	h.writeHome(t, "b.txt", "beta edited")
	h.writeHome(t, "c.txt", "gamma edited")

	plan, err := h.engine.PlanSyncRepoToHome(nil, false)
	require.NoError(t, err)
	assert.Len(t, plan.Problems, 2, "every conflict is reported, not just the first")
	assert.Len(t, plan.Actions, 1)

	_, err = h.engine.Apply(context.Background(), plan)
	require.Error(t, err)
	assert.Equal(t, "alpha", h.readHome(t, "a.txt"))
}

func TestSyncRepoToHome_OverwriteCopiesUnsyncedFiles(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{
		"a.txt": tracking.DirectLocation("a.txt"),
		"b.txt": tracking.DirectLocation("b.txt"),
	})
	h.writeRepo(t, "a.txt", "alpha")
	h.writeRepo(t, "b.txt", "beta")
	h.writeHome(t, "b.txt", "unrelated local beta")

	plan, err := h.engine.PlanSyncRepoToHome(nil, true)
	require.NoError(t, err)
	require.True(t, plan.OK())

	_, err = h.engine.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "alpha", h.readHome(t, "a.txt"))
	assert.Equal(t, "beta", h.readHome(t, "b.txt"))
	assert.Equal(t, tracking.Ledger{"a.txt": digest("alpha"), "b.txt": digest("beta")}, h.ledger(t))
}

func TestSyncRepoToHome_WithoutOverwriteSkipsUnsynced(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.writeRepo(t, "a.txt", "alpha")

	plan, err := h.engine.PlanSyncRepoToHome(nil, false)
	require.NoError(t, err)
	assert.True(t, plan.OK())
	assert.Empty(t, plan.Actions)

	plan, err = h.engine.PlanSyncRepoToHome([]string{"a.txt"}, false)
	require.NoError(t, err)
	require.Len(t, plan.Problems, 1)
	assert.Equal(t, errors.ErrNotTracked, plan.Problems[0].Code)
}

func TestSyncRepoToHome_RecreatesDeletedHomeFile(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.setLedger(t, tracking.Ledger{"a.txt": digest("old")})
	h.writeRepo(t, "a.txt", "new")

	plan, err := h.engine.PlanSyncRepoToHome(nil, false)
	require.NoError(t, err)
	require.True(t, plan.OK())
	_, err = h.engine.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "new", h.readHome(t, "a.txt"))
	assert.Equal(t, digest("new"), h.ledger(t)["a.txt"])
}

func TestSyncRepoToHome_Idempotent(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.setLedger(t, tracking.Ledger{"a.txt": digest("v1")})
	h.writeHome(t, "a.txt", "v1")
	h.writeRepo(t, "a.txt", "v2")

	for i := 0; i < 2; i++ {
		plan, err := h.engine.PlanSyncRepoToHome(nil, false)
		require.NoError(t, err)
		require.True(t, plan.OK(), "run %d", i+1)
		_, err = h.engine.Apply(context.Background(), plan)
		require.NoError(t, err)
		assert.Equal(t, tracking.Ledger{"a.txt": digest("v2")}, h.ledger(t))
	}
	assert.Equal(t, "v2", h.readHome(t, "a.txt"))
}

func TestSyncHomeIntoRepo_CopiesAndCommits(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.setLedger(t, tracking.Ledger{"a.txt": digest("v1")})
	h.writeRepo(t, "a.txt", "v1")
	h.writeHome(t, "a.txt", "v2 edited at home")

	ctx := context.Background()
	h.gateway.On("CommitAndPush", ctx, commitMessage()).Return(nil).Once()

	plan, err := h.engine.PlanSyncHomeIntoRepo(nil, false)
	require.NoError(t, err)
	require.True(t, plan.OK())
	assert.Equal(t, reconcile.HomeToRepo, plan.Actions[0].Direction)

	_, err = h.engine.Apply(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, "v2 edited at home", h.readRepo(t, "a.txt"))
	assert.Equal(t, digest("v2 edited at home"), h.ledger(t)["a.txt"])
	h.gateway.AssertExpectations(t)
}

func TestSyncHomeIntoRepo_Idempotent(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.setLedger(t, tracking.Ledger{"a.txt": digest("v1")})
	h.writeRepo(t, "a.txt", "v1")
	h.writeHome(t, "a.txt", "v2")
	h.gateway.On("CommitAndPush", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 2; i++ {
		plan, err := h.engine.PlanSyncHomeIntoRepo(nil, false)
		require.NoError(t, err)
		require.True(t, plan.OK(), "run %d", i+1)
		_, err = h.engine.Apply(context.Background(), plan)
		require.NoError(t, err)
	}
	assert.Equal(t, tracking.Ledger{"a.txt": digest("v2")}, h.ledger(t))
	h.gateway.AssertNumberOfCalls(t, "CommitAndPush", 2)
}

func TestSyncHomeIntoRepo_Conflicts(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{
		"changed.txt": tracking.DirectLocation("changed.txt"),
		"removed.txt": tracking.DirectLocation("removed.txt"),
		"nohome.txt":  tracking.DirectLocation("nohome.txt"),
	})
	h.setLedger(t, tracking.Ledger{
		"changed.txt": digest("v1"),
		"removed.txt": digest("v1"),
		"nohome.txt":  digest("v1"),
	})
	h.writeRepo(t, "changed.txt", "changed upstream")
	h.writeRepo(t, "nohome.txt", "v1")
	h.writeHome(t, "changed.txt", "v1")
	h.writeHome(t, "removed.txt", "v1")

	plan, err := h.engine.PlanSyncHomeIntoRepo(nil, false)
	require.NoError(t, err)

	codes := map[string]errors.ErrorCode{}
	for _, p := range plan.Problems {
		codes[p.Details["path"].(string)] = p.Code
	}
	assert.Equal(t, map[string]errors.ErrorCode{
		"changed.txt": errors.ErrConflictModified,
		"removed.txt": errors.ErrConflictModified,
		"nohome.txt":  errors.ErrNotFound,
	}, codes)

	_, err = h.engine.Apply(context.Background(), plan)
	require.Error(t, err)
	h.gateway.AssertNotCalled(t, "CommitAndPush", mock.Anything, mock.Anything)
	assert.Equal(t, "changed upstream", h.readRepo(t, "changed.txt"))
}

func TestSyncHomeIntoRepo_ForceCopiesUnconditionally(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{
		"changed.txt": tracking.DirectLocation("changed.txt"),
		"fresh.txt":   tracking.DirectLocation("fresh.txt"),
	})
	h.setLedger(t, tracking.Ledger{"changed.txt": digest("v1")})
	h.writeRepo(t, "changed.txt", "changed upstream")
	h.writeHome(t, "changed.txt", "home wins")
	h.writeHome(t, "fresh.txt", "never synced")
	h.gateway.On("CommitAndPush", mock.Anything, commitMessage()).Return(nil).Once()

	plan, err := h.engine.PlanSyncHomeIntoRepo(nil, true)
	require.NoError(t, err)
	require.True(t, plan.OK())

	_, err = h.engine.Apply(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "home wins", h.readRepo(t, "changed.txt"))
	assert.Equal(t, "never synced", h.readRepo(t, "fresh.txt"))
	assert.Equal(t, tracking.Ledger{
		"changed.txt": digest("home wins"),
		"fresh.txt":   digest("never synced"),
	}, h.ledger(t))
	h.gateway.AssertExpectations(t)
}

func TestSyncHomeIntoRepo_CommitFailure(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.writeHome(t, "a.txt", "v1")
	h.gateway.On("CommitAndPush", mock.Anything, mock.Anything).
		Return(errors.New(errors.ErrVCSFailure, "git push failed"))

	plan, err := h.engine.PlanSyncHomeIntoRepo(nil, true)
	require.NoError(t, err)
	_, err = h.engine.Apply(context.Background(), plan)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVCSFailure))
	assert.Equal(t, digest("v1"), h.ledger(t)["a.txt"], "the ledger reflects the copy that happened")
}
