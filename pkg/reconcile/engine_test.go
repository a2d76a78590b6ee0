package reconcile_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/dotsync/pkg/errors"
	"github.com/arthur-debert/dotsync/pkg/reconcile"
	"github.com/arthur-debert/dotsync/pkg/tracking"
	"github.com/arthur-debert/dotsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPull(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	ctx := context.Background()
	h.gateway.On("Pull", ctx).Return(nil).Once()

	require.NoError(t, h.engine.Pull(ctx))
	h.gateway.AssertExpectations(t)
}

func TestPull_Failure(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.gateway.On("Pull", mock.Anything).Return(errors.New(errors.ErrVCSFailure, "git pull failed"))

	err := h.engine.Pull(context.Background())
	assert.True(t, errors.IsErrorCode(err, errors.ErrVCSFailure))
}

func TestDryRun_SkipsPullCopiesAndCommits(t *testing.T) {
	h := newHarness(t, harnessOptions{dryRun: true})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.writeHome(t, "a.txt", "alpha")
	ctx := context.Background()
	assert.True(t, h.engine.DryRun())
	assert.Equal(t, "laptop", h.engine.Host())

	require.NoError(t, h.engine.Pull(ctx))

	plan, err := h.engine.PlanSyncHomeIntoRepo(nil, true)
	require.NoError(t, err)
	result, err := h.engine.Apply(ctx, plan)
	require.NoError(t, err)
	assert.True(t, result.DryRun)
	assert.Len(t, result.Applied, 1)

	assert.False(t, h.exists(t, testRepo+"/a.txt"))
	assert.Empty(t, h.ledger(t))
	h.gateway.AssertNotCalled(t, "Pull", mock.Anything)
	h.gateway.AssertNotCalled(t, "CommitAndPush", mock.Anything, mock.Anything)
}

func TestDryRun_StillReportsProblems(t *testing.T) {
	h := newHarness(t, harnessOptions{dryRun: true})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})

	plan, err := h.engine.PlanInstall(nil)
	require.NoError(t, err)
	_, err = h.engine.Apply(context.Background(), plan)
	assert.True(t, errors.IsErrorCode(err, errors.ErrValidation))
}

func TestApply_StopsAtFirstCopyFailure(t *testing.T) {
	h := newHarness(t, harnessOptions{
		wrapFS: func(fs types.FS) types.FS {
			return failingFS{FS: fs, failWrite: testHome + "/b.txt"}
		},
	})
	h.setConfig(t, tracking.Config{
		"a.txt": tracking.DirectLocation("a.txt"),
		"b.txt": tracking.DirectLocation("b.txt"),
		"c.txt": tracking.DirectLocation("c.txt"),
	})
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		h.writeRepo(t, name, name)
	}

	plan, err := h.engine.PlanInstall(nil)
	require.NoError(t, err)
	require.True(t, plan.OK())

	result, err := h.engine.Apply(context.Background(), plan)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrIOFailure))
	require.NotNil(t, result)
	assert.Len(t, result.Applied, 1)

	assert.Equal(t, "a.txt", h.readHome(t, "a.txt"), "completed copies are not rolled back")
	assert.False(t, h.exists(t, testHome+"/c.txt"))
	assert.Equal(t, tracking.Ledger{"a.txt": digest("a.txt")}, h.ledger(t))
}

func TestApply_CanceledContext(t *testing.T) {
	h := newHarness(t, harnessOptions{})
	h.setConfig(t, tracking.Config{"a.txt": tracking.DirectLocation("a.txt")})
	h.writeRepo(t, "a.txt", "alpha")

	plan, err := h.engine.PlanInstall(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = h.engine.Apply(ctx, plan)
	require.Error(t, err)
	assert.False(t, h.exists(t, testHome+"/a.txt"))
}

func TestPlan_Err(t *testing.T) {
	plan := &reconcile.Plan{Operation: reconcile.OpInstall}
	assert.NoError(t, plan.Err())

	plan.Problems = append(plan.Problems,
		errors.New(errors.ErrAlreadyExists, "a.txt: already exists in home"),
		errors.New(errors.ErrConflictModified, "b.txt: modified"))
	err := plan.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 problem(s)")
	assert.Contains(t, err.Error(), "a.txt: already exists in home")
	assert.ErrorIs(t, err, errors.New(errors.ErrConflictModified, ""))
}
