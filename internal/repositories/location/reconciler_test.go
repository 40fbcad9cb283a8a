package location

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeRecalculator struct {
	calls     atomic.Int32
	corrected int
	err       error
}

func (f *fakeRecalculator) Recalculate(_ context.Context) (int, error) {
	f.calls.Add(1)
	return f.corrected, f.err
}

func quietLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestReconcilerRunsOnInterval(t *testing.T) {
	counts := &fakeRecalculator{corrected: 3}
	r := NewReconciler(counts, 5*time.Millisecond, quietLogger())

	require.NoError(t, r.Start(context.Background()))
	assert.ErrorIs(t, r.Start(context.Background()), ErrReconcilerAlreadyRunning)

	assert.Eventually(t, func() bool { return counts.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, r.Stop(context.Background()))
	require.NoError(t, r.Stop(context.Background()))
}

func TestReconcilerDisabled(t *testing.T) {
	counts := &fakeRecalculator{}
	r := NewReconciler(counts, 0, quietLogger())

	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop(context.Background()))
	assert.Zero(t, counts.calls.Load())
}

func TestReconcilerRunOnce(t *testing.T) {
	r := NewReconciler(&fakeRecalculator{corrected: 7}, time.Hour, quietLogger())

	corrected, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, corrected)

	cause := errors.New("deadlock detected")
	r = NewReconciler(&fakeRecalculator{err: cause}, time.Hour, quietLogger())
	_, err = r.RunOnce(context.Background())
	assert.ErrorIs(t, err, cause)
}

func TestReconcilerDependency(t *testing.T) {
	r := NewReconciler(&fakeRecalculator{}, time.Hour, quietLogger())

	assert.Equal(t, "reconciler", r.GetName())
	assert.Equal(t, []string{"database"}, r.DependsOn())
}

func TestRecountQueryTargetsTierColumn(t *testing.T) {
	for _, tc := range tierColumns {
		stmt := recountQuery(tc.column)
		assert.Contains(t, stmt, "li."+tc.column+" = loc.id")
		assert.Contains(t, stmt, "loc.type = $1")
		assert.Contains(t, stmt, "li.status = ANY($2)")
	}
}
