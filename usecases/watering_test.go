package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aquasmart/confs"
	"aquasmart/db"
	"aquasmart/entities"
	"aquasmart/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pumpCall struct {
	action   string
	fieldID  int
	duration time.Duration
}

type recordingPump struct {
	mu       sync.Mutex
	calls    []pumpCall
	openErr  error
	closeErr error
	// hang makes Open wait for its context.
	hang bool
}

func (p *recordingPump) Open(ctx context.Context, fieldID int, d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pumpCall{"open", fieldID, d})
	if p.hang {
		<-ctx.Done()
		return ctx.Err()
	}
	return p.openErr
}

func (p *recordingPump) Close(ctx context.Context, fieldID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, pumpCall{"close", fieldID, 0})
	return p.closeErr
}

func (p *recordingPump) snapshot() []pumpCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]pumpCall(nil), p.calls...)
}

type fixture struct {
	uc       *WateringUseCase
	pump     *recordingPump
	runs     repositories.WateringRunRepository
	activity repositories.ActivityRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database, err := db.Connect(confs.StoreConfig{Driver: "sqlite", Path: ":memory:"}, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	f := &fixture{
		pump:     &recordingPump{},
		runs:     repositories.NewWateringRunRepository(database),
		activity: repositories.NewActivityRepository(database),
	}
	f.uc = NewWateringUseCase(f.pump, f.runs, f.activity, nil)
	return f
}

func TestStart_ValidatesDuration(t *testing.T) {
	f := newFixture(t)
	for _, minutes := range []int{0, -5, 121} {
		_, err := f.uc.Start(context.Background(), WateringRequest{FieldID: 1, Minutes: minutes})
		assert.ErrorIs(t, err, ErrInvalidDuration, "minutes %d", minutes)
	}
	_, err := f.uc.Start(context.Background(), WateringRequest{Minutes: 10})
	assert.Error(t, err)
	assert.Empty(t, f.pump.snapshot())
}

func TestStart_OneFieldAtATime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	run, err := f.uc.Start(ctx, WateringRequest{UserID: 7, FieldID: 1, FieldName: "Tarla 1", Minutes: 120})
	require.NoError(t, err)
	assert.Equal(t, entities.WateringRunning, run.Status)
	assert.Equal(t, []pumpCall{{"open", 1, 120 * time.Minute}}, f.pump.snapshot())

	_, err = f.uc.Start(ctx, WateringRequest{FieldID: 2, Minutes: 5})
	assert.ErrorIs(t, err, ErrWateringActive)

	active, ok := f.uc.Active()
	require.True(t, ok)
	assert.Equal(t, run.ID, active.ID)

	stopped, err := f.uc.Stop(ctx)
	require.NoError(t, err)
	assert.Equal(t, entities.WateringStopped, stopped.Status)
	_, ok = f.uc.Active()
	assert.False(t, ok)

	stored, err := f.runs.GetByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.WateringStopped, stored.Status)

	_, err = f.uc.Stop(ctx)
	assert.ErrorIs(t, err, ErrNoActiveRun)

	_, err = f.uc.Start(ctx, WateringRequest{FieldID: 2, Minutes: 1})
	assert.NoError(t, err, "a new run may start once the previous one stopped")
}

func TestRunCompletesAfterDuration(t *testing.T) {
	f := newFixture(t)
	f.uc.minute = 10 * time.Millisecond

	var mu sync.Mutex
	var seen []string
	f.uc.OnChange(func(run entities.WateringRun) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, run.Status)
	})

	run, err := f.uc.Start(context.Background(), WateringRequest{FieldID: 4, Minutes: 2})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		_, ok := f.uc.Active()
		return !ok
	}, 2*time.Second, 5*time.Millisecond)

	stored, err := f.runs.GetByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.WateringCompleted, stored.Status)

	calls := f.pump.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, "close", calls[1].action)

	mu.Lock()
	assert.Equal(t, []string{entities.WateringRunning, entities.WateringCompleted}, seen)
	mu.Unlock()

	events, err := f.activity.GetByFieldID(4, 10)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestStart_PumpFailureIsRecorded(t *testing.T) {
	f := newFixture(t)
	f.pump.openErr = errors.New("broker down")

	_, err := f.uc.Start(context.Background(), WateringRequest{FieldID: 1, Minutes: 5})
	require.Error(t, err)
	_, ok := f.uc.Active()
	assert.False(t, ok)

	runs, err := f.uc.History(1, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, entities.WateringFailed, runs[0].Status)
}

func TestStart_SlowPumpIsBounded(t *testing.T) {
	f := newFixture(t)
	f.uc.pumpTimeout = 20 * time.Millisecond
	f.pump.hang = true

	begin := time.Now()
	_, err := f.uc.Start(context.Background(), WateringRequest{FieldID: 1, Minutes: 5})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(begin), 2*time.Second)

	_, ok := f.uc.Active()
	assert.False(t, ok)
}

func TestStop_PumpFailureKeepsRunActive(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Start(context.Background(), WateringRequest{FieldID: 1, Minutes: 5})
	require.NoError(t, err)

	f.pump.closeErr = errors.New("timeout")
	_, err = f.uc.Stop(context.Background())
	require.Error(t, err)
	_, ok := f.uc.Active()
	assert.True(t, ok)

	f.pump.closeErr = nil
	_, err = f.uc.Stop(context.Background())
	assert.NoError(t, err)
}
