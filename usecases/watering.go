package usecases

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aquasmart/entities"
	"aquasmart/pump"
	"aquasmart/repositories"

	"go.uber.org/zap"
)

const (
	MinWateringMinutes = 1
	MaxWateringMinutes = 120
	// WateringStep is the increment offered by the duration pickers.
	WateringStep = 5

	// PumpTimeout bounds one pump command; the use case stays locked meanwhile.
	PumpTimeout = 5 * time.Second
)

var (
	ErrInvalidDuration = fmt.Errorf("duration must be between %d and %d minutes", MinWateringMinutes, MaxWateringMinutes)
	ErrWateringActive  = errors.New("another field is already being watered")
	ErrNoActiveRun     = errors.New("no watering in progress")
	ErrFieldRequired   = errors.New("field_id is required")
)

// WateringRequest asks for one field to be watered for Minutes.
type WateringRequest struct {
	UserID    int    `json:"-"`
	FieldID   int    `json:"field_id"`
	FieldName string `json:"field_name,omitempty"`
	Minutes   int    `json:"minutes"`
}

// WateringUseCase runs manual watering, one field at a time. A run ends when
// its duration elapses or Stop is called.
type WateringUseCase struct {
	mu       sync.Mutex
	pump     pump.Commander
	runs     repositories.WateringRunRepository
	activity repositories.ActivityRepository
	log      *zap.SugaredLogger

	active *entities.WateringRun
	timer  *time.Timer
	notify func(entities.WateringRun)
	minute time.Duration

	pumpTimeout time.Duration
}

func NewWateringUseCase(p pump.Commander, runs repositories.WateringRunRepository, activity repositories.ActivityRepository, log *zap.SugaredLogger) *WateringUseCase {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WateringUseCase{pump: p, runs: runs, activity: activity, log: log, minute: time.Minute, pumpTimeout: PumpTimeout}
}

// OnChange registers fn to receive every run state change. fn runs with the
// use case locked and must not call back into it.
func (uc *WateringUseCase) OnChange(fn func(entities.WateringRun)) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.notify = fn
}

func (uc *WateringUseCase) Start(ctx context.Context, req WateringRequest) (*entities.WateringRun, error) {
	if req.FieldID <= 0 {
		return nil, ErrFieldRequired
	}
	if req.Minutes < MinWateringMinutes || req.Minutes > MaxWateringMinutes {
		return nil, ErrInvalidDuration
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.active != nil {
		return nil, ErrWateringActive
	}

	duration := time.Duration(req.Minutes) * uc.minute
	now := time.Now().UTC()
	run := &entities.WateringRun{
		UserID:    req.UserID,
		FieldID:   req.FieldID,
		FieldName: req.FieldName,
		Minutes:   req.Minutes,
		Status:    entities.WateringRunning,
		StartedAt: now.Format(time.RFC3339),
		EndsAt:    now.Add(duration).Format(time.RFC3339),
	}
	if err := uc.runs.Create(run); err != nil {
		return nil, fmt.Errorf("record watering run: %w", err)
	}

	openCtx, cancel := context.WithTimeout(ctx, uc.pumpTimeout)
	defer cancel()
	if err := uc.pump.Open(openCtx, req.FieldID, duration); err != nil {
		uc.finish(run, entities.WateringFailed, err.Error())
		return nil, fmt.Errorf("open pump: %w", err)
	}

	uc.active = run
	id := run.ID
	uc.timer = time.AfterFunc(duration, func() { uc.complete(id) })
	uc.log.Infof("watering field %d for %d min (run %s)", req.FieldID, req.Minutes, run.ID)
	uc.record(*run, fmt.Sprintf("Watering started for %d min", req.Minutes))
	uc.emit(*run)

	out := *run
	return &out, nil
}

// Stop closes the pump of the active run.
func (uc *WateringUseCase) Stop(ctx context.Context) (*entities.WateringRun, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.active == nil {
		return nil, ErrNoActiveRun
	}
	run := uc.active
	if uc.timer != nil {
		uc.timer.Stop()
	}

	closeCtx, cancel := context.WithTimeout(ctx, uc.pumpTimeout)
	defer cancel()
	if err := uc.pump.Close(closeCtx, run.FieldID); err != nil {
		// The run stays active so the user can retry.
		uc.timer = time.AfterFunc(uc.remaining(run), func() { uc.complete(run.ID) })
		return nil, fmt.Errorf("close pump: %w", err)
	}

	uc.finish(run, entities.WateringStopped, "stopped by user")
	uc.active, uc.timer = nil, nil
	out := *run
	return &out, nil
}

// Active returns a copy of the running watering, if any.
func (uc *WateringUseCase) Active() (*entities.WateringRun, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.active == nil {
		return nil, false
	}
	out := *uc.active
	return &out, true
}

// History lists recent runs, newest first.
func (uc *WateringUseCase) History(fieldID, limit int) ([]entities.WateringRun, error) {
	if fieldID > 0 {
		return uc.runs.GetByFieldID(fieldID, limit)
	}
	return uc.runs.GetRecent(limit)
}

func (uc *WateringUseCase) complete(id string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.active == nil || uc.active.ID != id {
		return
	}
	run := uc.active

	ctx, cancel := context.WithTimeout(context.Background(), uc.pumpTimeout)
	defer cancel()
	if err := uc.pump.Close(ctx, run.FieldID); err != nil {
		uc.log.Warnf("close pump of field %d after run %s: %v", run.FieldID, run.ID, err)
	}

	uc.finish(run, entities.WateringCompleted, "")
	uc.active, uc.timer = nil, nil
}

// finish persists the terminal status and announces it. Callers hold uc.mu.
func (uc *WateringUseCase) finish(run *entities.WateringRun, status, response string) {
	run.Status = status
	if err := uc.runs.UpdateStatus(run.ID, status, response); err != nil {
		uc.log.Warnf("update watering run %s: %v", run.ID, err)
	}
	uc.log.Infof("watering run %s on field %d %s", run.ID, run.FieldID, status)
	uc.record(*run, "Watering "+status)
	uc.emit(*run)
}

func (uc *WateringUseCase) record(run entities.WateringRun, msg string) {
	if uc.activity == nil {
		return
	}
	name := run.FieldName
	if name == "" {
		name = fmt.Sprintf("Field %d", run.FieldID)
	}
	event := &entities.ActivityEvent{
		FieldID:   run.FieldID,
		FieldName: name,
		Kind:      entities.ActivityWatering,
		Message:   name + ": " + msg,
		Status:    run.Status,
	}
	if err := uc.activity.Create(event); err != nil {
		uc.log.Warnf("record watering activity: %v", err)
	}
}

func (uc *WateringUseCase) emit(run entities.WateringRun) {
	if uc.notify != nil {
		uc.notify(run)
	}
}

func (uc *WateringUseCase) remaining(run *entities.WateringRun) time.Duration {
	ends, err := time.Parse(time.RFC3339, run.EndsAt)
	if err != nil {
		return 0
	}
	if d := time.Until(ends); d > 0 {
		return d
	}
	return 0
}
