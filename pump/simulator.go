package pump

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Simulator stands in for real pumps. An opened pump closes itself when its
// duration elapses.
type Simulator struct {
	mu     sync.Mutex
	timers map[int]*time.Timer
	log    *zap.SugaredLogger
}

func NewSimulator(log *zap.SugaredLogger) *Simulator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Simulator{timers: make(map[int]*time.Timer), log: log}
}

func (s *Simulator) Open(ctx context.Context, fieldID int, duration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[fieldID]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(duration, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.timers[fieldID] == timer {
			delete(s.timers, fieldID)
			s.log.Infof("simulated pump of field %d closed after %s", fieldID, duration)
		}
	})
	s.timers[fieldID] = timer
	s.log.Infof("simulated pump of field %d opened for %s", fieldID, duration)
	return nil
}

func (s *Simulator) Close(ctx context.Context, fieldID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.timers[fieldID]; ok {
		t.Stop()
		delete(s.timers, fieldID)
		s.log.Infof("simulated pump of field %d closed", fieldID)
	}
	return nil
}

// IsOpen reports whether the field's simulated pump is running.
func (s *Simulator) IsOpen(fieldID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.timers[fieldID]
	return ok
}
