package services

import (
	"context"
	"time"

	"aquasmart/cache"
	"aquasmart/entities"
	"aquasmart/repositories"

	"go.uber.org/zap"
)

// CurrentUser reports the logged-in user, or nil.
type CurrentUser interface {
	Current() *entities.User
}

// Broadcaster pushes a typed message to live viewers. *ws.Manager implements it.
type Broadcaster interface {
	Broadcast(msgType string, data interface{}) int
}

// Poller refreshes field data on an interval while someone is logged in,
// records readings and publishes changes to viewers.
type Poller struct {
	dashboard *DashboardService
	sessions  CurrentUser
	cache     *cache.ReadingCache
	activity  repositories.ActivityRepository
	hub       Broadcaster
	interval  time.Duration
	log       *zap.SugaredLogger
}

func NewPoller(dashboard *DashboardService, sessions CurrentUser, rc *cache.ReadingCache, activity repositories.ActivityRepository, hub Broadcaster, interval time.Duration, log *zap.SugaredLogger) *Poller {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Poller{
		dashboard: dashboard,
		sessions:  sessions,
		cache:     rc,
		activity:  activity,
		hub:       hub,
		interval:  interval,
		log:       log,
	}
}

// Start polls until ctx ends.
func (p *Poller) Start(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	go func() {
		defer ticker.Stop()
		p.Poll(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.Poll(ctx)
			}
		}
	}()
}

// Poll runs one refresh and returns the activity it produced.
func (p *Poller) Poll(ctx context.Context) []entities.ActivityEvent {
	user := p.sessions.Current()
	if user == nil {
		return nil
	}

	views, err := p.dashboard.FieldViews(ctx, user.ID)
	if err != nil {
		p.log.Warnf("poll fields for user %d: %v", user.ID, err)
		return nil
	}

	var events []entities.ActivityEvent
	for _, v := range views {
		if v.Latest == nil {
			continue
		}
		reading := cache.FieldReading{
			FieldID:     v.ID,
			FieldName:   v.Name,
			Moisture:    v.Latest.Moisture,
			Temperature: v.Latest.Temperature,
			Status:      string(v.Status),
			Timestamp:   v.Latest.Timestamp.Time,
		}
		if last, ok := p.cache.Latest(v.ID); ok && !reading.Timestamp.IsZero() &&
			last.Timestamp.Equal(reading.Timestamp) && last.Status == reading.Status {
			continue // same sensor log as the previous poll
		}
		events = append(events, p.cache.Record(reading)...)
	}

	for i := range events {
		if p.activity != nil {
			if err := p.activity.Create(&events[i]); err != nil {
				p.log.Warnf("store activity: %v", err)
			}
		}
	}

	if p.hub != nil {
		p.hub.Broadcast("fields", views)
		if len(events) > 0 {
			p.hub.Broadcast("activity", events)
		}
	}
	if len(events) > 0 {
		p.log.Infof("poll recorded %d activity events", len(events))
	}
	return events
}

// GetCacheStats returns statistics about the reading cache.
func (p *Poller) GetCacheStats() map[string]interface{} {
	return p.cache.GetCacheStats()
}
