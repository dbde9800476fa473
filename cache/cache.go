package cache

import (
	"fmt"
	"math"
	"sync"
	"time"

	"aquasmart/entities"
)

// FieldReading is one observation of a field taken by the poller.
type FieldReading struct {
	FieldID     int       `json:"field_id"`
	FieldName   string    `json:"field_name"`
	Moisture    float64   `json:"moisture"`
	Temperature float64   `json:"temperature"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// ReadingCache keeps a bounded reading history per field and turns
// significant changes into activity events.
type ReadingCache struct {
	mu                sync.RWMutex
	history           map[int][]FieldReading // map[fieldID][]readings
	lastSignificant   map[int]FieldReading
	moistureThreshold float64 // e.g. 2 percentage points
	tempThreshold     float64 // e.g. 0.5°C
	maxPoints         int
}

func NewReadingCache(moistureThreshold, tempThreshold float64, maxPoints int) *ReadingCache {
	if maxPoints <= 0 {
		maxPoints = 288
	}
	return &ReadingCache{
		history:           make(map[int][]FieldReading),
		lastSignificant:   make(map[int]FieldReading),
		moistureThreshold: moistureThreshold,
		tempThreshold:     tempThreshold,
		maxPoints:         maxPoints,
	}
}

// Record stores r and returns the activity it causes. The first reading of a
// field only sets the baseline. Later readings produce an event per metric
// whose change from the last significant reading reaches its threshold, and
// one for a status transition.
func (rc *ReadingCache) Record(r FieldReading) []entities.ActivityEvent {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now()
	}

	rc.mu.Lock()
	defer rc.mu.Unlock()

	points := append(rc.history[r.FieldID], r)
	if len(points) > rc.maxPoints {
		points = points[len(points)-rc.maxPoints:]
	}
	rc.history[r.FieldID] = points

	last, seen := rc.lastSignificant[r.FieldID]
	if !seen {
		rc.lastSignificant[r.FieldID] = r
		return nil
	}

	var events []entities.ActivityEvent
	at := r.Timestamp.UTC().Format(time.RFC3339Nano)

	if diff := r.Moisture - last.Moisture; math.Abs(diff) >= rc.moistureThreshold {
		m := r.Moisture
		events = append(events, entities.ActivityEvent{
			FieldID:   r.FieldID,
			FieldName: r.FieldName,
			Kind:      entities.ActivityMoisture,
			Message:   fmt.Sprintf("%s moisture %s to %.1f%%", r.FieldName, direction(diff), r.Moisture),
			Moisture:  &m,
			Status:    r.Status,
			CreatedAt: at,
		})
	}
	if diff := r.Temperature - last.Temperature; math.Abs(diff) >= rc.tempThreshold {
		tmp := r.Temperature
		events = append(events, entities.ActivityEvent{
			FieldID:     r.FieldID,
			FieldName:   r.FieldName,
			Kind:        entities.ActivityTemperature,
			Message:     fmt.Sprintf("%s temperature %s to %.1f°C", r.FieldName, direction(diff), r.Temperature),
			Temperature: &tmp,
			Status:      r.Status,
			CreatedAt:   at,
		})
	}
	if r.Status != last.Status {
		events = append(events, entities.ActivityEvent{
			FieldID:   r.FieldID,
			FieldName: r.FieldName,
			Kind:      entities.ActivityStatus,
			Message:   fmt.Sprintf("%s is now %s (was %s)", r.FieldName, r.Status, last.Status),
			Status:    r.Status,
			CreatedAt: at,
		})
	}

	if len(events) > 0 {
		rc.lastSignificant[r.FieldID] = r
	}
	return events
}

// History returns a copy of the readings kept for a field, oldest first.
func (rc *ReadingCache) History(fieldID int) []FieldReading {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	points := rc.history[fieldID]
	out := make([]FieldReading, len(points))
	copy(out, points)
	return out
}

// Latest returns the newest reading of a field.
func (rc *ReadingCache) Latest(fieldID int) (FieldReading, bool) {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	points := rc.history[fieldID]
	if len(points) == 0 {
		return FieldReading{}, false
	}
	return points[len(points)-1], true
}

// GetCacheStats returns statistics about the current cache
func (rc *ReadingCache) GetCacheStats() map[string]interface{} {
	rc.mu.RLock()
	defer rc.mu.RUnlock()

	totalPoints := 0
	for _, points := range rc.history {
		totalPoints += len(points)
	}

	return map[string]interface{}{
		"total_fields":       len(rc.history),
		"total_readings":     totalPoints,
		"moisture_threshold": rc.moistureThreshold,
		"temp_threshold":     rc.tempThreshold,
	}
}

// Clear drops all history and baselines, e.g. when the user logs out.
func (rc *ReadingCache) Clear() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.history = make(map[int][]FieldReading)
	rc.lastSignificant = make(map[int]FieldReading)
}

func direction(diff float64) string {
	if diff < 0 {
		return "dropped"
	}
	return "rose"
}
