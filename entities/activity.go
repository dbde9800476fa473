package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Activity kinds.
const (
	ActivityMoisture    = "moisture"
	ActivityTemperature = "temperature"
	ActivityStatus      = "status"
	ActivityWatering    = "watering"
)

// ActivityEvent is one entry of the dashboard activity feed: a significant
// reading change, a status transition or a watering action.
type ActivityEvent struct {
	ID          string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	FieldID     int      `gorm:"index" json:"field_id"`
	FieldName   string   `json:"field_name"`
	Kind        string   `gorm:"type:varchar(16)" json:"kind"`
	Message     string   `json:"message"`
	Moisture    *float64 `json:"moisture,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Status      string   `json:"status,omitempty"`
	CreatedAt   string   `gorm:"index" json:"created_at"`
}

func (e *ActivityEvent) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = time.Now().UTC().Format(time.RFC3339Nano)
	}
	return nil
}
