package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WateringRunning   = "running"
	WateringCompleted = "completed"
	WateringStopped   = "stopped"
	WateringFailed    = "failed"
)

// WateringRun is one manual watering command and its outcome.
type WateringRun struct {
	ID        string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    int    `gorm:"index" json:"user_id"`
	FieldID   int    `gorm:"index" json:"field_id"`
	FieldName string `json:"field_name,omitempty"`
	Minutes   int    `json:"minutes"`
	Status    string `gorm:"type:varchar(16);index" json:"status"`
	Response  string `gorm:"type:text" json:"response,omitempty"`
	StartedAt string `json:"started_at"`
	EndsAt    string `json:"ends_at"`
	UpdatedAt string `json:"updated_at"`
}

func (r *WateringRun) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.StartedAt == "" {
		r.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}
	r.UpdatedAt = r.StartedAt
	return nil
}
