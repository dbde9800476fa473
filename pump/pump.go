// Package pump dispatches manual watering commands to field pumps.
package pump

import (
	"context"
	"time"
)

// Commander opens and closes the pump of one field.
type Commander interface {
	Open(ctx context.Context, fieldID int, duration time.Duration) error
	Close(ctx context.Context, fieldID int) error
}

const (
	ActionOpen  = "open"
	ActionClose = "close"
)

// Command is the message sent to a pump controller.
type Command struct {
	FieldID         int    `json:"field_id"`
	Action          string `json:"action"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	IssuedAt        string `json:"issued_at"`
}

func newCommand(fieldID int, action string, duration time.Duration) Command {
	return Command{
		FieldID:         fieldID,
		Action:          action,
		DurationSeconds: int(duration / time.Second),
		IssuedAt:        time.Now().UTC().Format(time.RFC3339),
	}
}
