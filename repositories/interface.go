package repositories

import "aquasmart/entities"

// LocalStorage is durable key/value storage on the dashboard host.
// GetItem reports ok=false for a missing key.
type LocalStorage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
	RemoveItem(key string) error
}

type WateringRunRepository interface {
	Create(run *entities.WateringRun) error
	GetByID(id string) (*entities.WateringRun, error)
	GetRecent(limit int) ([]entities.WateringRun, error)
	GetByFieldID(fieldID, limit int) ([]entities.WateringRun, error)
	UpdateStatus(id, status, response string) error
}

type ActivityRepository interface {
	Create(event *entities.ActivityEvent) error
	GetRecent(limit int) ([]entities.ActivityEvent, error)
	GetByFieldID(fieldID, limit int) ([]entities.ActivityEvent, error)
	DeleteOlderThan(createdAt string) error
}
