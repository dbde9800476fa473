package repositories

import (
	"aquasmart/db"
	"aquasmart/entities"
)

type activityGormRepository struct {
	db db.Database
}

func NewActivityRepository(database db.Database) ActivityRepository {
	return &activityGormRepository{db: database}
}

func (r *activityGormRepository) Create(event *entities.ActivityEvent) error {
	return r.db.GetDB().Create(event).Error
}

func (r *activityGormRepository) GetRecent(limit int) ([]entities.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []entities.ActivityEvent
	err := r.db.GetDB().Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *activityGormRepository) GetByFieldID(fieldID, limit int) ([]entities.ActivityEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var events []entities.ActivityEvent
	err := r.db.GetDB().Where("field_id = ?", fieldID).Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (r *activityGormRepository) DeleteOlderThan(createdAt string) error {
	return r.db.GetDB().Where("created_at < ?", createdAt).Delete(&entities.ActivityEvent{}).Error
}
