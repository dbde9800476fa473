package repositories

import (
	"encoding/json"
	"time"

	"aquasmart/db"
	"aquasmart/entities"
)

type wateringRunGormRepository struct {
	db db.Database
}

func NewWateringRunRepository(database db.Database) WateringRunRepository {
	return &wateringRunGormRepository{db: database}
}

func (r *wateringRunGormRepository) Create(run *entities.WateringRun) error {
	return r.db.GetDB().Create(run).Error
}

func (r *wateringRunGormRepository) GetByID(id string) (*entities.WateringRun, error) {
	var run entities.WateringRun
	err := r.db.GetDB().Where("id = ?", id).First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *wateringRunGormRepository) GetRecent(limit int) ([]entities.WateringRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []entities.WateringRun
	err := r.db.GetDB().Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

func (r *wateringRunGormRepository) GetByFieldID(fieldID, limit int) ([]entities.WateringRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []entities.WateringRun
	err := r.db.GetDB().Where("field_id = ?", fieldID).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}

func (r *wateringRunGormRepository) UpdateStatus(id, status, response string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": now,
	}
	if response != "" {
		// ensure json string
		if !json.Valid([]byte(response)) {
			b, _ := json.Marshal(map[string]string{"message": response})
			response = string(b)
		}
		updates["response"] = response
	}
	return r.db.GetDB().Model(&entities.WateringRun{}).Where("id = ?", id).Updates(updates).Error
}
