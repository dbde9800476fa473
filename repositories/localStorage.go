package repositories

import (
	"errors"

	"aquasmart/db"
	"aquasmart/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type localStorageGormRepository struct {
	db db.Database
}

func NewLocalStorageRepository(database db.Database) LocalStorage {
	return &localStorageGormRepository{db: database}
}

func (r *localStorageGormRepository) GetItem(key string) (string, bool, error) {
	var item entities.LocalStorageItem
	err := r.db.GetDB().Where("key = ?", key).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return item.Value, true, nil
}

func (r *localStorageGormRepository) SetItem(key, value string) error {
	item := &entities.LocalStorageItem{Key: key, Value: value}
	return r.db.GetDB().Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(item).Error
}

func (r *localStorageGormRepository) RemoveItem(key string) error {
	return r.db.GetDB().Where("key = ?", key).Delete(&entities.LocalStorageItem{}).Error
}
