package entities

import (
	"time"

	"gorm.io/gorm"
)

// LocalStorageItem is a durable key/value pair kept on the dashboard host,
// the counterpart of browser local storage.
type LocalStorageItem struct {
	Key       string `gorm:"primaryKey;type:varchar(128)" json:"key"`
	Value     string `gorm:"type:text" json:"value"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func (LocalStorageItem) TableName() string { return "local_storage_items" }

func (i *LocalStorageItem) BeforeSave(tx *gorm.DB) (err error) {
	now := time.Now().UTC().Format(time.RFC3339)
	if i.CreatedAt == "" {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
	return nil
}
