package cache

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Slot is one namespaced key with an opaque serialized value. Reads and
// writes always move the whole value; there are no partial updates.
type Slot struct {
	K string `gorm:"primaryKey"`
	V string
}

func (h *Handle) Get(key string) (string, bool, error) {
	var rec Slot
	err := h.DB.Take(&rec, "k = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.V, true, nil
}

func (h *Handle) Put(key, val string) error {
	return h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v"}),
	}).Create(&Slot{K: key, V: val}).Error
}

func (h *Handle) Delete(key string) error {
	return h.DB.Delete(&Slot{}, "k = ?", key).Error
}
