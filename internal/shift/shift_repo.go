package shift

import (
	"gorm.io/gorm"
)

type ShiftRepository interface {
	CreateEntries(entries []ShiftEntry) error
	ListByMonth(month string) ([]ShiftEntry, error)
}

type shiftRepository struct {
	db *gorm.DB
}

func NewShiftRepository(db *gorm.DB) ShiftRepository {
	return &shiftRepository{db: db}
}

func (r *shiftRepository) CreateEntries(entries []ShiftEntry) error {
	return r.db.Create(&entries).Error
}

func (r *shiftRepository) ListByMonth(month string) ([]ShiftEntry, error) {
	var entries []ShiftEntry
	err := r.db.Where("month = ?", month).
		Order("date asc, name asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
