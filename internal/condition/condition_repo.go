package condition

import (
	"time"

	"gorm.io/gorm"
)

type ConditionRepository interface {
	CreateEntry(e *ConditionEntry) error
	ListByPlayer(name string) ([]ConditionEntry, error)
	ListByDate(day time.Time) ([]ConditionEntry, error)
	// LastTwoDistinctDays returns the latest entry for each of the two most
	// recent calendar days a player checked in on. Either pointer may be nil
	// when the history is too short.
	LastTwoDistinctDays(name string) (prev, curr *ConditionEntry, err error)
	DeleteByPlayerAndDate(name string, day time.Time) (int64, error)
	DailyTeamAverages() ([]DailyAverage, error)
	PlayerExists(name string) (bool, error)
}

type conditionRepository struct {
	db *gorm.DB
}

func NewConditionRepository(db *gorm.DB) ConditionRepository {
	return &conditionRepository{db: db}
}

func (r *conditionRepository) CreateEntry(e *ConditionEntry) error {
	return r.db.Create(e).Error
}

func (r *conditionRepository) ListByPlayer(name string) ([]ConditionEntry, error) {
	var entries []ConditionEntry
	err := r.db.Where("player_name = ?", name).
		Order("date asc, created_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *conditionRepository) ListByDate(day time.Time) ([]ConditionEntry, error) {
	var entries []ConditionEntry
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	err := r.db.Where("date >= ? AND date < ?", start, end).
		Order("player_name asc, created_at asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *conditionRepository) LastTwoDistinctDays(name string) (*ConditionEntry, *ConditionEntry, error) {
	var entries []ConditionEntry
	err := r.db.Where("player_name = ?", name).
		Order("date desc, created_at desc, id desc").
		Find(&entries).Error
	if err != nil {
		return nil, nil, err
	}

	// With the ordering above, the first row seen for each calendar day is
	// that day's latest submission. Duplicate same-day rows therefore never
	// end up compared against each other.
	var days []*ConditionEntry
	seen := make(map[string]bool)
	for i := range entries {
		key := entries[i].Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		days = append(days, &entries[i])
		if len(days) == 2 {
			break
		}
	}

	switch len(days) {
	case 0:
		return nil, nil, nil
	case 1:
		return nil, days[0], nil
	default:
		return days[1], days[0], nil
	}
}

func (r *conditionRepository) DeleteByPlayerAndDate(name string, day time.Time) (int64, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)
	result := r.db.Where("player_name = ? AND date >= ? AND date < ?", name, start, end).
		Delete(&ConditionEntry{})
	return result.RowsAffected, result.Error
}

func (r *conditionRepository) DailyTeamAverages() ([]DailyAverage, error) {
	var averages []DailyAverage
	err := r.db.Model(&ConditionEntry{}).
		Select("to_char(date, 'YYYY-MM-DD') as day, avg(fatigue) as avg_fatigue, avg(sleep) as avg_sleep").
		Group("day").
		Order("day asc").
		Scan(&averages).Error
	if err != nil {
		return nil, err
	}
	return averages, nil
}

func (r *conditionRepository) PlayerExists(name string) (bool, error) {
	var count int64
	err := r.db.Table("players").
		Where("name = ? AND deleted_at IS NULL", name).
		Count(&count).Error
	return count > 0, err
}
