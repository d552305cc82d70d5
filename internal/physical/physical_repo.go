package physical

import (
	"gorm.io/gorm"
)

type PhysicalRepository interface {
	CreateResult(r *TestResult) error
	ListByPlayer(name string) ([]TestResult, error)
	// ListAll returns every result in insertion order; the normalized-score
	// math needs the whole team's rows.
	ListAll() ([]TestResult, error)
	GetResultByID(id uint) (*TestResult, error)
	DeleteResult(id uint) error
	PlayerExists(name string) (bool, error)
}

type physicalRepository struct {
	db *gorm.DB
}

func NewPhysicalRepository(db *gorm.DB) PhysicalRepository {
	return &physicalRepository{db: db}
}

func (r *physicalRepository) CreateResult(result *TestResult) error {
	return r.db.Create(result).Error
}

func (r *physicalRepository) ListByPlayer(name string) ([]TestResult, error) {
	var results []TestResult
	err := r.db.Where("player_name = ?", name).
		Order("date asc, created_at asc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *physicalRepository) ListAll() ([]TestResult, error) {
	var results []TestResult
	if err := r.db.Order("created_at asc, id asc").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *physicalRepository) GetResultByID(id uint) (*TestResult, error) {
	var result TestResult
	if err := r.db.First(&result, id).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *physicalRepository) DeleteResult(id uint) error {
	return r.db.Delete(&TestResult{}, id).Error
}

func (r *physicalRepository) PlayerExists(name string) (bool, error) {
	var count int64
	err := r.db.Table("players").
		Where("name = ? AND deleted_at IS NULL", name).
		Count(&count).Error
	return count > 0, err
}
