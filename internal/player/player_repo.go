package player

import (
	"fmt"

	"gorm.io/gorm"
)

type PlayerRepository interface {
	ListPlayers() ([]Player, error)
	GetPlayerByID(id uint) (*Player, error)
	GetPlayerByName(name string) (*Player, error)
	CreatePlayer(p *Player) error
	UpdatePlayer(p *Player) error
	DeletePlayer(id uint) error
	UpdatePassword(id uint, digest string) error
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) ListPlayers() ([]Player, error) {
	var players []Player
	if err := r.db.Order("jersey_number asc").Find(&players).Error; err != nil {
		return nil, err
	}
	return players, nil
}

func (r *playerRepository) GetPlayerByID(id uint) (*Player, error) {
	var p Player
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) GetPlayerByName(name string) (*Player, error) {
	var p Player
	if err := r.db.Where("name = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *playerRepository) CreatePlayer(p *Player) error {
	return r.db.Create(p).Error
}

func (r *playerRepository) UpdatePlayer(p *Player) error {
	return r.db.Save(p).Error
}

// DeletePlayer removes a player and every dependent record keyed on the
// player's name, in one transaction.
func (r *playerRepository) DeletePlayer(id uint) error {
	tx := r.db.Begin()
	defer func() {
		if rec := recover(); rec != nil {
			tx.Rollback()
		}
	}()

	var p Player
	if err := tx.First(&p, id).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Exec("DELETE FROM condition_entries WHERE player_name = ?", p.Name).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete condition entries: %w", err)
	}
	if err := tx.Exec("DELETE FROM test_results WHERE player_name = ?", p.Name).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete test results: %w", err)
	}
	if err := tx.Unscoped().Delete(&p).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete player: %w", err)
	}

	return tx.Commit().Error
}

func (r *playerRepository) UpdatePassword(id uint, digest string) error {
	return r.db.Model(&Player{}).Where("id = ?", id).Update("password", digest).Error
}
