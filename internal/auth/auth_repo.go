package auth

import (
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/internal/player"
)

type AuthRepository interface {
	GetPlayerByName(name string) (*player.Player, error)
	GetPlayerByID(id uint) (*player.Player, error)
	UpdatePassword(id uint, digest string) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) GetPlayerByName(name string) (*player.Player, error) {
	var p player.Player
	if err := r.db.Where("name = ?", name).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *authRepository) GetPlayerByID(id uint) (*player.Player, error) {
	var p player.Player
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *authRepository) UpdatePassword(id uint, digest string) error {
	return r.db.Model(&player.Player{}).Where("id = ?", id).Update("password", digest).Error
}
