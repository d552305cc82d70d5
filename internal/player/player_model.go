package player

import (
	"time"

	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/internal/metrics"
)

// Field positions a player can be registered under.
const (
	PositionGK = "GK"
	PositionDF = "DF"
	PositionMF = "MF"
	PositionFW = "FW"
)

// Player is one roster entry. Name is the key every dependent record joins
// on, so it is unique at the database level. WeightKG is the baseline weight
// set at registration; daily weights live in condition entries.
type Player struct {
	gorm.Model
	Name         string  `json:"name" gorm:"uniqueIndex;not null"`
	JerseyNumber int     `json:"jersey_number" gorm:"not null"`
	Position     string  `json:"position" gorm:"not null"`
	Grade        string  `json:"grade"`
	HeightCM     float64 `json:"height_cm"`
	WeightKG     float64 `json:"weight_kg"`
	PhotoPath    string  `json:"photo_path"`
	Password     string  `json:"-" gorm:"not null"`
}

type CreatePlayerRequest struct {
	Name         string  `json:"name" binding:"required,min=1,max=100"`
	JerseyNumber int     `json:"jersey_number" binding:"required,min=1,max=99"`
	Position     string  `json:"position" binding:"required,oneof=GK DF MF FW"`
	Grade        string  `json:"grade" binding:"omitempty,max=50"`
	HeightCM     float64 `json:"height_cm" binding:"required,gt=0"`
	WeightKG     float64 `json:"weight_kg" binding:"required,gt=0"`
	Password     string  `json:"password" binding:"required,min=4,max=72"`
}

type UpdatePlayerRequest struct {
	Name         *string  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	JerseyNumber *int     `json:"jersey_number,omitempty" binding:"omitempty,min=1,max=99"`
	Position     *string  `json:"position,omitempty" binding:"omitempty,oneof=GK DF MF FW"`
	Grade        *string  `json:"grade,omitempty" binding:"omitempty,max=50"`
	HeightCM     *float64 `json:"height_cm,omitempty" binding:"omitempty,gt=0"`
	WeightKG     *float64 `json:"weight_kg,omitempty" binding:"omitempty,gt=0"`
	// Password is only changed when provided.
	Password *string `json:"password,omitempty" binding:"omitempty,min=4,max=72"`
}

// PlayerResponse is the roster view of a player plus the derived body
// metrics the profile card shows.
type PlayerResponse struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	JerseyNumber int       `json:"jersey_number"`
	Position     string    `json:"position"`
	Grade        string    `json:"grade"`
	HeightCM     float64   `json:"height_cm"`
	WeightKG     float64   `json:"weight_kg"`
	PhotoPath    string    `json:"photo_path"`
	BMI          float64   `json:"bmi"`
	TargetWeight float64   `json:"target_weight"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FilterPlayerRecord builds the public view of a player, deriving BMI and
// target weight from the baseline measurements.
func FilterPlayerRecord(p *Player, bmiTarget float64) PlayerResponse {
	return PlayerResponse{
		ID:           p.ID,
		Name:         p.Name,
		JerseyNumber: p.JerseyNumber,
		Position:     p.Position,
		Grade:        p.Grade,
		HeightCM:     p.HeightCM,
		WeightKG:     p.WeightKG,
		PhotoPath:    p.PhotoPath,
		BMI:          metrics.BMI(p.HeightCM, p.WeightKG),
		TargetWeight: metrics.TargetWeight(p.HeightCM, bmiTarget),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
