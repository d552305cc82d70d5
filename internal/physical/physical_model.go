package physical

import (
	"time"

	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/internal/metrics"
)

// TestResult is one physical-test measurement. The unit is implied by the
// test name and denormalized for display.
type TestResult struct {
	gorm.Model
	PlayerName string    `json:"player_name" gorm:"index;not null"`
	TestName   string    `json:"test_name" gorm:"index;not null"`
	Date       time.Time `json:"date" gorm:"not null"`
	Value      float64   `json:"value" gorm:"not null"`
	Unit       string    `json:"unit"`
}

type CreateTestResultRequest struct {
	// PlayerName is only honored for admin entry; players log their own.
	PlayerName string  `json:"player_name" binding:"omitempty,max=100"`
	TestName   string  `json:"test_name" binding:"required,oneof=sprint agility jump endurance"`
	Date       string  `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2026-08-28"`
	Value      float64 `json:"value" binding:"required,gt=0"`
}

// ScoresResponse carries one normalized row per test the player has data
// for. Clients render a radar chart at 3+ rows and a table below that.
type ScoresResponse struct {
	PlayerName string             `json:"player_name"`
	Rows       []metrics.ScoreRow `json:"rows"`
}

// LeaderboardResponse ranks the team on one test, best first.
type LeaderboardResponse struct {
	TestName string             `json:"test_name"`
	Rows     []metrics.ScoreRow `json:"rows"`
}

// ToMetrics converts stored rows into the metrics input type.
func ToMetrics(results []TestResult) []metrics.TestResult {
	out := make([]metrics.TestResult, 0, len(results))
	for _, r := range results {
		out = append(out, metrics.TestResult{
			PlayerName: r.PlayerName,
			Test:       r.TestName,
			Date:       r.Date,
			Value:      r.Value,
		})
	}
	return out
}
