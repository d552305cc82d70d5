package condition

import (
	"time"

	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/internal/metrics"
)

// ConditionEntry is one daily wellness check-in. Entries are append-only;
// nothing stops a player from submitting twice on the same day, so reads
// that need "the" entry for a day take the latest row per calendar day.
type ConditionEntry struct {
	gorm.Model
	PlayerName string    `json:"player_name" gorm:"index;not null"`
	Date       time.Time `json:"date" gorm:"index;not null"`
	WeightKG   float64   `json:"weight_kg" gorm:"not null"`
	Fatigue    int       `json:"fatigue" gorm:"not null"`
	Sleep      int       `json:"sleep" gorm:"not null"`
	Injured    bool      `json:"injured"`
	InjuryNote string    `json:"injury_note"`
}

type CreateConditionRequest struct {
	// PlayerName is only honored for admin proxy entry; players always
	// submit for themselves.
	PlayerName string  `json:"player_name" binding:"omitempty,max=100"`
	Date       string  `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2026-08-28"`
	WeightKG   float64 `json:"weight_kg" binding:"required,gt=0"`
	Fatigue    int     `json:"fatigue" binding:"required,min=1,max=5"`
	Sleep      int     `json:"sleep" binding:"required,min=1,max=5"`
	Injured    bool    `json:"injured"`
	InjuryNote string  `json:"injury_note" binding:"omitempty,max=500"`
}

// SubmitResponse returns the stored entry and any alerts it triggered
// against the previous distinct day.
type SubmitResponse struct {
	Entry  ConditionEntry      `json:"entry"`
	Alerts []metrics.AlertKind `json:"alerts"`
}

// HistoryResponse is a player's check-in history with the current streak.
type HistoryResponse struct {
	PlayerName string           `json:"player_name"`
	Streak     int              `json:"streak"`
	Entries    []ConditionEntry `json:"entries"`
}

// FlaggedPlayer marks a player needing attention today.
type FlaggedPlayer struct {
	PlayerName string `json:"player_name"`
	Fatigue    int    `json:"fatigue"`
	Injured    bool   `json:"injured"`
	InjuryNote string `json:"injury_note"`
}

// PlayerAlerts pairs a player with the alerts from their last two check-ins.
type PlayerAlerts struct {
	PlayerName string              `json:"player_name"`
	Alerts     []metrics.AlertKind `json:"alerts"`
}

// DailyAverage is the team-wide mean fatigue and sleep for one day.
type DailyAverage struct {
	Day        string  `json:"day"`
	AvgFatigue float64 `json:"avg_fatigue"`
	AvgSleep   float64 `json:"avg_sleep"`
}

// TeamOverviewResponse is the admin dashboard payload for one day.
type TeamOverviewResponse struct {
	Date     string           `json:"date"`
	Entries  []ConditionEntry `json:"entries"`
	Flagged  []FlaggedPlayer  `json:"flagged"`
	Alerts   []PlayerAlerts   `json:"alerts"`
	Averages []DailyAverage   `json:"averages"`
}

// CheckIns converts stored entries into the metrics input type.
func CheckIns(entries []ConditionEntry) []metrics.CheckIn {
	out := make([]metrics.CheckIn, 0, len(entries))
	for _, e := range entries {
		out = append(out, metrics.CheckIn{
			Date:    e.Date,
			Weight:  e.WeightKG,
			Fatigue: e.Fatigue,
			Sleep:   e.Sleep,
		})
	}
	return out
}
