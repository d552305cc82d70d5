// Package metrics computes the derived numbers the dashboards show: BMI,
// check-in streaks, normalized physical-test scores and condition alerts.
// Everything here is a pure function over already-loaded rows; callers do the
// I/O and decide which rows a session is allowed to see.
package metrics

import (
	"math"
	"sort"
	"time"
)

// CheckIn is one daily condition entry, reduced to the fields the derived
// metrics consume.
type CheckIn struct {
	Date    time.Time
	Weight  float64
	Fatigue int
	Sleep   int
}

// TestResult is one physical-test measurement for a player.
type TestResult struct {
	PlayerName string
	Test       string
	Date       time.Time
	Value      float64
}

// ScoreRow is a player's normalized standing on one test.
type ScoreRow struct {
	Test     string  `json:"test"`
	Label    string  `json:"label"`
	Score    float64 `json:"score"`
	RawValue float64 `json:"raw_value"`
	Unit     string  `json:"unit"`
}

// AlertKind identifies a triggered condition alert.
type AlertKind string

const (
	AlertFatigueSpike    AlertKind = "fatigue_spike"
	AlertSleepDrop       AlertKind = "sleep_drop"
	AlertRapidWeightLoss AlertKind = "rapid_weight_loss"
)

// Test catalog. Time-based tests score lower-is-better, distance/height
// tests higher-is-better.
const (
	TestSprint    = "sprint"
	TestAgility   = "agility"
	TestJump      = "jump"
	TestEndurance = "endurance"
)

type testInfo struct {
	Label       string
	Unit        string
	LowerBetter bool
}

var testCatalog = map[string]testInfo{
	TestSprint:    {Label: "50m Sprint", Unit: "s", LowerBetter: true},
	TestAgility:   {Label: "Agility Run", Unit: "s", LowerBetter: true},
	TestJump:      {Label: "Vertical Jump", Unit: "cm", LowerBetter: false},
	TestEndurance: {Label: "Endurance Run", Unit: "m", LowerBetter: false},
}

// KnownTest reports whether name is part of the fixed test catalog.
func KnownTest(name string) bool {
	_, ok := testCatalog[name]
	return ok
}

// TestNames returns the catalog test names in a stable order.
func TestNames() []string {
	return []string{TestSprint, TestAgility, TestJump, TestEndurance}
}

// TestUnit returns the unit implied by a test name, or "" for unknown tests.
func TestUnit(name string) string {
	return testCatalog[name].Unit
}

const (
	// Score assigned when the whole team shares a single distinct value and
	// min==max makes the rescale undefined.
	flatTeamScore = 70.0
	// Floor so a teammate at the bottom of the range still registers on a
	// radar chart.
	scoreFloor = 20.0
	scoreCeil  = 100.0
)

// BMI returns body-mass index rounded to one decimal. Non-positive height
// yields 0 rather than an error.
func BMI(heightCM, weightKG float64) float64 {
	if heightCM <= 0 {
		return 0
	}
	m := heightCM / 100
	return round1(weightKG / (m * m))
}

// TargetWeight returns the weight at which a player of the given height would
// sit at bmiTarget, rounded to one decimal.
func TargetWeight(heightCM, bmiTarget float64) float64 {
	if heightCM <= 0 {
		return 0
	}
	m := heightCM / 100
	return round1(m * m * bmiTarget)
}

// StreakOptions controls which calendar days count toward a streak.
type StreakOptions struct {
	// CountableWeekdays holds the weekdays on which a check-in is expected.
	// Other days are skipped without breaking the streak.
	CountableWeekdays map[time.Weekday]bool
	// MaxLookback caps the walk in calendar days so sparse data terminates.
	MaxLookback int
}

// DefaultStreakOptions matches the team's training week: check-ins expected
// Tuesday through Friday.
func DefaultStreakOptions() StreakOptions {
	return StreakOptions{
		CountableWeekdays: map[time.Weekday]bool{
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
		},
		MaxLookback: 100,
	}
}

// Streak counts consecutive countable days with a check-in, walking backward
// from today. A missing countable day ends the streak unless that day is
// today itself: today simply isn't counted yet.
func Streak(entries []CheckIn, today time.Time, opts StreakOptions) int {
	if len(entries) == 0 {
		return 0
	}
	if opts.MaxLookback <= 0 {
		opts.MaxLookback = 100
	}

	have := make(map[string]bool, len(entries))
	for _, e := range entries {
		have[dayKey(e.Date)] = true
	}

	streak := 0
	day := startOfDay(today)
	todayKey := dayKey(day)
	for i := 0; i < opts.MaxLookback; i++ {
		d := day.AddDate(0, 0, -i)
		if !opts.CountableWeekdays[d.Weekday()] {
			continue
		}
		if have[dayKey(d)] {
			streak++
			continue
		}
		if dayKey(d) == todayKey {
			continue
		}
		break
	}
	return streak
}

// ScoreOptions carries the flat-team fallback; zero value uses the defaults.
type ScoreOptions struct {
	FlatTeamScore float64
}

// Scores reduces every player's results to their most recent value per test,
// then rescales playerName's values against the team-wide min/max into a
// 0-100 score, clamped to [20,100]. One row per test the player has data
// for; players without a result for a test are skipped for that test.
// Callers with fewer than 3 rows should fall back from a radar chart to a
// table; that policy lives with the caller.
func Scores(playerName string, results []TestResult, opts ScoreOptions) []ScoreRow {
	fallback := opts.FlatTeamScore
	if fallback == 0 {
		fallback = flatTeamScore
	}

	// Latest result per (player, test); ties on date resolve to the row seen
	// last in input order.
	type key struct{ player, test string }
	latest := make(map[key]TestResult)
	for _, r := range results {
		k := key{r.PlayerName, r.Test}
		prev, ok := latest[k]
		if !ok || !r.Date.Before(prev.Date) {
			latest[k] = r
		}
	}

	var rows []ScoreRow
	for _, test := range TestNames() {
		info := testCatalog[test]

		mine, ok := latest[key{playerName, test}]
		if !ok {
			continue
		}

		min := math.Inf(1)
		max := math.Inf(-1)
		for k, r := range latest {
			if k.test != test {
				continue
			}
			if r.Value < min {
				min = r.Value
			}
			if r.Value > max {
				max = r.Value
			}
		}

		var score float64
		if min == max {
			score = fallback
		} else {
			if info.LowerBetter {
				score = 100 * (max - mine.Value) / (max - min)
			} else {
				score = 100 * (mine.Value - min) / (max - min)
			}
			score = clamp(score, scoreFloor, scoreCeil)
		}

		rows = append(rows, ScoreRow{
			Test:     test,
			Label:    info.Label,
			Score:    round1(score),
			RawValue: mine.Value,
			Unit:     info.Unit,
		})
	}
	return rows
}

// Leaderboard ranks every player with a result for the given test by
// normalized score, best first. Ties keep the input's latest-row order
// stabilized by name.
func Leaderboard(test string, results []TestResult) []ScoreRow {
	players := make(map[string]bool)
	for _, r := range results {
		if r.Test == test {
			players[r.PlayerName] = true
		}
	}

	type entry struct {
		name string
		row  ScoreRow
	}
	var entries []entry
	for name := range players {
		for _, row := range Scores(name, results, ScoreOptions{}) {
			if row.Test == test {
				entries = append(entries, entry{name, row})
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].row.Score != entries[j].row.Score {
			return entries[i].row.Score > entries[j].row.Score
		}
		return entries[i].name < entries[j].name
	})

	rows := make([]ScoreRow, 0, len(entries))
	for _, e := range entries {
		row := e.row
		row.Label = e.name
		rows = append(rows, row)
	}
	return rows
}

// AlertOptions carries the alert thresholds. Zero value disables nothing;
// use DefaultAlertOptions for the standard rule set.
type AlertOptions struct {
	FatigueSpikeDelta  int
	FatigueSpikeStrict bool // also require current fatigue >= 4
	SleepDropDelta     int
	SleepDropStrict    bool // also require current sleep <= 2
	WeightLossKG       float64
	WeightLossPercent  float64
	// WeightLossByPercent switches the weight rule from an absolute kg delta
	// to a single-step percentage drop.
	WeightLossByPercent bool
}

func DefaultAlertOptions() AlertOptions {
	return AlertOptions{
		FatigueSpikeDelta: 3,
		SleepDropDelta:    3,
		WeightLossKG:      1.5,
		WeightLossPercent: 2.0,
	}
}

// AlertCheck compares the two chronologically last entries for a player and
// returns every rule that fires. History beyond these two rows is never
// consulted.
func AlertCheck(prev, curr CheckIn, opts AlertOptions) []AlertKind {
	var alerts []AlertKind

	if opts.FatigueSpikeDelta > 0 && curr.Fatigue-prev.Fatigue >= opts.FatigueSpikeDelta {
		if !opts.FatigueSpikeStrict || curr.Fatigue >= 4 {
			alerts = append(alerts, AlertFatigueSpike)
		}
	}

	if opts.SleepDropDelta > 0 && prev.Sleep-curr.Sleep >= opts.SleepDropDelta {
		if !opts.SleepDropStrict || curr.Sleep <= 2 {
			alerts = append(alerts, AlertSleepDrop)
		}
	}

	if opts.WeightLossByPercent {
		if opts.WeightLossPercent > 0 && prev.Weight > 0 {
			drop := (prev.Weight - curr.Weight) / prev.Weight * 100
			if drop >= opts.WeightLossPercent {
				alerts = append(alerts, AlertRapidWeightLoss)
			}
		}
	} else if opts.WeightLossKG > 0 && prev.Weight-curr.Weight >= opts.WeightLossKG {
		alerts = append(alerts, AlertRapidWeightLoss)
	}

	return alerts
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}
