package condition

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/metrics"
	"github.com/hsato-11/teamcond/internal/middleware"
	"github.com/hsato-11/teamcond/internal/notify"
	"github.com/hsato-11/teamcond/pkg/responses"
	"github.com/hsato-11/teamcond/pkg/validator"
)

const dayFormat = "2006-01-02"

type ConditionController struct {
	repo     ConditionRepository
	config   *config.Config
	notifier *notify.Notifier
	// now is swappable so streak and "today" logic is testable.
	now func() time.Time
}

func NewConditionController(repo ConditionRepository, cfg *config.Config, notifier *notify.Notifier) *ConditionController {
	return &ConditionController{
		repo:     repo,
		config:   cfg,
		notifier: notifier,
		now:      time.Now,
	}
}

func (cc *ConditionController) alertOptions() metrics.AlertOptions {
	m := cc.config.Metrics
	return metrics.AlertOptions{
		FatigueSpikeDelta:   m.FatigueSpikeDelta,
		FatigueSpikeStrict:  m.FatigueSpikeStrict,
		SleepDropDelta:      m.SleepDropDelta,
		SleepDropStrict:     m.SleepDropStrict,
		WeightLossKG:        m.WeightLossKG,
		WeightLossPercent:   m.WeightLossPercent,
		WeightLossByPercent: m.WeightLossByPercent,
	}
}

func (cc *ConditionController) streakOptions() metrics.StreakOptions {
	m := cc.config.Metrics
	return metrics.StreakOptions{
		CountableWeekdays: m.CountableWeekdays,
		MaxLookback:       m.StreakMaxLookback,
	}
}

// SubmitEntry godoc
// @Summary Submit a daily check-in
// @Description Players submit for themselves; admins may submit on a player's behalf
// @Tags Conditions
// @Accept json
// @Produce json
// @Param entry body CreateConditionRequest true "Check-in"
// @Success 201 {object} responses.SuccessResponse{data=SubmitResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse "Unknown player (admin proxy entry)"
// @Router /conditions [post]
// @Security BearerAuth
func (cc *ConditionController) SubmitEntry(c *gin.Context) {
	var req CreateConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}
	if req.Injured && req.InjuryNote == "" {
		responses.BadRequest(c, "Injury detail is required when an injury is reported")
		return
	}
	if !req.Injured {
		req.InjuryNote = ""
	}

	sessionName, err := middleware.GetNameFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	targetName := sessionName
	if middleware.IsAdmin(c) {
		if req.PlayerName == "" {
			responses.BadRequest(c, "player_name is required for admin entry")
			return
		}
		targetName = req.PlayerName
		exists, err := cc.repo.PlayerExists(targetName)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to verify player", nil)
			return
		}
		if !exists {
			responses.NotFound(c, "Player")
			return
		}
	} else if req.PlayerName != "" && req.PlayerName != sessionName {
		responses.Forbidden(c, "Players can only submit their own condition")
		return
	}

	day := startOfDay(cc.now())
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dayFormat, req.Date, cc.now().Location())
		if err != nil {
			responses.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	entry := ConditionEntry{
		PlayerName: targetName,
		Date:       day,
		WeightKG:   req.WeightKG,
		Fatigue:    req.Fatigue,
		Sleep:      req.Sleep,
		Injured:    req.Injured,
		InjuryNote: req.InjuryNote,
	}
	if err := cc.repo.CreateEntry(&entry); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to save check-in", nil)
		return
	}

	alerts := cc.alertsFor(targetName)
	if len(alerts) > 0 {
		logrus.WithFields(logrus.Fields{
			"player": targetName,
			"alerts": alerts,
		}).Warn("condition alerts triggered")
		cc.notifier.ConditionAlerts(targetName, day.Format(dayFormat), alerts)
	}

	responses.SendSuccess(c, http.StatusCreated, "Check-in saved successfully", SubmitResponse{
		Entry:  entry,
		Alerts: alerts,
	})
}

// alertsFor evaluates the alert rules over a player's two most recent
// distinct check-in days. With fewer than two days there is nothing to
// compare and no alert fires.
func (cc *ConditionController) alertsFor(name string) []metrics.AlertKind {
	prev, curr, err := cc.repo.LastTwoDistinctDays(name)
	if err != nil {
		logrus.WithError(err).WithField("player", name).Error("failed to load entries for alert check")
		return nil
	}
	if prev == nil || curr == nil {
		return nil
	}
	return metrics.AlertCheck(checkIn(*prev), checkIn(*curr), cc.alertOptions())
}

// GetHistory godoc
// @Summary A player's check-in history
// @Description Entries plus the current streak; owner or admin only
// @Tags Conditions
// @Produce json
// @Param name path string true "Player name"
// @Success 200 {object} responses.SuccessResponse{data=HistoryResponse}
// @Failure 403 {object} responses.ErrorResponse
// @Router /conditions/{name} [get]
// @Security BearerAuth
func (cc *ConditionController) GetHistory(c *gin.Context) {
	name := c.Param("name")
	if !cc.canAccess(c, name) {
		return
	}

	entries, err := cc.repo.ListByPlayer(name)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve check-ins", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Check-ins retrieved successfully", HistoryResponse{
		PlayerName: name,
		Streak:     metrics.Streak(CheckIns(entries), cc.now(), cc.streakOptions()),
		Entries:    entries,
	})
}

// DeleteEntry godoc
// @Summary Delete a check-in day
// @Description Removes all of a player's entries for one date; owner or admin only
// @Tags Conditions
// @Produce json
// @Param name path string true "Player name"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /conditions/{name}/{date} [delete]
// @Security BearerAuth
func (cc *ConditionController) DeleteEntry(c *gin.Context) {
	name := c.Param("name")
	if !cc.canAccess(c, name) {
		return
	}

	day, err := time.ParseInLocation(dayFormat, c.Param("date"), cc.now().Location())
	if err != nil {
		responses.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
		return
	}

	deleted, err := cc.repo.DeleteByPlayerAndDate(name, day)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete check-in", nil)
		return
	}
	if deleted == 0 {
		responses.NotFound(c, "Check-in")
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Check-in deleted successfully", nil)
}

// TeamOverview godoc
// @Summary Team condition overview for today
// @Description Today's entries, flagged players, per-player alerts and team averages
// @Tags Conditions
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=TeamOverviewResponse}
// @Failure 500 {object} responses.ErrorResponse
// @Router /conditions/team/today [get]
// @Security BearerAuth
func (cc *ConditionController) TeamOverview(c *gin.Context) {
	today := startOfDay(cc.now())

	entries, err := cc.repo.ListByDate(today)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve today's check-ins", nil)
		return
	}

	// Flag rule from the daily huddle view: high fatigue or any reported
	// injury puts a player on the watch list.
	var flagged []FlaggedPlayer
	seen := make(map[string]bool)
	var alerts []PlayerAlerts
	for _, e := range entries {
		if e.Fatigue >= 4 || e.Injured {
			flagged = append(flagged, FlaggedPlayer{
				PlayerName: e.PlayerName,
				Fatigue:    e.Fatigue,
				Injured:    e.Injured,
				InjuryNote: e.InjuryNote,
			})
		}
		if !seen[e.PlayerName] {
			seen[e.PlayerName] = true
			if kinds := cc.alertsFor(e.PlayerName); len(kinds) > 0 {
				alerts = append(alerts, PlayerAlerts{PlayerName: e.PlayerName, Alerts: kinds})
			}
		}
	}

	averages, err := cc.repo.DailyTeamAverages()
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to compute team averages", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Team overview retrieved successfully", TeamOverviewResponse{
		Date:     today.Format(dayFormat),
		Entries:  entries,
		Flagged:  flagged,
		Alerts:   alerts,
		Averages: averages,
	})
}

// canAccess enforces owner-or-admin on per-player condition data.
func (cc *ConditionController) canAccess(c *gin.Context, name string) bool {
	if middleware.IsAdmin(c) {
		return true
	}
	sessionName, err := middleware.GetNameFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return false
	}
	if sessionName != name {
		responses.Forbidden(c, "")
		return false
	}
	return true
}

func checkIn(e ConditionEntry) metrics.CheckIn {
	return metrics.CheckIn{
		Date:    e.Date,
		Weight:  e.WeightKG,
		Fatigue: e.Fatigue,
		Sleep:   e.Sleep,
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
