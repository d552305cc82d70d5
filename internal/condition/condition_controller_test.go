package condition

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/metrics"
	"github.com/hsato-11/teamcond/internal/middleware"
)

// stubRepo is an in-memory ConditionRepository.
type stubRepo struct {
	entries []ConditionEntry
	players map[string]bool
	nextID  uint
}

func newStubRepo(players ...string) *stubRepo {
	known := make(map[string]bool)
	for _, p := range players {
		known[p] = true
	}
	return &stubRepo{players: known}
}

func (s *stubRepo) CreateEntry(e *ConditionEntry) error {
	s.nextID++
	e.ID = s.nextID
	e.CreatedAt = time.Now()
	s.entries = append(s.entries, *e)
	return nil
}

func (s *stubRepo) ListByPlayer(name string) ([]ConditionEntry, error) {
	var out []ConditionEntry
	for _, e := range s.entries {
		if e.PlayerName == name {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubRepo) ListByDate(day time.Time) ([]ConditionEntry, error) {
	key := day.Format("2006-01-02")
	var out []ConditionEntry
	for _, e := range s.entries {
		if e.Date.Format("2006-01-02") == key {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubRepo) LastTwoDistinctDays(name string) (*ConditionEntry, *ConditionEntry, error) {
	// Latest row per calendar day, then the two most recent days.
	latest := make(map[string]ConditionEntry)
	for _, e := range s.entries {
		if e.PlayerName != name {
			continue
		}
		latest[e.Date.Format("2006-01-02")] = e
	}
	var days []ConditionEntry
	for _, e := range latest {
		days = append(days, e)
	}
	if len(days) == 0 {
		return nil, nil, nil
	}
	// Sort by date descending (small n, selection is fine).
	for i := 0; i < len(days); i++ {
		for j := i + 1; j < len(days); j++ {
			if days[j].Date.After(days[i].Date) {
				days[i], days[j] = days[j], days[i]
			}
		}
	}
	if len(days) == 1 {
		return nil, &days[0], nil
	}
	return &days[1], &days[0], nil
}

func (s *stubRepo) DeleteByPlayerAndDate(name string, day time.Time) (int64, error) {
	key := day.Format("2006-01-02")
	var kept []ConditionEntry
	var deleted int64
	for _, e := range s.entries {
		if e.PlayerName == name && e.Date.Format("2006-01-02") == key {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
	return deleted, nil
}

func (s *stubRepo) DailyTeamAverages() ([]DailyAverage, error) {
	return nil, nil
}

func (s *stubRepo) PlayerExists(name string) (bool, error) {
	return s.players[name], nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Metrics.CountableWeekdays = map[time.Weekday]bool{
		time.Tuesday: true, time.Wednesday: true, time.Thursday: true, time.Friday: true,
	}
	cfg.Metrics.StreakMaxLookback = 100
	cfg.Metrics.BMITarget = 22
	cfg.Metrics.FatigueSpikeDelta = 3
	cfg.Metrics.SleepDropDelta = 3
	cfg.Metrics.WeightLossKG = 1.5
	cfg.Metrics.WeightLossPercent = 2.0
	return cfg
}

// sessionAs fakes the auth middleware for a fixed identity.
func sessionAs(id uint, name, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.AuthPlayerIDKey, id)
		c.Set(middleware.AuthNameKey, name)
		c.Set(middleware.AuthRoleKey, role)
		c.Next()
	}
}

func setupRouter(repo ConditionRepository, name, role string, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewConditionController(repo, testConfig(), nil)
	controller.now = func() time.Time { return now }

	r := gin.New()
	g := r.Group("/api/conditions")
	g.Use(sessionAs(1, name, role))
	{
		g.POST("", controller.SubmitEntry)
		g.GET("/team/today", controller.TeamOverview)
		g.GET("/:name", controller.GetHistory)
		g.DELETE("/:name/:date", controller.DeleteEntry)
	}
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSubmitFirstEntryHasNoAlerts(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/conditions", CreateConditionRequest{
		WeightKG: 60.0, Fatigue: 3, Sleep: 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data SubmitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "yamada", resp.Data.Entry.PlayerName)
	assert.Empty(t, resp.Data.Alerts)
}

func TestSubmitTriggersWeightLossAlert(t *testing.T) {
	repo := newStubRepo("yamada")
	require.NoError(t, repo.CreateEntry(&ConditionEntry{
		PlayerName: "yamada", Date: day("2026-08-27"),
		WeightKG: 60.0, Fatigue: 2, Sleep: 4,
	}))
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/conditions", CreateConditionRequest{
		WeightKG: 58.0, Fatigue: 5, Sleep: 4,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data SubmitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t,
		[]metrics.AlertKind{metrics.AlertFatigueSpike, metrics.AlertRapidWeightLoss},
		resp.Data.Alerts)
}

func TestSubmitDuplicateDayComparesDistinctDays(t *testing.T) {
	repo := newStubRepo("yamada")
	require.NoError(t, repo.CreateEntry(&ConditionEntry{
		PlayerName: "yamada", Date: day("2026-08-28"),
		WeightKG: 60.0, Fatigue: 2, Sleep: 4,
	}))
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	// Second submission on the same day: with only one distinct day there is
	// no previous day to compare against, so no alert fires.
	w := postJSON(t, r, "/api/conditions", CreateConditionRequest{
		WeightKG: 58.0, Fatigue: 5, Sleep: 1,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data SubmitResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data.Alerts)
}

func TestSubmitInjuryRequiresDetail(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/conditions", CreateConditionRequest{
		WeightKG: 60.0, Fatigue: 3, Sleep: 3, Injured: true,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlayerCannotSubmitForOthers(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/conditions", CreateConditionRequest{
		PlayerName: "tanaka", WeightKG: 60.0, Fatigue: 3, Sleep: 3,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminProxySubmit(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "admin", middleware.RoleAdmin, day("2026-08-28"))

	w := postJSON(t, r, "/api/conditions", CreateConditionRequest{
		PlayerName: "yamada", WeightKG: 60.0, Fatigue: 3, Sleep: 3,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = postJSON(t, r, "/api/conditions", CreateConditionRequest{
		PlayerName: "nobody", WeightKG: 60.0, Fatigue: 3, Sleep: 3,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Admin entry without a target player is rejected.
	w = postJSON(t, r, "/api/conditions", CreateConditionRequest{
		WeightKG: 60.0, Fatigue: 3, Sleep: 3,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryReportsStreak(t *testing.T) {
	repo := newStubRepo("yamada")
	// Thursday and Friday check-ins; Friday is "today".
	for _, d := range []string{"2026-08-27", "2026-08-28"} {
		require.NoError(t, repo.CreateEntry(&ConditionEntry{
			PlayerName: "yamada", Date: day(d), WeightKG: 60, Fatigue: 3, Sleep: 3,
		}))
	}
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	req := httptest.NewRequest(http.MethodGet, "/api/conditions/yamada", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data HistoryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Streak)
	assert.Len(t, resp.Data.Entries, 2)
}

func TestHistoryForbiddenForOtherPlayers(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	req := httptest.NewRequest(http.MethodGet, "/api/conditions/tanaka", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteEntry(t *testing.T) {
	repo := newStubRepo("yamada")
	require.NoError(t, repo.CreateEntry(&ConditionEntry{
		PlayerName: "yamada", Date: day("2026-08-27"), WeightKG: 60, Fatigue: 3, Sleep: 3,
	}))
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	req := httptest.NewRequest(http.MethodDelete, "/api/conditions/yamada/2026-08-27", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Second delete finds nothing.
	req = httptest.NewRequest(http.MethodDelete, "/api/conditions/yamada/2026-08-27", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamOverviewFlagsHighFatigueAndInjury(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka", "suzuki")
	today := day("2026-08-28")
	require.NoError(t, repo.CreateEntry(&ConditionEntry{
		PlayerName: "yamada", Date: today, WeightKG: 60, Fatigue: 5, Sleep: 3,
	}))
	require.NoError(t, repo.CreateEntry(&ConditionEntry{
		PlayerName: "tanaka", Date: today, WeightKG: 70, Fatigue: 2, Sleep: 4,
		Injured: true, InjuryNote: "left ankle",
	}))
	require.NoError(t, repo.CreateEntry(&ConditionEntry{
		PlayerName: "suzuki", Date: today, WeightKG: 65, Fatigue: 1, Sleep: 5,
	}))
	r := setupRouter(repo, "admin", middleware.RoleAdmin, today)

	req := httptest.NewRequest(http.MethodGet, "/api/conditions/team/today", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data TeamOverviewResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data.Entries, 3)
	require.Len(t, resp.Data.Flagged, 2)
	names := []string{resp.Data.Flagged[0].PlayerName, resp.Data.Flagged[1].PlayerName}
	assert.ElementsMatch(t, []string{"yamada", "tanaka"}, names)
}
