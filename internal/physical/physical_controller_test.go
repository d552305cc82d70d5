package physical

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
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/metrics"
	"github.com/hsato-11/teamcond/internal/middleware"
)

// stubRepo is an in-memory PhysicalRepository.
type stubRepo struct {
	results []TestResult
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

func (s *stubRepo) CreateResult(r *TestResult) error {
	s.nextID++
	r.ID = s.nextID
	r.CreatedAt = time.Now()
	s.results = append(s.results, *r)
	return nil
}

func (s *stubRepo) ListByPlayer(name string) ([]TestResult, error) {
	var out []TestResult
	for _, r := range s.results {
		if r.PlayerName == name {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) ListAll() ([]TestResult, error) {
	return append([]TestResult(nil), s.results...), nil
}

func (s *stubRepo) GetResultByID(id uint) (*TestResult, error) {
	for i := range s.results {
		if s.results[i].ID == id {
			return &s.results[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepo) DeleteResult(id uint) error {
	var kept []TestResult
	for _, r := range s.results {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.results = kept
	return nil
}

func (s *stubRepo) PlayerExists(name string) (bool, error) {
	return s.players[name], nil
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

func setupRouter(repo PhysicalRepository, name, role string, now time.Time) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewPhysicalController(repo, &config.Config{})
	controller.now = func() time.Time { return now }

	r := gin.New()
	g := r.Group("/api/tests")
	g.Use(sessionAs(1, name, role))
	{
		g.POST("", controller.CreateResult)
		g.GET("/leaderboard/:test", controller.Leaderboard)
		g.GET("/:name", controller.ListByPlayer)
		g.GET("/:name/scores", controller.GetScores)
		g.DELETE("/:result_id", controller.DeleteResult)
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

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
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

func seedResult(t *testing.T, repo *stubRepo, player, test, date string, value float64) {
	t.Helper()
	require.NoError(t, repo.CreateResult(&TestResult{
		PlayerName: player, TestName: test, Date: day(date),
		Value: value, Unit: metrics.TestUnit(test),
	}))
}

func TestCreateResultSetsUnit(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/tests", CreateTestResultRequest{
		TestName: "sprint", Value: 11.2,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "yamada", resp.Data.PlayerName)
	assert.Equal(t, "s", resp.Data.Unit)
	assert.Equal(t, "2026-08-28", resp.Data.Date.Format("2006-01-02"))
}

func TestCreateResultRejectsUnknownTest(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/tests", map[string]any{
		"test_name": "deadlift", "value": 120.0,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminEntryRequiresKnownPlayer(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "admin", middleware.RoleAdmin, day("2026-08-28"))

	w := postJSON(t, r, "/api/tests", CreateTestResultRequest{
		PlayerName: "ghost", TestName: "jump", Value: 55,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = postJSON(t, r, "/api/tests", CreateTestResultRequest{
		TestName: "jump", Value: 55,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/tests", CreateTestResultRequest{
		PlayerName: "yamada", TestName: "jump", Value: 55,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestPlayerCannotLogForOthers(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := postJSON(t, r, "/api/tests", CreateTestResultRequest{
		PlayerName: "tanaka", TestName: "sprint", Value: 11.0,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScoresRescaleAcrossTeam(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka")
	seedResult(t, repo, "yamada", "sprint", "2026-08-25", 11.0)
	seedResult(t, repo, "tanaka", "sprint", "2026-08-25", 12.0)
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := get(t, r, "/api/tests/yamada/scores")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data ScoresResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Rows, 1)
	// Sprint is lower-is-better, so the fastest time takes the top score.
	assert.Equal(t, "sprint", resp.Data.Rows[0].Test)
	assert.Equal(t, 100.0, resp.Data.Rows[0].Score)
}

func TestScoresForbiddenAcrossPlayers(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	assert.Equal(t, http.StatusForbidden, get(t, r, "/api/tests/tanaka/scores").Code)
}

func TestLeaderboardOrdersBestFirst(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka", "suzuki")
	seedResult(t, repo, "yamada", "jump", "2026-08-25", 60)
	seedResult(t, repo, "tanaka", "jump", "2026-08-25", 45)
	seedResult(t, repo, "suzuki", "jump", "2026-08-25", 52)
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	w := get(t, r, "/api/tests/leaderboard/jump")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data LeaderboardResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Rows, 3)
	assert.Equal(t, "yamada", resp.Data.Rows[0].Label)
	assert.Equal(t, "suzuki", resp.Data.Rows[1].Label)
	assert.Equal(t, "tanaka", resp.Data.Rows[2].Label)
}

func TestLeaderboardRejectsUnknownTest(t *testing.T) {
	repo := newStubRepo("yamada")
	r := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))

	assert.Equal(t, http.StatusBadRequest, get(t, r, "/api/tests/leaderboard/deadlift").Code)
}

func TestDeleteResultOwnerOnly(t *testing.T) {
	repo := newStubRepo("yamada", "tanaka")
	seedResult(t, repo, "tanaka", "sprint", "2026-08-25", 12.0)

	asYamada := setupRouter(repo, "yamada", middleware.RolePlayer, day("2026-08-28"))
	req := httptest.NewRequest(http.MethodDelete, "/api/tests/1", nil)
	w := httptest.NewRecorder()
	asYamada.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	asAdmin := setupRouter(repo, "admin", middleware.RoleAdmin, day("2026-08-28"))
	req = httptest.NewRequest(http.MethodDelete, "/api/tests/1", nil)
	w = httptest.NewRecorder()
	asAdmin.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/tests/1", nil)
	w = httptest.NewRecorder()
	asAdmin.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
