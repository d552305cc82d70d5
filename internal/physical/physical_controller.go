package physical

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/metrics"
	"github.com/hsato-11/teamcond/internal/middleware"
	"github.com/hsato-11/teamcond/pkg/responses"
	"github.com/hsato-11/teamcond/pkg/validator"
)

const dayFormat = "2006-01-02"

type PhysicalController struct {
	repo   PhysicalRepository
	config *config.Config
	now    func() time.Time
}

func NewPhysicalController(repo PhysicalRepository, cfg *config.Config) *PhysicalController {
	return &PhysicalController{repo: repo, config: cfg, now: time.Now}
}

// CreateResult godoc
// @Summary Log a physical-test result
// @Description Players log for themselves; admins may log for any player
// @Tags PhysicalTests
// @Accept json
// @Produce json
// @Param result body CreateTestResultRequest true "Test result"
// @Success 201 {object} responses.SuccessResponse{data=TestResult}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /tests [post]
// @Security BearerAuth
func (pc *PhysicalController) CreateResult(c *gin.Context) {
	var req CreateTestResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
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
		exists, err := pc.repo.PlayerExists(targetName)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Failed to verify player", nil)
			return
		}
		if !exists {
			responses.NotFound(c, "Player")
			return
		}
	} else if req.PlayerName != "" && req.PlayerName != sessionName {
		responses.Forbidden(c, "Players can only log their own results")
		return
	}

	day := pc.now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation(dayFormat, req.Date, pc.now().Location())
		if err != nil {
			responses.BadRequest(c, "Invalid date format, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	result := TestResult{
		PlayerName: targetName,
		TestName:   req.TestName,
		Date:       day,
		Value:      req.Value,
		Unit:       metrics.TestUnit(req.TestName),
	}
	if err := pc.repo.CreateResult(&result); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to save test result", nil)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Test result saved successfully", result)
}

// ListByPlayer godoc
// @Summary A player's raw test results
// @Tags PhysicalTests
// @Produce json
// @Param name path string true "Player name"
// @Success 200 {object} responses.SuccessResponse{data=[]TestResult}
// @Failure 403 {object} responses.ErrorResponse
// @Router /tests/{name} [get]
// @Security BearerAuth
func (pc *PhysicalController) ListByPlayer(c *gin.Context) {
	name := c.Param("name")
	if !pc.canAccess(c, name) {
		return
	}

	results, err := pc.repo.ListByPlayer(name)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve test results", nil)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Test results retrieved successfully", results)
}

// GetScores godoc
// @Summary A player's normalized test scores
// @Description One 20-100 score per test relative to the team's latest results
// @Tags PhysicalTests
// @Produce json
// @Param name path string true "Player name"
// @Success 200 {object} responses.SuccessResponse{data=ScoresResponse}
// @Failure 403 {object} responses.ErrorResponse
// @Router /tests/{name}/scores [get]
// @Security BearerAuth
func (pc *PhysicalController) GetScores(c *gin.Context) {
	name := c.Param("name")
	if !pc.canAccess(c, name) {
		return
	}

	all, err := pc.repo.ListAll()
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve test results", nil)
		return
	}

	rows := metrics.Scores(name, ToMetrics(all), metrics.ScoreOptions{})
	responses.SendSuccess(c, http.StatusOK, "Scores computed successfully", ScoresResponse{
		PlayerName: name,
		Rows:       rows,
	})
}

// Leaderboard godoc
// @Summary Team leaderboard for one test
// @Tags PhysicalTests
// @Produce json
// @Param test path string true "Test name (sprint, agility, jump, endurance)"
// @Success 200 {object} responses.SuccessResponse{data=LeaderboardResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Router /tests/leaderboard/{test} [get]
// @Security BearerAuth
func (pc *PhysicalController) Leaderboard(c *gin.Context) {
	test := c.Param("test")
	if !metrics.KnownTest(test) {
		responses.BadRequest(c, "Unknown test name")
		return
	}

	all, err := pc.repo.ListAll()
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve test results", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Leaderboard computed successfully", LeaderboardResponse{
		TestName: test,
		Rows:     metrics.Leaderboard(test, ToMetrics(all)),
	})
}

// DeleteResult godoc
// @Summary Delete a test result
// @Description Owner or admin removes a single result by ID
// @Tags PhysicalTests
// @Produce json
// @Param result_id path int true "Result ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 403 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /tests/{result_id} [delete]
// @Security BearerAuth
func (pc *PhysicalController) DeleteResult(c *gin.Context) {
	idStr := c.Param("result_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid result ID format")
		return
	}

	result, err := pc.repo.GetResultByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "Test result")
			return
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve test result", nil)
		return
	}
	if !pc.canAccess(c, result.PlayerName) {
		return
	}

	if err := pc.repo.DeleteResult(result.ID); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete test result", nil)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Test result deleted successfully", nil)
}

func (pc *PhysicalController) canAccess(c *gin.Context, name string) bool {
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
