package player

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/middleware"
	"github.com/hsato-11/teamcond/pkg/responses"
	"github.com/hsato-11/teamcond/pkg/validator"
	"github.com/hsato-11/teamcond/utils"
)

// PlayerController handles roster management.
type PlayerController struct {
	repo   PlayerRepository
	config *config.Config
}

func NewPlayerController(repo PlayerRepository, cfg *config.Config) *PlayerController {
	return &PlayerController{repo: repo, config: cfg}
}

// ListPlayers godoc
// @Summary List all players
// @Description Admin roster view with derived BMI and target weight per player
// @Tags Players
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]PlayerResponse}
// @Failure 500 {object} responses.ErrorResponse
// @Router /players [get]
// @Security BearerAuth
func (pc *PlayerController) ListPlayers(c *gin.Context) {
	players, err := pc.repo.ListPlayers()
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve players", nil)
		return
	}

	out := make([]PlayerResponse, 0, len(players))
	for i := range players {
		out = append(out, FilterPlayerRecord(&players[i], pc.config.Metrics.BMITarget))
	}
	responses.SendSuccess(c, http.StatusOK, "Players retrieved successfully", out)
}

// GetPlayer godoc
// @Summary Get a player by ID
// @Tags Players
// @Produce json
// @Param player_id path int true "Player ID"
// @Success 200 {object} responses.SuccessResponse{data=PlayerResponse}
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{player_id} [get]
// @Security BearerAuth
func (pc *PlayerController) GetPlayer(c *gin.Context) {
	p, ok := pc.playerFromParam(c)
	if !ok {
		return
	}

	// Players may only view their own profile; admins see everyone.
	if !middleware.IsAdmin(c) {
		name, err := middleware.GetNameFromContext(c)
		if err != nil || name != p.Name {
			responses.Forbidden(c, "")
			return
		}
	}

	responses.SendSuccess(c, http.StatusOK, "Player retrieved successfully",
		FilterPlayerRecord(p, pc.config.Metrics.BMITarget))
}

// CreatePlayer godoc
// @Summary Register a new player
// @Description Admin registers a player with baseline height/weight and an initial password
// @Tags Players
// @Accept json
// @Produce json
// @Param player body CreatePlayerRequest true "Player registration"
// @Success 201 {object} responses.SuccessResponse{data=PlayerResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse "Player with this name already exists"
// @Failure 500 {object} responses.ErrorResponse
// @Router /players [post]
// @Security BearerAuth
func (pc *PlayerController) CreatePlayer(c *gin.Context) {
	var req CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if _, err := pc.repo.GetPlayerByName(req.Name); !errors.Is(err, gorm.ErrRecordNotFound) {
		responses.SendError(c, http.StatusConflict, "Player with this name already exists", nil)
		return
	}

	digest, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Error hashing password", nil)
		return
	}

	p := Player{
		Name:         req.Name,
		JerseyNumber: req.JerseyNumber,
		Position:     req.Position,
		Grade:        req.Grade,
		HeightCM:     req.HeightCM,
		WeightKG:     req.WeightKG,
		Password:     digest,
	}
	if err := pc.repo.CreatePlayer(&p); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to register player", nil)
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "Player registered successfully",
		FilterPlayerRecord(&p, pc.config.Metrics.BMITarget))
}

// UpdatePlayer godoc
// @Summary Update a player
// @Description Admin edits roster fields; password changes only when provided
// @Tags Players
// @Accept json
// @Produce json
// @Param player_id path int true "Player ID"
// @Param player body UpdatePlayerRequest true "Fields to update"
// @Success 200 {object} responses.SuccessResponse{data=PlayerResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Failure 409 {object} responses.ErrorResponse
// @Router /players/{player_id} [put]
// @Security BearerAuth
func (pc *PlayerController) UpdatePlayer(c *gin.Context) {
	p, ok := pc.playerFromParam(c)
	if !ok {
		return
	}

	var req UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if req.Name != nil {
		newName := strings.TrimSpace(*req.Name)
		if newName != p.Name {
			if existing, err := pc.repo.GetPlayerByName(newName); err == nil && existing.ID != p.ID {
				responses.SendError(c, http.StatusConflict, "Another player with this name already exists", nil)
				return
			}
			p.Name = newName
		}
	}
	if req.JerseyNumber != nil {
		p.JerseyNumber = *req.JerseyNumber
	}
	if req.Position != nil {
		p.Position = *req.Position
	}
	if req.Grade != nil {
		p.Grade = *req.Grade
	}
	if req.HeightCM != nil {
		p.HeightCM = *req.HeightCM
	}
	if req.WeightKG != nil {
		p.WeightKG = *req.WeightKG
	}
	if req.Password != nil {
		digest, err := utils.HashPassword(*req.Password)
		if err != nil {
			responses.SendError(c, http.StatusInternalServerError, "Error hashing password", nil)
			return
		}
		p.Password = digest
	}

	if err := pc.repo.UpdatePlayer(p); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update player", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Player updated successfully",
		FilterPlayerRecord(p, pc.config.Metrics.BMITarget))
}

// DeletePlayer godoc
// @Summary Delete a player
// @Description Removes the player and cascades to condition entries and test results
// @Tags Players
// @Produce json
// @Param player_id path int true "Player ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{player_id} [delete]
// @Security BearerAuth
func (pc *PlayerController) DeletePlayer(c *gin.Context) {
	p, ok := pc.playerFromParam(c)
	if !ok {
		return
	}

	if err := pc.repo.DeletePlayer(p.ID); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to delete player", nil)
		return
	}
	logrus.WithField("player", p.Name).Info("player deleted with dependent records")

	responses.SendSuccess(c, http.StatusOK, "Player deleted successfully", nil)
}

// UploadPhoto godoc
// @Summary Upload a player photo
// @Description Stores the photo under a generated name and returns its URL
// @Tags Players
// @Accept mpfd
// @Produce json
// @Param player_id path int true "Player ID"
// @Param photo formData file true "Photo file"
// @Success 200 {object} responses.SuccessResponse{data=PlayerResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Router /players/{player_id}/photo [post]
// @Security BearerAuth
func (pc *PlayerController) UploadPhoto(c *gin.Context) {
	p, ok := pc.playerFromParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		responses.BadRequest(c, "Photo file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		responses.BadRequest(c, "Only jpg and png photos are accepted")
		return
	}

	filename := uuid.New().String() + ext
	dst := filepath.Join(pc.config.App.UploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logrus.WithError(err).Error("failed to store uploaded photo")
		responses.SendError(c, http.StatusInternalServerError, "Failed to store photo", nil)
		return
	}

	p.PhotoPath = fmt.Sprintf("/public/uploads/%s", filename)
	if err := pc.repo.UpdatePlayer(p); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update player photo", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Photo uploaded successfully",
		FilterPlayerRecord(p, pc.config.Metrics.BMITarget))
}

func (pc *PlayerController) playerFromParam(c *gin.Context) (*Player, bool) {
	idStr := c.Param("player_id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		responses.BadRequest(c, "Invalid player ID format")
		return nil, false
	}

	p, err := pc.repo.GetPlayerByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "Player")
			return nil, false
		}
		responses.SendError(c, http.StatusInternalServerError, "Failed to retrieve player", nil)
		return nil, false
	}
	return p, true
}
