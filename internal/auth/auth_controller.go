package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/middleware"
	"github.com/hsato-11/teamcond/internal/player"
	"github.com/hsato-11/teamcond/pkg/responses"
	"github.com/hsato-11/teamcond/pkg/token"
	"github.com/hsato-11/teamcond/pkg/validator"
	"github.com/hsato-11/teamcond/utils"
)

// invalidCredentials is deliberately identical for unknown names and wrong
// passwords so login attempts cannot enumerate the roster.
const invalidCredentials = "Invalid credentials"

type AuthController struct {
	repo   AuthRepository
	config *config.Config
}

func NewAuthController(repo AuthRepository, cfg *config.Config) *AuthController {
	return &AuthController{repo: repo, config: cfg}
}

// Login godoc
// @Summary Log in as admin or player
// @Description Admin matches the configured credential; players match their stored digest
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Name and password"
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse "Invalid credentials"
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	if req.Name == ac.config.Admin.Name {
		ac.loginAdmin(c, req)
		return
	}
	ac.loginPlayer(c, req)
}

func (ac *AuthController) loginAdmin(c *gin.Context, req LoginRequest) {
	secret := ac.config.Admin.Password
	if secret == "" ||
		subtle.ConstantTimeCompare([]byte(req.Password), []byte(secret)) != 1 {
		responses.Unauthorized(c, invalidCredentials)
		return
	}

	accessToken, err := token.GenerateJWT(0, ac.config.Admin.Name, middleware.RoleAdmin,
		ac.config.JWT.Secret, ac.config.JWT.ExpiryMinutes)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Token generation failed", nil)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", AuthResponse{
		AccessToken: accessToken,
		Role:        middleware.RoleAdmin,
		Name:        ac.config.Admin.Name,
	})
}

func (ac *AuthController) loginPlayer(c *gin.Context, req LoginRequest) {
	p, err := ac.repo.GetPlayerByName(req.Name)
	if err != nil || !utils.CheckPassword(p.Password, req.Password) {
		responses.Unauthorized(c, invalidCredentials)
		return
	}

	accessToken, err := token.GenerateJWT(p.ID, p.Name, middleware.RolePlayer,
		ac.config.JWT.Secret, ac.config.JWT.ExpiryMinutes)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Token generation failed", nil)
		return
	}

	profile := player.FilterPlayerRecord(p, ac.config.Metrics.BMITarget)
	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", AuthResponse{
		AccessToken: accessToken,
		Role:        middleware.RolePlayer,
		Name:        p.Name,
		Player:      &profile,
	})
}

// Me godoc
// @Summary Current session profile
// @Tags Auth
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=AuthResponse}
// @Failure 401 {object} responses.ErrorResponse
// @Router /auth/me [get]
// @Security BearerAuth
func (ac *AuthController) Me(c *gin.Context) {
	name, err := middleware.GetNameFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}
	role, _ := middleware.GetRoleFromContext(c)

	resp := AuthResponse{Role: role, Name: name}
	if role == middleware.RolePlayer {
		p, err := ac.repo.GetPlayerByName(name)
		if err != nil {
			responses.NotFound(c, "Player")
			return
		}
		profile := player.FilterPlayerRecord(p, ac.config.Metrics.BMITarget)
		resp.Player = &profile
	}

	responses.SendSuccess(c, http.StatusOK, "Profile retrieved successfully", resp)
}

// ChangePassword godoc
// @Summary Change own password
// @Description Players replace their stored digest after confirming the old password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body ChangePasswordRequest true "Old and new passwords"
// @Success 200 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 401 {object} responses.ErrorResponse
// @Failure 403 {object} responses.ErrorResponse "Admin password is configuration-managed"
// @Router /auth/change-password [post]
// @Security BearerAuth
func (ac *AuthController) ChangePassword(c *gin.Context) {
	if middleware.IsAdmin(c) {
		responses.Forbidden(c, "The admin password is managed through configuration")
		return
	}

	playerID, err := middleware.GetPlayerIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendError(c, http.StatusBadRequest, "Validation failed", validator.ParseError(err))
		return
	}

	p, err := ac.repo.GetPlayerByID(playerID)
	if err != nil {
		responses.NotFound(c, "Player")
		return
	}
	if !utils.CheckPassword(p.Password, req.OldPassword) {
		responses.Unauthorized(c, invalidCredentials)
		return
	}

	digest, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Error hashing password", nil)
		return
	}
	if err := ac.repo.UpdatePassword(p.ID, digest); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to update password", nil)
		return
	}
	logrus.WithField("player", p.Name).Info("password changed")

	responses.SendSuccess(c, http.StatusOK, "Password updated successfully", nil)
}
