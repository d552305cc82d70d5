package auth

import (
	"github.com/hsato-11/teamcond/internal/player"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required" example:"yamada"`
	Password string `json:"password" binding:"required" example:"password123"`
}

type ChangePasswordRequest struct {
	OldPassword     string `json:"old_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=4,max=72"`
	PasswordConfirm string `json:"password_confirm" binding:"required,eqfield=NewPassword"`
}

// AuthResponse carries the session token and, for player sessions, the
// player's profile. Admin sessions have no roster row.
type AuthResponse struct {
	AccessToken string                 `json:"access_token"`
	Role        string                 `json:"role"`
	Name        string                 `json:"name"`
	Player      *player.PlayerResponse `json:"player,omitempty"`
}
