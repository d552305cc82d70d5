package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	mw "github.com/hsato-11/teamcond/internal/middleware"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewAuthRepository(db)
	controller := NewAuthController(repo, appConfig)

	public := router.Group("/auth")
	{
		public.POST("/login", controller.Login)
	}

	protected := router.Group("/auth")
	protected.Use(mw.AuthMiddleware(appConfig.JWT.Secret))
	{
		protected.GET("/me", controller.Me)
		protected.POST("/change-password", controller.ChangePassword)
	}
}
