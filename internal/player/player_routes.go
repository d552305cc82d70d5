package player

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	mw "github.com/hsato-11/teamcond/internal/middleware"
)

func RegisterPlayerRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewPlayerRepository(db)
	controller := NewPlayerController(repo, appConfig)

	players := router.Group("/players")
	players.Use(mw.AuthMiddleware(appConfig.JWT.Secret))
	{
		// Own profile is reachable by players; ownership is checked in the
		// handler since the admin session has no player ID.
		players.GET("/:player_id", controller.GetPlayer)

		admin := players.Group("")
		admin.Use(mw.AdminMiddleware())
		{
			admin.GET("", controller.ListPlayers)
			admin.POST("", controller.CreatePlayer)
			admin.PUT("/:player_id", controller.UpdatePlayer)
			admin.DELETE("/:player_id", controller.DeletePlayer)
			admin.POST("/:player_id/photo", controller.UploadPhoto)
		}
	}
}
