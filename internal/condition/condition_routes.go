package condition

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	mw "github.com/hsato-11/teamcond/internal/middleware"
	"github.com/hsato-11/teamcond/internal/notify"
)

func RegisterConditionRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, notifier *notify.Notifier) {
	repo := NewConditionRepository(db)
	controller := NewConditionController(repo, appConfig, notifier)

	conditions := router.Group("/conditions")
	conditions.Use(mw.AuthMiddleware(appConfig.JWT.Secret))
	{
		conditions.POST("", controller.SubmitEntry)
		// "team" is carved out before the player-name wildcard.
		conditions.GET("/team/today", mw.AdminMiddleware(), controller.TeamOverview)
		conditions.GET("/:name", controller.GetHistory)
		conditions.DELETE("/:name/:date", controller.DeleteEntry)
	}
}
