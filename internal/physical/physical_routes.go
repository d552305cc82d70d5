package physical

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	mw "github.com/hsato-11/teamcond/internal/middleware"
)

func RegisterPhysicalRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewPhysicalRepository(db)
	controller := NewPhysicalController(repo, appConfig)

	tests := router.Group("/tests")
	tests.Use(mw.AuthMiddleware(appConfig.JWT.Secret))
	{
		tests.POST("", controller.CreateResult)
		tests.GET("/leaderboard/:test", controller.Leaderboard)
		tests.GET("/:name", controller.ListByPlayer)
		tests.GET("/:name/scores", controller.GetScores)
		tests.DELETE("/:result_id", controller.DeleteResult)
	}
}
