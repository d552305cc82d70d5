package shift

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	mw "github.com/hsato-11/teamcond/internal/middleware"
)

func RegisterShiftRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	repo := NewShiftRepository(db)
	controller := NewShiftController(repo, appConfig)

	shifts := router.Group("/shifts")
	shifts.Use(mw.AuthMiddleware(appConfig.JWT.Secret))
	{
		shifts.POST("", controller.Submit)

		admin := shifts.Group("")
		admin.Use(mw.AdminMiddleware())
		{
			admin.GET("/:month", controller.ListMonth)
			admin.GET("/:month/export", controller.ExportMonth)
		}
	}
}
