package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/hsato-11/teamcond/config"
	"github.com/hsato-11/teamcond/internal/auth"
	"github.com/hsato-11/teamcond/internal/condition"
	"github.com/hsato-11/teamcond/internal/notify"
	"github.com/hsato-11/teamcond/internal/physical"
	"github.com/hsato-11/teamcond/internal/player"
	"github.com/hsato-11/teamcond/internal/shift"
)

func SetupRoutes(db *gorm.DB, appConfig *config.Config, notifier *notify.Notifier) *gin.Engine {
	if appConfig.App.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{appConfig.App.FrontendURL}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// Uploaded player photos are served from here.
	r.Static("/public", "./public")

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	auth.RegisterAuthRoutes(api, db, appConfig)
	player.RegisterPlayerRoutes(api, db, appConfig)
	condition.RegisterConditionRoutes(api, db, appConfig, notifier)
	physical.RegisterPhysicalRoutes(api, db, appConfig)
	shift.RegisterShiftRoutes(api, db, appConfig)

	return r
}
