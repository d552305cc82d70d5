package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/hsato-11/teamcond/config"
	_ "github.com/hsato-11/teamcond/docs"
	"github.com/hsato-11/teamcond/internal/condition"
	"github.com/hsato-11/teamcond/internal/notify"
	"github.com/hsato-11/teamcond/internal/physical"
	"github.com/hsato-11/teamcond/internal/player"
	"github.com/hsato-11/teamcond/internal/shift"
	"github.com/hsato-11/teamcond/routes"
)

// @title Team Condition API
// @version 1.0
// @description Player condition tracking and shift submission for a small team.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := config.Initialize(); err != nil {
		logrus.WithError(err).Fatal("failed to initialize application")
	}

	cfg := config.GetConfig()

	if err := config.DB.AutoMigrate(
		&player.Player{},
		&condition.ConditionEntry{},
		&physical.TestResult{},
		&shift.ShiftEntry{},
	); err != nil {
		logrus.WithError(err).Fatal("automigrate failed")
	}

	if err := os.MkdirAll(cfg.App.UploadDir, 0o755); err != nil {
		logrus.WithError(err).Fatal("failed to create upload directory")
	}

	notifier := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	r := routes.SetupRoutes(config.DB, cfg, notifier)

	logrus.WithFields(logrus.Fields{
		"port": cfg.App.Port,
		"env":  cfg.App.Env,
	}).Info("starting server")
	if err := r.Run(":" + cfg.App.Port); err != nil {
		logrus.WithError(err).Fatal("failed to run server")
	}
}
