package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env         string
		Port        string
		FrontendURL string
		UploadDir   string
	}
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}
	JWT struct {
		Secret        string
		ExpiryMinutes int
	}
	Admin struct {
		Name     string
		Password string
	}
	Metrics struct {
		// Weekdays on which a check-in counts toward the streak.
		CountableWeekdays map[time.Weekday]bool
		StreakMaxLookback int
		BMITarget         float64

		FatigueSpikeDelta   int
		FatigueSpikeStrict  bool // additionally require current fatigue >= 4
		SleepDropDelta      int
		SleepDropStrict     bool // additionally require current sleep <= 2
		WeightLossKG        float64
		WeightLossPercent   float64
		WeightLossByPercent bool
	}
	Telegram struct {
		BotToken string
		ChatID   int64
	}
}

// Global DB instance, set by ConnectDB via Initialize.
var DB *gorm.DB

var appConfig *Config
var once sync.Once

// LoadConfig loads configuration from environment variables into the Config
// struct. Designed to be called once through Initialize.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found, relying on system environment variables")
	}

	cfg := &Config{}

	cfg.App.Env = getEnv("APP_ENV", "development")
	cfg.App.Port = getEnv("PORT", "8088")
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")
	cfg.App.UploadDir = getEnv("UPLOAD_DIR", "./public/uploads")

	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "password")
	cfg.DB.Name = getEnv("DB_NAME", "teamcond_db")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	cfg.JWT.Secret = getEnv("JWT_SECRET", "supersecret")
	cfg.Admin.Name = getEnv("ADMIN_NAME", "admin")
	cfg.Admin.Password = getEnv("ADMIN_PASSWORD", "")

	var err error
	cfg.JWT.ExpiryMinutes, err = getEnvAsInt("JWT_EXPIRY_MINUTES", 720)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_MINUTES: %w", err)
	}

	cfg.Metrics.CountableWeekdays, err = parseWeekdays(getEnv("STREAK_WEEKDAYS", "Tue,Wed,Thu,Fri"))
	if err != nil {
		return nil, fmt.Errorf("invalid STREAK_WEEKDAYS: %w", err)
	}
	cfg.Metrics.StreakMaxLookback, err = getEnvAsInt("STREAK_MAX_LOOKBACK_DAYS", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid STREAK_MAX_LOOKBACK_DAYS: %w", err)
	}
	cfg.Metrics.BMITarget, err = getEnvAsFloat("BMI_TARGET", 22.0)
	if err != nil {
		return nil, fmt.Errorf("invalid BMI_TARGET: %w", err)
	}

	cfg.Metrics.FatigueSpikeDelta, _ = getEnvAsInt("ALERT_FATIGUE_DELTA", 3)
	cfg.Metrics.FatigueSpikeStrict = getEnv("ALERT_FATIGUE_STRICT", "false") == "true"
	cfg.Metrics.SleepDropDelta, _ = getEnvAsInt("ALERT_SLEEP_DELTA", 3)
	cfg.Metrics.SleepDropStrict = getEnv("ALERT_SLEEP_STRICT", "false") == "true"
	cfg.Metrics.WeightLossKG, _ = getEnvAsFloat("ALERT_WEIGHT_LOSS_KG", 1.5)
	cfg.Metrics.WeightLossPercent, _ = getEnvAsFloat("ALERT_WEIGHT_LOSS_PERCENT", 2.0)
	cfg.Metrics.WeightLossByPercent = getEnv("ALERT_WEIGHT_LOSS_BY_PERCENT", "false") == "true"

	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", "")
	chatID, err := getEnvAsInt("TELEGRAM_CHAT_ID", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}
	cfg.Telegram.ChatID = int64(chatID)

	if cfg.Admin.Password == "" {
		logrus.Warn("ADMIN_PASSWORD is not set, admin login is disabled")
	}
	if cfg.JWT.Secret == "supersecret" {
		logrus.Warn("using default JWT secret, set JWT_SECRET for production")
	}

	appConfig = cfg
	return cfg, nil
}

// ConnectDB establishes a connection to Postgres and sets the global DB.
func ConnectDB(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DB.Host,
		cfg.DB.User,
		cfg.DB.Password,
		cfg.DB.Name,
		cfg.DB.Port,
		cfg.DB.SSLMode,
	)

	gormConfig := &gorm.Config{}
	if cfg.App.Env == "development" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB
	logrus.Info("connected to database")
	return gormDB, nil
}

// Initialize loads configuration and connects to the database. Call once
// at process start.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}
		if _, err := ConnectDB(cfg); err != nil {
			loadErr = fmt.Errorf("failed to connect to database: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
func GetConfig() *Config {
	if appConfig == nil {
		logrus.Fatal("configuration not loaded, call config.Initialize() first")
	}
	return appConfig
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) (int, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected integer, got %q", key, valueStr)
	}
	return value, nil
}

func getEnvAsFloat(key string, fallback float64) (float64, error) {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return fallback, fmt.Errorf("env var %s: expected number, got %q", key, valueStr)
	}
	return value, nil
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "mon": time.Monday, "tue": time.Tuesday,
	"wed": time.Wednesday, "thu": time.Thursday, "fri": time.Friday,
	"sat": time.Saturday,
}

// parseWeekdays parses a comma-separated list like "Tue,Wed,Thu,Fri" into a
// weekday set. The countable-day rule is a training-schedule policy, so it is
// configurable rather than hardcoded.
func parseWeekdays(s string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if len(part) > 3 {
			part = part[:3]
		}
		day, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", part)
		}
		days[day] = true
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("empty weekday set")
	}
	return days, nil
}
