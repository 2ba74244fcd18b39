package config

import (
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/constants"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/models"
	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/utils"
)

type Config struct {
	AppName string `validate:"required"`
	Env     string `validate:"required"`
	AppPort string `validate:"required,numeric"`
	AppUrl  string `validate:"required,url"`

	// Database
	DBUrl         string `validate:"required"`
	RunMigrations bool

	// Optional; without it the seed job lock is process-local.
	RedisURL string `validate:"omitempty,url"`

	// Auth
	JWTSecret []byte `validate:"required,min=16"`

	// Object storage
	StorageBaseURL    string `validate:"required,url"`
	StorageSigningKey []byte `validate:"required,min=16"`

	SeedRecomputeSchedule string `validate:"required"`
	LoaderWait            time.Duration
}

// build-time overrides
var (
	AppName = "average-character-cloud-backend"
)

func LoadConfig() *Config {
	if AppName == "" {
		utils.Logger.Fatal("AppName ldflag missing")
	}
	utils.Logger.Info("Loading config for app: ", AppName)

	cfg := &Config{
		AppName:               AppName,
		Env:                   requireEnv("ENV"),
		AppPort:               requireEnv("APP_PORT"),
		AppUrl:                requireEnv("APP_URL_FROM_ANYWHERE"),
		DBUrl:                 requireEnv("DATABASE_URL"),
		RunMigrations:         envBool("RUN_MIGRATIONS"),
		RedisURL:              os.Getenv("REDIS_URL"),
		JWTSecret:             []byte(requireEnv("JWT_SECRET")),
		StorageBaseURL:        requireEnv("STORAGE_BASE_URL"),
		StorageSigningKey:     []byte(requireEnv("STORAGE_SIGNING_KEY")),
		SeedRecomputeSchedule: constants.SeedRecomputeSchedule,
		LoaderWait:            constants.LoaderWait,
	}

	if v := os.Getenv("SEED_RECOMPUTE_SCHEDULE"); v != "" {
		cfg.SeedRecomputeSchedule = v
	}
	if _, err := cron.ParseStandard(cfg.SeedRecomputeSchedule); err != nil {
		utils.Logger.WithError(err).Fatalf("SEED_RECOMPUTE_SCHEDULE %q is invalid", cfg.SeedRecomputeSchedule)
	}

	if v := os.Getenv("LOADER_WAIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			utils.Logger.Fatalf("LOADER_WAIT %q is not a positive duration", v)
		}
		cfg.LoaderWait = d
	}

	if err := models.Validate(cfg); err != nil {
		utils.Logger.WithError(err).Fatal("Invalid config")
	}

	utils.Logger.Infof("Config loaded (env=%s, redis=%t, migrations=%t)", cfg.Env, cfg.RedisURL != "", cfg.RunMigrations)
	return cfg
}

func requireEnv(name string) string {
	v := os.Getenv(name)
	if v == "" {
		utils.Logger.Fatalf("%s env var is missing", name)
	}
	return v
}

func envBool(name string) bool {
	switch strings.ToLower(os.Getenv(name)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
