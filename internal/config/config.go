package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config is the full service configuration: connection settings come from
// the environment, ordering policy (cutoffs, jobs) from a TOML file.
type Config struct {
	Meals   MealConfig   `toml:"meals"`
	Jobs    JobsConfig   `toml:"jobs"`
	Reports ReportConfig `toml:"reports"`

	DatabaseURL string `toml:"-"`
	JWTSecret   string `toml:"-"`
	ListenAddr  string `toml:"-"`

	Redis RedisConfig `toml:"-"`
	Minio MinioConfig `toml:"-"`
}

// MealConfig maps each meal slot to its same-day ordering cutoff,
// expressed as a wall-clock "HH:MM" string.
type MealConfig struct {
	BreakfastCutoff string `toml:"breakfast_cutoff"`
	LunchCutoff     string `toml:"lunch_cutoff"`
	DinnerCutoff    string `toml:"dinner_cutoff"`
}

// JobsConfig controls the background scheduler.
type JobsConfig struct {
	Enabled             bool   `toml:"enabled"`
	CompletionSweepCron string `toml:"completion_sweep_cron"`
	ReportExportCron    string `toml:"report_export_cron"`
}

// ReportConfig controls the daily statistics export.
type ReportConfig struct {
	Bucket string `toml:"bucket"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
}

// Load reads the TOML policy file (optional; defaults apply when the path
// is empty or missing) and overlays environment-provided settings.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Meals: MealConfig{
			BreakfastCutoff: "07:30",
			LunchCutoff:     "11:00",
			DinnerCutoff:    "17:00",
		},
		Jobs: JobsConfig{
			Enabled:             true,
			CompletionSweepCron: "0 21 * * *",
			ReportExportCron:    "30 21 * * *",
		},
		Reports: ReportConfig{Bucket: "meal-reports"},
	}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.ListenAddr = envOr("LISTEN_ADDR", ":8082")

	cfg.Redis.Addr = envOr("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = db
		}
	}

	cfg.Minio.Endpoint = envOr("MINIO_ENDPOINT", "localhost:9000")
	cfg.Minio.AccessKey = envOr("MINIO_ACCESS_KEY", "minioadmin")
	cfg.Minio.SecretKey = envOr("MINIO_SECRET_KEY", "minioadmin")
	cfg.Minio.UseSSL = os.Getenv("MINIO_USE_SSL") == "true"

	return cfg, nil
}

// Cutoff returns the configured cutoff for mealType, or "" when the meal
// type is unknown.
func (m *MealConfig) Cutoff(mealType string) string {
	switch mealType {
	case "breakfast":
		return m.BreakfastCutoff
	case "lunch":
		return m.LunchCutoff
	case "dinner":
		return m.DinnerCutoff
	}
	return ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
