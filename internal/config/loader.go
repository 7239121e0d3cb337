package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime configuration of the goal tracker service.
//
// Values resolve in three layers: built-in defaults, then an optional YAML
// file named by GOALTRACKER_CONFIG_FILE, then GOALTRACKER_* environment
// variables. Later layers win.
type Config struct {
	HTTPPort               int
	SQLiteDSN              string
	SessionSecret          string
	SessionTTL             time.Duration
	SessionPurgeSchedule   string
	DefaultTimezone        string
	DefaultStartTime       string
	DefaultDurationMinutes int
}

type fileConfig struct {
	HTTPPort               *int    `yaml:"http_port"`
	SQLiteDSN              *string `yaml:"sqlite_dsn"`
	SessionSecret          *string `yaml:"session_secret"`
	SessionTTL             *string `yaml:"session_ttl"`
	SessionPurgeSchedule   *string `yaml:"session_purge_schedule"`
	DefaultTimezone        *string `yaml:"default_timezone"`
	DefaultStartTime       *string `yaml:"default_start_time"`
	DefaultDurationMinutes *int    `yaml:"default_duration_minutes"`
}

// Load resolves configuration from defaults, the optional YAML file, and the
// process environment.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:               8080,
		SQLiteDSN:              "file:goaltracker.db?_foreign_keys=on",
		SessionTTL:             24 * time.Hour,
		SessionPurgeSchedule:   "@hourly",
		DefaultTimezone:        "UTC",
		DefaultStartTime:       "09:00",
		DefaultDurationMinutes: 30,
	}

	if path := strings.TrimSpace(os.Getenv("GOALTRACKER_CONFIG_FILE")); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("GOALTRACKER_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "GOALTRACKER_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("GOALTRACKER_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("GOALTRACKER_SESSION_SECRET")); secret != "" {
		cfg.SessionSecret = secret
	}
	if cfg.SessionSecret == "" {
		missing = append(missing, "GOALTRACKER_SESSION_SECRET")
	}

	if ttlValue := strings.TrimSpace(os.Getenv("GOALTRACKER_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "GOALTRACKER_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if schedule := strings.TrimSpace(os.Getenv("GOALTRACKER_SESSION_PURGE_SCHEDULE")); schedule != "" {
		cfg.SessionPurgeSchedule = schedule
	}

	if tz := strings.TrimSpace(os.Getenv("GOALTRACKER_DEFAULT_TIMEZONE")); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			invalid = append(invalid, "GOALTRACKER_DEFAULT_TIMEZONE")
		} else {
			cfg.DefaultTimezone = tz
		}
	}

	if start := strings.TrimSpace(os.Getenv("GOALTRACKER_DEFAULT_START_TIME")); start != "" {
		if _, err := time.Parse("15:04", start); err != nil {
			invalid = append(invalid, "GOALTRACKER_DEFAULT_START_TIME")
		} else {
			cfg.DefaultStartTime = start
		}
	}

	if durationValue := strings.TrimSpace(os.Getenv("GOALTRACKER_DEFAULT_DURATION_MINUTES")); durationValue != "" {
		duration, err := strconv.Atoi(durationValue)
		if err != nil || duration <= 0 {
			invalid = append(invalid, "GOALTRACKER_DEFAULT_DURATION_MINUTES")
		} else {
			cfg.DefaultDurationMinutes = duration
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("environment variables hold invalid values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("config file %s does not exist", path)
		}
		return fmt.Errorf("read config file: %w", err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if file.HTTPPort != nil {
		if *file.HTTPPort <= 0 {
			return fmt.Errorf("config file %s: http_port must be positive", path)
		}
		cfg.HTTPPort = *file.HTTPPort
	}
	if file.SQLiteDSN != nil {
		cfg.SQLiteDSN = strings.TrimSpace(*file.SQLiteDSN)
	}
	if file.SessionSecret != nil {
		cfg.SessionSecret = strings.TrimSpace(*file.SessionSecret)
	}
	if file.SessionTTL != nil {
		ttl, err := time.ParseDuration(strings.TrimSpace(*file.SessionTTL))
		if err != nil || ttl <= 0 {
			return fmt.Errorf("config file %s: session_ttl is not a positive duration", path)
		}
		cfg.SessionTTL = ttl
	}
	if file.SessionPurgeSchedule != nil {
		cfg.SessionPurgeSchedule = strings.TrimSpace(*file.SessionPurgeSchedule)
	}
	if file.DefaultTimezone != nil {
		tz := strings.TrimSpace(*file.DefaultTimezone)
		if _, err := time.LoadLocation(tz); err != nil {
			return fmt.Errorf("config file %s: default_timezone is not a valid IANA zone", path)
		}
		cfg.DefaultTimezone = tz
	}
	if file.DefaultStartTime != nil {
		start := strings.TrimSpace(*file.DefaultStartTime)
		if _, err := time.Parse("15:04", start); err != nil {
			return fmt.Errorf("config file %s: default_start_time must be HH:MM", path)
		}
		cfg.DefaultStartTime = start
	}
	if file.DefaultDurationMinutes != nil {
		if *file.DefaultDurationMinutes <= 0 {
			return fmt.Errorf("config file %s: default_duration_minutes must be positive", path)
		}
		cfg.DefaultDurationMinutes = *file.DefaultDurationMinutes
	}

	return nil
}
