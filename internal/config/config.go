package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	LogLevel    string   `mapstructure:"LOG_LEVEL"`

	// Timezone is the single reference zone used for "today", instant
	// conversion and future-only checks. Doctors do not carry their own zone.
	Timezone string `mapstructure:"TIMEZONE"`

	SlotHorizonDays    int  `mapstructure:"SLOT_HORIZON_DAYS"`
	WeekLengthDays     int  `mapstructure:"WEEK_LENGTH_DAYS"`
	MaxRangeDays       int  `mapstructure:"MAX_RANGE_DAYS"`
	MaxSlotsPerDay     int  `mapstructure:"MAX_SLOTS_PER_DAY"`
	EnforceFutureSlots bool `mapstructure:"ENFORCE_FUTURE_SLOTS"`

	// ActorJWTSecret verifies bearer tokens whose subject names the acting
	// user. Empty disables token verification (X-Actor-ID header only).
	ActorJWTSecret string `mapstructure:"ACTOR_JWT_SECRET"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "America/Sao_Paulo")
	v.SetDefault("SLOT_HORIZON_DAYS", 30)
	v.SetDefault("WEEK_LENGTH_DAYS", 7)
	v.SetDefault("MAX_RANGE_DAYS", 31)
	v.SetDefault("MAX_SLOTS_PER_DAY", 96)
	v.SetDefault("ENFORCE_FUTURE_SLOTS", true)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("LOG_LEVEL")
	v.BindEnv("TIMEZONE")
	v.BindEnv("SLOT_HORIZON_DAYS")
	v.BindEnv("WEEK_LENGTH_DAYS")
	v.BindEnv("MAX_RANGE_DAYS")
	v.BindEnv("MAX_SLOTS_PER_DAY")
	v.BindEnv("ENFORCE_FUTURE_SLOTS")
	v.BindEnv("ACTOR_JWT_SECRET")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Location resolves the configured reference timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Validate checks that the scheduling parameters are usable.
func (c *Config) Validate() error {
	if c.SlotHorizonDays < 1 {
		return fmt.Errorf("SLOT_HORIZON_DAYS must be at least 1, got %d", c.SlotHorizonDays)
	}
	if c.WeekLengthDays < 1 {
		return fmt.Errorf("WEEK_LENGTH_DAYS must be at least 1, got %d", c.WeekLengthDays)
	}
	if c.MaxRangeDays < c.WeekLengthDays {
		return fmt.Errorf("MAX_RANGE_DAYS (%d) must not be smaller than WEEK_LENGTH_DAYS (%d)",
			c.MaxRangeDays, c.WeekLengthDays)
	}
	if c.MaxSlotsPerDay < 1 {
		return fmt.Errorf("MAX_SLOTS_PER_DAY must be at least 1, got %d", c.MaxSlotsPerDay)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
