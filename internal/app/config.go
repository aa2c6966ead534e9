package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the translations tooling.
type Config struct {
	LogLevel     string             `mapstructure:"log_level"`
	LogEncoding  string             `mapstructure:"log_encoding"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Translations TranslationsConfig `mapstructure:"translations"`
	Maintenance  MaintenanceConfig  `mapstructure:"maintenance"`
}

// DatabaseConfig describes connection options for the supported databases.
type DatabaseConfig struct {
	Driver   string       `mapstructure:"driver"`
	Path     string       `mapstructure:"path"`
	DSN      string       `mapstructure:"dsn"`
	Postgres DBAuthConfig `mapstructure:"postgres"`
	MySQL    DBAuthConfig `mapstructure:"mysql"`
}

// DBAuthConfig represents host based database parameters.
type DBAuthConfig struct {
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Database string            `mapstructure:"database"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
}

// TranslationsConfig controls where overrides are stored and which locale is active by default.
type TranslationsConfig struct {
	Prefix        string `mapstructure:"prefix"`
	Name          string `mapstructure:"table_name"`
	DefaultLocale string `mapstructure:"default_locale"`
}

// TableName joins the configured prefix and table name.
func (c TranslationsConfig) TableName() string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = "translations"
	}
	return strings.TrimSpace(c.Prefix) + name
}

// MaintenanceConfig schedules permanent removal of soft-deleted overrides.
type MaintenanceConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	PurgeSchedule string        `mapstructure:"purge_schedule"`
	PurgeAfter    time.Duration `mapstructure:"purge_after"`
}

// LoadConfig initialises application configuration using Viper with sensible defaults.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	v.SetEnvPrefix("TRANSLATABLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var cfgErr viper.ConfigFileNotFoundError
		if !errors.As(err, &cfgErr) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config, decodeHook()); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_encoding", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/translations.sqlite")

	v.SetDefault("translations.prefix", "tbl_")
	v.SetDefault("translations.table_name", "translations")
	v.SetDefault("translations.default_locale", "en")

	v.SetDefault("maintenance.enabled", false)
	v.SetDefault("maintenance.purge_schedule", "@daily")
	v.SetDefault("maintenance.purge_after", "720h") // 30 days
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.StringToTimeDurationHookFunc()
	}
}
