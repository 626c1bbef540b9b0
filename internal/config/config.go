// Package config provides Viper-based configuration loading for the game.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds game-balance tuning values.
type GameConfig struct {
	// StartingMaxHP is the max HP a new character is created with.
	StartingMaxHP int `mapstructure:"starting_max_hp"`
	// StartingAttack is the base attack stat for new characters.
	StartingAttack int `mapstructure:"starting_attack"`
	// StartingDefense is the base defense stat for new characters.
	StartingDefense int `mapstructure:"starting_defense"`
	// StartingCurrency is the wallet balance a new character begins with.
	StartingCurrency int `mapstructure:"starting_currency"`
	// CritChance is the probability of a critical hit, in [0, 1].
	CritChance float64 `mapstructure:"crit_chance"`
	// XPBase is the XP threshold to advance from level 1 to level 2.
	XPBase int `mapstructure:"xp_base"`
	// XPPerLevel is the additional XP required per level beyond the first.
	XPPerLevel int `mapstructure:"xp_per_level"`
}

// ContentConfig holds paths to the YAML/Lua content directories.
type ContentConfig struct {
	// ItemsDir is the directory of item definition YAML files.
	ItemsDir string `mapstructure:"items_dir"`
	// ClassesDir is the directory of character class YAML files.
	ClassesDir string `mapstructure:"classes_dir"`
	// QuestsDir is the directory of quest definition YAML files.
	QuestsDir string `mapstructure:"quests_dir"`
	// SkillsDir is the directory of skill definition YAML files.
	SkillsDir string `mapstructure:"skills_dir"`
	// ScriptsDir is the directory of Lua effect scripts; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Game     GameConfig     `mapstructure:"game"`
	Content  ContentConfig  `mapstructure:"content"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.StartingMaxHP < 1 {
		errs = append(errs, fmt.Sprintf("game.starting_max_hp must be >= 1, got %d", g.StartingMaxHP))
	}
	if g.StartingAttack < 0 {
		errs = append(errs, fmt.Sprintf("game.starting_attack must be >= 0, got %d", g.StartingAttack))
	}
	if g.StartingDefense < 0 {
		errs = append(errs, fmt.Sprintf("game.starting_defense must be >= 0, got %d", g.StartingDefense))
	}
	if g.StartingCurrency < 0 {
		errs = append(errs, fmt.Sprintf("game.starting_currency must be >= 0, got %d", g.StartingCurrency))
	}
	if g.CritChance < 0 || g.CritChance > 1 {
		errs = append(errs, fmt.Sprintf("game.crit_chance must be in [0, 1], got %v", g.CritChance))
	}
	if g.XPBase < 1 {
		errs = append(errs, fmt.Sprintf("game.xp_base must be >= 1, got %d", g.XPBase))
	}
	if g.XPPerLevel < 0 {
		errs = append(errs, fmt.Sprintf("game.xp_per_level must be >= 0, got %d", g.XPPerLevel))
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with DUSKVALE_ prefix
	v.SetEnvPrefix("DUSKVALE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "duskvale")
	v.SetDefault("database.password", "duskvale")
	v.SetDefault("database.name", "duskvale")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.starting_max_hp", 100)
	v.SetDefault("game.starting_attack", 5)
	v.SetDefault("game.starting_defense", 3)
	v.SetDefault("game.starting_currency", 100)
	v.SetDefault("game.crit_chance", 0.1)
	v.SetDefault("game.xp_base", 100)
	v.SetDefault("game.xp_per_level", 25)

	v.SetDefault("content.items_dir", "content/items")
	v.SetDefault("content.classes_dir", "content/classes")
	v.SetDefault("content.quests_dir", "content/quests")
	v.SetDefault("content.skills_dir", "content/skills")
	v.SetDefault("content.scripts_dir", "content/scripts")
}
