// Copyright (c) 2026 Ledgermaster Team
// Ledgermaster - multi-owner account ledger
// This source code is licensed under the MIT license found in the LICENSE file.

// Package config loads Ledgermaster settings from defaults, config files,
// LEDGERMASTER_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	Database Database `mapstructure:"database" yaml:"database"`
	Language string   `mapstructure:"language" yaml:"language"`
	Log      Log      `mapstructure:"log" yaml:"log"`
	Ledger   Ledger   `mapstructure:"ledger" yaml:"ledger"`
}

// Database selects the storage engine and tunes its connection pool.
type Database struct {
	Type                   string `mapstructure:"type" yaml:"type"`
	Dsn                    string `mapstructure:"dsn" yaml:"dsn"`
	MaxOpenConns           int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `mapstructure:"conn_max_lifetime_seconds" yaml:"conn_max_lifetime_seconds"`
}

// Log controls the package logger.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Ledger holds the business policy knobs.
type Ledger struct {
	// ClearingNumber prefixes generated account numbers.
	ClearingNumber string `mapstructure:"clearing_number" yaml:"clearing_number"`
	// DebitRoles may move money out of an account they do not own.
	DebitRoles []string `mapstructure:"debit_roles" yaml:"debit_roles"`
	// ShareRoles may grant and revoke access on an account they do not own.
	ShareRoles []string `mapstructure:"share_roles" yaml:"share_roles"`
	// ViewRoles may read balances and history of an account they do not own.
	ViewRoles []string `mapstructure:"view_roles" yaml:"view_roles"`
	// ImplicitRole is the role of an actor holding no grant.
	ImplicitRole string `mapstructure:"implicit_role" yaml:"implicit_role"`
	// StartBalance seeds the default account created for a new player.
	StartBalance int64 `mapstructure:"start_balance" yaml:"start_balance"`
}

// Defaults returns the flat viper defaults for every known key.
func Defaults() map[string]any {
	return map[string]any{
		"database.type":                      "sqlite",
		"database.dsn":                       "./ledgermaster.db",
		"database.max_open_conns":            25,
		"database.max_idle_conns":            25,
		"database.conn_max_lifetime_seconds": 300,
		"language":                           "en",
		"log.level":                          "info",
		"log.format":                         "text",
		"ledger.clearing_number":             "920",
		"ledger.debit_roles":                 []string{"owner"},
		"ledger.share_roles":                 []string{"owner"},
		"ledger.view_roles":                  []string{"owner", "admin", "contributor"},
		"ledger.implicit_role":               "none",
		"ledger.start_balance":               0,
	}
}

// Default returns a Config populated with Defaults.
func Default() Config {
	return Config{
		Database: Database{
			Type:                   "sqlite",
			Dsn:                    "./ledgermaster.db",
			MaxOpenConns:           25,
			MaxIdleConns:           25,
			ConnMaxLifetimeSeconds: 300,
		},
		Language: "en",
		Log:      Log{Level: "info", Format: "text"},
		Ledger: Ledger{
			ClearingNumber: "920",
			DebitRoles:     []string{"owner"},
			ShareRoles:     []string{"owner"},
			ViewRoles:      []string{"owner", "admin", "contributor"},
			ImplicitRole:   "none",
		},
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type %q", c.Database.Type)
	}
	if strings.TrimSpace(c.Database.Dsn) == "" {
		return errors.New("database dsn must not be empty")
	}
	if c.Database.MaxOpenConns < 0 || c.Database.MaxIdleConns < 0 || c.Database.ConnMaxLifetimeSeconds < 0 {
		return errors.New("database pool settings must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json", "logfmt":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	if c.Ledger.ClearingNumber == "" {
		return errors.New("ledger clearing number must not be empty")
	}
	for _, r := range c.Ledger.ClearingNumber {
		if r < '0' || r > '9' {
			return fmt.Errorf("ledger clearing number %q must be numeric", c.Ledger.ClearingNumber)
		}
	}
	if c.Ledger.StartBalance < 0 {
		return errors.New("ledger start balance must not be negative")
	}
	return nil
}

// GetConfigPath returns the full path for the configuration file.
func GetConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Ledgermaster")
		default: // Linux, macOS, etc.
			configDir = "/etc/ledgermaster"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "ledgermaster")
	}

	return filepath.Join(configDir, "ledgermaster.yaml"), nil
}

// LoadConfig merges defaults, the first ledgermaster.yaml found (or the
// explicit file), LEDGERMASTER_* env vars and the command's flags into T.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, configFile *string) (T, error) {
	var c T
	v := viper.New()

	// 1. Set defaults
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	// 2. Set up file search paths
	v.SetConfigName("ledgermaster")
	v.SetConfigType("yaml")

	// 3. Explicit config file path from --config has the highest precedence
	// among files.
	if configFile != nil && *configFile != "" {
		v.SetConfigFile(*configFile)
	}

	// 4. Standard config locations
	if userConfigPath, err := GetConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := GetConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	// 5. Read in the primary config file. A missing file is fine; a broken one is not.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// 6. Environment variables
	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("ledgermaster")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 7. Flags
	if cmd != nil {
		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return c, err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// WriteConfigFile persists c to the user (or system) config path.
func WriteConfigFile[T any](c *T, system bool) (string, error) {
	path, err := GetConfigPath(system)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the DSN may contain credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", err
	}
	return path, nil
}
