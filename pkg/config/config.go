// Package config resolves client settings from the environment and an
// optional per-user config file.
//
// Precedence, lowest to highest: built-in defaults, ~/.opsbeacon/config.yaml,
// variables loaded from a .env file, process environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultAPIDomain is used when no domain is configured.
const DefaultAPIDomain = "api.console.opsbeacon.com"

// Environment variable names.
const (
	EnvAPIDomain = "OPSBEACON_API_DOMAIN"
	EnvAPIToken  = "OPSBEACON_API_TOKEN"
	EnvDebug     = "OPSBEACON_DEBUG"
)

// Config holds the settings needed to construct a client.
type Config struct {
	APIDomain string `yaml:"apiDomain"`
	APIToken  string `yaml:"apiToken"`
	Debug     bool   `yaml:"debug"`
}

// Load resolves configuration. envFile, when non-empty, names a dotenv file
// whose variables are loaded into the process environment first; a missing
// explicit file is an error, but the default ".env" is loaded only if
// present. The per-user config file is optional.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		// Best effort: a malformed default .env should not be fatal.
		_ = godotenv.Load()
	}

	cfg := Config{APIDomain: DefaultAPIDomain}

	if path, err := userConfigPath(); err == nil {
		if data, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
			if cfg.APIDomain == "" {
				cfg.APIDomain = DefaultAPIDomain
			}
		}
	}

	if v := os.Getenv(EnvAPIDomain); v != "" {
		cfg.APIDomain = v
	}
	if v := os.Getenv(EnvAPIToken); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv(EnvDebug); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}

	return cfg, nil
}

func userConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".opsbeacon", "config.yaml"), nil
}
