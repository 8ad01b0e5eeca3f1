package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MINI2048_"

// Load reads configuration and applies environment overrides.
// Search order: customPath -> ~/.mini2048/config.yaml -> ./configs/mini2048.yaml -> embedded default
func Load(customPath string) (Config, error) {
	cfg, err := loadFile(customPath)
	if err != nil {
		return cfg, err
	}

	// A missing .env is normal.
	_ = godotenv.Load()

	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func loadFile(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("config.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if err := yaml.Unmarshal(data, &cfg); err == nil {
				return cfg, nil
			}
			cfg = Default()
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "mini2048.yaml")); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
		cfg = Default()
	}

	// Use embedded default YAML
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".mini2048", filename)
}

// ApplyEnv overrides cfg from MINI2048_* variables read through getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	str := func(name string, dst *string) {
		if v := getenv(EnvPrefix + name); v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v := getenv(EnvPrefix + name)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid %s%s %q: %w", EnvPrefix, name, v, err)
		}
		*dst = d
		return nil
	}

	str("LOG_LEVEL", &cfg.LogLevel)
	str("DB_PATH", &cfg.Storage.Path)
	str("SSH_ADDR", &cfg.SSH.Address)
	str("SSH_HOST_KEY", &cfg.SSH.HostKeyPath)
	str("WEB_ADDR", &cfg.Web.Address)
	str("GIN_MODE", &cfg.Web.GinMode)
	str("ASSETS_DIR", &cfg.Assets.OutputDir)

	if v := getenv(EnvPrefix + "CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Web.CORSOrigins = origins
	}

	if err := dur("SSH_IDLE_TIMEOUT", &cfg.SSH.IdleTimeout); err != nil {
		return err
	}
	if err := dur("HANDSHAKE_DELAY", &cfg.Handshake.Delay); err != nil {
		return err
	}
	if err := dur("HANDSHAKE_TIMEOUT", &cfg.Handshake.Timeout); err != nil {
		return err
	}

	if v := getenv(EnvPrefix + "SWIPE_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: invalid %sSWIPE_THRESHOLD %q: %w", EnvPrefix, v, err)
		}
		cfg.Input.SwipeThreshold = f
	}

	return nil
}
