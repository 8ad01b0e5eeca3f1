// Package config provides YAML-based configuration loading for mini2048,
// with environment overrides.
package config

import "time"

// Config is the full application configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level"`
	Storage   StorageConfig   `yaml:"storage"`
	SSH       SSHConfig       `yaml:"ssh"`
	Web       WebConfig       `yaml:"web"`
	Handshake HandshakeConfig `yaml:"handshake"`
	Input     InputConfig     `yaml:"input"`
	Assets    AssetsConfig    `yaml:"assets"`
}

// StorageConfig locates the scores database.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig configures the SSH host.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"` // Empty means ~/.mini2048/host_key
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// WebConfig configures the HTTP/websocket host.
type WebConfig struct {
	Address     string   `yaml:"address"`
	GinMode     string   `yaml:"gin_mode"`
	CORSOrigins []string `yaml:"cors_origins"`
}

// HandshakeConfig controls the host readiness signal.
type HandshakeConfig struct {
	Delay   time.Duration `yaml:"delay"`
	Timeout time.Duration `yaml:"timeout"`
}

// InputConfig tunes gesture recognition.
type InputConfig struct {
	SwipeThreshold float64 `yaml:"swipe_threshold"`
}

// AssetsConfig controls promotional image output.
type AssetsConfig struct {
	OutputDir string `yaml:"output_dir"`
}
