package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/mini2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Storage: StorageConfig{
			Path: "~/.mini2048/scores.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			IdleTimeout: 30 * time.Minute,
		},
		Web: WebConfig{
			Address:     ":8080",
			GinMode:     "release",
			CORSOrigins: []string{"*"},
		},
		Handshake: HandshakeConfig{
			Delay:   200 * time.Millisecond,
			Timeout: 2 * time.Second,
		},
		Input: InputConfig{
			SwipeThreshold: 50,
		},
		Assets: AssetsConfig{
			OutputDir: "public",
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultYAML
}
