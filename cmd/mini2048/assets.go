package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mini2048/internal/assets"
)

var flagAssetsOut string

var assetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "Generate promotional images",
	Long: `Render the mini-app images:
  icon.png      256x256
  og-image.png  1200x630 link preview
  splash.png    1080x1920 loading screen

Examples:
  mini2048 assets
  mini2048 assets --out ./public`,
	Args: cobra.NoArgs,
	RunE: runAssets,
}

func init() {
	assetsCmd.Flags().StringVar(&flagAssetsOut, "out", "", "Output directory (overrides config)")
}

func runAssets(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, "mini2048-assets", cfg.LogLevel)

	dir := cfg.Assets.OutputDir
	if flagAssetsOut != "" {
		dir = flagAssetsOut
	}

	results, err := assets.Generate(dir)
	for _, r := range results {
		logger.Info("created image", "name", r.Name, "size", fmt.Sprintf("%dx%d", r.Width, r.Height), "path", r.Path)
	}
	return err
}
