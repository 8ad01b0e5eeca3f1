package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/mini2048/internal/storage"
)

var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Print the best score",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("opening scores database: %w", err)
		}
		defer store.Close()

		best, err := store.BestScore()
		if err != nil {
			return fmt.Errorf("reading best score: %w", err)
		}
		fmt.Println(best)
		return nil
	},
}
