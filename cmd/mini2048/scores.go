package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/mini2048/internal/platform/tui"
	"github.com/vovakirdan/mini2048/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresClear bool
	flagScoresTUI   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the top finished games.

Examples:
  mini2048 scores
  mini2048 scores --limit 20
  mini2048 scores --tui      # Interactive table
  mini2048 scores --clear    # Delete game history (keeps the best score)`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of games to show")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete all recorded games")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse scores in an interactive table")
}

func runScores(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Open score storage
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearScores(); err != nil {
			return fmt.Errorf("clearing scores: %w", err)
		}
		fmt.Println("Game history cleared.")
		return nil
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)
	}

	scores, err := store.TopScores(flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	// Display scores
	fmt.Println("High Scores - 2048")
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'mini2048 play' to set the first high score!")
		return nil
	}

	// Print header
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-6s  %s\n", "Rank", "Score", "Tile", "Moves", "Result", "Date")
	fmt.Printf("  %-4s  %-8s  %-6s  %-6s  %-6s  %s\n", "----", "-----", "----", "-----", "------", "----")

	// Print scores
	for i, entry := range scores {
		result := "quit"
		switch {
		case entry.Won:
			result = "won"
		case entry.Over:
			result = "over"
		}
		fmt.Printf("  %-4d  %-8d  %-6d  %-6d  %-6s  %s\n",
			i+1, entry.Score, entry.MaxTile, entry.Moves, result, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Show best score
	fmt.Println()
	if best, err := store.BestScore(); err == nil {
		fmt.Printf("Best: %d\n", best)
	}
	return nil
}
