package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
	"github.com/vovakirdan/tui-dodge/internal/platform/tui"
	"github.com/vovakirdan/tui-dodge/internal/registry"
)

var (
	flagDifficulty string
	flagRecord     string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game of dodge",
	Long: `Start playing immediately.

Controls:
  Arrows/WASD/HJKL  - Move one cell
  P/Space           - Pause
  R                 - New round (after game over when auto reset is off)
  Ctrl+S            - Save a screenshot to ~/.dodge/screenshots
  Q/Ctrl+C          - Quit

Difficulty options:
  easy   - Slower enemies, slower ramp
  normal - Values from the config file
  hard   - Faster enemies, two at once from the start
  fixed  - No progression at all

Examples:
  dodge play
  dodge play --difficulty hard
  dodge play --seed 42 --record session.dodge
  dodge play --config ./my-dodge.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay of the session to this file")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closer, err := newFileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	dodge.SetConfigPath(flagConfig)
	dodge.SetDifficultyPreset(flagDifficulty)

	// Resolve the config up front so a bad file or preset fails before the screen switches.
	if _, err := dodge.LoadConfig(flagConfig, flagDifficulty); err != nil {
		return err
	}

	created, err := registry.Create(dodge.GameID)
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	game, ok := created.(*dodge.Game)
	if !ok {
		return fmt.Errorf("unexpected game type %T", created)
	}
	game.SetLogger(logger)
	if flagRecord != "" {
		game.EnableRecording()
	}

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	if err := tui.Run(game, store, runtimeConfig(), tui.Options{Session: tui.SessionLocal, Logger: logger}); err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	if flagRecord == "" {
		return nil
	}
	rec, ok := game.Recording()
	if !ok {
		return nil
	}
	if err := dodge.SaveRecording(flagRecord, rec); err != nil {
		return err
	}
	fmt.Printf("Recorded %d rounds to %s\n", len(rec.Results), flagRecord)
	return nil
}
