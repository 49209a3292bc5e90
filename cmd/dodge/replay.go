package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Verify and summarize a recorded session",
	Long: `Re-run a session recorded with 'dodge play --record' or
'dodge simulate --record' and check that every round ends exactly as it did.

Examples:
  dodge replay session.dodge`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func runReplay(_ *cobra.Command, args []string) error {
	rec, err := dodge.LoadRecording(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Recording %s\n", rec.ID)
	fmt.Printf("  created  %s\n", rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("  seed     %d\n", rec.Seed)
	fmt.Printf("  board    %dx%d cells of %dpx\n", rec.GridCellCount, rec.GridCellCount, rec.CellSize)
	fmt.Printf("  length   %d pulses (%s)\n", rec.Pulses, time.Duration(rec.Pulses)*time.Duration(rec.PulseMS)*time.Millisecond)
	fmt.Printf("  events   %d\n", len(rec.Events))
	fmt.Println()

	results, snap, err := dodge.Replay(rec)
	if err != nil {
		return err
	}
	for _, r := range results {
		fmt.Printf("  round %-3d  score %-6d  %3ds  hit by #%d (%s)\n",
			r.Round, r.Score, r.ElapsedSeconds, r.Hit.ID, r.Hit.Direction)
	}
	if snap.Status == dodge.StatusRunning {
		fmt.Printf("  round %-3d  score %-6d  %3ds  still running\n", snap.Round, snap.Score, snap.ElapsedSeconds)
	}
	fmt.Println()

	if err := dodge.Verify(rec); err != nil {
		if errors.Is(err, dodge.ErrReplayMismatch) {
			fmt.Println("Replay does NOT match the recording.")
		}
		return err
	}
	fmt.Printf("Replay matches: %d rounds reproduced.\n", len(results))
	return nil
}
