package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
	"github.com/vovakirdan/tui-dodge/internal/platform/tui"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var (
	flagLimit       int
	flagTop         bool
	flagInteractive bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the round journal",
	Long: `Display finished rounds from the journal, newest first.

The journal is a record only. Every game starts with a high score of zero.

Examples:
  dodge history
  dodge history --top --limit 5
  dodge history -i`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of rounds to show")
	historyCmd.Flags().BoolVar(&flagTop, "top", false, "Order by score instead of date")
	historyCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse the journal in a table view")
}

func runHistory(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagInteractive {
		cfg := runtimeConfig()
		return tui.RunHistory(store, dodge.GameID, cfg.ScreenW, cfg.ScreenH)
	}

	var rounds []storage.RoundRecord
	if flagTop {
		rounds, err = store.TopRounds(dodge.GameID, flagLimit)
	} else {
		rounds, err = store.RecentRounds(dodge.GameID, flagLimit)
	}
	if err != nil {
		return err
	}

	if len(rounds) == 0 {
		fmt.Println("No rounds recorded yet.")
		fmt.Println()
		fmt.Println("Run 'dodge play' to start the journal!")
		return nil
	}

	fmt.Printf("  %-4s  %-7s  %-5s  %-7s  %-6s  %-12s  %s\n", "#", "Score", "Time", "Enemies", "Speed", "Player", "Date")
	fmt.Printf("  %-4s  %-7s  %-5s  %-7s  %-6s  %-12s  %s\n", "-", "-----", "----", "-------", "-----", "------", "----")
	for i, r := range rounds {
		fmt.Printf("  %-4d  %-7d  %-5s  %-7d  %-6.2f  %-12s  %s\n",
			i+1,
			r.Score,
			fmt.Sprintf("%ds", r.ElapsedSeconds),
			r.EnemiesSpawned,
			r.FinalSpeed,
			r.Session,
			r.CreatedAt.Local().Format("2006-01-02 15:04"))
	}

	st, err := store.Stats(dodge.GameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return nil
	}
	fmt.Println()
	fmt.Printf("Rounds: %d  Best: %d  Average: %.1f\n", st.Rounds, st.BestScore, st.AverageScore)
	return nil
}
