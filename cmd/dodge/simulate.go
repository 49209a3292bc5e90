package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

// SessionSimulate is the journal session name for headless rounds.
const SessionSimulate = "simulate"

var (
	flagSimRounds     int
	flagSimPulses     int
	flagSimMoveEvery  int
	flagSimSave       bool
	flagSimDifficulty string
	flagSimRecord     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run headless rounds with a random-walk player",
	Long: `Play rounds without a terminal. The player presses a random key around the
arrow block every --move-every pulses; non-arrow keys are ignored. A round that reaches --pulses is cut off.

Examples:
  dodge simulate --rounds 100
  dodge simulate --seed 7 --difficulty hard --save
  dodge simulate --rounds 5 --record sim.dodge`,
	Args: cobra.NoArgs,
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimRounds, "rounds", 10, "Number of rounds to play")
	simulateCmd.Flags().IntVar(&flagSimPulses, "pulses", 20*600, "Pulse limit per round (20 pulses = 1 second)")
	simulateCmd.Flags().IntVar(&flagSimMoveEvery, "move-every", 6, "Pulses between key presses")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Write finished rounds to the journal")
	simulateCmd.Flags().StringVar(&flagSimDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	simulateCmd.Flags().StringVar(&flagSimRecord, "record", "", "Write a replay of the whole run to this file")
}

// The random player presses key codes 35-44: End, Home, the four arrows,
// Select, Print, Execute and PrintScreen.
const (
	firstMashCode = 35
	mashCodes     = 10
)

// simulation drives one controller through several rounds.
type simulation struct {
	ctrl      *dodge.Controller
	walker    *rand.Rand
	moveEvery int
	limit     int
	results   []dodge.RoundResult
	logger    *log.Logger
}

// press mashes a key near the arrow block. Only arrow codes move the player.
func (s *simulation) press() {
	code := firstMashCode + s.walker.Intn(mashCodes)
	if dir, ok := dodge.DirectionFromKeyCode(code); ok {
		s.ctrl.OnDirectionInput(dir)
	}
}

// playRound runs until the round ends or the pulse limit is reached.
// It reports whether the round ended by collision.
func (s *simulation) playRound() bool {
	before := len(s.results)
	for p := 1; p <= s.limit; p++ {
		if s.moveEvery > 0 && p%s.moveEvery == 0 {
			s.press()
		}
		s.ctrl.Pulse()
		if len(s.results) > before {
			return true
		}
	}
	s.logger.Debug("pulse limit reached", "round", s.ctrl.Snapshot().Round, "pulses", s.limit)
	return false
}

func runSimulate(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "simulate")
	if err != nil {
		return err
	}
	if flagSimRounds <= 0 {
		return fmt.Errorf("--rounds must be positive")
	}

	cfg, err := dodge.LoadConfig(flagConfig, flagSimDifficulty)
	if err != nil {
		return err
	}
	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	cfg.Seed = seed
	cfg.AutoReset = false

	ctrl, err := dodge.NewController(cfg, dodge.WithLogger(logger))
	if err != nil {
		return err
	}
	defer ctrl.Close()

	var recorder *dodge.Recorder
	if flagSimRecord != "" {
		recorder = dodge.NewRecorder(ctrl, cfg)
	}

	sim := &simulation{
		ctrl:      ctrl,
		walker:    rand.New(rand.NewSource(seed + 1)),
		moveEvery: flagSimMoveEvery,
		limit:     flagSimPulses,
		logger:    logger,
	}
	ctrl.OnTerminate(func(r dodge.RoundResult) { sim.results = append(sim.results, r) })

	var store *storage.Store
	if flagSimSave {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	fmt.Printf("Simulating %d rounds (seed %d)\n\n", flagSimRounds, seed)
	fmt.Printf("  %-5s  %-7s  %-5s  %-7s  %-6s  %s\n", "Round", "Score", "Time", "Enemies", "Speed", "End")

	cutoff := 0
	for i := 0; i < flagSimRounds; i++ {
		if i > 0 {
			ctrl.Reset()
		}
		if !sim.playRound() {
			cutoff++
			snap := ctrl.Snapshot()
			fmt.Printf("  %-5d  %-7d  %-5s  %-7d  %-6.2f  %s\n",
				snap.Round, snap.Score, fmt.Sprintf("%ds", snap.ElapsedSeconds), snap.EnemiesSpawned, snap.EnemySpeed, "limit")
			continue
		}

		r := sim.results[len(sim.results)-1]
		fmt.Printf("  %-5d  %-7d  %-5s  %-7d  %-6.2f  hit by #%d\n",
			r.Round, r.Score, fmt.Sprintf("%ds", r.ElapsedSeconds), r.EnemiesSpawned, r.FinalSpeed, r.Hit.ID)

		if store != nil {
			_, err := store.SaveRound(storage.RoundRecord{
				GameID:         dodge.GameID,
				Session:        SessionSimulate,
				Score:          r.Score,
				ElapsedSeconds: r.ElapsedSeconds,
				EnemiesSpawned: r.EnemiesSpawned,
				FinalSpeed:     r.FinalSpeed,
			})
			if err != nil {
				logger.Warn("could not journal round", "round", r.Round, "error", err)
			}
		}
	}

	fmt.Println()
	fmt.Printf("%s\n", summarize(sim.results, cutoff))

	if recorder != nil {
		if err := dodge.SaveRecording(flagSimRecord, recorder.Recording()); err != nil {
			return err
		}
		logger.Info("recording saved", "path", flagSimRecord)
	}
	return nil
}

func summarize(results []dodge.RoundResult, cutoff int) string {
	if len(results) == 0 {
		return fmt.Sprintf("No collisions; %d rounds hit the pulse limit.", cutoff)
	}
	best, total := 0, 0
	for _, r := range results {
		best = max(best, r.Score)
		total += r.Score
	}
	return fmt.Sprintf("Finished: %d  Cut off: %d  Best: %d  Average: %.1f  High score: %d",
		len(results), cutoff, best, float64(total)/float64(len(results)), results[len(results)-1].HighScore)
}
