// dodge is a terminal arcade game: step around an 11x11 board while enemies
// cross it on the lines you were standing on.
//
// Usage:
//
//	dodge                  - Start menu (difficulty picker and history)
//	dodge play             - Play straight away
//	dodge serve            - Start SSH server for remote play
//	dodge history          - Show the round journal
//	dodge simulate         - Run headless rounds with a random-walk player
//	dodge replay <file>    - Verify and summarize a recorded session
//
// Global flags:
//
//	--fps <rate>        - Set frame rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set journal path (default: ~/.dodge/dodge.db)
//	--config <path>     - Use a specific dodge.yaml
//	--log-level <lvl>   - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-dodge/internal/config"
	"github.com/vovakirdan/tui-dodge/internal/core"
	"github.com/vovakirdan/tui-dodge/internal/games/dodge"
	"github.com/vovakirdan/tui-dodge/internal/platform/tui"
	"github.com/vovakirdan/tui-dodge/internal/registry"
	"github.com/vovakirdan/tui-dodge/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dodge",
	Short: "Dodge - stay off the enemies' lines",
	Long: `Dodge is a terminal arcade game. You move one cell at a time on a
small square board. Enemies enter from the edges, lined up with wherever you
stand when they appear. Survive as long as you can.

Available commands:
  play      - Play a game directly
  serve     - Start SSH server for remote play
  history   - View the round journal
  simulate  - Run headless rounds
  replay    - Verify a recorded session

Run without a command to open the start menu.

Examples:
  dodge
  dodge play --difficulty hard
  dodge serve --ssh :2222
  dodge history --limit 20`,
	SilenceUsage: true,
	RunE:         runMenu,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Frame rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to round journal database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom dodge config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
}

// newLogger builds the command logger at the --log-level level.
func newLogger(w io.Writer, prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          prefix,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	}), nil
}

// newFileLogger logs to ~/.dodge/dodge.log so the alternate screen stays clean.
// The returned closer must be called when the program exits.
func newFileLogger() (*log.Logger, io.Closer, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot get home directory: %w", err)
	}
	dir := filepath.Join(home, ".dodge")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "dodge.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger, err := newLogger(f, "dodge")
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// runtimeConfig sizes the canvas to the current terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the journal. Failure is logged and play continues without it.
func openStore(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open round journal", "error", err)
		return nil
	}
	return store
}

// gameFactory creates a dodge game from --config and a difficulty preset.
func gameFactory(logger *log.Logger) tui.GameFactory {
	return func(preset config.DifficultyPreset) (registry.Game, error) {
		cfg, err := dodge.LoadConfig(flagConfig, string(preset))
		if err != nil {
			return nil, err
		}
		g := dodge.NewWithConfig(cfg)
		g.SetLogger(logger)
		return g, nil
	}
}

func runMenu(_ *cobra.Command, _ []string) error {
	logger, closer, err := newFileLogger()
	if err != nil {
		return err
	}
	defer closer.Close()

	store := openStore(logger)
	if store != nil {
		defer store.Close()
	}

	return tui.RunSession(tui.SessionConfig{
		Store:   store,
		Runtime: runtimeConfig(),
		GameID:  dodge.GameID,
		NewGame: gameFactory(logger),
		Logger:  logger,
	})
}
