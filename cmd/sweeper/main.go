package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cognicore/sweeper/pkg/sweeper"
	"github.com/cognicore/sweeper/pkg/sweeper/board"
	"github.com/cognicore/sweeper/pkg/sweeper/config"
	"github.com/cognicore/sweeper/pkg/sweeper/store"
	"github.com/cognicore/sweeper/pkg/sweeper/store/sqlite"
)

var (
	// Global flags
	verbose bool
	dbPath  string

	// play flags
	configPath string
	height     int
	width      int
	mines      int
	games      int
	seed       int64
	show       bool

	// Logger
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sweeper",
	Short: "sweeper - knowledge-based mine-detection agent",
	Long: `sweeper plays grid-based mine-detection games by pure logical
inference: each revealed cell's neighboring-mine count becomes a sentence in
a knowledge base, and the agent only ever plays cells it can prove safe,
falling back to a random unconstrained cell when no proof exists.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play one or more games and archive the transcripts",
	RunE:  runPlay,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the game archive",
	RunE:  runStats,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "game archive database path")

	playCmd.Flags().StringVar(&configPath, "config", "", "YAML config file")
	playCmd.Flags().IntVar(&height, "height", 0, "board height (overrides config)")
	playCmd.Flags().IntVar(&width, "width", 0, "board width (overrides config)")
	playCmd.Flags().IntVar(&mines, "mines", 0, "mine count (overrides config)")
	playCmd.Flags().IntVar(&games, "games", 0, "number of games to play (overrides config)")
	playCmd.Flags().Int64Var(&seed, "seed", 0, "seed for reproducible games")
	playCmd.Flags().BoolVar(&show, "show", false, "render the final board of each game")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var archive store.Store
	if path := archivePath(cfg); path != "" {
		archive, err = sqlite.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
	}

	opts := sweeper.Options{Store: archive, Logger: logger}
	if cfg.Runner.Seed != 0 {
		opts.Rand = rand.New(rand.NewSource(cfg.Runner.Seed))
	}
	runner := sweeper.New(opts)
	defer runner.Close()

	wins := 0
	for i := 0; i < cfg.Runner.Games; i++ {
		gameSeed := cfg.Runner.Seed
		if gameSeed != 0 {
			gameSeed += int64(i)
		}
		result, err := runner.Play(ctx, sweeper.GameSpec{
			Height:   cfg.Game.Height,
			Width:    cfg.Game.Width,
			Mines:    cfg.Game.Mines,
			Seed:     gameSeed,
			MaxMoves: cfg.Runner.MaxMoves,
		})
		if err != nil {
			return err
		}
		if result.Won {
			wins++
		}

		outcome := "lost"
		if result.Won {
			outcome = "won"
		}
		fmt.Printf("game %s: %s in %d moves, %d mines flagged\n",
			result.ID, outcome, len(result.Moves), len(result.FlaggedMines))

		if show {
			fmt.Print(renderResult(cfg, result, gameSeed))
		}
	}

	fmt.Printf("played %d games, won %d\n", cfg.Runner.Games, wins)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if dbPath == "" {
		return fmt.Errorf("--db required")
	}
	archive, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	st, err := archive.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("games:     %d\n", st.Games)
	fmt.Printf("wins:      %d\n", st.Wins)
	fmt.Printf("avg moves: %.1f\n", st.AvgMoves)
	return nil
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if height > 0 {
		cfg.Game.Height = height
	}
	if width > 0 {
		cfg.Game.Width = width
	}
	if mines > 0 {
		cfg.Game.Mines = mines
	}
	if games > 0 {
		cfg.Runner.Games = games
	}
	if seed != 0 {
		cfg.Runner.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func archivePath(cfg *config.Config) string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.Store.Path
}

// renderResult redraws the finished board from the transcript. Only
// possible for seeded games, where the placement can be reconstructed.
func renderResult(cfg *config.Config, result sweeper.Result, gameSeed int64) string {
	if gameSeed == 0 {
		return "(board rendering requires --seed)\n"
	}
	b, err := board.New(cfg.Game.Height, cfg.Game.Width, cfg.Game.Mines, gameSeed)
	if err != nil {
		return ""
	}

	revealed := make(map[board.Cell]bool, len(result.Moves))
	for _, m := range result.Moves {
		revealed[m.Cell] = true
	}
	flagged := make(map[board.Cell]bool, len(result.FlaggedMines))
	for _, c := range result.FlaggedMines {
		flagged[c] = true
	}
	return b.Render(revealed, flagged)
}
