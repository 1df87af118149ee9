// Package sweeper ties the mine-detection agent to a concrete board: it
// plays full games, letting the agent pick moves and feeding each revealed
// cell's neighboring-mine count back as knowledge, and archives the
// resulting transcripts.
package sweeper

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/cognicore/sweeper/pkg/sweeper/board"
	"github.com/cognicore/sweeper/pkg/sweeper/knowledge"
	"github.com/cognicore/sweeper/pkg/sweeper/store"
)

// Runner plays games and records them.
type Runner struct {
	store   store.Store
	logger  *zap.Logger
	rng     *rand.Rand
	entropy *ulid.MonotonicEntropy
}

// Options configures a Runner. Store may be nil to play without archiving;
// Logger and Rand fall back to a no-op logger and a time-seeded source.
type Options struct {
	Store  store.Store
	Logger *zap.Logger
	Rand   *rand.Rand
}

// New creates a Runner with the given dependencies.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Runner{
		store:   opts.Store,
		logger:  logger,
		rng:     rng,
		entropy: ulid.Monotonic(crand.Reader, 0),
	}
}

// Close cleanly shuts down the Runner's store, if any.
func (r *Runner) Close() error {
	if r.store == nil {
		return nil
	}
	return r.store.Close()
}

// GameSpec describes one game to play.
type GameSpec struct {
	Height   int
	Width    int
	Mines    int
	Seed     int64 // board placement and move-choice seed; 0 draws from the runner's source
	MaxMoves int   // 0 means no cap
}

// Result is the outcome of one game.
type Result struct {
	ID           string
	Won          bool
	Moves        []store.Move
	FlaggedMines []board.Cell // cells the agent proved to be mines
	Revealed     int
}

// Play runs one game to completion: the agent plays a proven-safe cell when
// it knows one, falls back to a random unconstrained cell otherwise, and
// every revealed cell's neighbor count is fed back as knowledge. The game
// ends on a mine hit, when every mine-free cell has been revealed, or when
// no move remains.
func (r *Runner) Play(ctx context.Context, spec GameSpec) (Result, error) {
	seed := spec.Seed
	if seed == 0 {
		seed = r.rng.Int63()
	}

	b, err := board.New(spec.Height, spec.Width, spec.Mines, seed)
	if err != nil {
		return Result{}, err
	}

	agent := knowledge.NewAgent(spec.Height, spec.Width,
		knowledge.WithRand(rand.New(rand.NewSource(seed))))

	id := ulid.MustNew(ulid.Timestamp(time.Now()), r.entropy).String()
	result := Result{ID: id}
	target := spec.Height*spec.Width - spec.Mines

	for seq := 1; spec.MaxMoves == 0 || seq <= spec.MaxMoves; seq++ {
		cell, strategy, ok := r.nextMove(agent)
		if !ok {
			break
		}

		if b.IsMine(cell) {
			result.Moves = append(result.Moves, store.Move{
				Seq: seq, Cell: cell, Strategy: strategy, Nearby: b.NearbyMines(cell),
			})
			r.logger.Info("hit a mine",
				zap.String("game", id),
				zap.String("cell", cell.String()),
				zap.String("strategy", strategy))
			break
		}

		nearby := b.NearbyMines(cell)
		result.Moves = append(result.Moves, store.Move{
			Seq: seq, Cell: cell, Strategy: strategy, Nearby: nearby,
		})
		r.logger.Debug("revealed cell",
			zap.String("game", id),
			zap.String("cell", cell.String()),
			zap.String("strategy", strategy),
			zap.Int("nearby", nearby))

		if err := agent.AddKnowledge(cell, nearby); err != nil {
			return Result{}, fmt.Errorf("game %s: %w", id, err)
		}

		result.Revealed++
		if result.Revealed == target {
			result.Won = true
			break
		}
	}

	result.FlaggedMines = agent.Mines()
	r.logger.Info("game finished",
		zap.String("game", id),
		zap.Bool("won", result.Won),
		zap.Int("moves", len(result.Moves)),
		zap.Int("flagged", len(result.FlaggedMines)))

	if r.store != nil {
		game := store.Game{
			ID:       id,
			PlayedAt: time.Now().UTC(),
			Height:   spec.Height,
			Width:    spec.Width,
			Mines:    spec.Mines,
			Won:      result.Won,
			Moves:    result.Moves,
		}
		if err := r.store.SaveGame(ctx, game); err != nil {
			return Result{}, fmt.Errorf("archive game %s: %w", id, err)
		}
	}

	return result, nil
}

// Stats reports archive aggregates. It requires a store.
func (r *Runner) Stats(ctx context.Context) (store.Stats, error) {
	if r.store == nil {
		return store.Stats{}, fmt.Errorf("stats: no store configured")
	}
	return r.store.Stats(ctx)
}

func (r *Runner) nextMove(agent *knowledge.Agent) (board.Cell, string, bool) {
	if cell, ok := agent.SafeMove(); ok {
		return cell, store.StrategySafe, true
	}
	if cell, ok := agent.RandomMove(); ok {
		return cell, store.StrategyRandom, true
	}
	return board.Cell{}, "", false
}
