package store

import (
	"context"
	"time"

	"github.com/cognicore/sweeper/pkg/sweeper/board"
)

// Store archives finished games and their move transcripts. It records
// outcomes for later analysis; it never feeds knowledge back into an agent.
type Store interface {
	Close() error

	SaveGame(ctx context.Context, g Game) error
	GetGame(ctx context.Context, id string) (Game, bool, error)
	ListGames(ctx context.Context, limit int) ([]Game, error)
	Stats(ctx context.Context) (Stats, error)
}

// Game is one finished game.
type Game struct {
	ID       string
	PlayedAt time.Time
	Height   int
	Width    int
	Mines    int
	Won      bool
	Moves    []Move
}

// Move is one step of a game transcript.
type Move struct {
	Seq      int
	Cell     board.Cell
	Strategy string // "safe" or "random"
	Nearby   int    // neighboring mine count observed after the move
}

// Move strategies.
const (
	StrategySafe   = "safe"
	StrategyRandom = "random"
)

// Stats aggregates the archive.
type Stats struct {
	Games    int
	Wins     int
	AvgMoves float64
}
