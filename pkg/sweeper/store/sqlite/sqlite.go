package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/sweeper/pkg/sweeper/board"
	"github.com/cognicore/sweeper/pkg/sweeper/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite game archive with WAL mode enabled, creating the
// schema if needed.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	played_at TEXT NOT NULL,
	height INTEGER NOT NULL,
	width INTEGER NOT NULL,
	mines INTEGER NOT NULL,
	won INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS game_moves (
	game_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	row INTEGER NOT NULL,
	col INTEGER NOT NULL,
	strategy TEXT NOT NULL,
	nearby INTEGER NOT NULL,
	PRIMARY KEY(game_id, seq),
	FOREIGN KEY(game_id) REFERENCES games(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// SaveGame inserts or replaces a game and its transcript
func (s *sqliteStore) SaveGame(ctx context.Context, g store.Game) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO games (id, played_at, height, width, mines, won)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	played_at=excluded.played_at,
	height=excluded.height,
	width=excluded.width,
	mines=excluded.mines,
	won=excluded.won;
`

	won := 0
	if g.Won {
		won = 1
	}
	if _, err := tx.ExecContext(
		ctx,
		stmt,
		g.ID,
		g.PlayedAt.UTC().Format(time.RFC3339),
		g.Height,
		g.Width,
		g.Mines,
		won,
	); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_moves WHERE game_id = ?`, g.ID); err != nil {
		return err
	}
	for _, m := range g.Moves {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO game_moves (game_id, seq, row, col, strategy, nearby) VALUES (?, ?, ?, ?, ?, ?)`,
			g.ID, m.Seq, m.Cell.Row, m.Cell.Col, m.Strategy, m.Nearby,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetGame returns a game and its transcript by ID
func (s *sqliteStore) GetGame(ctx context.Context, id string) (store.Game, bool, error) {
	const stmt = `SELECT id, played_at, height, width, mines, won FROM games WHERE id = ?`

	g, err := scanGame(s.db.QueryRowContext(ctx, stmt, id))
	if err == sql.ErrNoRows {
		return store.Game{}, false, nil
	}
	if err != nil {
		return store.Game{}, false, err
	}

	moves, err := s.loadMoves(ctx, g.ID)
	if err != nil {
		return store.Game{}, false, err
	}
	g.Moves = moves
	return g, true, nil
}

// ListGames returns the most recent games, newest first
func (s *sqliteStore) ListGames(ctx context.Context, limit int) ([]store.Game, error) {
	stmt := `SELECT id, played_at, height, width, mines, won FROM games ORDER BY played_at DESC`
	args := []interface{}{}
	if limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []store.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range games {
		moves, err := s.loadMoves(ctx, games[i].ID)
		if err != nil {
			return nil, err
		}
		games[i].Moves = moves
	}
	return games, nil
}

// Stats aggregates over the whole archive
func (s *sqliteStore) Stats(ctx context.Context) (store.Stats, error) {
	const stmt = `
SELECT
	COUNT(*),
	COALESCE(SUM(won), 0),
	COALESCE((SELECT COUNT(*) FROM game_moves), 0)
FROM games`

	var st store.Stats
	var totalMoves int
	if err := s.db.QueryRowContext(ctx, stmt).Scan(&st.Games, &st.Wins, &totalMoves); err != nil {
		return store.Stats{}, err
	}
	if st.Games > 0 {
		st.AvgMoves = float64(totalMoves) / float64(st.Games)
	}
	return st, nil
}

func (s *sqliteStore) loadMoves(ctx context.Context, gameID string) ([]store.Move, error) {
	const stmt = `SELECT seq, row, col, strategy, nearby FROM game_moves WHERE game_id = ? ORDER BY seq`

	rows, err := s.db.QueryContext(ctx, stmt, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []store.Move
	for rows.Next() {
		var m store.Move
		var row, col int
		if err := rows.Scan(&m.Seq, &row, &col, &m.Strategy, &m.Nearby); err != nil {
			return nil, err
		}
		m.Cell = board.Cell{Row: row, Col: col}
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(r rowScanner) (store.Game, error) {
	var g store.Game
	var playedAt string
	var won int
	if err := r.Scan(&g.ID, &playedAt, &g.Height, &g.Width, &g.Mines, &won); err != nil {
		return store.Game{}, err
	}
	t, err := time.Parse(time.RFC3339, playedAt)
	if err != nil {
		return store.Game{}, err
	}
	g.PlayedAt = t
	g.Won = won == 1
	return g, nil
}
