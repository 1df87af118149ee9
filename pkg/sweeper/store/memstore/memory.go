package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/cognicore/sweeper/pkg/sweeper/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu    sync.RWMutex
	games map[string]store.Game
	order []string
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		games: make(map[string]store.Game),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveGame inserts or replaces a game, keyed by ID.
func (s *Store) SaveGame(ctx context.Context, g store.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		return nil
	}
	if _, ok := s.games[g.ID]; !ok {
		s.order = append(s.order, g.ID)
	}
	s.games[g.ID] = copyGame(g)
	return nil
}

// GetGame returns a game by ID.
func (s *Store) GetGame(ctx context.Context, id string) (store.Game, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if g, ok := s.games[id]; ok {
		return copyGame(g), true, nil
	}
	return store.Game{}, false, nil
}

// ListGames returns the most recent games, newest first.
func (s *Store) ListGames(ctx context.Context, limit int) ([]store.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.order))
	copy(ids, s.order)
	sort.SliceStable(ids, func(i, j int) bool {
		return s.games[ids[i]].PlayedAt.After(s.games[ids[j]].PlayedAt)
	})

	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}
	out := make([]store.Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, copyGame(s.games[id]))
	}
	return out, nil
}

// Stats aggregates over all stored games.
func (s *Store) Stats(ctx context.Context) (store.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st store.Stats
	totalMoves := 0
	for _, g := range s.games {
		st.Games++
		if g.Won {
			st.Wins++
		}
		totalMoves += len(g.Moves)
	}
	if st.Games > 0 {
		st.AvgMoves = float64(totalMoves) / float64(st.Games)
	}
	return st, nil
}

func copyGame(g store.Game) store.Game {
	out := g
	out.Moves = make([]store.Move, len(g.Moves))
	copy(out.Moves, g.Moves)
	return out
}
