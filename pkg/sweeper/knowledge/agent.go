package knowledge

import (
	"math/rand"

	"github.com/cognicore/sweeper/pkg/sweeper/board"
)

// Agent accumulates observations about a height × width grid and deduces
// which cells are certainly safe and which certainly hold mines. It only
// ever draws conclusions that follow logically from what it has been told;
// it never estimates.
type Agent struct {
	height int
	width  int

	movesMade map[board.Cell]struct{}
	safes     map[board.Cell]struct{}
	mines     map[board.Cell]struct{}
	knowledge []*Sentence

	rng *rand.Rand
}

// Option configures an Agent.
type Option func(*Agent)

// WithRand sets the random source used for move selection, making games
// reproducible.
func WithRand(rng *rand.Rand) Option {
	return func(a *Agent) { a.rng = rng }
}

// NewAgent creates an agent for a height × width grid with no knowledge.
func NewAgent(height, width int, opts ...Option) *Agent {
	a := &Agent{
		height:    height,
		width:     width,
		movesMade: make(map[board.Cell]struct{}),
		safes:     make(map[board.Cell]struct{}),
		mines:     make(map[board.Cell]struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.rng == nil {
		a.rng = rand.New(rand.NewSource(1))
	}
	return a
}

// MarkMine records c as a proven mine and propagates the fact into every
// sentence. Idempotent.
func (a *Agent) MarkMine(c board.Cell) {
	a.mines[c] = struct{}{}
	for _, s := range a.knowledge {
		s.MarkMine(c)
	}
}

// MarkSafe records c as proven mine-free and propagates the fact into every
// sentence. Idempotent.
func (a *Agent) MarkSafe(c board.Cell) {
	a.safes[c] = struct{}{}
	for _, s := range a.knowledge {
		s.MarkSafe(c)
	}
}

// IsMine reports whether c has been proven to be a mine.
func (a *Agent) IsMine(c board.Cell) bool {
	_, ok := a.mines[c]
	return ok
}

// IsSafe reports whether c has been proven mine-free.
func (a *Agent) IsSafe(c board.Cell) bool {
	_, ok := a.safes[c]
	return ok
}

// AddKnowledge ingests one observation: cell was played safely and count of
// its in-bounds neighbors are mines. It records the move, adds the
// corresponding sentence, and then derives every certain conclusion the
// knowledge base now supports.
//
// The count is trusted; an error is returned only when it contradicts what
// is already proven, which means the observation source is broken.
func (a *Agent) AddKnowledge(cell board.Cell, count int) error {
	a.movesMade[cell] = struct{}{}
	a.MarkSafe(cell)

	// Build the sentence over neighbors whose status is still unknown.
	// Neighbors already proven to be mines are accounted for by lowering
	// the count; played and proven-safe neighbors carry no information.
	var unknown []board.Cell
	for _, n := range a.neighbors(cell) {
		if _, ok := a.mines[n]; ok {
			count--
			continue
		}
		if _, ok := a.movesMade[n]; ok {
			continue
		}
		if _, ok := a.safes[n]; ok {
			continue
		}
		unknown = append(unknown, n)
	}

	s, err := NewSentence(unknown, count)
	if err != nil {
		return err
	}
	if !s.Empty() {
		a.addSentence(s)
	}

	// Alternate conclusion propagation and subset subtraction until a full
	// cycle derives nothing new. Both rules only add facts, and the universe
	// of cells is finite, so this terminates.
	for {
		changed := a.propagateConclusions()
		derived, err := a.deriveSubsets()
		if err != nil {
			return err
		}
		a.compact()
		if !changed && !derived {
			return nil
		}
	}
}

// SafeMove returns a cell proven safe that has not been played yet, chosen
// uniformly at random. The second return is false when no such cell is
// known. The agent's state is not modified.
func (a *Agent) SafeMove() (board.Cell, bool) {
	var candidates []board.Cell
	for c := range a.safes {
		if _, played := a.movesMade[c]; !played {
			candidates = append(candidates, c)
		}
	}
	return a.pick(candidates)
}

// RandomMove returns a uniformly random cell that has not been played and
// is not a proven mine. The second return is false when the whole grid is
// either played or mined.
func (a *Agent) RandomMove() (board.Cell, bool) {
	var candidates []board.Cell
	for row := 0; row < a.height; row++ {
		for col := 0; col < a.width; col++ {
			c := board.Cell{Row: row, Col: col}
			if _, played := a.movesMade[c]; played {
				continue
			}
			if _, mined := a.mines[c]; mined {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	return a.pick(candidates)
}

// Safes returns every cell proven mine-free, in row-major order.
func (a *Agent) Safes() []board.Cell { return sortedCells(a.safes) }

// Mines returns every cell proven to be a mine, in row-major order.
func (a *Agent) Mines() []board.Cell { return sortedCells(a.mines) }

// MovesMade returns every cell already played, in row-major order.
func (a *Agent) MovesMade() []board.Cell { return sortedCells(a.movesMade) }

// KnowledgeSize returns the number of active sentences.
func (a *Agent) KnowledgeSize() int { return len(a.knowledge) }

// Sentences returns copies of the active sentences for inspection.
func (a *Agent) Sentences() []*Sentence {
	out := make([]*Sentence, 0, len(a.knowledge))
	for _, s := range a.knowledge {
		copied, _ := NewSentence(s.Cells(), s.Count())
		out = append(out, copied)
	}
	return out
}

// addSentence appends s unless an equal sentence is already present.
func (a *Agent) addSentence(s *Sentence) bool {
	for _, existing := range a.knowledge {
		if existing.Equal(s) {
			return false
		}
	}
	a.knowledge = append(a.knowledge, s)
	return true
}

// propagateConclusions marks every cell some sentence fully resolves.
// Marking mutates all sentences, including the ones being read, so
// conclusions are collected from a snapshot first.
func (a *Agent) propagateConclusions() bool {
	var safes, mines []board.Cell
	for _, s := range a.knowledge {
		safes = append(safes, s.KnownSafes()...)
		mines = append(mines, s.KnownMines()...)
	}

	changed := false
	for _, c := range safes {
		if _, ok := a.safes[c]; !ok {
			a.MarkSafe(c)
			changed = true
		}
	}
	for _, c := range mines {
		if _, ok := a.mines[c]; !ok {
			a.MarkMine(c)
			changed = true
		}
	}
	return changed
}

// deriveSubsets applies the one second-order rule: when one sentence's
// cells are contained in another's, the cells outside the subset hold the
// difference of the counts. Derived sentences append to the knowledge base,
// so iteration runs over a snapshot.
func (a *Agent) deriveSubsets() (bool, error) {
	snapshot := make([]*Sentence, len(a.knowledge))
	copy(snapshot, a.knowledge)

	derived := false
	for _, sub := range snapshot {
		for _, super := range snapshot {
			if sub == super || sub.Empty() || sub.Equal(super) {
				continue
			}
			if !sub.SubsetOf(super) {
				continue
			}
			remainder, err := sub.Subtract(super)
			if err != nil {
				return false, err
			}
			if remainder.Empty() {
				continue
			}
			if a.addSentence(remainder) {
				derived = true
			}
		}
	}
	return derived, nil
}

// compact drops sentences that have degenerated to the empty fact and
// sentences that marking has collapsed into duplicates of earlier ones.
func (a *Agent) compact() {
	kept := a.knowledge[:0]
	for _, s := range a.knowledge {
		if s.Empty() {
			continue
		}
		dup := false
		for _, k := range kept {
			if k.Equal(s) {
				dup = true
				break
			}
		}
		if !dup {
			kept = append(kept, s)
		}
	}
	a.knowledge = kept
}

func (a *Agent) neighbors(c board.Cell) []board.Cell {
	out := make([]board.Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := board.Cell{Row: c.Row + dr, Col: c.Col + dc}
			if n.Row >= 0 && n.Row < a.height && n.Col >= 0 && n.Col < a.width {
				out = append(out, n)
			}
		}
	}
	return out
}

func (a *Agent) pick(candidates []board.Cell) (board.Cell, bool) {
	if len(candidates) == 0 {
		return board.Cell{}, false
	}
	// Map iteration order is not stable; sort before drawing so equal seeds
	// give equal games.
	sortCells(candidates)
	return candidates[a.rng.Intn(len(candidates))], true
}

func sortedCells(set map[board.Cell]struct{}) []board.Cell {
	out := make([]board.Cell, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sortCells(out)
	return out
}
