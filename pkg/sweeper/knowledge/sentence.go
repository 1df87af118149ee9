// Package knowledge implements the reasoning core of the mine-detection
// agent: exact-count logical sentences over sets of board cells, and the
// agent that accumulates them and derives certain conclusions by
// propagation and subset subtraction.
package knowledge

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cognicore/sweeper/pkg/sweeper/board"
	"github.com/cognicore/sweeper/pkg/sweeper/internalerr"
)

// Sentence is a logical fact about the game: of the cells in the set,
// exactly count are mines. The invariant 0 <= count <= len(cells) holds for
// every sentence the agent keeps.
type Sentence struct {
	cells map[board.Cell]struct{}
	count int
}

// NewSentence builds a sentence over a copy of cells. It rejects a count
// that no mine assignment over cells could satisfy.
func NewSentence(cells []board.Cell, count int) (*Sentence, error) {
	set := make(map[board.Cell]struct{}, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	if count < 0 || count > len(set) {
		return nil, fmt.Errorf("sentence over %d cells cannot contain %d mines: %w",
			len(set), count, internalerr.ErrInconsistentCount)
	}
	return &Sentence{cells: set, count: count}, nil
}

// Count returns the number of mines among the sentence's cells.
func (s *Sentence) Count() int { return s.count }

// Len returns the number of cells the sentence ranges over.
func (s *Sentence) Len() int { return len(s.cells) }

// Empty reports whether the sentence no longer says anything.
func (s *Sentence) Empty() bool { return len(s.cells) == 0 }

// Cells returns the sentence's cells in row-major order.
func (s *Sentence) Cells() []board.Cell {
	out := make([]board.Cell, 0, len(s.cells))
	for c := range s.cells {
		out = append(out, c)
	}
	sortCells(out)
	return out
}

// Contains reports whether c is one of the sentence's cells.
func (s *Sentence) Contains(c board.Cell) bool {
	_, ok := s.cells[c]
	return ok
}

// KnownMines returns every cell in the sentence when all of them must be
// mines, i.e. the count equals the number of cells and the sentence is
// non-empty. Otherwise it returns nil: no conclusion.
func (s *Sentence) KnownMines() []board.Cell {
	if len(s.cells) == 0 || s.count != len(s.cells) {
		return nil
	}
	return s.Cells()
}

// KnownSafes returns every cell in the sentence when none of them can be a
// mine, i.e. the count is zero. Otherwise it returns nil: no conclusion.
func (s *Sentence) KnownSafes() []board.Cell {
	if s.count != 0 {
		return nil
	}
	return s.Cells()
}

// MarkMine records that c is a mine: c leaves the sentence and the count
// drops by one. No-op when c is not in the sentence.
func (s *Sentence) MarkMine(c board.Cell) {
	if _, ok := s.cells[c]; !ok {
		return
	}
	delete(s.cells, c)
	s.count--
}

// MarkSafe records that c is mine-free: c leaves the sentence and the count
// is unchanged. No-op when c is not in the sentence.
func (s *Sentence) MarkSafe(c board.Cell) {
	delete(s.cells, c)
}

// Equal reports whether two sentences assert the same fact: identical cell
// sets and identical counts.
func (s *Sentence) Equal(other *Sentence) bool {
	if s.count != other.count || len(s.cells) != len(other.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every cell of s is also a cell of other.
func (s *Sentence) SubsetOf(other *Sentence) bool {
	if len(s.cells) > len(other.cells) {
		return false
	}
	for c := range s.cells {
		if _, ok := other.cells[c]; !ok {
			return false
		}
	}
	return true
}

// Subtract derives the remainder fact other − s: the cells of other not in
// s contain other.count − s.count mines. Valid only when s is a subset of
// other; a negative remainder count means the two sentences contradict each
// other, which can only come from a dishonest observation.
func (s *Sentence) Subtract(other *Sentence) (*Sentence, error) {
	diff := make([]board.Cell, 0, len(other.cells)-len(s.cells))
	for c := range other.cells {
		if _, ok := s.cells[c]; !ok {
			diff = append(diff, c)
		}
	}
	return NewSentence(diff, other.count-s.count)
}

// String formats the sentence as {cells} = count with cells in row-major
// order.
func (s *Sentence) String() string {
	parts := make([]string, 0, len(s.cells))
	for _, c := range s.Cells() {
		parts = append(parts, c.String())
	}
	return fmt.Sprintf("{%s} = %d", strings.Join(parts, ", "), s.count)
}

func sortCells(cells []board.Cell) {
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
}
