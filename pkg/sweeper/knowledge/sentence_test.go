package knowledge

import (
	"errors"
	"testing"

	"github.com/cognicore/sweeper/pkg/sweeper/board"
	"github.com/cognicore/sweeper/pkg/sweeper/internalerr"
)

func cells(pairs ...[2]int) []board.Cell {
	out := make([]board.Cell, len(pairs))
	for i, p := range pairs {
		out[i] = board.Cell{Row: p[0], Col: p[1]}
	}
	return out
}

func TestNewSentence_RejectsImpossibleCount(t *testing.T) {
	if _, err := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}), 3); err == nil {
		t.Fatal("expected error for count > |cells|")
	} else if !errors.Is(err, internalerr.ErrInconsistentCount) {
		t.Errorf("expected ErrInconsistentCount, got %v", err)
	}

	if _, err := NewSentence(cells([2]int{0, 0}), -1); err == nil {
		t.Fatal("expected error for negative count")
	}
}

func TestKnownMines_AllCellsWhenCountEqualsSize(t *testing.T) {
	s, err := NewSentence(cells([2]int{1, 1}, [2]int{1, 2}), 2)
	if err != nil {
		t.Fatal(err)
	}

	mines := s.KnownMines()
	if len(mines) != 2 {
		t.Fatalf("expected 2 known mines, got %d", len(mines))
	}
	if s.KnownSafes() != nil {
		t.Error("sentence with positive count must not conclude safes")
	}
}

func TestKnownMines_NoConclusionWhenUnderdetermined(t *testing.T) {
	s, err := NewSentence(cells([2]int{1, 1}, [2]int{1, 2}), 1)
	if err != nil {
		t.Fatal(err)
	}

	if s.KnownMines() != nil {
		t.Error("count < |cells| must yield no mine conclusion")
	}
	if s.KnownSafes() != nil {
		t.Error("count > 0 must yield no safe conclusion")
	}
}

func TestKnownMines_EmptySentenceConcludesNothing(t *testing.T) {
	s, err := NewSentence(nil, 0)
	if err != nil {
		t.Fatal(err)
	}

	if s.KnownMines() != nil {
		t.Error("empty sentence must not conclude mines")
	}
	// count == 0 with no cells: the safe set is empty either way.
	if len(s.KnownSafes()) != 0 {
		t.Error("empty sentence must not name safe cells")
	}
}

func TestKnownSafes_AllCellsWhenCountZero(t *testing.T) {
	s, err := NewSentence(cells([2]int{0, 1}, [2]int{1, 0}, [2]int{1, 1}), 0)
	if err != nil {
		t.Fatal(err)
	}

	safes := s.KnownSafes()
	if len(safes) != 3 {
		t.Fatalf("expected 3 known safes, got %d", len(safes))
	}
}

func TestMarkMine_RemovesCellAndDecrementsCount(t *testing.T) {
	s, err := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}), 1)
	if err != nil {
		t.Fatal(err)
	}

	s.MarkMine(board.Cell{Row: 0, Col: 0})
	if s.Len() != 1 {
		t.Errorf("expected 1 cell left, got %d", s.Len())
	}
	if s.Count() != 0 {
		t.Errorf("expected count 0, got %d", s.Count())
	}

	// Unrelated cell is a no-op, not an error.
	s.MarkMine(board.Cell{Row: 9, Col: 9})
	if s.Len() != 1 || s.Count() != 0 {
		t.Error("marking an absent cell must not change the sentence")
	}
}

func TestMarkSafe_RemovesCellKeepsCount(t *testing.T) {
	s, err := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}), 1)
	if err != nil {
		t.Fatal(err)
	}

	s.MarkSafe(board.Cell{Row: 0, Col: 1})
	if s.Len() != 1 {
		t.Errorf("expected 1 cell left, got %d", s.Len())
	}
	if s.Count() != 1 {
		t.Errorf("expected count unchanged at 1, got %d", s.Count())
	}

	s.MarkSafe(board.Cell{Row: 9, Col: 9})
	if s.Len() != 1 || s.Count() != 1 {
		t.Error("marking an absent cell must not change the sentence")
	}
}

func TestMark_NeverBreaksCountInvariant(t *testing.T) {
	s, err := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}), 2)
	if err != nil {
		t.Fatal(err)
	}

	s.MarkMine(board.Cell{Row: 0, Col: 0})
	s.MarkSafe(board.Cell{Row: 0, Col: 1})
	s.MarkMine(board.Cell{Row: 0, Col: 2})

	if s.Count() < 0 || s.Count() > s.Len() {
		t.Errorf("invariant violated: count %d over %d cells", s.Count(), s.Len())
	}
}

func TestEqual_ByCellSetAndCount(t *testing.T) {
	a, _ := NewSentence(cells([2]int{0, 0}, [2]int{1, 1}), 1)
	b, _ := NewSentence(cells([2]int{1, 1}, [2]int{0, 0}), 1)
	c, _ := NewSentence(cells([2]int{0, 0}, [2]int{1, 1}), 2)
	d, _ := NewSentence(cells([2]int{0, 0}), 1)

	if !a.Equal(b) {
		t.Error("same set and count must be equal regardless of insertion order")
	}
	if a.Equal(c) {
		t.Error("different counts must not be equal")
	}
	if a.Equal(d) {
		t.Error("different cell sets must not be equal")
	}
}

func TestSubtract_DerivesRemainderFact(t *testing.T) {
	super, _ := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}, [2]int{0, 2}), 1)
	sub, _ := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}), 1)

	if !sub.SubsetOf(super) {
		t.Fatal("expected subset relation")
	}

	rem, err := sub.Subtract(super)
	if err != nil {
		t.Fatal(err)
	}
	if rem.Len() != 1 || rem.Count() != 0 {
		t.Errorf("expected {(0, 2)} = 0, got %v", rem)
	}
	if !rem.Contains(board.Cell{Row: 0, Col: 2}) {
		t.Errorf("expected remainder over (0, 2), got %v", rem)
	}
}

func TestSubtract_ContradictionSurfacesError(t *testing.T) {
	super, _ := NewSentence(cells([2]int{0, 0}, [2]int{0, 1}), 0)
	sub, _ := NewSentence(cells([2]int{0, 0}), 1)

	if _, err := sub.Subtract(super); !errors.Is(err, internalerr.ErrInconsistentCount) {
		t.Fatalf("expected ErrInconsistentCount, got %v", err)
	}
}

func TestString_SortedAndStable(t *testing.T) {
	s, _ := NewSentence(cells([2]int{1, 0}, [2]int{0, 2}, [2]int{0, 1}), 2)
	want := "{(0, 1), (0, 2), (1, 0)} = 2"
	if got := s.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
