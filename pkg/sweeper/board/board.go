package board

import (
	"fmt"
	"math/rand"
	"strings"
)

// Cell identifies one grid square by row and column.
type Cell struct {
	Row int
	Col int
}

// String formats the cell as (row, col).
func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.Row, c.Col)
}

// Board is the hidden mine field. It is the single source of truth about
// mine placement; players interact with it only through IsMine and
// NearbyMines.
type Board struct {
	height int
	width  int
	mined  map[Cell]struct{}
}

// New creates a board with exactly mines distinct mined cells placed
// uniformly at random. seed makes placement reproducible; pass a
// time-derived seed for real games.
func New(height, width, mines int, seed int64) (*Board, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("board: invalid dimensions %dx%d", height, width)
	}
	if mines < 0 || mines > height*width {
		return nil, fmt.Errorf("board: %d mines do not fit a %dx%d grid", mines, height, width)
	}

	b := &Board{
		height: height,
		width:  width,
		mined:  make(map[Cell]struct{}, mines),
	}

	rng := rand.New(rand.NewSource(seed))
	for len(b.mined) != mines {
		c := Cell{Row: rng.Intn(height), Col: rng.Intn(width)}
		b.mined[c] = struct{}{}
	}

	return b, nil
}

// Height returns the number of rows.
func (b *Board) Height() int { return b.height }

// Width returns the number of columns.
func (b *Board) Width() int { return b.width }

// MineCount returns the number of mines on the board.
func (b *Board) MineCount() int { return len(b.mined) }

// InBounds reports whether c lies on the grid.
func (b *Board) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < b.height && c.Col >= 0 && c.Col < b.width
}

// IsMine reports whether c holds a mine. This is the oracle query a game
// driver makes when a cell is played; the reasoning agent never calls it.
func (b *Board) IsMine(c Cell) bool {
	_, ok := b.mined[c]
	return ok
}

// Neighbors returns the in-bounds cells within one row and column of c,
// not including c itself.
func (b *Board) Neighbors(c Cell) []Cell {
	out := make([]Cell, 0, 8)
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Cell{Row: c.Row + dr, Col: c.Col + dc}
			if b.InBounds(n) {
				out = append(out, n)
			}
		}
	}
	return out
}

// NearbyMines returns the number of mines within one row and column of c,
// not including c itself.
func (b *Board) NearbyMines(c Cell) int {
	count := 0
	for _, n := range b.Neighbors(c) {
		if b.IsMine(n) {
			count++
		}
	}
	return count
}

// Mines returns every mined cell. Intended for diagnostics and tests.
func (b *Board) Mines() []Cell {
	out := make([]Cell, 0, len(b.mined))
	for c := range b.mined {
		out = append(out, c)
	}
	return out
}

// Render draws the board as text. Revealed cells show their nearby-mine
// count ("." for zero, "*" for a revealed mine), flagged cells show "F",
// everything else "-".
func (b *Board) Render(revealed, flagged map[Cell]bool) string {
	var sb strings.Builder
	for row := 0; row < b.height; row++ {
		for col := 0; col < b.width; col++ {
			if col > 0 {
				sb.WriteByte(' ')
			}
			c := Cell{Row: row, Col: col}
			switch {
			case revealed[c] && b.IsMine(c):
				sb.WriteByte('*')
			case revealed[c]:
				n := b.NearbyMines(c)
				if n == 0 {
					sb.WriteByte('.')
				} else {
					sb.WriteByte(byte('0' + n))
				}
			case flagged[c]:
				sb.WriteByte('F')
			default:
				sb.WriteByte('-')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
