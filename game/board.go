// Package game implements the board model for knight-move isolation:
// two players alternate knight jumps on a rectangular grid, every cell
// either player has ever visited is consumed, and the first player left
// without a move loses.
package game

import (
	"fmt"
	"math"
	"math/bits"
)

// MaxDim caps each board dimension. It keeps the consumed-cell set inside
// a fixed four-word bitset, which is what lets Board and Key stay plain
// comparable values.
const MaxDim = 16

// knightOffsets lists the eight knight jumps in canonical order. All move
// enumeration follows this order, so tie-breaks anywhere above this
// package are deterministic.
var knightOffsets = [8][2]int{
	{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2},
	{1, -2}, {1, 2}, {2, -1}, {2, 1},
}

// Location addresses a cell by zero-based row and column.
type Location struct {
	Row, Col int
}

// NoMove is the sentinel for "no cell": it is returned by move choosers
// facing a lost position, and it is the position of a player who has not
// made their opening placement yet.
var NoMove = Location{Row: -1, Col: -1}

// String renders a location in board coordinates, column letter first and
// one-based row ("C3"), matching the board dump and the shell.
func (l Location) String() string {
	if l == NoMove {
		return "(none)"
	}
	return fmt.Sprintf("%c%d", 'A'+rune(l.Col), l.Row+1)
}

// Player identifies one of the two seats.
type Player uint8

const (
	P1 Player = 0
	P2 Player = 1
)

// Opponent returns the other seat.
func (p Player) Opponent() Player { return p ^ 1 }

func (p Player) String() string { return fmt.Sprintf("player %d", p+1) }

// cellSet is a bitset over at most MaxDim*MaxDim cells. Fixed size means
// copying a board is a plain struct copy and never aliases the parent.
type cellSet [4]uint64

func (s *cellSet) set(i int)      { s[i>>6] |= 1 << (uint(i) & 63) }
func (s cellSet) test(i int) bool { return s[i>>6]&(1<<(uint(i)&63)) != 0 }

func (s cellSet) count() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1]) +
		bits.OnesCount64(s[2]) + bits.OnesCount64(s[3])
}

// Board is one position of a game. It is a value type: Apply mutates the
// receiver, Forecast copies first, and no successor shares state with its
// parent. The zero Board is not usable; construct with NewBoard.
type Board struct {
	width, height int
	occupied      cellSet
	positions     [2]Location
	active        Player
	moveCount     int
}

// NewBoard returns an empty width x height board with both players
// unplaced and player 1 to move.
func NewBoard(width, height int) (*Board, error) {
	if width < 1 || width > MaxDim || height < 1 || height > MaxDim {
		return nil, fmt.Errorf("game: dimensions %dx%d outside 1..%d", width, height, MaxDim)
	}
	return &Board{
		width:     width,
		height:    height,
		positions: [2]Location{NoMove, NoMove},
	}, nil
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// MoveCount is the number of plies played so far, opening placements
// included. It always equals the number of consumed cells.
func (b *Board) MoveCount() int { return b.moveCount }

// ActivePlayer is the seat to move.
func (b *Board) ActivePlayer() Player { return b.active }

// InactivePlayer is the seat that just moved.
func (b *Board) InactivePlayer() Player { return b.active.Opponent() }

// Position returns p's current cell, or NoMove before p's opening
// placement.
func (b *Board) Position(p Player) Location { return b.positions[p] }

// InBounds reports whether loc addresses a cell of this board.
func (b *Board) InBounds(loc Location) bool {
	return loc.Row >= 0 && loc.Row < b.height && loc.Col >= 0 && loc.Col < b.width
}

// Occupied reports whether loc has been visited by either player and is
// therefore blocked for the rest of the game.
func (b *Board) Occupied(loc Location) bool {
	return b.occupied.test(b.cell(loc))
}

func (b *Board) cell(loc Location) int { return loc.Row*b.width + loc.Col }

// Copy returns an independent snapshot of the position.
func (b *Board) Copy() *Board {
	nb := *b
	return &nb
}

// LegalMoves enumerates the active player's moves. See LegalMovesFor for
// the enumeration contract.
func (b *Board) LegalMoves() []Location { return b.LegalMovesFor(b.active) }

// LegalMovesFor enumerates p's legal moves in a fixed order: before p has
// placed, every free cell in row-major order; afterwards the free
// in-bounds knight jumps from p's cell in knight-offset order. The result
// is empty exactly when p, on the move, has lost.
func (b *Board) LegalMovesFor(p Player) []Location {
	from := b.positions[p]
	if from == NoMove {
		moves := make([]Location, 0, b.width*b.height-b.moveCount)
		for r := 0; r < b.height; r++ {
			for c := 0; c < b.width; c++ {
				if loc := (Location{r, c}); !b.Occupied(loc) {
					moves = append(moves, loc)
				}
			}
		}
		return moves
	}
	moves := make([]Location, 0, len(knightOffsets))
	for _, d := range knightOffsets {
		loc := Location{from.Row + d[0], from.Col + d[1]}
		if b.InBounds(loc) && !b.Occupied(loc) {
			moves = append(moves, loc)
		}
	}
	return moves
}

// hasAnyMove is LegalMovesFor without the allocation, for terminal checks
// on hot paths.
func (b *Board) hasAnyMove(p Player) bool {
	from := b.positions[p]
	if from == NoMove {
		return b.moveCount < b.width*b.height
	}
	for _, d := range knightOffsets {
		loc := Location{from.Row + d[0], from.Col + d[1]}
		if b.InBounds(loc) && !b.Occupied(loc) {
			return true
		}
	}
	return false
}

// legal reports whether loc is in p's current legal set.
func (b *Board) legal(p Player, loc Location) bool {
	if !b.InBounds(loc) || b.Occupied(loc) {
		return false
	}
	from := b.positions[p]
	if from == NoMove {
		return true
	}
	dr, dc := loc.Row-from.Row, loc.Col-from.Col
	for _, d := range knightOffsets {
		if dr == d[0] && dc == d[1] {
			return true
		}
	}
	return false
}

// Apply plays loc for the active player: the cell is consumed, the turn
// passes and the ply counter advances. The engine only ever applies moves
// it enumerated itself, so an *IllegalMoveError here means a collaborator
// bug, not a recoverable game situation. The board is unchanged on error.
func (b *Board) Apply(loc Location) error {
	if !b.legal(b.active, loc) {
		return &IllegalMoveError{Move: loc, Player: b.active, MoveCount: b.moveCount}
	}
	b.positions[b.active] = loc
	b.occupied.set(b.cell(loc))
	b.active = b.active.Opponent()
	b.moveCount++
	return nil
}

// Forecast returns the position one ply after loc is played, leaving the
// receiver untouched.
func (b *Board) Forecast(loc Location) (*Board, error) {
	nb := *b
	if err := nb.Apply(loc); err != nil {
		return nil, err
	}
	return &nb, nil
}

// Terminal reports whether the player to move has no legal move, i.e. the
// game is over.
func (b *Board) Terminal() bool { return !b.hasAnyMove(b.active) }

// Utility is the exact value of the position for p: +Inf when the game is
// over and p won, -Inf when it is over and p is the one stranded, 0 for
// any live position.
func (b *Board) Utility(p Player) float64 {
	if b.hasAnyMove(b.active) {
		return 0
	}
	if p == b.active {
		return math.Inf(-1)
	}
	return math.Inf(1)
}

// ReachableByDistance buckets every free cell p can still reach by the
// minimum number of knight moves to get there: bucket 1 holds the cells
// of LegalMovesFor(p), bucket 2 the cells one jump beyond those, and so
// on. Each reachable cell appears in exactly one bucket; the map is empty
// when p cannot move at all.
func (b *Board) ReachableByDistance(p Player) map[int][]Location {
	frontier := b.LegalMovesFor(p)
	if len(frontier) == 0 {
		return map[int][]Location{}
	}
	reached := b.occupied
	for _, loc := range frontier {
		reached.set(b.cell(loc))
	}
	buckets := map[int][]Location{1: frontier}
	for d := 1; len(frontier) > 0; d++ {
		var next []Location
		for _, from := range frontier {
			for _, o := range knightOffsets {
				loc := Location{from.Row + o[0], from.Col + o[1]}
				if !b.InBounds(loc) || reached.test(b.cell(loc)) {
					continue
				}
				reached.set(b.cell(loc))
				next = append(next, loc)
			}
		}
		if len(next) > 0 {
			buckets[d+1] = next
		}
		frontier = next
	}
	return buckets
}
