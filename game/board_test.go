package game

import (
	"errors"
	"math"
	"testing"

	"github.com/matryer/is"
)

func mustBoard(t *testing.T, w, h int, moves ...Location) *Board {
	t.Helper()
	b, err := NewBoard(w, h)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range moves {
		if err := b.Apply(m); err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestNewBoardRejectsBadDimensions(t *testing.T) {
	is := is.New(t)
	for _, dims := range [][2]int{{0, 5}, {5, 0}, {17, 5}, {5, 17}, {-1, -1}} {
		_, err := NewBoard(dims[0], dims[1])
		is.True(err != nil)
	}
	b, err := NewBoard(7, 7)
	is.NoErr(err)
	is.Equal(b.Width(), 7)
	is.Equal(b.Height(), 7)
	is.Equal(b.ActivePlayer(), P1)
	is.Equal(b.Position(P1), NoMove)
	is.Equal(b.Position(P2), NoMove)
}

func TestOpeningMovesAreEveryFreeCell(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 3, 3)
	moves := b.LegalMoves()
	is.Equal(len(moves), 9)
	// row-major enumeration
	is.Equal(moves[0], Location{0, 0})
	is.Equal(moves[8], Location{2, 2})

	is.NoErr(b.Apply(Location{1, 1}))
	moves = b.LegalMoves() // now player 2's placement
	is.Equal(len(moves), 8)
	for _, m := range moves {
		is.True(m != Location{1, 1})
	}
}

func TestKnightMovesFromOpenSquare(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 7, 7, Location{3, 3}, Location{0, 0})
	is.Equal(b.ActivePlayer(), P1)
	is.Equal(b.LegalMoves(), []Location{
		{1, 2}, {1, 4}, {2, 1}, {2, 5}, {4, 1}, {4, 5}, {5, 2}, {5, 4},
	})
}

func TestApplyRejectsIllegalMoves(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0})

	for _, bad := range []Location{
		{2, 3},  // not a knight jump from (2,2)
		{0, 0},  // consumed
		{-1, 0}, // off the board
		{2, 5},
		NoMove,
	} {
		err := b.Apply(bad)
		var ime *IllegalMoveError
		is.True(errors.As(err, &ime))
		is.Equal(ime.Player, P1)
	}
	// nothing changed
	is.Equal(b.MoveCount(), 2)
	is.Equal(b.ActivePlayer(), P1)
	is.Equal(b.Position(P1), Location{2, 2})
}

func TestForecastLeavesParentUntouched(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0})
	child, err := b.Forecast(Location{0, 1})
	is.NoErr(err)

	is.Equal(b.MoveCount(), 2)
	is.Equal(b.ActivePlayer(), P1)
	is.True(!b.Occupied(Location{0, 1}))

	is.Equal(child.MoveCount(), 3)
	is.Equal(child.ActivePlayer(), P2)
	is.Equal(child.Position(P1), Location{0, 1})
	is.True(child.Occupied(Location{0, 1}))
	is.True(child.Occupied(Location{2, 2})) // history stays consumed
}

func TestUtilityAndTerminal(t *testing.T) {
	is := is.New(t)

	live := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0})
	is.True(!live.Terminal())
	is.Equal(live.Utility(P1), 0.0)
	is.Equal(live.Utility(P2), 0.0)

	// The center of a 3x3 board has no knight exits, so player 1 is
	// stranded as soon as the turn comes back around.
	dead := mustBoard(t, 3, 3, Location{1, 1}, Location{0, 0})
	is.Equal(dead.ActivePlayer(), P1)
	is.True(dead.Terminal())
	is.True(math.IsInf(dead.Utility(P1), -1))
	is.True(math.IsInf(dead.Utility(P2), 1))
}

func TestMoveCountTracksConsumedCells(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0}, Location{0, 1}, Location{2, 1})
	is.Equal(b.MoveCount(), 4)
	is.Equal(b.occupied.count(), 4)
}

func TestReachableEmptyForStrandedPlayer(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 3, 3, Location{1, 1})
	is.Equal(len(b.ReachableByDistance(P1)), 0)
}

func TestReachableByDistanceBuckets(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 4, 4, Location{0, 0})

	buckets := b.ReachableByDistance(P1)
	sizes := map[int]int{}
	seen := map[Location]bool{}
	total := 0
	for d, ring := range buckets {
		sizes[d] = len(ring)
		total += len(ring)
		for _, loc := range ring {
			is.True(!seen[loc]) // each cell in exactly one bucket
			seen[loc] = true
			is.True(!b.Occupied(loc))
		}
	}
	// From a corner of an empty 4x4 board a knight reaches every other
	// cell, two immediately and the rest in up to five jumps.
	is.Equal(total, 15)
	is.Equal(sizes, map[int]int{1: 2, 2: 5, 3: 4, 4: 2, 5: 2})
	is.Equal(buckets[1], b.LegalMovesFor(P1))
}

func TestCopyIsIndependent(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0})
	c := b.Copy()
	is.NoErr(c.Apply(Location{0, 1}))
	is.Equal(b.MoveCount(), 2)
	is.Equal(c.MoveCount(), 3)
	is.True(!b.Occupied(Location{0, 1}))
}
