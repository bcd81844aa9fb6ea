package eval

import (
	"math"
	"testing"

	"github.com/matryer/is"

	"github.com/ethiery/isolation/game"
)

func mustBoard(t *testing.T, w, h int, moves ...game.Location) *game.Board {
	t.Helper()
	b, err := game.NewBoard(w, h)
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

// strandedBoard is terminal: player 1 sits on the center of a 3x3 board,
// where no knight jump stays in bounds, and it is player 1's turn.
func strandedBoard(t *testing.T) *game.Board {
	return mustBoard(t, 3, 3, game.Location{Row: 1, Col: 1}, game.Location{Row: 0, Col: 0})
}

func TestEveryEvaluatorYieldsUtilityAtTerminals(t *testing.T) {
	is := is.New(t)
	dead := strandedBoard(t)
	for _, name := range Names() {
		ev, err := FromName(name)
		is.NoErr(err)
		is.True(math.IsInf(ev.Score(dead, game.P1), -1))
		is.True(math.IsInf(ev.Score(dead, game.P2), 1))
	}
}

func TestNullIsZeroOnLivePositions(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, game.Location{Row: 2, Col: 2}, game.Location{Row: 0, Col: 0})
	is.Equal(Null{}.Score(b, game.P1), 0.0)
	is.Equal(Null{}.Score(b, game.P2), 0.0)
}

func TestOpenMovesAndImproved(t *testing.T) {
	is := is.New(t)
	// Player 1 on an open 7x7 square has all eight jumps, player 2 in the
	// corner has two.
	b := mustBoard(t, 7, 7, game.Location{Row: 3, Col: 3}, game.Location{Row: 0, Col: 0})
	is.Equal(OpenMoves{}.Score(b, game.P1), 8.0)
	is.Equal(OpenMoves{}.Score(b, game.P2), 2.0)
	is.Equal(Improved{}.Score(b, game.P1), 6.0)
	is.Equal(Improved{}.Score(b, game.P2), -6.0)
}

func TestReachScoreExact(t *testing.T) {
	is := is.New(t)
	// From the corner of an empty 4x4 board the reachability rings hold
	// 2, 5, 4, 2 and 2 cells. With ratio 2 the weighted sum is
	// 2 + 5/2 + 4/4 + 2/8 + 2/16.
	b := mustBoard(t, 4, 4, game.Location{Row: 0, Col: 0})
	is.Equal(NewReach(2).Score(b, game.P1), 5.875)

	// Player 2 is unplaced: every free cell is one "move" away.
	is.Equal(NewReach(2).Score(b, game.P2), 15.0)
	is.Equal(NewDiffReach(2).Score(b, game.P1), 5.875-15.0)
}

func TestReachRatioFallsBackToDefault(t *testing.T) {
	is := is.New(t)
	is.Equal(NewReach(0).Ratio, DefaultRatio)
	is.Equal(NewReach(1).Ratio, DefaultRatio)
	is.Equal(NewReach(1.5).Ratio, 1.5)
	is.Equal(NewDiffReach(-3).Ratio, DefaultRatio)
}

func TestRegistry(t *testing.T) {
	is := is.New(t)
	is.Equal(Names(), []string{"diffreach", "improved", "null", "open", "reach"})

	for _, name := range Names() {
		ev, err := FromName(name)
		is.NoErr(err)
		is.Equal(ev.String(), name)
	}

	def, err := FromName("")
	is.NoErr(err)
	is.Equal(def.String(), "diffreach")

	_, err = FromName("psychic")
	is.True(err != nil)
}
