package player

import (
	"context"

	"lukechampine.com/frand"

	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/game"
)

// Random plays a uniformly random legal move. It is the floor every other
// agent is measured against.
type Random struct{}

func NewRandom() Random { return Random{} }

func (Random) ChooseMove(_ context.Context, b *game.Board, _ *clock.Budget) (game.Location, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.NoMove, nil
	}
	return moves[frand.Intn(len(moves))], nil
}

func (Random) TimeLimited() bool { return true }
