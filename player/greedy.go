package player

import (
	"context"
	"math"

	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/eval"
	"github.com/ethiery/isolation/game"
)

// Greedy plays the move whose successor scores highest under its
// evaluator, ties to the first in enumeration order. It is a one-ply
// maximizer with no lookahead at all.
type Greedy struct {
	evaluator eval.Evaluator
}

// NewGreedy defaults to the open-moves count when ev is nil.
func NewGreedy(ev eval.Evaluator) Greedy {
	if ev == nil {
		ev = eval.OpenMoves{}
	}
	return Greedy{evaluator: ev}
}

func (g Greedy) ChooseMove(_ context.Context, b *game.Board, _ *clock.Budget) (game.Location, error) {
	me := b.ActivePlayer()
	best, bestV := game.NoMove, math.Inf(-1)
	for i, m := range b.LegalMoves() {
		child, err := b.Forecast(m)
		if err != nil {
			return game.NoMove, err
		}
		if v := g.evaluator.Score(child, me); i == 0 || v > bestV {
			best, bestV = m, v
		}
	}
	return best, nil
}

func (Greedy) TimeLimited() bool { return true }
