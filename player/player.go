// Package player defines the move-chooser contract the match loop drives
// and the standard roster behind it: a random mover, a one-ply greedy, an
// interactive human and the search-backed AI.
package player

import (
	"context"

	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/game"
)

// Player picks moves. ChooseMove receives a private snapshot of the
// position, so implementations may scribble on it freely, and a running
// budget. Time-limited players forfeit when they answer after the budget
// expires, so they are expected to watch it; a human gets all the time in
// the world.
type Player interface {
	ChooseMove(ctx context.Context, b *game.Board, budget *clock.Budget) (game.Location, error)
	TimeLimited() bool
}
