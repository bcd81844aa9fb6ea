package game

import "fmt"

// IllegalMoveError reports an Apply call with a move outside the active
// player's legal set. Search and match code only play moves they
// enumerated, so seeing this error means a collaborator is broken; the
// match runner treats it as an immediate forfeit.
type IllegalMoveError struct {
	Move      Location
	Player    Player
	MoveCount int
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("game: illegal move %v for %v at ply %d", e.Move, e.Player, e.MoveCount)
}
