// Package automatic plays games with nobody watching: single matches
// between two seated players under the full forfeit rules, and
// round-robin tournaments that bench one agent against a roster.
package automatic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/rs/zerolog/log"

	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/game"
	"github.com/ethiery/isolation/player"
)

// Termination says how a game ended.
type Termination string

const (
	// OutOfMoves is the natural end: the player on turn has nowhere to go.
	OutOfMoves Termination = "out-of-moves"
	// Timeout is a forfeit: a time-limited player answered after the
	// budget ran out.
	Timeout Termination = "timeout"
	// IllegalMove is a forfeit: a player answered with a move outside its
	// legal set.
	IllegalMove Termination = "illegal-move"
)

// GameResult is the outcome of one finished game.
type GameResult struct {
	GameID      string
	Winner      int // seat index, 0 or 1
	Plies       int
	History     []game.Location
	Termination Termination
}

// GameRunner plays one game between two seats. Every turn the active seat
// receives a private snapshot of the board and a budget counting from the
// moment of the call; answering late (time-limited seats only) or
// answering with an illegal move forfeits on the spot.
type GameRunner struct {
	board     *game.Board
	seats     [2]player.Player
	names     [2]string
	timeLimit time.Duration
	gameID    string
	logchan   chan<- string
}

// NewGameRunner seats p1 and p2 on b. Seat 0 always maps to game.P1.
func NewGameRunner(b *game.Board, p1, p2 player.Player, timeLimit time.Duration) *GameRunner {
	return &GameRunner{
		board:     b,
		seats:     [2]player.Player{p1, p2},
		names:     [2]string{"p1", "p2"},
		timeLimit: timeLimit,
		gameID:    shortuuid.New(),
	}
}

// SetNames labels the seats in logs and move records.
func (r *GameRunner) SetNames(first, second string) {
	r.names = [2]string{first, second}
}

// SetMoveLog streams one CSV line per ply into ch; see moveLogHeader for
// the columns.
func (r *GameRunner) SetMoveLog(ch chan<- string) { r.logchan = ch }

// Board exposes the live position, e.g. for display between turns.
func (r *GameRunner) Board() *game.Board { return r.board }

const moveLogHeader = "playerID,gameID,ply,move,millis\n"

// Play runs the game to termination and reports who won and why. An
// error means the game could not be finished at all (a canceled context
// or a broken player), not that somebody lost.
func (r *GameRunner) Play(ctx context.Context) (GameResult, error) {
	res := GameResult{GameID: r.gameID}
	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		seat := int(r.board.ActivePlayer())
		if r.board.Terminal() {
			res.Winner = 1 - seat
			res.Termination = OutOfMoves
			break
		}

		budget := clock.NewBudget(r.timeLimit)
		move, err := r.seats[seat].ChooseMove(ctx, r.board.Copy(), budget)
		if err != nil {
			return res, fmt.Errorf("automatic: %s could not move: %w", r.names[seat], err)
		}
		elapsed := r.timeLimit - budget.Remaining()

		if budget.Remaining() < 0 && r.seats[seat].TimeLimited() {
			log.Debug().Str("game", r.gameID).Str("player", r.names[seat]).
				Dur("overrun", -budget.Remaining()).Msg("forfeit-on-timeout")
			res.Winner = 1 - seat
			res.Termination = Timeout
			break
		}
		if err := r.board.Apply(move); err != nil {
			var ime *game.IllegalMoveError
			if !errors.As(err, &ime) {
				return res, err
			}
			log.Debug().Str("game", r.gameID).Str("player", r.names[seat]).
				Stringer("move", move).Msg("forfeit-on-illegal-move")
			res.Winner = 1 - seat
			res.Termination = IllegalMove
			break
		}

		res.History = append(res.History, move)
		res.Plies++
		if r.logchan != nil {
			r.logchan <- fmt.Sprintf("%s,%s,%d,%v,%d\n",
				r.names[seat], r.gameID, res.Plies, move, elapsed.Milliseconds())
		}
	}
	log.Debug().Str("game", r.gameID).Str("winner", r.names[res.Winner]).
		Int("plies", res.Plies).Str("termination", string(res.Termination)).
		Msg("game-over")
	return res, nil
}
