// Package eval provides the position-scoring heuristics the search engine
// applies at depth-exhausted leaves. Every evaluator scores from one
// player's perspective, higher meaning better for that player, and every
// evaluator yields to the exact utility once the game is decided.
package eval

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/ethiery/isolation/game"
)

// Evaluator scores a position for a player. Implementations must return
// b.Utility(p) unchanged whenever the position is terminal; the heuristic
// part only ever speaks for live positions.
type Evaluator interface {
	Score(b *game.Board, p game.Player) float64
	String() string
}

// DefaultRatio is the geometric discount applied between successive
// reachability rings by the reach heuristics.
const DefaultRatio = 1.1

// Null knows nothing about live positions: exact utility at terminals,
// zero everywhere else. It turns a fixed-depth search into a blind walk
// and exists mostly as a baseline opponent.
type Null struct{}

func (Null) Score(b *game.Board, p game.Player) float64 { return b.Utility(p) }
func (Null) String() string                             { return "null" }

// OpenMoves counts the player's immediate legal moves.
type OpenMoves struct{}

func (OpenMoves) Score(b *game.Board, p game.Player) float64 {
	if u := b.Utility(p); u != 0 {
		return u
	}
	return float64(len(b.LegalMovesFor(p)))
}
func (OpenMoves) String() string { return "open" }

// Improved is the mobility differential: own open moves minus the
// opponent's.
type Improved struct{}

func (Improved) Score(b *game.Board, p game.Player) float64 {
	if u := b.Utility(p); u != 0 {
		return u
	}
	return float64(len(b.LegalMovesFor(p)) - len(b.LegalMovesFor(p.Opponent())))
}
func (Improved) String() string { return "improved" }

// Reach weighs every cell the player can still reach by how soon it can
// be reached: the ring at distance d contributes |ring| * ratio^(1-d), so
// immediate moves count in full and each further ring is discounted.
type Reach struct {
	Ratio float64
}

// NewReach returns the reach heuristic. Ratios must exceed 1 for the
// discounting to make sense; anything else falls back to DefaultRatio.
func NewReach(ratio float64) Reach {
	if ratio <= 1 {
		ratio = DefaultRatio
	}
	return Reach{Ratio: ratio}
}

func (e Reach) Score(b *game.Board, p game.Player) float64 {
	if u := b.Utility(p); u != 0 {
		return u
	}
	return reachScore(b, p, e.Ratio)
}
func (e Reach) String() string { return "reach" }

// DiffReach is the tournament default: the player's reach score minus the
// opponent's, rewarding mobility now and later instead of just this ply.
type DiffReach struct {
	Ratio float64
}

// NewDiffReach mirrors NewReach's ratio handling.
func NewDiffReach(ratio float64) DiffReach {
	if ratio <= 1 {
		ratio = DefaultRatio
	}
	return DiffReach{Ratio: ratio}
}

func (e DiffReach) Score(b *game.Board, p game.Player) float64 {
	if u := b.Utility(p); u != 0 {
		return u
	}
	return reachScore(b, p, e.Ratio) - reachScore(b, p.Opponent(), e.Ratio)
}
func (e DiffReach) String() string { return "diffreach" }

func reachScore(b *game.Board, p game.Player, ratio float64) float64 {
	var score float64
	for d, ring := range b.ReachableByDistance(p) {
		score += float64(len(ring)) * math.Pow(ratio, float64(1-d))
	}
	return score
}

var builders = map[string]func() Evaluator{
	"null":      func() Evaluator { return Null{} },
	"open":      func() Evaluator { return OpenMoves{} },
	"improved":  func() Evaluator { return Improved{} },
	"reach":     func() Evaluator { return NewReach(0) },
	"diffreach": func() Evaluator { return NewDiffReach(0) },
}

// FromName builds the evaluator registered under name; the empty name
// means the default, diffreach.
func FromName(name string) (Evaluator, error) {
	if name == "" {
		name = "diffreach"
	}
	build, ok := builders[name]
	if !ok {
		return nil, fmt.Errorf("eval: unknown evaluator %q (have %s)",
			name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

// Names lists the registered evaluator names, sorted.
func Names() []string {
	names := lo.Keys(builders)
	sort.Strings(names)
	return names
}
