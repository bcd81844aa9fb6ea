// Package search implements move selection: depth-limited minimax and
// alpha-beta over game.Board values, iterative deepening under a
// wall-clock budget, and a transposition table that caches node values
// and drives move ordering.
package search

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/eval"
	"github.com/ethiery/isolation/game"
	"github.com/ethiery/isolation/stats"
)

// Method selects the tree-search algorithm.
type Method int

const (
	// Minimax searches every node to the depth limit. It never touches
	// the transposition table; it exists as the reference the pruning
	// variant is checked against, and as a weaker opponent tier.
	Minimax Method = iota
	// AlphaBeta prunes subtrees that cannot influence the root choice and
	// is the method every serious agent runs.
	AlphaBeta
)

func (m Method) String() string {
	if m == Minimax {
		return "minimax"
	}
	return "alphabeta"
}

// MethodFromName parses a method name as used in configs and rosters.
func MethodFromName(name string) (Method, error) {
	switch name {
	case "minimax":
		return Minimax, nil
	case "alphabeta":
		return AlphaBeta, nil
	}
	return 0, fmt.Errorf("search: unknown method %q", name)
}

// ErrSearchAborted reports that the wall-clock budget ran out mid-search.
// It is ordinary control flow: the deepening driver catches it, keeps the
// best move of the last completed depth and never lets it escape
// ChooseMove.
var ErrSearchAborted = errors.New("search: move budget exhausted")

// DefaultMargin is how much budget a search leaves unspent so that the
// deepest recursion still unwinds and answers before the deadline.
const DefaultMargin = 10 * time.Millisecond

// Result is the outcome of one bounded search: the backed-up value, from
// the root player's perspective, and the move realizing it. Move is
// game.NoMove at terminal and depth-exhausted leaves.
type Result struct {
	Value float64
	Move  game.Location
}

// Solver picks moves for one agent. The transposition table it owns
// persists across the moves of a game and is dropped by Reset; nothing
// else carries over between calls. A Solver runs one search at a time and
// is not safe for concurrent use.
type Solver struct {
	evaluator eval.Evaluator
	table     Table

	method      Method
	searchDepth int
	iterative   bool
	reorder     bool
	margin      time.Duration

	rootPlayer game.Player
	budget     *clock.Budget
	nodes      atomic.Uint64

	depthStat stats.Statistic
	depthLog  []float64

	lastMoveCount int
}

// NewSolver returns a solver with the strongest configuration: alpha-beta
// with transposition-driven move ordering, iterative deepening and the
// differential reach heuristic. A nil evaluator selects the default.
func NewSolver(ev eval.Evaluator) *Solver {
	if ev == nil {
		ev = eval.NewDiffReach(0)
	}
	return &Solver{
		evaluator:   ev,
		table:       NewMapTable(),
		method:      AlphaBeta,
		searchDepth: 3,
		iterative:   true,
		reorder:     true,
		margin:      DefaultMargin,
	}
}

func (s *Solver) SetEvaluator(ev eval.Evaluator) { s.evaluator = ev }

// SetTable swaps the transposition table; nil disables caching and move
// ordering entirely.
func (s *Solver) SetTable(t Table) { s.table = t }

func (s *Solver) SetMethod(m Method) { s.method = m }

// SetSearchDepth fixes the depth used when iterative deepening is off.
func (s *Solver) SetSearchDepth(depth int) { s.searchDepth = depth }

func (s *Solver) SetIterativeDeepening(on bool) { s.iterative = on }

// SetMoveReordering toggles transposition-driven child ordering. Storing
// into the table is unaffected; only lookups stop.
func (s *Solver) SetMoveReordering(on bool) { s.reorder = on }

// SetMargin adjusts how early before the deadline searches abort.
func (s *Solver) SetMargin(margin time.Duration) { s.margin = margin }

// Reset drops everything carried across moves: cached positions and the
// new-game watchdog. Match drivers call it between games; forgetting to
// is survivable, because ChooseMove resets itself when it sees the move
// count go backwards.
func (s *Solver) Reset() {
	if s.table != nil {
		s.table.Reset()
	}
	s.lastMoveCount = 0
}

// AverageDepth is the mean completed search depth per move over the
// solver's lifetime.
func (s *Solver) AverageDepth() float64 { return s.depthStat.Mean() }

// CompletedDepths returns one sample per ChooseMove call: the deepest
// fully completed depth for that move.
func (s *Solver) CompletedDepths() []float64 {
	out := make([]float64, len(s.depthLog))
	copy(out, s.depthLog)
	return out
}

// Nodes reports how many nodes the last ChooseMove expanded.
func (s *Solver) Nodes() uint64 { return s.nodes.Load() }

// TableCounters exposes the table's statistics, all zero when caching is
// disabled.
func (s *Solver) TableCounters() Counters {
	if s.table == nil {
		return Counters{}
	}
	return s.table.Counters()
}

// ChooseMove picks a move for the active player within the given budget.
// A nil budget means unlimited time. Whenever a legal move exists,
// ChooseMove returns one even if the budget is already spent on entry: a
// depth-0 fallback is seeded before the first deadline check. game.NoMove
// comes back only from positions with no legal move at all.
func (s *Solver) ChooseMove(ctx context.Context, b *game.Board, budget *clock.Budget) (game.Location, error) {
	s.budget = budget
	s.rootPlayer = b.ActivePlayer()
	s.nodes.Store(0)

	if s.table != nil && b.MoveCount() < s.lastMoveCount {
		// A new game started without Reset.
		log.Warn().Int("move-count", b.MoveCount()).Int("last-seen", s.lastMoveCount).
			Msg("move-count-regressed-resetting-table")
		s.table.Reset()
	}
	s.lastMoveCount = b.MoveCount()

	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.NoMove, nil
	}

	start := time.Now()
	first, err := b.Forecast(moves[0])
	if err != nil {
		return game.NoMove, err
	}
	best := Result{Value: s.evaluator.Score(first, s.rootPlayer), Move: moves[0]}
	completed := 0

	g := &errgroup.Group{}
	done := make(chan bool)

	g.Go(func() error {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		var lastNodes uint64
		for {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				nodes := s.nodes.Load()
				log.Debug().Uint64("nps", nodes-lastNodes).Msg("nodes-per-second")
				lastNodes = nodes
			}
		}
	})

	g.Go(func() error {
		defer func() { done <- true }()

		startDepth, maxDepth := 1, b.Width()*b.Height()-b.MoveCount()
		if !s.iterative {
			startDepth, maxDepth = s.searchDepth, s.searchDepth
		}
		for depth := startDepth; depth <= maxDepth; depth++ {
			r, err := s.searchToDepth(ctx, b, depth)
			if err != nil {
				if errors.Is(err, ErrSearchAborted) {
					return nil
				}
				return err
			}
			completed = depth
			if r.Value > best.Value {
				best = r
			}
			log.Debug().Int("depth", depth).Float64("value", r.Value).
				Stringer("move", r.Move).Msg("deepening-iteratively")
			if math.IsInf(r.Value, 1) {
				break // proven win, no point going deeper
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return game.NoMove, err
	}

	s.depthStat.Push(float64(completed))
	s.depthLog = append(s.depthLog, float64(completed))

	evt := log.Debug().
		Uint64("nodes", s.nodes.Load()).
		Int("completed-depth", completed).
		Float64("value", best.Value).
		Stringer("move", best.Move).
		Float64("time-elapsed-sec", time.Since(start).Seconds())
	if s.table != nil {
		c := s.table.Counters()
		evt = evt.Uint64("table-lookups", c.Lookups).
			Uint64("table-hits", c.Hits).
			Uint64("table-stores", c.Stores)
	}
	evt.Msg("choose-move-returning")
	return best.Move, nil
}

func (s *Solver) searchToDepth(ctx context.Context, b *game.Board, depth int) (Result, error) {
	if s.method == Minimax {
		return s.minimax(ctx, b, depth, true)
	}
	return s.alphabeta(ctx, b, depth, math.Inf(-1), math.Inf(1), true)
}

// checkAbort runs at the entry of every recursive call, so a timed-out
// search overruns by at most one node expansion. Budget expiry is checked
// against a fresh clock sample each time.
func (s *Solver) checkAbort(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.budget != nil && s.budget.Expired(s.margin) {
		return ErrSearchAborted
	}
	return nil
}

// minimax is the plain fixed-depth reference search. Values are always
// from the root player's perspective; maximizing tracks whose turn the
// layer represents. Ties go to the first move in enumeration order.
func (s *Solver) minimax(ctx context.Context, b *game.Board, depth int, maximizing bool) (Result, error) {
	if err := s.checkAbort(ctx); err != nil {
		return Result{}, err
	}
	s.nodes.Add(1)
	if u := b.Utility(s.rootPlayer); u != 0 {
		return Result{Value: u, Move: game.NoMove}, nil
	}
	if depth <= 0 {
		return Result{Value: s.evaluator.Score(b, s.rootPlayer), Move: game.NoMove}, nil
	}
	var best Result
	for i, m := range b.LegalMoves() {
		child, err := b.Forecast(m)
		if err != nil {
			return Result{}, err
		}
		r, err := s.minimax(ctx, child, depth-1, !maximizing)
		if err != nil {
			return Result{}, err
		}
		if i == 0 || better(maximizing, r.Value, best.Value) {
			best = Result{Value: r.Value, Move: m}
		}
	}
	return best, nil
}

// alphabeta matches minimax at terminal and depth-exhausted nodes and
// prunes the rest: iteration over children stops as soon as the node's
// running best reaches beta on a maximizing layer or alpha on a
// minimizing one. With reordering on, children already resolved deeply
// enough in the table are consumed as leaves first, and the remainder are
// recursed in cached-value order so likely cutoffs come early. The node's
// own value is stored once it is fully resolved; an aborted node stores
// nothing.
func (s *Solver) alphabeta(ctx context.Context, b *game.Board, depth int, alpha, beta float64, maximizing bool) (Result, error) {
	if err := s.checkAbort(ctx); err != nil {
		return Result{}, err
	}
	s.nodes.Add(1)
	if u := b.Utility(s.rootPlayer); u != 0 {
		return Result{Value: u, Move: game.NoMove}, nil
	}
	if depth <= 0 {
		return Result{Value: s.evaluator.Score(b, s.rootPlayer), Move: game.NoMove}, nil
	}

	moves := b.LegalMoves()
	var resolved []scoredMove
	if s.reorder && s.table != nil {
		moves, resolved = s.orderMoves(b, moves, depth, maximizing)
	}

	var best Result
	seen := 0
	for _, sm := range resolved {
		if seen == 0 || better(maximizing, sm.value, best.Value) {
			best = Result{Value: sm.value, Move: sm.move}
		}
		seen++
		if prune(&alpha, &beta, best.Value, maximizing) {
			s.store(b, best.Value, depth)
			return best, nil
		}
	}
	for _, m := range moves {
		child, err := b.Forecast(m)
		if err != nil {
			return Result{}, err
		}
		r, err := s.alphabeta(ctx, child, depth-1, alpha, beta, !maximizing)
		if err != nil {
			return Result{}, err
		}
		if seen == 0 || better(maximizing, r.Value, best.Value) {
			best = Result{Value: r.Value, Move: m}
		}
		seen++
		if prune(&alpha, &beta, best.Value, maximizing) {
			break
		}
	}
	s.store(b, best.Value, depth)
	return best, nil
}

func better(maximizing bool, v, than float64) bool {
	if maximizing {
		return v > than
	}
	return v < than
}

// prune folds the node's running best into the window and reports whether
// the remaining children cannot matter.
func prune(alpha, beta *float64, best float64, maximizing bool) bool {
	if maximizing {
		if best >= *beta {
			return true
		}
		if best > *alpha {
			*alpha = best
		}
		return false
	}
	if best <= *alpha {
		return true
	}
	if best < *beta {
		*beta = best
	}
	return false
}

func (s *Solver) store(b *game.Board, value float64, depth int) {
	if s.table != nil {
		s.table.Put(b.Key(), value, depth)
	}
}

type scoredMove struct {
	move  game.Location
	value float64
}

// orderMoves splits a node's children using the table. Children whose
// cached entry was searched at least depth-1 plies deep come back as
// resolved leaves whose value is usable as-is; the rest are reordered so
// cached favorites are recursed first, descending by value on maximizing
// layers and ascending on minimizing ones, with never-cached children
// last in enumeration order.
func (s *Solver) orderMoves(b *game.Board, moves []game.Location, depth int, maximizing bool) ([]game.Location, []scoredMove) {
	var resolved, scored []scoredMove
	var unscored []game.Location
	for _, m := range moves {
		e, ok := s.table.Get(b.ForecastKey(m))
		switch {
		case ok && e.Depth >= depth-1:
			resolved = append(resolved, scoredMove{move: m, value: e.Value})
		case ok:
			scored = append(scored, scoredMove{move: m, value: e.Value})
		default:
			unscored = append(unscored, m)
		}
	}
	byPreference := func(sms []scoredMove) {
		sort.SliceStable(sms, func(i, j int) bool {
			if maximizing {
				return sms[i].value > sms[j].value
			}
			return sms[i].value < sms[j].value
		})
	}
	byPreference(resolved)
	byPreference(scored)

	ordered := make([]game.Location, 0, len(scored)+len(unscored))
	for _, sm := range scored {
		ordered = append(ordered, sm.move)
	}
	ordered = append(ordered, unscored...)
	return ordered, resolved
}
