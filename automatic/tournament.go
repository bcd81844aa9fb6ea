package automatic

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"github.com/ethiery/isolation/eval"
	"github.com/ethiery/isolation/game"
	"github.com/ethiery/isolation/player"
	"github.com/ethiery/isolation/search"
	"github.com/ethiery/isolation/stats"
)

// Defaults applied by Tournament.Run when the caller leaves a knob unset.
const (
	DefaultBoardSize = 7
	DefaultMatches   = 20
	DefaultTimeLimit = 150 * time.Millisecond
)

// AgentSpec describes one agent declaratively, the way rosters on disk
// do. Build turns it into a live player.
type AgentSpec struct {
	Name string `yaml:"name"`
	// Kind is "search", "greedy" or "random"; empty means "search".
	Kind       string `yaml:"kind,omitempty"`
	Method     string `yaml:"method,omitempty"`
	Eval       string `yaml:"eval,omitempty"`
	Depth      int    `yaml:"depth,omitempty"`
	Iterative  bool   `yaml:"iterative,omitempty"`
	Reordering bool   `yaml:"reordering,omitempty"`
	MarginMs   int    `yaml:"margin_ms,omitempty"`
	// Table is "map", "bounded" or "none"; empty means "map".
	Table            string  `yaml:"table,omitempty"`
	TableMemFraction float64 `yaml:"table_mem_fraction,omitempty"`
}

// Build instantiates the agent. Every call returns a fresh player that
// shares no state (in particular no transposition table) with earlier
// builds, so concurrent games stay independent.
func (a AgentSpec) Build() (player.Player, error) {
	switch a.Kind {
	case "random":
		return player.NewRandom(), nil
	case "greedy":
		if a.Eval == "" {
			return player.NewGreedy(nil), nil
		}
		ev, err := eval.FromName(a.Eval)
		if err != nil {
			return nil, err
		}
		return player.NewGreedy(ev), nil
	case "search", "":
		ev, err := eval.FromName(a.Eval)
		if err != nil {
			return nil, err
		}
		method := search.AlphaBeta
		if a.Method != "" {
			if method, err = search.MethodFromName(a.Method); err != nil {
				return nil, err
			}
		}
		s := search.NewSolver(ev)
		s.SetMethod(method)
		if a.Depth > 0 {
			s.SetSearchDepth(a.Depth)
		}
		s.SetIterativeDeepening(a.Iterative)
		s.SetMoveReordering(a.Reordering)
		if a.MarginMs > 0 {
			s.SetMargin(time.Duration(a.MarginMs) * time.Millisecond)
		}
		switch a.Table {
		case "", "map":
			// the solver default
		case "bounded":
			s.SetTable(search.NewBoundedTable(a.TableMemFraction))
		case "none":
			s.SetTable(nil)
		default:
			return nil, fmt.Errorf("automatic: agent %q has unknown table kind %q", a.Name, a.Table)
		}
		return player.NewAI(s), nil
	}
	return nil, fmt.Errorf("automatic: agent %q has unknown kind %q", a.Name, a.Kind)
}

// Tournament benches one agent against a roster of opponents. Every
// opponent faces the benched agent on the same set of random openings,
// and each opening is played twice with seats swapped, so a match
// contributes two games.
type Tournament struct {
	Benched   AgentSpec
	Opponents []AgentSpec

	// Matches is the number of openings per opponent (games are 2x that).
	Matches int
	Width   int
	Height  int
	// TimeLimit is the per-move budget handed to every player.
	TimeLimit time.Duration
	// Threads caps concurrent games; 0 means one per CPU.
	Threads int

	// MoveLog, when set, receives one CSV record per ply across all games.
	MoveLog io.Writer
}

// MatchupScore tallies the benched agent's games against one opponent.
type MatchupScore struct {
	Opponent string
	Won      int
	Lost     int
}

// Results aggregates a finished tournament from the benched agent's
// point of view.
type Results struct {
	Agent       string
	PerOpponent []MatchupScore
	Games       int
	Wins        int
	// Depths holds one sample per completed deepening pass of the benched
	// agent, across every move of every game it played.
	Depths []float64
}

func newResults(agent string, opponents []AgentSpec) *Results {
	r := &Results{Agent: agent, PerOpponent: make([]MatchupScore, len(opponents))}
	for i, o := range opponents {
		r.PerOpponent[i].Opponent = o.Name
	}
	return r
}

// WinRate is the fraction of all games won; 0 before any game finished.
func (r *Results) WinRate() float64 {
	if r.Games == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Games)
}

// WinRateInterval brackets the underlying strength at the given
// confidence level (in percent, e.g. 95).
func (r *Results) WinRateInterval(confidence float64) (float64, float64) {
	return stats.WinRateInterval(r.WinRate(), r.Games, confidence)
}

// AverageDepth is the mean completed search depth across all of the
// benched agent's moves, 0 when it reported none.
func (r *Results) AverageDepth() float64 {
	var st stats.Statistic
	for _, d := range r.Depths {
		st.Push(d)
	}
	return st.Mean()
}

type matchJob struct {
	opponent int
	opening  [2]game.Location
}

type matchOutcome struct {
	opponent int
	games    int
	wins     int
	depths   []float64
}

// Run plays the whole schedule and blocks until every game is done or
// the first hard failure. Unset knobs fall back to the package defaults.
func (t *Tournament) Run(ctx context.Context) (*Results, error) {
	if len(t.Opponents) == 0 {
		return nil, fmt.Errorf("automatic: tournament has no opponents")
	}
	if t.Width <= 0 {
		t.Width = DefaultBoardSize
	}
	if t.Height <= 0 {
		t.Height = DefaultBoardSize
	}
	if t.Matches <= 0 {
		t.Matches = DefaultMatches
	}
	if t.TimeLimit <= 0 {
		t.TimeLimit = DefaultTimeLimit
	}
	threads := t.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	openings := t.sampleOpenings(t.Matches)
	log.Info().Str("agent", t.Benched.Name).Int("opponents", len(t.Opponents)).
		Int("matches", t.Matches).Int("threads", threads).
		Msg("tournament-starting")

	var logchan chan string
	var logDone chan struct{}
	if t.MoveLog != nil {
		logchan = make(chan string, 100)
		logDone = make(chan struct{})
		go func() {
			defer close(logDone)
			io.WriteString(t.MoveLog, moveLogHeader)
			for line := range logchan {
				io.WriteString(t.MoveLog, line)
			}
		}()
	}

	jobs := make(chan matchJob, threads*2)
	outcomes := make(chan matchOutcome, threads*2)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			for job := range jobs {
				out, err := t.playMatch(gctx, job, logchan)
				if err != nil {
					return err
				}
				outcomes <- out
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for opp := range t.Opponents {
			for _, opening := range openings {
				select {
				case jobs <- matchJob{opponent: opp, opening: opening}:
				case <-gctx.Done():
					return
				}
			}
		}
	}()

	res := newResults(t.Benched.Name, t.Opponents)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for out := range outcomes {
			sc := &res.PerOpponent[out.opponent]
			sc.Won += out.wins
			sc.Lost += out.games - out.wins
			res.Games += out.games
			res.Wins += out.wins
			res.Depths = append(res.Depths, out.depths...)
		}
	}()

	err := g.Wait()
	close(outcomes)
	<-collected
	if logchan != nil {
		close(logchan)
		<-logDone
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("agent", res.Agent).Int("games", res.Games).
		Int("wins", res.Wins).Float64("win-rate", res.WinRate()).
		Msg("tournament-complete")
	return res, nil
}

// playMatch plays one opening from both sides against one opponent.
func (t *Tournament) playMatch(ctx context.Context, job matchJob, logchan chan<- string) (matchOutcome, error) {
	out := matchOutcome{opponent: job.opponent}
	spec := t.Opponents[job.opponent]
	for benchedSeat := 0; benchedSeat < 2; benchedSeat++ {
		benched, err := t.Benched.Build()
		if err != nil {
			return out, err
		}
		opp, err := spec.Build()
		if err != nil {
			return out, err
		}

		b, err := game.NewBoard(t.Width, t.Height)
		if err != nil {
			return out, err
		}
		if err := b.Apply(job.opening[0]); err != nil {
			return out, err
		}
		if err := b.Apply(job.opening[1]); err != nil {
			return out, err
		}

		seats := [2]player.Player{benched, opp}
		names := [2]string{t.Benched.Name, spec.Name}
		if benchedSeat == 1 {
			seats[0], seats[1] = seats[1], seats[0]
			names[0], names[1] = names[1], names[0]
		}
		runner := NewGameRunner(b, seats[0], seats[1], t.TimeLimit)
		runner.SetNames(names[0], names[1])
		if logchan != nil {
			runner.SetMoveLog(logchan)
		}
		gres, err := runner.Play(ctx)
		if err != nil {
			return out, err
		}
		out.games++
		if gres.Winner == benchedSeat {
			out.wins++
		}
		if ai, ok := benched.(*player.AI); ok {
			out.depths = append(out.depths, ai.CompletedDepths()...)
		}
	}
	return out, nil
}

// sampleOpenings draws n pairs of distinct starting cells. The same
// openings are reused for every opponent so matchups stay comparable.
func (t *Tournament) sampleOpenings(n int) [][2]game.Location {
	cells := t.Width * t.Height
	openings := make([][2]game.Location, n)
	for i := range openings {
		a := frand.Intn(cells)
		b := frand.Intn(cells)
		for b == a {
			b = frand.Intn(cells)
		}
		openings[i] = [2]game.Location{
			{Row: a / t.Width, Col: a % t.Width},
			{Row: b / t.Width, Col: b % t.Width},
		}
	}
	return openings
}
