package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ethiery/isolation/automatic"
	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/config"
	"github.com/ethiery/isolation/game"
	"github.com/ethiery/isolation/player"
)

// ensureEngine lazily builds the engine for one seat. Seats get separate
// solvers so each transposition table only ever holds values rooted at
// its own player.
func (sc *ShellController) ensureEngine(seat game.Player) (*player.AI, error) {
	if sc.engines[seat] == nil {
		built, err := automatic.SpecFromConfig(sc.cfg, "engine").Build()
		if err != nil {
			return nil, err
		}
		sc.engines[seat] = built.(*player.AI)
	}
	return sc.engines[seat], nil
}

func (sc *ShellController) status() string {
	if sc.board.Terminal() {
		return fmt.Sprintf("game over after %d plies, %v wins\n",
			sc.board.MoveCount(), sc.board.InactivePlayer())
	}
	return fmt.Sprintf("%v to move (ply %d)\n",
		sc.board.ActivePlayer(), sc.board.MoveCount()+1)
}

func parseDims(s string) (int, int, error) {
	parts := strings.SplitN(strings.ToLower(s), "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("dimensions look like 7x7, not %q", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

func (sc *ShellController) newGame(cmd *shellcmd) (*Response, error) {
	w := sc.cfg.GetInt(config.BoardWidth)
	h := sc.cfg.GetInt(config.BoardHeight)
	if len(cmd.args) > 0 {
		var err error
		w, h, err = parseDims(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	b, err := game.NewBoard(w, h)
	if err != nil {
		return nil, err
	}
	sc.board = b
	for _, e := range sc.engines {
		if e != nil {
			e.Reset()
		}
	}
	return msg(b.ToDisplayText() + sc.status()), nil
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	return msg(sc.board.ToDisplayText() + sc.status()), nil
}

func (sc *ShellController) moves(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	legal := sc.board.LegalMoves()
	if len(legal) == 0 {
		return msg("no legal moves"), nil
	}
	var sb strings.Builder
	for i, m := range legal {
		fmt.Fprintf(&sb, "[%d] %v  ", i, m)
	}
	return msg(strings.TrimRight(sb.String(), " ")), nil
}

func (sc *ShellController) play(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	if len(cmd.args) != 1 {
		return nil, errors.New("play <coordinates or move index>")
	}
	legal := sc.board.LegalMoves()
	if len(legal) == 0 {
		return nil, fmt.Errorf("no legal moves, %v wins", sc.board.InactivePlayer())
	}
	var loc game.Location
	if idx, err := strconv.Atoi(cmd.args[0]); err == nil {
		if idx < 0 || idx >= len(legal) {
			return nil, errors.New("move index out of range, see `moves`")
		}
		loc = legal[idx]
	} else {
		loc, err = game.LocationFromCoords(cmd.args[0])
		if err != nil {
			return nil, err
		}
	}
	if err := sc.board.Apply(loc); err != nil {
		return nil, err
	}
	return msg(sc.board.ToDisplayText() + sc.status()), nil
}

func (sc *ShellController) auto(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	if sc.board.Terminal() {
		return nil, fmt.Errorf("game is over, %v won", sc.board.InactivePlayer())
	}
	engine, err := sc.ensureEngine(sc.board.ActivePlayer())
	if err != nil {
		return nil, err
	}
	budget := clock.NewBudget(sc.cfg.GetDuration(config.TimeLimit))
	move, err := engine.ChooseMove(context.Background(), sc.board.Copy(), budget)
	if err != nil {
		return nil, err
	}
	if err := sc.board.Apply(move); err != nil {
		return nil, err
	}
	depth := 0
	if d := engine.CompletedDepths(); len(d) > 0 {
		depth = int(d[len(d)-1])
	}
	head := fmt.Sprintf("engine plays %v (depth %d, %d nodes)\n", move, depth, engine.Nodes())
	return msg(head + sc.board.ToDisplayText() + sc.status()), nil
}

func (sc *ShellController) selfplay(cmd *shellcmd) (*Response, error) {
	if sc.board == nil {
		return nil, errNoGame
	}
	if sc.board.Terminal() {
		return nil, errors.New("game is already over, start another with `new`")
	}
	spec := automatic.SpecFromConfig(sc.cfg, "engine")
	first, err := spec.Build()
	if err != nil {
		return nil, err
	}
	second, err := spec.Build()
	if err != nil {
		return nil, err
	}
	runner := automatic.NewGameRunner(sc.board, first, second, sc.cfg.GetDuration(config.TimeLimit))
	runner.SetNames("engine-1", "engine-2")
	res, err := runner.Play(context.Background())
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	for i, m := range res.History {
		fmt.Fprintf(&sb, "%3d. %v\n", i+1, m)
	}
	sb.WriteString(sc.board.ToDisplayText())
	fmt.Fprintf(&sb, "%v wins (%s) after %d more plies\n",
		game.Player(res.Winner), res.Termination, res.Plies)
	return msg(sb.String()), nil
}

func (sc *ShellController) match(cmd *shellcmd) (*Response, error) {
	if sc.l == nil {
		return nil, errors.New("match needs an interactive terminal")
	}
	if sc.board == nil {
		return nil, errNoGame
	}
	if sc.board.Terminal() {
		return nil, errors.New("game is already over, start another with `new`")
	}
	human := player.NewHumanWithSource(func() (string, error) { return sc.l.Readline() }, sc.w)
	engine, err := automatic.SpecFromConfig(sc.cfg, "engine").Build()
	if err != nil {
		return nil, err
	}
	seats := [2]player.Player{human, engine}
	names := [2]string{"you", "engine"}
	if len(cmd.args) > 0 && cmd.args[0] == "second" {
		seats[0], seats[1] = seats[1], seats[0]
		names[0], names[1] = names[1], names[0]
	}
	runner := automatic.NewGameRunner(sc.board, seats[0], seats[1], sc.cfg.GetDuration(config.TimeLimit))
	runner.SetNames(names[0], names[1])
	res, err := runner.Play(context.Background())
	if err != nil {
		return nil, err
	}
	return msg(fmt.Sprintf("%s%s win%s (%s) after %d plies",
		sc.board.ToDisplayText(), names[res.Winner],
		winVerbSuffix(names[res.Winner]), res.Termination, res.Plies)), nil
}

func winVerbSuffix(name string) string {
	if name == "you" {
		return ""
	}
	return "s"
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return msg(sc.options.ToDisplayText()), nil
	}
	key := cmd.args[0]
	if len(cmd.args) == 1 {
		known, val := sc.options.Show(key)
		if !known {
			return nil, errors.New(val)
		}
		return msg(val), nil
	}
	value := strings.Join(cmd.args[1:], " ")
	if err := sc.options.Set(key, value); err != nil {
		return nil, err
	}
	if key == config.Debug {
		level := zerolog.InfoLevel
		if sc.cfg.GetBool(config.Debug) {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)
	}
	// engines are rebuilt with the new settings on their next move
	sc.engines = [2]*player.AI{}
	_, val := sc.options.Show(key)
	return msg(fmt.Sprintf("set %s to %s", key, val)), nil
}

func (sc *ShellController) tournament(cmd *shellcmd) (*Response, error) {
	matches := sc.cfg.GetInt(config.Matches)
	if len(cmd.args) > 0 {
		m, err := strconv.Atoi(cmd.args[0])
		if err != nil {
			return nil, err
		}
		matches = m
	}
	opponents := automatic.DefaultOpponents()
	rosterPath := cmd.options.String("roster")
	if rosterPath == "" {
		rosterPath = sc.cfg.GetString(config.Roster)
	}
	if rosterPath != "" {
		var err error
		opponents, err = automatic.LoadRoster(rosterPath)
		if err != nil {
			return nil, err
		}
	}
	t := &automatic.Tournament{
		Benched:   automatic.SpecFromConfig(sc.cfg, automatic.DefaultBenched().Name),
		Opponents: opponents,
		Matches:   matches,
		Width:     sc.cfg.GetInt(config.BoardWidth),
		Height:    sc.cfg.GetInt(config.BoardHeight),
		TimeLimit: sc.cfg.GetDuration(config.TimeLimit),
		Threads:   sc.cfg.GetInt(config.Threads),
	}
	if logPath := cmd.options.String("log"); logPath != "" {
		f, err := os.Create(logPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		t.MoveLog = f
		sc.showMessage("logging moves to " + logPath)
	}
	sc.showMessage(fmt.Sprintf("running %d matches against each of %d opponents...",
		matches, len(opponents)))
	res, err := t.Run(context.Background())
	if err != nil {
		return nil, err
	}
	var sb strings.Builder
	if err := res.WriteReport(&sb); err != nil {
		return nil, err
	}
	return msg(sb.String()), nil
}
