package shell

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/ethiery/isolation/config"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	os.Exit(m.Run())
}

func testController(t *testing.T) (*ShellController, *bytes.Buffer) {
	t.Helper()
	cfg := &config.Config{}
	if err := cfg.Load(nil); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	return &ShellController{cfg: cfg, options: NewOptions(cfg), w: &buf}, &buf
}

func TestExtractFields(t *testing.T) {
	is := is.New(t)
	type testdata struct {
		line   string
		expCmd *shellcmd
		expErr error
	}
	cases := []testdata{
		{"", nil, errNoData},
		{"tournament -log /tmp/moves.csv",
			&shellcmd{"tournament", nil, CmdOptions{"log": {"/tmp/moves.csv"}}},
			nil},
		{"play d4",
			&shellcmd{"play", []string{"d4"}, CmdOptions{}},
			nil},
		{"tournament 5 -roster ladder.yaml -log out.csv ",
			&shellcmd{"tournament",
				[]string{"5"},
				CmdOptions{"roster": {"ladder.yaml"}, "log": {"out.csv"}}},
			nil,
		},
		{`set roster "my ladder.yaml"`,
			&shellcmd{"set", []string{"roster", "my ladder.yaml"}, CmdOptions{}},
			nil,
		},
		{"tournament -log",
			nil, errWrongOptionSyntax},
	}
	for _, tc := range cases {
		cmd, err := extractFields(tc.line)
		is.Equal(cmd, tc.expCmd)
		is.Equal(err, tc.expErr)
	}
}

func TestOptionsShowAndSet(t *testing.T) {
	is := is.New(t)
	cfg := &config.Config{}
	is.NoErr(cfg.Load(nil))
	opts := NewOptions(cfg)

	known, val := opts.Show(config.SearchMethod)
	is.True(known)
	is.Equal(val, "alphabeta")

	known, _ = opts.Show("bogus")
	is.True(!known)

	is.NoErr(opts.Set(config.BoardWidth, "9"))
	_, val = opts.Show(config.BoardWidth)
	is.Equal(val, "9")

	is.NoErr(opts.Set(config.TimeLimit, "2s"))
	is.Equal(cfg.GetDuration(config.TimeLimit), 2*time.Second)

	is.NoErr(opts.Set(config.Iterative, "false"))
	is.True(!cfg.GetBool(config.Iterative))

	is.True(opts.Set(config.BoardWidth, "0") != nil)
	is.True(opts.Set(config.BoardWidth, "17") != nil)
	is.True(opts.Set(config.SearchEval, "banana") != nil)
	is.True(opts.Set(config.SearchMethod, "negamax") != nil)
	is.True(opts.Set(config.Table, "galactic") != nil)
	is.True(opts.Set(config.TableMemFraction, "1.5") != nil)
	is.True(opts.Set(config.TimeLimit, "-3s") != nil)
	is.True(opts.Set("bogus", "1") != nil)

	text := opts.ToDisplayText()
	is.True(strings.Contains(text, "search-method: alphabeta"))
	is.True(strings.Contains(text, "board-width: 9"))
}

func TestExecuteGameFlow(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	_, err := sc.Execute("show")
	is.Equal(err, errNoGame)

	resp, err := sc.Execute("new 5x5")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "player 1 to move"))

	resp, err = sc.Execute("play A1")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "player 2 to move"))

	resp, err = sc.Execute("moves")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "[0]"))

	_, err = sc.Execute("play 999")
	is.True(err != nil)
	_, err = sc.Execute("play Z9")
	is.True(err != nil)

	_, err = sc.Execute("play 0")
	is.NoErr(err)

	resp, err = sc.Execute("set time-limit 30ms")
	is.NoErr(err)
	is.Equal(resp.message, "set time-limit to 30ms")

	resp, err = sc.Execute("auto")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "engine plays"))

	resp, err = sc.Execute("opts")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "board-width"))

	_, err = sc.Execute("frobnicate")
	is.True(err != nil)

	_, err = sc.Execute("")
	is.Equal(err, errNoData)
}

func TestExecuteSelfplay(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	_, err := sc.Execute("set time-limit 10ms")
	is.NoErr(err)
	_, err = sc.Execute("new 4x4")
	is.NoErr(err)

	resp, err := sc.Execute("selfplay")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "wins"))
	is.True(sc.board.Terminal())

	_, err = sc.Execute("selfplay")
	is.True(err != nil) // game already over
}

func TestExecuteTournament(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	roster := `- name: Rando
  kind: random
- name: Greedy
  kind: greedy
`
	path := filepath.Join(t.TempDir(), "ladder.yaml")
	is.NoErr(os.WriteFile(path, []byte(roster), 0644))

	for _, cmdline := range []string{
		"set board-width 4",
		"set board-height 4",
		"set time-limit 15ms",
		"set threads 2",
	} {
		_, err := sc.Execute(cmdline)
		is.NoErr(err)
	}

	resp, err := sc.Execute("tournament 1 -roster " + path)
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Win rate"))
	is.True(strings.Contains(resp.message, "Rando"))
	is.True(strings.Contains(resp.message, "Greedy"))
}

func TestHelp(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)

	resp, err := sc.Execute("help")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "Commands:"))

	resp, err = sc.Execute("help play")
	is.NoErr(err)
	is.True(strings.Contains(resp.message, "coordinates"))

	_, err = sc.Execute("help frobnicate")
	is.True(err != nil)
}

func TestCompleter(t *testing.T) {
	is := is.New(t)
	sc, _ := testController(t)
	c := NewShellCompleter(sc)

	matches, n := c.Do([]rune("pl"), 2)
	is.Equal(n, 2)
	is.True(len(matches) == 1)
	is.Equal(string(matches[0]), "ay")

	matches, _ = c.Do([]rune("set ev"), 6)
	is.True(len(matches) == 1)
	is.Equal(string(matches[0]), "al")

	matches, _ = c.Do([]rune("set eval "), 9)
	found := false
	for _, m := range matches {
		if string(m) == "diffreach" {
			found = true
		}
	}
	is.True(found)
}
