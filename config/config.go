// Package config holds every runtime knob behind a single viper-backed
// store, fed from command-line flags and ISOLATION_* environment
// variables.
package config

import (
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys for every knob the engine and its front ends read.
const (
	BoardWidth  = "board-width"
	BoardHeight = "board-height"

	TimeLimit  = "time-limit"
	TimeMargin = "time-margin"

	SearchMethod = "search-method"
	SearchEval   = "eval"
	SearchDepth  = "search-depth"
	Iterative    = "iterative"
	Reordering   = "reordering"

	Table            = "table"
	TableMemFraction = "table-mem-fraction"

	Matches = "matches"
	Threads = "threads"
	Roster  = "roster"

	Debug = "debug"
)

// Config is safe to read from anywhere once Load has run.
type Config struct {
	v    *viper.Viper
	args []string
}

// Load parses args and wires up environment overrides: any flag left at
// its default yields to an ISOLATION_* variable, e.g.
// ISOLATION_BOARD_WIDTH=9. Arguments that are not flags are kept and
// exposed through Args.
func (c *Config) Load(args []string) error {
	c.v = viper.New()
	fs := pflag.NewFlagSet("isolation", pflag.ContinueOnError)

	fs.Int(BoardWidth, 7, "board width in cells")
	fs.Int(BoardHeight, 7, "board height in cells")
	fs.Duration(TimeLimit, 150*time.Millisecond, "wall-clock budget per move")
	fs.Duration(TimeMargin, 10*time.Millisecond, "how early before the deadline searches abort")
	fs.String(SearchMethod, "alphabeta", "tree search method: minimax or alphabeta")
	fs.String(SearchEval, "diffreach", "position heuristic: null, open, improved, reach or diffreach")
	fs.Int(SearchDepth, 3, "fixed search depth when iterative deepening is off")
	fs.Bool(Iterative, true, "deepen iteratively until the budget runs out")
	fs.Bool(Reordering, true, "order moves with cached search results")
	fs.String(Table, "map", "transposition table kind: map, bounded or none")
	fs.Float64(TableMemFraction, 0.25, "system memory fraction a bounded table may claim")
	fs.Int(Matches, 20, "openings per opponent in a tournament (two games each)")
	fs.Int(Threads, 0, "concurrent tournament games, 0 for one per CPU")
	fs.String(Roster, "", "YAML roster of tournament opponents")
	fs.Bool(Debug, false, "debug logging")

	if err := fs.Parse(args); err != nil {
		return err
	}
	c.args = fs.Args()
	if err := c.v.BindPFlags(fs); err != nil {
		return err
	}
	c.v.SetEnvPrefix("isolation")
	c.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.v.AutomaticEnv()
	return nil
}

// DefaultConfig returns every knob at its built-in default, still
// honoring environment overrides.
func DefaultConfig() *Config {
	c := &Config{}
	// parsing an empty argument list cannot fail
	_ = c.Load(nil)
	return c
}

func (c *Config) GetString(key string) string          { return c.v.GetString(key) }
func (c *Config) GetInt(key string) int                { return c.v.GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.v.GetBool(key) }
func (c *Config) GetFloat64(key string) float64        { return c.v.GetFloat64(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.v.GetDuration(key) }

// Args returns the non-flag arguments left over after parsing.
func (c *Config) Args() []string { return c.args }

// Set overrides a knob at runtime; the shell's set command lands here.
func (c *Config) Set(key string, value any) { c.v.Set(key, value) }

// AllSettings snapshots every knob for display.
func (c *Config) AllSettings() map[string]any { return c.v.AllSettings() }
