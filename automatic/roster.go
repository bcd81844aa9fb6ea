package automatic

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/ethiery/isolation/config"
)

// LoadRoster reads a YAML list of agent specs. Builds are attempted up
// front so a bad roster fails before any game starts.
func LoadRoster(filename string) ([]AgentSpec, error) {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var roster []AgentSpec
	if err := yaml.Unmarshal(raw, &roster); err != nil {
		return nil, fmt.Errorf("automatic: bad roster %s: %w", filename, err)
	}
	for _, spec := range roster {
		if spec.Name == "" {
			return nil, fmt.Errorf("automatic: roster %s has an unnamed agent", filename)
		}
		if _, err := spec.Build(); err != nil {
			return nil, err
		}
	}
	log.Debug().Strs("agents", lo.Map(roster, func(a AgentSpec, _ int) string { return a.Name })).
		Str("file", filename).Msg("roster-loaded")
	return roster, nil
}

// DefaultOpponents is the standard ladder: a random mover, fixed-depth
// minimax and alpha-beta tiers over the three basic heuristics, and one
// deepening opponent.
func DefaultOpponents() []AgentSpec {
	return []AgentSpec{
		{Name: "Random", Kind: "random"},
		{Name: "MM_Null", Kind: "search", Method: "minimax", Eval: "null", Depth: 3},
		{Name: "MM_Open", Kind: "search", Method: "minimax", Eval: "open", Depth: 3},
		{Name: "MM_Improved", Kind: "search", Method: "minimax", Eval: "improved", Depth: 3},
		{Name: "AB_Null", Kind: "search", Method: "alphabeta", Eval: "null", Depth: 5},
		{Name: "AB_Open", Kind: "search", Method: "alphabeta", Eval: "open", Depth: 5},
		{Name: "AB_Improved", Kind: "search", Method: "alphabeta", Eval: "improved", Depth: 5},
		{Name: "ID_Improved", Kind: "search", Method: "alphabeta", Eval: "improved", Iterative: true},
	}
}

// DefaultBenched is the agent under test when no roster overrides it:
// everything turned on.
func DefaultBenched() AgentSpec {
	return AgentSpec{
		Name:       "Student",
		Kind:       "search",
		Method:     "alphabeta",
		Eval:       "diffreach",
		Iterative:  true,
		Reordering: true,
	}
}

// SpecFromConfig assembles a search agent from the runtime knobs, so the
// shell and the tournament command field the same player the flags
// describe.
func SpecFromConfig(cfg *config.Config, name string) AgentSpec {
	return AgentSpec{
		Name:             name,
		Kind:             "search",
		Method:           cfg.GetString(config.SearchMethod),
		Eval:             cfg.GetString(config.SearchEval),
		Depth:            cfg.GetInt(config.SearchDepth),
		Iterative:        cfg.GetBool(config.Iterative),
		Reordering:       cfg.GetBool(config.Reordering),
		MarginMs:         int(cfg.GetDuration(config.TimeMargin).Milliseconds()),
		Table:            cfg.GetString(config.Table),
		TableMemFraction: cfg.GetFloat64(config.TableMemFraction),
	}
}
