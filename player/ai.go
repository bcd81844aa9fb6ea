package player

import (
	"github.com/ethiery/isolation/search"
)

// AI adapts a search solver to the Player interface. The solver's own
// ChooseMove already has the right shape; AI only adds the time-limited
// marker the match loop needs.
type AI struct {
	*search.Solver
}

// NewAI wraps s; nil gets a default solver.
func NewAI(s *search.Solver) *AI {
	if s == nil {
		s = search.NewSolver(nil)
	}
	return &AI{Solver: s}
}

func (*AI) TimeLimited() bool { return true }
