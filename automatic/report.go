package automatic

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
)

// WriteReport renders the tournament outcome as the flat text block both
// the shell and the tournament command print.
func (r *Results) WriteReport(w io.Writer) error {
	fmt.Fprintf(w, "Tournament results for %s\n\n", r.Agent)
	fmt.Fprintf(w, "%-20s%8s%8s\n", "Opponent", "Won", "Lost")
	for _, sc := range r.PerOpponent {
		fmt.Fprintf(w, "%-20s%8d%8d\n", sc.Opponent, sc.Won, sc.Lost)
	}
	lo, hi := r.WinRateInterval(95)
	fmt.Fprintf(w, "\nGames: %d  Win rate: %.1f%% (95%% CI %.1f%% to %.1f%%)\n",
		r.Games, 100*r.WinRate(), 100*lo, 100*hi)
	if len(r.Depths) > 0 {
		fmt.Fprintf(w, "Average search depth: %.2f\n\n", r.AverageDepth())
		fmt.Fprintln(w, "Depth distribution:")
		hist := histogram.Hist(10, r.Depths)
		if err := histogram.Fprint(w, hist, histogram.Linear(40)); err != nil {
			return err
		}
	}
	return nil
}
