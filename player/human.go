package player

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ethiery/isolation/clock"
	"github.com/ethiery/isolation/game"
)

// Human prompts with the board and an indexed menu of legal moves, then
// reads selections until it gets a usable move index or a coordinate like
// "C3". Humans are not time-limited; the match loop never forfeits them
// on the clock.
type Human struct {
	read func() (string, error)
	out  io.Writer
}

// NewHuman reads selections line by line from r.
func NewHuman(r io.Reader, w io.Writer) *Human {
	sc := bufio.NewScanner(r)
	return &Human{
		read: func() (string, error) {
			if !sc.Scan() {
				if err := sc.Err(); err != nil {
					return "", err
				}
				return "", io.EOF
			}
			return sc.Text(), nil
		},
		out: w,
	}
}

// NewHumanWithSource plugs in a custom line source, e.g. the shell's
// readline instance.
func NewHumanWithSource(read func() (string, error), w io.Writer) *Human {
	return &Human{read: read, out: w}
}

func (h *Human) ChooseMove(ctx context.Context, b *game.Board, _ *clock.Budget) (game.Location, error) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		return game.NoMove, nil
	}
	fmt.Fprint(h.out, b.ToDisplayText())
	for i, m := range moves {
		fmt.Fprintf(h.out, "[%d] %v  ", i, m)
	}
	fmt.Fprintln(h.out)
	for {
		if err := ctx.Err(); err != nil {
			return game.NoMove, err
		}
		fmt.Fprint(h.out, "your move (index or coordinates): ")
		line, err := h.read()
		if err != nil {
			return game.NoMove, err
		}
		line = strings.TrimSpace(line)
		if idx, err := strconv.Atoi(line); err == nil {
			if idx >= 0 && idx < len(moves) {
				return moves[idx], nil
			}
			fmt.Fprintln(h.out, "no such move, try again")
			continue
		}
		loc, err := game.LocationFromCoords(line)
		if err != nil {
			fmt.Fprintln(h.out, "could not read that, try again")
			continue
		}
		for _, m := range moves {
			if m == loc {
				return loc, nil
			}
		}
		fmt.Fprintln(h.out, "no such move, try again")
	}
}

func (*Human) TimeLimited() bool { return false }
