package game

import (
	"fmt"
	"strconv"
	"strings"
)

// ToDisplayText draws the position for terminals: lettered columns,
// numbered rows, '-' on consumed cells and '1'/'2' on the players'
// current cells. Coordinates match Location.String, so a human can read a
// move straight off the dump.
func (b *Board) ToDisplayText() string {
	var sb strings.Builder
	line := strings.Repeat("-", 4*b.width+3)
	sb.WriteString("  |")
	for c := 0; c < b.width; c++ {
		fmt.Fprintf(&sb, " %c |", 'A'+rune(c))
	}
	sb.WriteString("\n" + line + "\n")
	for r := 0; r < b.height; r++ {
		fmt.Fprintf(&sb, "%-2d|", r+1)
		for c := 0; c < b.width; c++ {
			sb.WriteString(" " + b.cellGlyph(Location{Row: r, Col: c}) + " |")
		}
		sb.WriteString("\n" + line + "\n")
	}
	return sb.String()
}

func (b *Board) cellGlyph(loc Location) string {
	switch loc {
	case b.positions[P1]:
		return "1"
	case b.positions[P2]:
		return "2"
	}
	if b.Occupied(loc) {
		return "-"
	}
	return " "
}

// LocationFromCoords parses board coordinates like "C3" (column letter,
// one-based row, case-insensitive) into a Location. It checks only the
// global coordinate range, not any particular board's bounds.
func LocationFromCoords(s string) (Location, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return NoMove, fmt.Errorf("game: bad coordinates %q", s)
	}
	col := int(s[0] - 'A')
	row, err := strconv.Atoi(s[1:])
	if err != nil || col < 0 || col >= MaxDim || row < 1 || row > MaxDim {
		return NoMove, fmt.Errorf("game: bad coordinates %q", s)
	}
	return Location{Row: row - 1, Col: col}, nil
}
