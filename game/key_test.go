package game

import (
	"testing"

	"github.com/matryer/is"
)

func TestForecastKeyMatchesForecast(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0}, Location{0, 1})
	for _, m := range b.LegalMoves() {
		child, err := b.Forecast(m)
		is.NoErr(err)
		is.Equal(b.ForecastKey(m), child.Key())
		is.True(b.Key() != child.Key())
	}
}

func TestKeyIdentifiesEqualPositions(t *testing.T) {
	is := is.New(t)
	seq := []Location{{2, 2}, {0, 0}, {0, 1}, {2, 1}}
	a := mustBoard(t, 5, 5, seq...)
	b := mustBoard(t, 5, 5, seq...)
	is.Equal(a.Key(), b.Key())

	// Same cells in a different role produce different keys.
	c := mustBoard(t, 5, 5, Location{0, 0}, Location{2, 2})
	d := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0})
	is.True(c.Key() != d.Key())
}

func TestKeyBytesStable(t *testing.T) {
	is := is.New(t)
	b := mustBoard(t, 5, 5, Location{2, 2}, Location{0, 0})
	is.Equal(b.Key().Bytes(), b.Key().Bytes())
	is.Equal(len(b.Key().Bytes()), 37)

	child, err := b.Forecast(Location{0, 1})
	is.NoErr(err)
	is.True(string(b.Key().Bytes()) != string(child.Key().Bytes()))
}
