package game

import "encoding/binary"

// Key is the canonical fingerprint of a position: the consumed-cell set,
// both positions and the seat to move. Two boards with equal keys are
// exact transpositions, with the same legal continuations and the same
// terminal status, so a cached value for one is valid for the other. Keys
// are comparable values and index maps directly.
type Key struct {
	occupied cellSet
	p1, p2   Location
	active   Player
}

// Key fingerprints the current position.
func (b *Board) Key() Key {
	return Key{
		occupied: b.occupied,
		p1:       b.positions[P1],
		p2:       b.positions[P2],
		active:   b.active,
	}
}

// ForecastKey fingerprints the position one ply after the active player
// plays loc, without building that position. The caller passes moves it
// enumerated itself; ForecastKey does not re-validate them.
func (b *Board) ForecastKey(loc Location) Key {
	k := b.Key()
	k.occupied.set(b.cell(loc))
	if b.active == P1 {
		k.p1 = loc
	} else {
		k.p2 = loc
	}
	k.active = b.active.Opponent()
	return k
}

// Bytes serializes the key for hashed table variants: the four bitset
// words little-endian, both positions as signed bytes, then the seat to
// move.
func (k Key) Bytes() []byte {
	var buf [37]byte
	for i, w := range k.occupied {
		binary.LittleEndian.PutUint64(buf[i*8:], w)
	}
	buf[32] = byte(int8(k.p1.Row))
	buf[33] = byte(int8(k.p1.Col))
	buf[34] = byte(int8(k.p2.Row))
	buf[35] = byte(int8(k.p2.Col))
	buf[36] = byte(k.active)
	return buf[:]
}
