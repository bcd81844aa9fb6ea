package search

import (
	"math"
	"sync/atomic"

	"github.com/cespare/xxhash"
	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"

	"github.com/ethiery/isolation/game"
)

// Entry is one cached search result: a node's backed-up value and how
// many plies below the node had been searched when it was written. An
// entry only satisfies a request whose remaining depth it covers; anything
// shallower is still useful for ordering, never as an answer.
type Entry struct {
	Value float64
	Depth int
}

// Counters are cumulative table statistics since the last Reset.
type Counters struct {
	Lookups uint64
	Hits    uint64
	Stores  uint64
}

// Table caches node values by exact position key. Writes overwrite
// whatever occupied the key before; the depth recorded alongside each
// value is what keeps stale shallow results from being trusted. A table
// belongs to one solver and is never shared between concurrent searches.
type Table interface {
	Get(k game.Key) (Entry, bool)
	Put(k game.Key, value float64, depth int)
	Reset()
	Counters() Counters
}

// MapTable is the default table: an unbounded Go map from position keys
// to entries. The boards this game is played on are small enough that the
// map never grows past a few million entries in a full game, so no
// eviction is needed; BoundedTable exists for anything bigger.
type MapTable struct {
	entries map[game.Key]Entry
	lookups atomic.Uint64
	hits    atomic.Uint64
	stores  atomic.Uint64
}

func NewMapTable() *MapTable {
	return &MapTable{entries: make(map[game.Key]Entry)}
}

func (t *MapTable) Get(k game.Key) (Entry, bool) {
	t.lookups.Add(1)
	e, ok := t.entries[k]
	if ok {
		t.hits.Add(1)
	}
	return e, ok
}

func (t *MapTable) Put(k game.Key, value float64, depth int) {
	t.stores.Add(1)
	t.entries[k] = Entry{Value: value, Depth: depth}
}

func (t *MapTable) Reset() {
	t.entries = make(map[game.Key]Entry)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
}

func (t *MapTable) Counters() Counters {
	return Counters{
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Stores:  t.stores.Load(),
	}
}

// Len reports the number of cached positions.
func (t *MapTable) Len() int { return len(t.entries) }

// slotBytes approximates the in-memory size of one bounded-table slot,
// used to turn a memory budget into a slot count.
const slotBytes = 96

const minSlotPower = 16

type boundedSlot struct {
	key   game.Key
	entry Entry
	used  bool
}

// BoundedTable is the fixed-memory variant: a power-of-two slot array
// indexed by a 64-bit hash of the key, one slot per index, overwrite on
// collision. The full key lives in the slot and is compared on every
// probe, so a hash collision costs a miss, never a wrong value.
type BoundedTable struct {
	slots    []boundedSlot
	sizeMask uint64
	power    int

	lookups    atomic.Uint64
	hits       atomic.Uint64
	stores     atomic.Uint64
	collisions atomic.Uint64
}

// NewBoundedTable sizes the table at roughly the given fraction of total
// system memory, rounded down to a power of two slots with a floor of
// 2^16.
func NewBoundedTable(fractionOfMemory float64) *BoundedTable {
	t := &BoundedTable{power: minSlotPower}
	desired := fractionOfMemory * float64(memory.TotalMemory()) / slotBytes
	if desired > 0 {
		if p := int(math.Log2(desired)); p > t.power {
			t.power = p
		}
	}
	n := 1 << t.power
	t.sizeMask = uint64(n - 1)
	t.slots = make([]boundedSlot, n)
	log.Debug().Int("num-slots", n).
		Int("estimated-bytes", n*slotBytes).
		Uint64("total-system-memory", memory.TotalMemory()).
		Msg("bounded-table-sized")
	return t
}

func (t *BoundedTable) Get(k game.Key) (Entry, bool) {
	t.lookups.Add(1)
	s := &t.slots[t.index(k)]
	if !s.used {
		return Entry{}, false
	}
	if s.key != k {
		t.collisions.Add(1)
		return Entry{}, false
	}
	t.hits.Add(1)
	return s.entry, true
}

func (t *BoundedTable) Put(k game.Key, value float64, depth int) {
	t.stores.Add(1)
	t.slots[t.index(k)] = boundedSlot{
		key:   k,
		entry: Entry{Value: value, Depth: depth},
		used:  true,
	}
}

func (t *BoundedTable) index(k game.Key) uint64 {
	return xxhash.Sum64(k.Bytes()) & t.sizeMask
}

func (t *BoundedTable) Reset() {
	clear(t.slots)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.stores.Store(0)
	t.collisions.Store(0)
}

func (t *BoundedTable) Counters() Counters {
	return Counters{
		Lookups: t.lookups.Load(),
		Hits:    t.hits.Load(),
		Stores:  t.stores.Load(),
	}
}

// Collisions counts probes that found an unrelated position in the slot.
func (t *BoundedTable) Collisions() uint64 { return t.collisions.Load() }
