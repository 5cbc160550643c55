package search

import (
	"fmt"
	"math/bits"

	"github.com/danielmcmillan/connect4ai/internal/board"
)

// Bound classifies how a stored value relates to the true minimax value of
// the position it was computed for.
type Bound uint8

const (
	// ExactBound means value is the true minimax value and move is the best move.
	ExactBound Bound = iota
	// UpperBound means the true value is at most value (a failed-low node).
	UpperBound
	// LowerBound means the true value is at least value (a failed-high node, beta cutoff).
	LowerBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case UpperBound:
		return "Upper"
	case LowerBound:
		return "Lower"
	default:
		return "?"
	}
}

// entry is one transposition table slot, 0 is the zero value and represents
// an empty slot: height 0 never persists (see Table.Store), so a genuine
// height-0 result and an empty slot are indistinguishable, matching
// tournamentsolver.cpp's storeInTable exactly.
type entry struct {
	hash   board.Hash
	move   int
	value  int
	height int
	bound  Bound
}

// Table is a fixed-capacity transposition table keyed by Zobrist hash, with
// depth-preferred replacement: an existing entry is only overwritten by one
// computed at a strictly greater height.
type Table struct {
	entries []entry
	mask    uint64
}

// DefaultSize matches the original solver's transpositionTableSize (2^18
// entries, 10MiB at this entry's 40-byte in-memory size on 64-bit).
const DefaultSize = 1 << 18

// NewTable allocates a table with at least size entries, rounded up to the
// next power of two so indexing can use a mask instead of a modulo.
func NewTable(size int) *Table {
	if size <= 0 {
		size = DefaultSize
	}
	n := uint64(1) << uint(64-bits.LeadingZeros64(uint64(size-1)))
	return &Table{
		entries: make([]entry, n),
		mask:    n - 1,
	}
}

func (t *Table) slot(hash board.Hash) *entry {
	return &t.entries[uint64(hash)&t.mask]
}

// Read returns the stored move, value and bound for hash, but only if the
// entry was computed at exactly the requested height - a shallower or
// deeper cached result is not a cutoff here, matching the original probe
// semantics (`eval->height == height && eval->hash == board.getHash()`).
func (t *Table) Read(hash board.Hash, height int) (value, move int, bound Bound, ok bool) {
	e := t.slot(hash)
	if e.height != height || e.hash != hash {
		return 0, 0, 0, false
	}
	return e.value, e.move, e.bound, true
}

// Peek returns the stored exact value for hash regardless of height, used
// only for move ordering: stale data from a shallower iteration is still a
// useful hint. Unlike Read, this never counts as a table hit.
func (t *Table) Peek(hash board.Hash) (value int, ok bool) {
	e := t.slot(hash)
	if e.hash != hash || e.bound != ExactBound {
		return 0, false
	}
	return e.value, true
}

// Store writes an entry for hash, replacing the existing slot only if
// height is strictly greater than the resident entry's height. wrote
// reports whether the write happened; replaced reports whether it
// overwrote a previously non-empty entry (as opposed to a genuinely empty
// slot). A store whose height does not exceed the resident height is an
// ignore: neither wrote nor replaced.
func (t *Table) Store(hash board.Hash, move, value, height int, bound Bound) (wrote, replaced bool) {
	e := t.slot(hash)
	if height <= e.height {
		return false, false
	}
	replaced = e.height != 0
	*e = entry{hash: hash, move: move, value: value, height: height, bound: bound}
	return true, replaced
}

// Size returns the capacity of the table in entries.
func (t *Table) Size() int {
	return len(t.entries)
}

// Used returns the fraction of slots that have ever been written, computed
// by scanning the table; intended for diagnostics, not the hot path.
func (t *Table) Used() float64 {
	if len(t.entries) == 0 {
		return 0
	}
	n := 0
	for _, e := range t.entries {
		if e.height != 0 || e.hash != 0 {
			n++
		}
	}
	return float64(n) / float64(len(t.entries))
}

func (t *Table) String() string {
	return fmt.Sprintf("TT[%d entries @ %d%%]", t.Size(), int(100*t.Used()))
}
