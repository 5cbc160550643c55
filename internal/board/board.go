// Package board implements the bitboard representation of a Connect Four
// position: storage, mutation, win/threat/connection queries and Zobrist
// hashing. Board is a pure value type whose bit-level queries do not
// allocate (only the text rendering and parsing helpers do) - it is cheap to
// copy and is passed by value through search recursion.
package board

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"

	"github.com/danielmcmillan/connect4ai/internal/zobrist"
)

// Width and Height are the dimensions of the standard competitive board.
const (
	Width  = zobrist.Width
	Height = zobrist.Height

	laneWidth = Width + 1 // one gutter bit per row
	numBits   = laneWidth * Height
)

// Hash is a position fingerprint. Alias of zobrist.Hash so callers outside
// this package never need to import internal/zobrist directly.
type Hash = zobrist.Hash

// ErrInvalidDescription is returned by SetFromDescription when the input
// text does not conform to the board description format.
var ErrInvalidDescription = errors.New("board: invalid description")

// shiftAmounts are the bit shifts for the four connection directions:
// horizontal, vertical, diagonal (bottom-left to top-right), diagonal
// (top-left to bottom-right).
var shiftAmounts = [4]uint{1, laneWidth, laneWidth + 1, laneWidth - 1}

// Board is a 7x6 Connect Four position, always stored from the current
// player's point of view. current and other are disjoint bitsets; a cell
// absent from both is empty. Every row occupies laneWidth=Width+1 bits, with
// the least significant bit of each lane permanently zero (the gutter),
// preventing shifts used for diagonal/vertical/horizontal checks from
// matching across row or column boundaries.
type Board struct {
	current, other        uint64
	hashCurrent, hashOther Hash
}

// fullMask covers every bit used by the representation, gutters included.
const fullMask uint64 = (uint64(1) << numBits) - 1

// gutterMask has the permanently-zero gutter bit of every lane set.
var gutterMask = func() uint64 {
	var m uint64
	for r := 0; r < Height; r++ {
		m |= uint64(1) << uint(r*laneWidth)
	}
	return m
}()

// playableMask is every real cell bit (fullMask minus the gutters).
var playableMask = fullMask &^ gutterMask

// rowMasks[r] is the set of valid cell bits belonging to row r.
var rowMasks = func() [Height]uint64 {
	var m [Height]uint64
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			m[r] |= bitMask(c, r)
		}
	}
	return m
}()

// cellBit returns the bit index for (column, row), per the representation
// contract: (Height-row)*(Width+1) - column - 1.
func cellBit(column, row int) uint {
	return uint((Height-row)*laneWidth - column - 1)
}

func bitMask(column, row int) uint64 {
	return uint64(1) << cellBit(column, row)
}

// Clear resets the board to empty.
func (b *Board) Clear() {
	b.current, b.other = 0, 0
	b.hashCurrent, b.hashOther = 0, 0
}

// Swap exchanges current and other, modelling "the other player is now to
// move". O(1): current/other and their hashes are simply exchanged.
func (b *Board) Swap() {
	b.current, b.other = b.other, b.current
	b.hashCurrent, b.hashOther = b.hashOther, b.hashCurrent
}

// togglePieceCurrent flips the membership of cell in the current set and
// maintains both hashes incrementally.
func (b *Board) togglePieceCurrent(column, row int) {
	b.current ^= bitMask(column, row)
	cell := zobrist.CellIndex(column, row)
	b.hashCurrent ^= zobrist.Default.Word(zobrist.Current, cell)
	b.hashOther ^= zobrist.Default.Word(zobrist.Other, cell)
}

// togglePieceOther flips the membership of cell in the other set and
// maintains both hashes incrementally.
func (b *Board) togglePieceOther(column, row int) {
	b.other ^= bitMask(column, row)
	cell := zobrist.CellIndex(column, row)
	b.hashCurrent ^= zobrist.Default.Word(zobrist.Other, cell)
	b.hashOther ^= zobrist.Default.Word(zobrist.Current, cell)
}

// SetSpace unconditionally sets whether the given cell is occupied by the
// current player. If the other player occupied it, that bit is cleared too.
// Precondition: column in [0,Width), row in [0,Height); violating it is a
// programmer error (contract violation per spec), not a recoverable one.
func (b *Board) SetSpace(column, row int, occupied bool) {
	if column < 0 || column >= Width || row < 0 || row >= Height {
		panic(fmt.Sprintf("board: SetSpace out of range: column=%d row=%d", column, row))
	}

	mask := bitMask(column, row)
	if (b.current&mask != 0) != occupied {
		b.togglePieceCurrent(column, row)
	}
	if b.other&mask != 0 {
		b.togglePieceOther(column, row)
	}
}

// CanPlay reports whether the column has room for another piece: the top
// cell of the column is empty.
func (b *Board) CanPlay(column int) bool {
	top := uint64(1) << (Width - uint(column))
	return (b.current|b.other)&top == 0
}

// GetFreeRow returns the row a piece dropped into column would land in,
// without mutating the board. Returns Height if the column is full.
func (b *Board) GetFreeRow(column int) int {
	occupied := b.current | b.other
	mask := bitMask(column, 0)
	row := 0
	for mask&occupied != 0 {
		mask >>= laneWidth
		row++
		if row >= Height {
			return Height
		}
	}
	return row
}

// Play drops a piece for the current player into the lowest empty row of
// column. Precondition: CanPlay(column). Does not swap turns.
func (b *Board) Play(column int) {
	occupied := b.current | b.other
	mask := bitMask(column, 0)
	row := 0
	for mask&occupied != 0 {
		mask >>= laneWidth
		row++
	}
	b.togglePieceCurrent(column, row)
}

// Count returns the number of pieces belonging to the current player.
func (b *Board) Count() int {
	return bits.OnesCount64(b.current)
}

// TotalCount returns the total number of pieces on the board.
func (b *Board) TotalCount() int {
	return bits.OnesCount64(b.current | b.other)
}

// IsWin reports whether the current player has four-in-a-row in any
// direction.
func (b *Board) IsWin() bool {
	for _, s := range shiftAmounts {
		bb := b.current & (b.current >> s)
		bb = bb & (bb >> s)
		bb = bb & (bb >> s)
		if bb != 0 {
			return true
		}
	}
	return false
}

// connectionsFor computes, for a single player's bitset, the number of
// maximal runs of exactly length 2, exactly length 3, and at least length 4,
// summed over all four directions.
func connectionsFor(pos uint64) (exactly2, exactly3, atLeast4 int) {
	for _, s := range shiftAmounts {
		bb := pos
		var counts [4]int
		for k := 0; k < 4; k++ {
			bb = bb & (bb >> s)
			counts[k] = bits.OnesCount64(bb)
		}

		al2 := counts[0] - counts[1]
		al3 := counts[1] - counts[2]
		al4 := counts[2] - counts[3]

		exactly2 += al2 - al3
		exactly3 += al3 - al4
		atLeast4 += al4
	}
	return exactly2, exactly3, atLeast4
}

// CountConnections returns the number of maximal runs of exactly length 2,
// exactly length 3, and at least length 4, summed over all four directions,
// for the current player's pieces (forOpponent false) or the other player's
// pieces (forOpponent true).
func (b *Board) CountConnections(forOpponent bool) (exactly2, exactly3, atLeast4 int) {
	if forOpponent {
		return connectionsFor(b.other)
	}
	return connectionsFor(b.current)
}

// threatsFor returns the empty-cell bitset where pos has a three-in-a-row
// configuration that would complete four if filled. Four hole-position
// patterns per direction: hole at either end of a 4-window, or at one of the
// two interior positions.
func threatsFor(pos uint64) uint64 {
	var threats uint64
	for _, s := range shiftAmounts {
		t1 := (pos >> s) & (pos >> (2 * s)) & (pos >> (3 * s))
		t2 := (pos << s) & (pos << (2 * s)) & (pos << (3 * s))
		t3 := (pos << s) & (pos >> s) & (pos >> (2 * s))
		t4 := (pos << (2 * s)) & (pos << s) & (pos >> s)
		threats |= t1 | t2 | t3 | t4
	}
	return threats
}

// GetThreats returns the bitset of empty cells where the named player (the
// current player if forOpponent is false, the other player if true) has a
// threat: filling that cell would complete four-in-a-row.
func (b *Board) GetThreats(forOpponent bool) uint64 {
	empty := playableMask &^ (b.current | b.other)
	if forOpponent {
		return threatsFor(b.other) & empty
	}
	return threatsFor(b.current) & empty
}

// ThreatInfo summarises threats for both players. Index 0 is the current
// player, index 1 is the other player.
type ThreatInfo struct {
	// AllThreats counts threats after cross-filtering: a threat is removed if
	// the opposing player has a threat immediately below it in the same
	// column (the opponent would win first there).
	AllThreats [2]int
	// GroundedThreats counts threats that are playable right now: the cell
	// directly below is occupied, or the threat sits on the bottom row.
	GroundedThreats [2]int
	// DoubleThreats counts threats stacked immediately above another threat
	// of the same player.
	DoubleThreats [2]int
}

// GetThreatInfo computes ThreatInfo for the current position.
func (b *Board) GetThreatInfo() ThreatInfo {
	empty := playableMask &^ (b.current | b.other)
	rawCur := threatsFor(b.current) & empty
	rawOther := threatsFor(b.other) & empty

	// A threat immediately below (same column, next row down) has a larger
	// cell-bit value by exactly laneWidth, per the representation contract.
	allCur := rawCur &^ (rawOther >> laneWidth)
	allOther := rawOther &^ (rawCur >> laneWidth)

	occupied := b.current | b.other
	below := occupied >> laneWidth
	bottom := rowMasks[0]

	groundedCur := allCur & (bottom | below)
	groundedOther := allOther & (bottom | below)

	doubleCur := allCur & (allCur >> laneWidth)
	doubleOther := allOther & (allOther >> laneWidth)

	return ThreatInfo{
		AllThreats:      [2]int{bits.OnesCount64(allCur), bits.OnesCount64(allOther)},
		GroundedThreats: [2]int{bits.OnesCount64(groundedCur), bits.OnesCount64(groundedOther)},
		DoubleThreats:   [2]int{bits.OnesCount64(doubleCur), bits.OnesCount64(doubleOther)},
	}
}

// GetHash returns the current player's Zobrist fingerprint.
func (b *Board) GetHash() Hash {
	return b.hashCurrent
}

// winningMask returns the union of all four-in-a-row windows present in pos.
func winningMask(pos uint64) uint64 {
	var mask uint64
	for _, s := range shiftAmounts {
		bb := pos & (pos >> s)
		bb = bb & (bb >> s)
		bb = bb & (bb >> s)
		for bb != 0 {
			y := uint(bits.TrailingZeros64(bb))
			bb &= bb - 1
			mask |= uint64(1)<<y | uint64(1)<<(y+s) | uint64(1)<<(y+2*s) | uint64(1)<<(y+3*s)
		}
	}
	return mask
}

// WinningPieces returns a board-shaped description containing only the
// winning four-in-a-row cells for the requested colour (yellow means the
// other player, as parsed by SetFromDescription), or ok=false if that
// colour has not won.
func (b *Board) WinningPieces(yellow bool) (description string, ok bool) {
	pos := b.current
	mark := byte(currentPlayerChar)
	if yellow {
		pos = b.other
		mark = byte(otherPlayerChar)
	}

	mask := winningMask(pos)
	if mask == 0 {
		return "", false
	}
	return renderMask(mask, mark), true
}

// resetHashes recomputes both hashes from scratch from the current bitsets.
// Used after bulk mutation (SetFromDescription) where incremental XOR
// bookkeeping would be more error-prone than a full recompute.
func (b *Board) resetHashes() {
	b.hashCurrent, b.hashOther = 0, 0
	for r := 0; r < Height; r++ {
		for c := 0; c < Width; c++ {
			mask := bitMask(c, r)
			cell := zobrist.CellIndex(c, r)
			switch {
			case b.current&mask != 0:
				b.hashCurrent ^= zobrist.Default.Word(zobrist.Current, cell)
				b.hashOther ^= zobrist.Default.Word(zobrist.Other, cell)
			case b.other&mask != 0:
				b.hashCurrent ^= zobrist.Default.Word(zobrist.Other, cell)
				b.hashOther ^= zobrist.Default.Word(zobrist.Current, cell)
			}
		}
	}
}

const (
	currentPlayerChar = 'r'
	otherPlayerChar   = 'y'
	noPieceChar       = '.'
	rowSeparatorChar  = ','
)

// SetFromDescription parses a textual board description (top row first,
// rows separated by ',', cells in {'r','y','.'}) into the position. Fails
// with ErrInvalidDescription if the row count, row length, or character set
// is wrong. Hashes are recomputed from scratch after a successful parse.
func (b *Board) SetFromDescription(s string) error {
	rows := strings.Split(s, string(rowSeparatorChar))
	if len(rows) != Height {
		return fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidDescription, Height, len(rows))
	}

	var current, other uint64
	for i, rowStr := range rows {
		if len(rowStr) != Width {
			return fmt.Errorf("%w: row %d has length %d, want %d", ErrInvalidDescription, i, len(rowStr), Width)
		}
		row := Height - 1 - i // descriptions list the top row first
		for c := 0; c < Width; c++ {
			switch rowStr[c] {
			case currentPlayerChar:
				current |= bitMask(c, row)
			case otherPlayerChar:
				other |= bitMask(c, row)
			case noPieceChar:
				// empty, nothing to set
			default:
				return fmt.Errorf("%w: invalid character %q", ErrInvalidDescription, rowStr[c])
			}
		}
	}

	b.current, b.other = current, other
	b.resetHashes()
	return nil
}

// GetDescription renders the whole board (row < 0) or a single row to text.
func (b *Board) GetDescription(row int) string {
	return b.describe(row, 0)
}

// GetDescriptionWithThreats renders like GetDescription, but decorates empty
// cells with '!' where the opponent (the "other" player) has a threat, and
// '.' otherwise.
func (b *Board) GetDescriptionWithThreats(row int) string {
	return b.describe(row, b.GetThreats(true))
}

func (b *Board) describe(row int, opponentThreats uint64) string {
	lo, hi := 0, Height-1
	if row >= 0 {
		lo, hi = row, row
	}

	var sb strings.Builder
	for r := hi; r >= lo; r-- {
		if r != hi {
			sb.WriteByte(rowSeparatorChar)
		}
		for c := 0; c < Width; c++ {
			mask := bitMask(c, r)
			switch {
			case b.current&mask != 0:
				sb.WriteByte(currentPlayerChar)
			case b.other&mask != 0:
				sb.WriteByte(otherPlayerChar)
			case opponentThreats&mask != 0:
				sb.WriteByte('!')
			default:
				sb.WriteByte(noPieceChar)
			}
		}
	}
	return sb.String()
}

// renderMask renders a board-shaped description where only the bits set in
// mask are shown (as mark), everything else empty.
func renderMask(mask uint64, mark byte) string {
	var sb strings.Builder
	for r := Height - 1; r >= 0; r-- {
		if r != Height-1 {
			sb.WriteByte(rowSeparatorChar)
		}
		for c := 0; c < Width; c++ {
			if mask&bitMask(c, r) != 0 {
				sb.WriteByte(mark)
			} else {
				sb.WriteByte(noPieceChar)
			}
		}
	}
	return sb.String()
}

// String implements fmt.Stringer, rendering the whole board.
func (b *Board) String() string {
	return b.GetDescription(-1)
}

// WriteTo writes the board's description to w, stream-style. Implements
// io.WriterTo for save-file style persistence by external collaborators.
func (b *Board) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

// ReadFrom reads a single whitespace-delimited token from r and parses it as
// a board description. Implements io.ReaderFrom, mirroring the original
// stream extractor's "read one token" behaviour.
func (b *Board) ReadFrom(r io.Reader) (int64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("%w: no token to read", ErrInvalidDescription)
	}
	token := scanner.Text()
	if err := b.SetFromDescription(token); err != nil {
		return int64(len(token)), err
	}
	return int64(len(token)), nil
}
