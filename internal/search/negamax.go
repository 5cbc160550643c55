// Package search implements negamax search with alpha-beta pruning,
// iterative deepening and a transposition table, over internal/board
// positions scored by an internal/eval.Evaluator.
package search

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/danielmcmillan/connect4ai/internal/board"
	"github.com/danielmcmillan/connect4ai/internal/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// ErrNoLegalMove indicates Solve produced no move: the board is full, or no
// iteration completed (for example because time ran out first).
var ErrNoLegalMove = errors.New("search: no legal move")

// noMove is the sentinel "no move" column, matching the original solver's
// use of -1.
const noMove = -1

// minValue/maxValue bound the negamax search window, kept a unit away from
// the true bounds so negation never needs to special-case the extremes
// (mirrors the original's use of INT_MIN+1/INT_MAX-1).
const (
	minValue = -(1<<31) + 1
	maxValue = (1 << 31) - 2
)

// Options configures a Solve call.
type Options struct {
	// MaxSolveTime bounds the wall-clock time of the whole iterative
	// deepening loop. Zero means unbounded.
	MaxSolveTime time.Duration
	// StartDepth is the height searched in the first iteration.
	StartDepth int
	// DepthStep is the height increase applied after each completed
	// iteration.
	DepthStep int
	// MaxDepth caps the height ever searched. Unset (the zero Optional)
	// means search until the board would be full.
	MaxDepth lang.Optional[int]
}

// Stats reports counters for a single Solve call, mirroring
// TournamentSolver::printStatistics in the original implementation.
type Stats struct {
	NodesExamined     int
	TableHits         int
	TableReplacements int
	TableIgnores      int
}

// Solve runs iterative deepening negamax search with alpha-beta pruning and
// a transposition table, returning the best column found by the deepest
// completed iteration and its negamax value. Returns ErrNoLegalMove if the
// board is already full, or if no iteration completed.
func Solve(ctx context.Context, b board.Board, e eval.Evaluator, opt Options) (int, int, Stats, error) {
	if b.TotalCount() == board.Width*board.Height {
		return noMove, 0, Stats{}, ErrNoLegalMove
	}

	var deadline time.Time
	if opt.MaxSolveTime > 0 {
		deadline = time.Now().Add(opt.MaxSolveTime)
	}

	r := &run{ctx: ctx, eval: e, tt: NewTable(DefaultSize), deadline: deadline}

	movesToDraw := board.Width*board.Height - b.TotalCount()
	maxHeight := movesToDraw
	if v, ok := opt.MaxDepth.V(); ok && v >= 0 && v < maxHeight {
		maxHeight = v
	}

	height := opt.StartDepth
	if height > maxHeight {
		height = maxHeight
	}

	move := noMove
	value := 0
	for ; height <= maxHeight; height += opt.DepthStep {
		newMove, newValue := r.bestMove(b, height, minValue, maxValue)
		if newMove == noMove || r.outOfTime {
			break // ran out of time (this iteration is discarded), or no legal move
		}
		move, value = newMove, newValue

		logw.Debugf(ctx, "search: height=%d move=%d value=%d nodes=%d %s", height, move, value, r.nodes, r.tt)

		if contextx.IsCancelled(ctx) {
			break
		}
	}

	stats := Stats{
		NodesExamined:     r.nodes,
		TableHits:         r.tableHits,
		TableReplacements: r.tableReplacements,
		TableIgnores:      r.tableIgnores,
	}
	if move == noMove {
		return noMove, 0, stats, ErrNoLegalMove
	}
	return move, value, stats, nil
}

// run holds the mutable state of a single Solve call's search tree walk.
// outOfTime is shared across every frame of the recursion: once any node
// sets it, every enclosing frame unwinds with its best move so far.
type run struct {
	ctx  context.Context
	eval eval.Evaluator
	tt   *Table

	deadline  time.Time
	outOfTime bool

	nodes             int
	tableHits         int
	tableReplacements int
	tableIgnores      int
}

func (r *run) timeIsUp() bool {
	return !r.deadline.IsZero() && time.Now().After(r.deadline)
}

func (r *run) store(hash board.Hash, move, value, height int, bound Bound) {
	wrote, replaced := r.tt.Store(hash, move, value, height, bound)
	switch {
	case !wrote:
		r.tableIgnores++
	case replaced:
		r.tableReplacements++
	}
}

// candidate is a playable column together with the (already played and
// swapped) resulting position, and its move-ordering sort key.
type candidate struct {
	column int
	child  board.Board
	key    int
}

// bestMove returns the best column to play from b and its negamax value,
// searching to the given height within [alpha, beta]. Returns noMove at
// height 0, on an upper-bound table cutoff, and if no column is playable.
// If time runs out, it returns the best move and value among the children
// searched so far (noMove and minValue if none finished); that result is
// not a value for b and is not stored.
func (r *run) bestMove(b board.Board, height, alpha, beta int) (int, int) {
	hash := b.GetHash()
	if value, move, bound, ok := r.tt.Read(hash, height); ok {
		r.tableHits++
		switch bound {
		case UpperBound:
			if value < alpha {
				return noMove, alpha
			}
		case LowerBound:
			if value >= beta {
				return move, beta
			}
		default: // ExactBound: best move and value already known
			return move, value
		}
	}

	r.nodes++

	if height == 0 {
		value := r.leafValue(b)
		r.store(hash, noMove, value, 0, ExactBound)
		return noMove, value
	}

	movesToDraw := board.Width*board.Height - b.TotalCount()
	var candidates []candidate
	for c := 0; c < board.Width; c++ {
		if !b.CanPlay(c) {
			continue
		}
		child := b
		child.Play(c)
		if child.IsWin() {
			// Utility prefers sooner wins; short-circuit without exploring
			// any other moves.
			value := (movesToDraw + 1) * 1000
			r.store(hash, c, value, height, ExactBound)
			return c, value
		}
		child.Swap()
		candidates = append(candidates, candidate{column: c, child: child})
	}

	if len(candidates) == 0 {
		return noMove, 0
	}

	orderCandidates(r.tt, candidates)

	if height%4 == 0 && r.timeIsUp() {
		r.outOfTime = true
	}

	move := noMove
	value := minValue
	bound := UpperBound
	for _, cand := range candidates {
		_, childValue := r.bestMove(cand.child, height-1, -beta, -alpha)
		if r.outOfTime {
			// Best move found so far; the incomplete value is not stored.
			return move, value
		}
		childValue = -childValue

		if childValue > value {
			value = childValue
			move = cand.column
		}
		if value > alpha {
			alpha = value
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			break
		}
	}

	r.store(hash, move, value, height, bound)
	return move, value
}

// leafValue evaluates a non-winning, non-full leaf position: the evaluator
// is one-sided (scores the current player of the board it is given), so the
// symmetric leaf value is the difference between the two viewpoints.
func (r *run) leafValue(b board.Board) int {
	if b.TotalCount() == board.Width*board.Height {
		return 0
	}
	swapped := b
	swapped.Swap()
	return r.eval.Evaluate(r.ctx, &b) - r.eval.Evaluate(r.ctx, &swapped)
}

// orderCandidates sorts candidates descending by a cheap heuristic: the
// stale exact value stored for the child position (if its hash still
// matches), plus a centre-distance bonus so ties favour the centre column.
func orderCandidates(tt *Table, candidates []candidate) {
	centre := board.Width / 2
	for i := range candidates {
		key := 0
		if v, ok := tt.Peek(candidates[i].child.GetHash()); ok {
			key = v
		}
		key += 100_000 * (centre - abs(candidates[i].column-centre))
		candidates[i].key = key
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].key > candidates[j].key
	})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
