package search

import (
	"context"

	"github.com/danielmcmillan/connect4ai/internal/board"
	"github.com/danielmcmillan/connect4ai/internal/eval"
)

// FixedDepthStats reports counters for a single FixedDepth call.
type FixedDepthStats struct {
	NodesExamined int
}

// FixedDepth searches to exactly maxDepth plies with no transposition
// table, optionally with alpha-beta pruning, matching the simpler
// automarkedsolver.cpp algorithm. It returns noMove if the position is
// already decided (value 10000 if the current player has four in a row,
// -10000 if the other player has) or full (value 0), and also when maxDepth
// is 0 (value is the static evaluation).
func FixedDepth(ctx context.Context, b board.Board, e eval.Evaluator, maxDepth int, prune bool) (int, int, FixedDepthStats) {
	r := &fixedDepthRun{ctx: ctx, eval: e, maxDepth: maxDepth, prune: prune}
	move, value := r.bestMove(b, 0, minValue, maxValue)
	return move, value, FixedDepthStats{NodesExamined: r.nodes}
}

type fixedDepthRun struct {
	ctx      context.Context
	eval     eval.Evaluator
	maxDepth int
	prune    bool
	nodes    int
}

func (r *fixedDepthRun) bestMove(b board.Board, depth, alpha, beta int) (int, int) {
	r.nodes++

	other := b
	other.Swap()

	switch {
	case b.IsWin():
		// The current player already has four in a row - unreachable in
		// practice, since a win ends the game on the move that creates it.
		return noMove, 10000
	case other.IsWin():
		return noMove, -10000
	case b.TotalCount() == board.Width*board.Height:
		return noMove, 0
	}

	if depth == r.maxDepth {
		return noMove, r.eval.Evaluate(r.ctx, &b) - r.eval.Evaluate(r.ctx, &other)
	}

	move := noMove
	best := minValue
	for c := 0; c < board.Width; c++ {
		if !b.CanPlay(c) {
			continue
		}
		child := b
		child.Play(c)
		child.Swap()

		_, value := r.bestMove(child, depth+1, -beta, -alpha)
		value = -value

		if value > best {
			best = value
			move = c
		}

		if r.prune {
			if value > alpha {
				alpha = value
			}
			if alpha >= beta {
				break
			}
		}
	}

	return move, best
}
