// Package eval contains static position evaluators for a Board.
package eval

import (
	"context"

	"github.com/danielmcmillan/connect4ai/internal/board"
)

// Evaluator is a static position evaluator. Evaluate must be stateless and
// must never panic for any legal board.
type Evaluator interface {
	// Evaluate returns a score for the position from the current player's
	// point of view. Higher favours the current player. Callers that need a
	// symmetric leaf value compute Evaluate(b) - Evaluate(swapped(b)).
	Evaluate(ctx context.Context, b *board.Board) int
}

// MaterialConnections is the simpler evaluator shape: piece count plus a
// weighted count of unfinished connections, matching the fixed-depth search.
type MaterialConnections struct{}

// Evaluate implements Evaluator.
func (MaterialConnections) Evaluate(_ context.Context, b *board.Board) int {
	return connectionScore(b)
}

// connectionScore computes count(B) + 10*exactly2(B) + 100*exactly3(B) +
// 1000*atLeast4(B) for the current player, shared by both evaluator shapes.
func connectionScore(b *board.Board) int {
	exactly2, exactly3, atLeast4 := b.CountConnections(false)
	return b.Count() + 10*exactly2 + 100*exactly3 + 1000*atLeast4
}

// ThreatAware is the richer evaluator shape used by the competitive search:
// it adds weighted current-player threat terms on top of the connection score.
type ThreatAware struct{}

// Evaluate implements Evaluator. Like MaterialConnections, this is one-sided:
// it scores only the current player's threats, so that callers computing the
// symmetric leaf value as Evaluate(b) - Evaluate(swapped(b)) don't double the
// threat terms against the weights specified for this evaluator.
func (ThreatAware) Evaluate(_ context.Context, b *board.Board) int {
	info := b.GetThreatInfo()

	return 70*info.AllThreats[0] + 100*info.GroundedThreats[0] + 150*info.DoubleThreats[0] + connectionScore(b)
}
