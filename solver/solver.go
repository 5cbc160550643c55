// Package solver exposes the stable, caller-facing entry points over the
// board/eval/search internals: "best move for this position under these
// limits". It is the facade the reference CommandPrompt, CLI and FFI shim
// collaborators sit on top of.
package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/danielmcmillan/connect4ai/internal/board"
	"github.com/danielmcmillan/connect4ai/internal/eval"
	"github.com/danielmcmillan/connect4ai/internal/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(1, 0, 0)

// Version returns the facade's build version, e.g. for diagnostics.
func Version() string {
	return fmt.Sprintf("%v", version)
}

// Solver computes moves for a Connect Four position. The zero value is not
// usable; construct with NewTournamentSolver or NewFixedDepthSolver.
type Solver struct {
	evaluator eval.Evaluator

	// tournament mode
	maxSolveTime          time.Duration
	startDepth, depthStep int
	maxDepth              lang.Optional[int]

	// fixed-depth mode
	fixed bool
	depth int
	prune bool
}

// NewTournamentSolver constructs a Solver that uses iterative deepening, a
// transposition table and move ordering to find the best move within
// maxSolveTime, matching TournamentSolver in the original implementation.
// maxDepth < 0 means unbounded (search until the board would be full).
func NewTournamentSolver(maxSolveTime time.Duration, startDepth, depthStep, maxDepth int) *Solver {
	s := &Solver{
		evaluator:    eval.ThreatAware{},
		maxSolveTime: maxSolveTime,
		startDepth:   startDepth,
		depthStep:    depthStep,
	}
	if maxDepth >= 0 {
		s.maxDepth = lang.Some(maxDepth)
	}
	return s
}

// NewFixedDepthSolver constructs a Solver that searches to exactly depth
// plies with no transposition table, optionally with alpha-beta pruning,
// matching AutomarkedSolver in the original implementation.
func NewFixedDepthSolver(depth int, prune bool) *Solver {
	return &Solver{
		evaluator: eval.MaterialConnections{},
		fixed:     true,
		depth:     depth,
		prune:     prune,
	}
}

// parse parses a board description under the "r is current player"
// convention, swapping if the caller wants the other ("yellow") player's
// point of view.
func parse(description string, yellow bool) (board.Board, error) {
	var b board.Board
	if err := b.SetFromDescription(description); err != nil {
		return board.Board{}, err
	}
	if yellow {
		b.Swap()
	}
	return b, nil
}

// ComputeMove parses description, then returns the column the requested
// colour should play, or -1 if no move could be determined (timeout, parse
// failure already turned into an error, or a full board).
func (s *Solver) ComputeMove(ctx context.Context, description string, yellow bool) (int, error) {
	b, err := parse(description, yellow)
	if err != nil {
		return -1, err
	}

	logw.Infof(ctx, "ComputeMove %s yellow=%v", description, yellow)

	if s.fixed {
		move, _, stats := search.FixedDepth(ctx, b, s.evaluator, s.depth, s.prune)
		logw.Debugf(ctx, "ComputeMove: nodes=%d", stats.NodesExamined)
		return move, nil
	}

	move, _, stats, err := search.Solve(ctx, b, s.evaluator, search.Options{
		MaxSolveTime: s.maxSolveTime,
		StartDepth:   s.startDepth,
		DepthStep:    s.depthStep,
		MaxDepth:     s.maxDepth,
	})
	logw.Debugf(ctx, "ComputeMove: nodes=%d tt=%d/%d/%d", stats.NodesExamined, stats.TableHits, stats.TableReplacements, stats.TableIgnores)
	if err != nil {
		return -1, nil
	}
	return move, nil
}

// Analysis is the richer result of Analyze, reporting enough detail for the
// CLI collaborators (AutoMarked prints the best-move value and node count;
// Tournament only needs the column).
type Analysis struct {
	Column int
	Value  int
	Stats  search.Stats
}

// Analyze is like ComputeMove but also returns the minimax value and search
// statistics of the chosen move, for collaborators that report on them.
func (s *Solver) Analyze(ctx context.Context, description string, yellow bool) (Analysis, error) {
	b, err := parse(description, yellow)
	if err != nil {
		return Analysis{}, err
	}

	if s.fixed {
		move, value, stats := search.FixedDepth(ctx, b, s.evaluator, s.depth, s.prune)
		return Analysis{
			Column: move,
			Value:  value,
			Stats:  search.Stats{NodesExamined: stats.NodesExamined},
		}, nil
	}

	move, value, stats, err := search.Solve(ctx, b, s.evaluator, search.Options{
		MaxSolveTime: s.maxSolveTime,
		StartDepth:   s.startDepth,
		DepthStep:    s.depthStep,
		MaxDepth:     s.maxDepth,
	})
	if err != nil {
		return Analysis{Column: -1, Stats: stats}, nil
	}
	return Analysis{Column: move, Value: value, Stats: stats}, nil
}

// RowForMove parses description and returns the row a piece dropped into
// column would land in (board.Height if the column is full).
func RowForMove(description string, column int) (int, error) {
	var b board.Board
	if err := b.SetFromDescription(description); err != nil {
		return 0, err
	}
	return b.GetFreeRow(column), nil
}

// WinningPieces parses description and returns a board-shaped string
// containing only the winning four-in-a-row cells for the requested
// colour, or ok=false if that colour has not won.
func WinningPieces(description string, yellow bool) (string, bool, error) {
	var b board.Board
	if err := b.SetFromDescription(description); err != nil {
		return "", false, err
	}
	text, ok := b.WinningPieces(yellow)
	return text, ok, nil
}

func (s *Solver) String() string {
	if s.fixed {
		return fmt.Sprintf("Solver[fixed depth=%d prune=%v]", s.depth, s.prune)
	}
	maxDepth := "none"
	if v, ok := s.maxDepth.V(); ok {
		maxDepth = fmt.Sprintf("%d", v)
	}
	return fmt.Sprintf("Solver[tournament maxSolveTime=%v startDepth=%d depthStep=%d maxDepth=%s]",
		s.maxSolveTime, s.startDepth, s.depthStep, maxDepth)
}
