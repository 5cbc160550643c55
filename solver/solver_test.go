package solver_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/danielmcmillan/connect4ai/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func describe(rows ...string) string {
	return strings.Join(rows, ",")
}

func TestComputeMove(t *testing.T) {
	ctx := context.Background()

	t.Run("tournament solver takes an immediate winning move for red", func(t *testing.T) {
		desc := describe(
			".......",
			".......",
			".......",
			".......",
			".......",
			"rrr.y..",
		)
		s := solver.NewTournamentSolver(time.Second, 1, 1, -1)
		move, err := s.ComputeMove(ctx, desc, false)
		require.NoError(t, err)
		assert.Equal(t, 3, move)
	})

	t.Run("yellow's point of view is the swapped board", func(t *testing.T) {
		desc := describe(
			".......",
			".......",
			".......",
			".......",
			".......",
			"yyy.r..",
		)
		s := solver.NewTournamentSolver(time.Second, 1, 1, -1)
		move, err := s.ComputeMove(ctx, desc, true)
		require.NoError(t, err)
		assert.Equal(t, 3, move)
	})

	t.Run("fixed-depth solver takes an immediate winning move", func(t *testing.T) {
		desc := describe(
			".......",
			".......",
			".......",
			".......",
			".......",
			"rrr.y..",
		)
		s := solver.NewFixedDepthSolver(4, true)
		move, err := s.ComputeMove(ctx, desc, false)
		require.NoError(t, err)
		assert.Equal(t, 3, move)
	})

	t.Run("invalid description is rejected", func(t *testing.T) {
		s := solver.NewTournamentSolver(time.Second, 1, 1, -1)
		_, err := s.ComputeMove(ctx, "not a board", false)
		assert.Error(t, err)
	})
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the chosen column and node count", func(t *testing.T) {
		desc := describe(
			".......",
			".......",
			".......",
			".......",
			".......",
			"rrr.y..",
		)
		s := solver.NewFixedDepthSolver(4, true)
		a, err := s.Analyze(ctx, desc, false)
		require.NoError(t, err)
		assert.Equal(t, 3, a.Column)
		assert.Greater(t, a.Value, 0)
		assert.Greater(t, a.Stats.NodesExamined, 0)
	})
}

func TestRowForMove(t *testing.T) {
	desc := describe(
		".......",
		".......",
		".......",
		".......",
		".......",
		"rr.....",
	)

	row, err := solver.RowForMove(desc, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, row)

	row, err = solver.RowForMove(desc, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, row)
}

func TestWinningPieces(t *testing.T) {
	desc := describe(
		".......",
		".......",
		".......",
		".......",
		".......",
		"rrrr...",
	)

	text, ok, err := solver.WinningPieces(desc, false)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, desc, text)

	_, ok, err = solver.WinningPieces(desc, true)
	require.NoError(t, err)
	assert.False(t, ok)
}
