package eval_test

import (
	"context"
	"strings"
	"testing"

	"github.com/danielmcmillan/connect4ai/internal/board"
	"github.com/danielmcmillan/connect4ai/internal/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	var b board.Board
	require.NoError(t, b.SetFromDescription(strings.Join(rows, ",")))
	return &b
}

func TestMaterialConnections(t *testing.T) {
	var e eval.MaterialConnections

	t.Run("empty board scores zero", func(t *testing.T) {
		var b board.Board
		assert.Equal(t, 0, e.Evaluate(context.Background(), &b))
	})

	t.Run("score grows with piece count and connection length", func(t *testing.T) {
		single := mustBoard(t, ".......", ".......", ".......", ".......", ".......", "r......")
		pair := mustBoard(t, ".......", ".......", ".......", ".......", ".......", "rr.....")
		triple := mustBoard(t, ".......", ".......", ".......", ".......", ".......", "rrr....")

		s1 := e.Evaluate(context.Background(), single)
		s2 := e.Evaluate(context.Background(), pair)
		s3 := e.Evaluate(context.Background(), triple)

		assert.Greater(t, s2, s1)
		assert.Greater(t, s3, s2)
	})

	t.Run("only counts the current player's connections", func(t *testing.T) {
		b := mustBoard(t, ".......", ".......", ".......", ".......", ".......", "rr..yy.")
		score := e.Evaluate(context.Background(), b)
		// current player (r) has a pair, other player's (y) pair is not scored here.
		assert.Equal(t, b.Count()+10, score)
	})
}

func TestThreatAware(t *testing.T) {
	var e eval.ThreatAware

	t.Run("empty board scores zero", func(t *testing.T) {
		var b board.Board
		assert.Equal(t, 0, e.Evaluate(context.Background(), &b))
	})

	t.Run("a grounded threat for the current player increases the score", func(t *testing.T) {
		none := mustBoard(t, ".......", ".......", ".......", ".......", ".......", ".......")
		threat := mustBoard(t, ".......", ".......", ".......", ".......", ".......", "rrr....")

		assert.Greater(t,
			e.Evaluate(context.Background(), threat),
			e.Evaluate(context.Background(), none))
	})

	t.Run("a filtered threat does not get credited", func(t *testing.T) {
		// The current player's open three on row 4 threatens column 0 (its
		// only open end; column 4 is blocked by y). The other player holds
		// three stacked in column 0 (rows 0-2), threatening column 0 on row 3
		// - directly beneath the current player's threat cell, so getThreatInfo
		// excludes it.
		shadowed := mustBoard(t,
			".......",
			".rrry..",
			".......",
			"y......",
			"y......",
			"y......",
		)
		require.Equal(t, 0, shadowed.GetThreatInfo().AllThreats[0])

		// Same current-player connection shape, but nothing underneath to
		// shadow the threat.
		unshadowed := mustBoard(t,
			".......",
			".rrry..",
			".......",
			".......",
			".......",
			".......",
		)
		require.Equal(t, 1, unshadowed.GetThreatInfo().AllThreats[0])

		assert.Less(t,
			e.Evaluate(context.Background(), shadowed),
			e.Evaluate(context.Background(), unshadowed))
	})
}
