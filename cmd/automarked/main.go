// automarked is a fixed-depth solve debugging tool, matching the original
// AutoMarked program: it runs a single fixed-depth search over a given
// position and prints the chosen move's value and the node count.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/danielmcmillan/connect4ai/solver"
	"github.com/seekerror/logw"
)

func main() {
	ctx := context.Background()

	if len(os.Args) <= 4 {
		logw.Exitf(ctx, "Usage: automarked <description> {r|y} {A|_} <depth>")
	}

	description := os.Args[1]
	yellow, err := parseColour(os.Args[2])
	if err != nil {
		logw.Exitf(ctx, "Invalid argument: %v", err)
	}
	prune := os.Args[3] == "A"
	depth, err := strconv.Atoi(os.Args[4])
	if err != nil {
		logw.Exitf(ctx, "Invalid argument: depth %q is not an integer", os.Args[4])
	}

	s := solver.NewFixedDepthSolver(depth, prune)
	a, err := s.Analyze(ctx, description, yellow)
	if err != nil {
		logw.Exitf(ctx, "Invalid argument: %v", err)
	}

	fmt.Printf("%v %v\n", a.Value, a.Stats.NodesExamined)
}

func parseColour(s string) (yellow bool, err error) {
	switch s {
	case "r":
		return false, nil
	case "y":
		return true, nil
	default:
		return false, fmt.Errorf("player %q must be r or y", s)
	}
}
