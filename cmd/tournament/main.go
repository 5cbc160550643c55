// tournament runs a single competitive, time-limited search over a given
// position and prints the chosen column, matching the original Tournament
// program. If the search produces no move, the centre column (3) is printed
// instead of -1; the "skip" column 7 is never printed.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/danielmcmillan/connect4ai/solver"
	"github.com/seekerror/logw"
)

// centreFallback is returned by the original Tournament program whenever the
// search can't produce any move before its time budget runs out.
const centreFallback = 3

func main() {
	ctx := context.Background()

	if len(os.Args) <= 2 {
		logw.Exitf(ctx, "Usage: tournament <description> {r|y}")
	}

	description := os.Args[1]
	yellow := len(os.Args[2]) > 0 && os.Args[2][0] == 'y'

	s := solver.NewTournamentSolver(950*time.Millisecond, 7, 1, -1)
	move, err := s.ComputeMove(ctx, description, yellow)
	if err != nil {
		logw.Exitf(ctx, "Invalid argument: %v", err)
	}
	if move < 0 {
		move = centreFallback
	}

	fmt.Println(move)
}
