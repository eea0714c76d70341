package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
	domainerrors "rankvote/contexts/election-core/irv-engine/domain/errors"
)

// Interactive single-election runner: candidate names come from argv, every
// voter types a full ranking on stdin, and the runoff result is printed.
func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: rankvote CANDIDATE CANDIDATE [CANDIDATE ...]")
		os.Exit(1)
	}
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, domainerrors.ErrUndecidableElection) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "rankvote:", err)
		os.Exit(1)
	}
}

func run(candidates []string, in io.Reader, out io.Writer) error {
	election, err := entities.NewElection("local", "command line election", candidates, now())
	if err != nil {
		return err
	}

	collector := newBallotCollector(election, in, out)
	if err := collector.collect(); err != nil {
		return err
	}

	winner, err := election.RunElection(now())
	reportRounds(out, election.Rounds)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUndecidableElection) {
			fmt.Fprintln(out, "\nNo winner: every remaining candidate is tied.")
		}
		return err
	}
	fmt.Fprintf(out, "\nWinner: %s\n", winner)
	return nil
}

func reportRounds(out io.Writer, rounds []entities.RoundResult) {
	for _, round := range rounds {
		fmt.Fprintf(out, "\nRound %d (%d votes counted):\n", round.Round, round.TotalVotes)
		for _, candidate := range sortedCandidates(round.Counts) {
			fmt.Fprintf(out, "  %s: %d\n", candidate, round.Counts[candidate])
		}
		if round.Eliminated != "" {
			fmt.Fprintf(out, "  eliminated: %s\n", round.Eliminated)
		}
	}
}
