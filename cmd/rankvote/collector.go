package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"rankvote/contexts/election-core/irv-engine/domain/entities"
)

var errInputClosed = errors.New("input ended before all ballots were collected")

// ballotCollector prompts for a voter count and one full ranking per voter.
// Invalid entries re-prompt instead of aborting; the election only ever sees
// rankings that pass its own validation.
type ballotCollector struct {
	election *entities.Election
	scanner  *bufio.Scanner
	out      io.Writer
}

func newBallotCollector(election *entities.Election, in io.Reader, out io.Writer) *ballotCollector {
	return &ballotCollector{
		election: election,
		scanner:  bufio.NewScanner(in),
		out:      out,
	}
}

func (c *ballotCollector) collect() error {
	voters, err := c.promptVoterCount()
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "\nCandidates: %s\n", strings.Join(c.election.Candidates, ", "))
	fmt.Fprintln(c.out, "Rank candidates from most preferred (1) to least preferred.")

	for voter := 1; voter <= voters; voter++ {
		fmt.Fprintf(c.out, "\nVoter %d:\n", voter)
		ranking, err := c.promptRanking()
		if err != nil {
			return err
		}
		if err := c.election.AddBallot(entities.Ballot{Ranking: ranking}); err != nil {
			// The prompt loop only admits valid rankings; surface anything
			// that still slips through.
			return err
		}
	}
	return nil
}

func (c *ballotCollector) promptVoterCount() (int, error) {
	for {
		fmt.Fprint(c.out, "Number of voters: ")
		line, err := c.readLine()
		if err != nil {
			return 0, err
		}
		voters, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil || voters < 0 {
			fmt.Fprintln(c.out, "Invalid number of voters.")
			continue
		}
		return voters, nil
	}
}

func (c *ballotCollector) promptRanking() ([]string, error) {
	ranking := make([]string, 0, len(c.election.Candidates))
	chosen := make(map[string]bool, len(c.election.Candidates))
	for rank := 1; rank <= len(c.election.Candidates); rank++ {
		for {
			fmt.Fprintf(c.out, "  Rank %d: ", rank)
			line, err := c.readLine()
			if err != nil {
				return nil, err
			}
			choice := strings.TrimSpace(line)
			if !c.isCandidate(choice) || chosen[choice] {
				fmt.Fprintln(c.out, "  Invalid choice. Must be a candidate not already ranked.")
				continue
			}
			ranking = append(ranking, choice)
			chosen[choice] = true
			break
		}
	}
	return ranking, nil
}

func (c *ballotCollector) isCandidate(name string) bool {
	for _, candidate := range c.election.Candidates {
		if candidate == name {
			return true
		}
	}
	return false
}

func (c *ballotCollector) readLine() (string, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return c.scanner.Text(), nil
}

func sortedCandidates(counts map[string]int) []string {
	names := make([]string, 0, len(counts))
	for candidate := range counts {
		names = append(names, candidate)
	}
	sort.Strings(names)
	return names
}

func now() time.Time {
	return time.Now().UTC()
}
