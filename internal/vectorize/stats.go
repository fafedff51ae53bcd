package vectorize

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Stats collects a run's telemetry: a histogram of accepted PackList
// sizes bucketed at 2, 3, 4 and "5 or more", plus the running count of
// blocks/functions visited and packs actually rewritten. Trace, when
// set, logs every accepted pack before it is rewritten.
type Stats struct {
	// Sizes[n] counts accepted PackLists of exactly n pairs for n in
	// [0,4]; Sizes[5] buckets every list of 5 or more pairs.
	Sizes [6]int

	Blocks     int
	Functions  int
	Vectorized int

	Trace bool
	Logf  func(format string, args ...interface{})

	out io.Writer
}

// NewStats returns a Stats ready for use, logging to os.Stderr unless
// overridden.
func NewStats() *Stats {
	s := &Stats{out: os.Stderr}
	s.Logf = func(format string, args ...interface{}) {
		fmt.Fprintf(s.out, format+"\n", args...)
	}
	return s
}

// recordPack bumps the size histogram for an accepted (about to be
// rewritten) PackList of the given pair count.
func (s *Stats) recordPack(pairs int) {
	idx := pairs
	if idx > 5 {
		idx = 5
	}
	if idx < 0 {
		idx = 0
	}
	s.Sizes[idx]++
	s.Vectorized++
}

// Report prints the "SIZE: Count" table to stdout after a module pass
// completes. Diagnostics go to stderr through Logf; the table itself is
// the pass's output. Only the meaningful buckets (2 through 5+) are
// printed — a PackList is never smaller than two pairs.
func (s *Stats) Report() {
	s.report(os.Stdout)
}

func (s *Stats) report(w io.Writer) {
	header := color.New(color.FgCyan, color.Bold).SprintFunc()
	count := color.New(color.FgGreen).SprintFunc()
	zero := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(w, header("SLP vectorization summary"))
	fmt.Fprintf(w, "functions visited:\t%d\n", s.Functions)
	fmt.Fprintf(w, "blocks visited:\t%d\n", s.Blocks)
	fmt.Fprintf(w, "packs rewritten:\t%d\n", s.Vectorized)
	fmt.Fprintln(w, header("SIZE:\tCOUNT"))
	for n := 2; n < len(s.Sizes); n++ {
		c := s.Sizes[n]
		label := fmt.Sprintf("%d", n)
		if n == 5 {
			label = "5+"
		}
		if c == 0 {
			fmt.Fprintf(w, "%s:\t%s\n", label, zero("0"))
			continue
		}
		fmt.Fprintf(w, "%s:\t%s\n", label, count(fmt.Sprintf("%d", c)))
	}
}
