package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"apiscan/internal/driver"
	"apiscan/internal/observ"
)

// printTimings writes the per-phase sums over all results.
func printTimings(out io.Writer, results []driver.Result) {
	if out == nil {
		return
	}
	reports := make([]observ.Report, 0, len(results))
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
		if r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
	}
	fmt.Fprint(out, observ.Merge(reports...).Summary())
	fmt.Fprintf(out, "  %d file(s), %d from cache\n", len(results), cached)
}

func terminalWidth(f *os.File) int {
	w, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return w
}
