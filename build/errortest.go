package build

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"sablec/report"
)

// reportErrorDiff compares the lines on which diagnostics were reported
// against the lines tagged with an `// error` comment marker and prints the
// difference.  Used by the compiler's own test suite.
func (c *Compiler) reportErrorDiff() {
	clean := true

	for _, src := range c.cfg.Sources {
		expected := expectedErrorLines(src)
		reported := report.ReportedLines(src)

		reportedSet := make(map[int]bool, len(reported))
		for _, ln := range reported {
			reportedSet[ln] = true
		}

		var diff []string
		for _, ln := range expected {
			if !reportedSet[ln] {
				diff = append(diff, fmt.Sprintf("%s:%d: expected an error, none reported", src, ln))
			}
			delete(reportedSet, ln)
		}

		var extra []int
		for ln := range reportedSet {
			extra = append(extra, ln)
		}
		sort.Ints(extra)
		for _, ln := range extra {
			diff = append(diff, fmt.Sprintf("%s:%d: unexpected error", src, ln))
		}

		for _, line := range diff {
			fmt.Println(line)
			clean = false
		}
	}

	if clean {
		fmt.Println("error test passed")
	}
}

// expectedErrorLines scans a source file for lines carrying the `// error`
// marker.
func expectedErrorLines(path string) []int {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var lines []int
	sc := bufio.NewScanner(f)
	for ln := 1; sc.Scan(); ln++ {
		if strings.Contains(sc.Text(), "// error") {
			lines = append(lines, ln)
		}
	}

	return lines
}
