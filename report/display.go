package report

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	successColorFG = pterm.FgLightGreen
	warnColorFG    = pterm.FgYellow
	warnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorColorFG   = pterm.FgRed
	errorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	infoColorFG    = successColorFG
)

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	errorStyleBG.Print("internal compiler error")
	errorColorFG.Println(" " + message)
	fmt.Print("This error was not supposed to happen: please open an issue.\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	errorStyleBG.Print("fatal error")
	errorColorFG.Println(" " + message)
}

// displayInfo displays an informational message.
func displayInfo(message string) {
	infoColorFG.Println(message)
}

// displayCompileMessage displays a compilation error or warning.  The label
// is the string to prefix the message with: eg. "error".
func displayCompileMessage(label, absPath string, span *TextSpan, message string) {
	if label == "error" {
		errorStyleBG.Print(label)
	} else {
		warnStyleBG.Print(label)
	}

	if span == nil {
		fmt.Printf(" %s: %s\n\n", absPath, message)
		return
	}

	fmt.Printf(" %s:%d:%d: %s\n\n", absPath, span.StartLine+1, span.StartCol+1, message)
	displaySourceText(absPath, span)
}

// displayStdError displays a standard Go error.
func displayStdError(absPath string, err error) {
	errorStyleBG.Print("error")
	fmt.Printf(" %s: %s\n\n", absPath, err)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span
// with the erroneous text underlined by carets.
func displaySourceText(absPath string, span *TextSpan) {
	file, err := os.Open(absPath)
	if err != nil {
		// The file was already read once to get here; don't make a missing
		// file for display purposes into a second error.
		return
	}
	defer file.Close()

	// Collect the source lines containing the given source text.
	var lines []string
	sc := bufio.NewScanner(file)
	for ln := 0; sc.Scan(); ln++ {
		if span.StartLine <= ln && ln <= span.EndLine {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}

	if sc.Err() != nil || len(lines) == 0 {
		return
	}

	// Calculate the minimum line indentation.
	minIndent := math.MaxInt
	for _, line := range lines {
		lineIndent := 0
		for _, c := range line {
			if c == ' ' {
				lineIndent++
			} else {
				break
			}
		}

		if lineIndent < minIndent {
			minIndent = lineIndent
		}
	}

	// Generate the format string for line numbers.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		infoColorFG.Print(fmt.Sprintf(lineNumFmtStr, i+span.StartLine+1))
		fmt.Println(line[minIndent:])

		fmt.Print(strings.Repeat(" ", maxLineNumLen), " | ")

		// Underlining starts at the start column on the first line and at
		// column zero on every continuation line.
		var caretPrefixCount int
		if i == 0 {
			caretPrefixCount = span.StartCol - minIndent
		}

		// Underlining runs to the end of every line but the last, where it
		// stops at the end column.
		caretSuffixCount := 0
		if i == len(lines)-1 {
			caretSuffixCount = len(line) - span.EndCol - 1
		}

		caretCount := len(line) - caretSuffixCount - caretPrefixCount - minIndent
		if caretCount < 1 {
			caretCount = 1
		}

		fmt.Print(strings.Repeat(" ", caretPrefixCount))
		errorColorFG.Println(strings.Repeat("^", caretCount))
	}

	fmt.Println()
}
