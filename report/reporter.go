package report

import (
	"fmt"
	"os"
	"sort"
)

// Reporter is responsible for reporting errors, warnings, and other messages
// to the user during compilation.  The reporter respects the set log level and
// records the file and line of every diagnostic so that error-test mode can
// compare reported lines against expected lines.
type Reporter struct {
	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// The number of errors reported so far.
	errorCount int

	// The lines (per absolute file path) on which diagnostics were reported.
	// Only populated when line recording is enabled (error-test mode).
	reportedLines map[string][]int

	// The diagnostic messages recorded alongside the lines.
	recordedMessages []string

	// Whether reported lines should be recorded rather than displayed.
	recording bool
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays only warnings and errors to the user.
	LogLevelVerbose        // Displays all compilation messages (default).
)

// rep is the global reporter instance.
var rep = &Reporter{logLevel: LogLevelVerbose}

// InitReporter initializes the global error reporter to the given log level.
func InitReporter(logLevel int) {
	rep = &Reporter{logLevel: logLevel}
}

// SetRecording turns on diagnostic line recording: compile errors are stored
// instead of printed.  Used by error-test mode.
func SetRecording(recording bool) {
	rep.recording = recording
	if rep.reportedLines == nil {
		rep.reportedLines = make(map[string][]int)
	}
}

// ShouldProceed indicates whether any errors have been reported that should
// stop compilation from moving to the next phase.
func ShouldProceed() bool {
	return rep.errorCount == 0
}

// ErrorCount returns the number of errors reported so far.
func ErrorCount() int {
	return rep.errorCount
}

// RecordedMessages returns the diagnostic messages recorded while line
// recording was enabled.
func RecordedMessages() []string {
	return rep.recordedMessages
}

// ReportedLines returns the sorted, deduplicated list of lines (one-indexed)
// on which diagnostics were reported in the given file.
func ReportedLines(absPath string) []int {
	seen := make(map[int]struct{})
	var lines []int
	for _, ln := range rep.reportedLines[absPath] {
		if _, ok := seen[ln]; !ok {
			seen[ln] = struct{}{}
			lines = append(lines, ln)
		}
	}
	sort.Ints(lines)
	return lines
}

// -----------------------------------------------------------------------------

// ReportCompileError reports a compilation error: ie. erroneous input code.
// The span may be nil in which case no position information is printed.
// Checking continues past a failed member, so this does not exit.
func ReportCompileError(absPath string, span *TextSpan, message string, args ...interface{}) {
	rep.errorCount++

	if rep.recording {
		rep.recordedMessages = append(rep.recordedMessages, fmt.Sprintf(message, args...))
		if span != nil {
			rep.reportedLines[absPath] = append(rep.reportedLines[absPath], span.StartLine+1)
		}
		return
	}

	if rep.logLevel > LogLevelSilent {
		displayCompileMessage("error", absPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportCompileWarning reports a compilation warning.
func ReportCompileWarning(absPath string, span *TextSpan, message string, args ...interface{}) {
	if rep.logLevel >= LogLevelWarn && !rep.recording {
		displayCompileMessage("warning", absPath, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a standard Go error associated with a file.
func ReportStdError(absPath string, err error) {
	rep.errorCount++

	if rep.logLevel > LogLevelSilent {
		displayStdError(absPath, err)
	}
}

// ReportFatal reports a fatal error and exits.  These are expected errors
// that generally result from invalid configuration: a missing source file, a
// toolchain that can't be found, etc.
func ReportFatal(message string, args ...interface{}) {
	if rep.logLevel > LogLevelSilent {
		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportICE reports an internal compiler error.  These result from a bug in
// the compiler itself: they are not intended to ever happen and are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	displayICE(fmt.Sprintf(message, args...))
	os.Exit(-1)
}

// ReportInfo displays an informational message if the log level is verbose.
func ReportInfo(message string, args ...interface{}) {
	if rep.logLevel == LogLevelVerbose {
		displayInfo(fmt.Sprintf(message, args...))
	}
}
