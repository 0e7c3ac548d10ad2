package cmd

import (
	"fmt"
	"os"
	"strings"

	"sablec/build"
	"sablec/report"
)

const usage = `Usage: sablec [flags|options] source.sbl ... [- program-args]

Flags:
------
-c         Compile to native code; the program is interpreted otherwise.
-d         Debug: disable optimization and link the debug runtime.
-e         Error-test mode: expect lines marked with an error comment to
           report errors and emit a diff report at the end.
-p         Enable ref-count profiling hooks.
-r         Pessimistically insert ref-counts everywhere.
-u         Unsafe mode: skip runtime ref-count checks.
-v         Print the toolchain invocation.
-cpp       Stop after emitting target source.
-crt       Use the platform C runtime allocator.
-typeset   Print computed destruction sets per method and class.
-h         Display usage information (ie. this text).

Options:
--------
-o name    Sets the output basename.  Defaults to the first source basename
           without its extension.

A dash token - terminates the source-file list; the remaining tokens become
program arguments.  Files with the target source extension are added to the
verbatim include list.
`

// printUsage prints the usage message and exits with the given code.
func printUsage(exitCode int) {
	fmt.Print(usage, "\n")
	os.Exit(exitCode)
}

// argumentError displays an argument error and exits the program.
func argumentError(message string, args ...interface{}) {
	fmt.Print("argument error: ", fmt.Sprintf(message, args...), "\n\n")
	printUsage(1)
}

// parseArgs assembles the compiler configuration from the command line.
func parseArgs(args []string, cfg *build.Config) {
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if arg == "-" {
			cfg.ProgramArgs = append(cfg.ProgramArgs, args[i+1:]...)
			return
		}

		if strings.HasPrefix(arg, "-") {
			switch arg[1:] {
			case "h", "-help":
				printUsage(0)
			case "c":
				cfg.Compile = true
			case "d":
				cfg.Debug = true
			case "e":
				cfg.ErrorTest = true
			case "p":
				cfg.Profile = true
			case "r":
				cfg.Pessimistic = true
			case "u":
				cfg.Unsafe = true
			case "v":
				cfg.Verbose = true
			case "cpp":
				cfg.EmitOnly = true
			case "crt":
				cfg.CRTAlloc = true
			case "typeset":
				cfg.TypeSet = true
			case "o":
				if i+1 >= len(args) {
					argumentError("option o requires an argument")
				}

				i++
				cfg.OutputName = args[i]
			case "ll", "-loglevel":
				if i+1 >= len(args) {
					argumentError("option ll requires an argument")
				}

				i++
				initLogLevel(args[i])
			default:
				argumentError("unknown flag: %s", arg)
			}

			continue
		}

		switch {
		case strings.HasSuffix(arg, ".sbl"):
			cfg.Sources = append(cfg.Sources, arg)
		case strings.HasSuffix(arg, ".cpp"), strings.HasSuffix(arg, ".h"):
			cfg.Includes = append(cfg.Includes, arg)
		default:
			cfg.ProgramArgs = append(cfg.ProgramArgs, arg)
		}
	}
}

func initLogLevel(value string) {
	switch value {
	case "silent":
		report.InitReporter(report.LogLevelSilent)
	case "error":
		report.InitReporter(report.LogLevelError)
	case "warn":
		report.InitReporter(report.LogLevelWarn)
	case "verbose":
		report.InitReporter(report.LogLevelVerbose)
	default:
		argumentError("invalid log level")
	}
}
