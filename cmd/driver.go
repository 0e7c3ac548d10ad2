// Package cmd is the top-level driver package for the sable compiler: it
// parses the command line, folds in the project manifest, and runs the
// compilation phases.
package cmd

import (
	"os"

	"sablec/build"
	"sablec/report"
)

// RunCompiler is the main entry point for the sablec compiler.  This should
// be called directly from main.
func RunCompiler() int {
	report.InitReporter(report.LogLevelVerbose)

	cfg := &build.Config{}

	// The project manifest runs first so that command-line flags override
	// its values.
	if cwd, err := os.Getwd(); err == nil {
		if err := build.LoadManifest(cwd, cfg); err != nil {
			report.ReportFatal("failed to load %s: %s", build.ManifestFileName, err)
		}
	}

	parseArgs(os.Args[1:], cfg)

	if len(cfg.Sources) == 0 {
		printUsage(1)
	}

	return build.NewCompiler(cfg).Run()
}
