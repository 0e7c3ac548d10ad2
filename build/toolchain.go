package build

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"sablec/report"
)

// invokeToolchain compiles the emitted translation unit with the configured
// C++ toolchain.  Toolchain output is captured and surfaced verbatim on
// failure.
func (c *Compiler) invokeToolchain(cppPath string) int {
	args := []string{"-o", c.cfg.OutputName, cppPath}

	if c.cfg.Debug {
		args = append(args, "-g", "-O0")
	} else {
		args = append(args, "-O2")
	}

	if c.cfg.Verbose {
		fmt.Printf("%s %s\n", c.cfg.Toolchain, strings.Join(args, " "))
	}

	captured, err := os.CreateTemp("", "sablec-cc-*.log")
	if err != nil {
		report.ReportFatal("failed to create toolchain log: %s", err)
	}
	defer os.Remove(captured.Name())

	cmd := exec.Command(c.cfg.Toolchain, args...)
	cmd.Stdout = captured
	cmd.Stderr = captured

	if err := cmd.Run(); err != nil {
		captured.Close()

		output, _ := os.ReadFile(captured.Name())
		fmt.Fprint(os.Stderr, string(output))
		report.ReportFatal("toolchain failed: %s", err)
	}
	captured.Close()

	c.removeArtifacts()
	return 0
}

// removeArtifacts deletes the transient object and manifest artifacts some
// toolchains leave behind.
func (c *Compiler) removeArtifacts() {
	for _, ext := range []string{".o", ".obj", ".exp", ".lib", ".manifest"} {
		os.Remove(c.cfg.OutputName + ext)
	}
}
