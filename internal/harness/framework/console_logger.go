package framework

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/fatih/color"
)

var (
	failColor = color.New(color.FgRed, color.Bold)
	passColor = color.New(color.FgGreen)
	skipColor = color.New(color.FgYellow)
	nameColor = color.New(color.Bold)
)

// ConsoleTestLogger prints progress as tests run. Output defaults to stdout.
type ConsoleTestLogger struct {
	Out                  io.Writer
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *ConsoleTestLogger) TestStarted(id TestID) {
	nameColor.Fprintf(c.out(), "[%s]\n", id)
}

func (c *ConsoleTestLogger) TestError(id TestID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		failColor.Fprintf(c.out(), "  %s\n", line)
	}
}

func (c *ConsoleTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	if failed {
		failColor.Fprintf(c.out(), "  FAILED: %s\n", id)
	} else {
		passColor.Fprintf(c.out(), "  PASSED\n")
	}
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(c.out(), "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) TestSkipped(id TestID, reason string) {
	if reason == "" {
		skipColor.Fprintf(c.out(), "  SKIPPED: %s\n", id)
	} else {
		skipColor.Fprintf(c.out(), "  SKIPPED: %s (%s)\n", id, reason)
	}
}

// PrintResults writes a summary of the run followed by the failures.
func PrintResults(w io.Writer, results Results) {
	if results.OK() {
		passColor.Fprintf(w, "All tests passed (%d)\n", results.Passed())
		return
	}
	failColor.Fprintf(w, "FAILED TESTS (%d of %d):\n", len(results.Failures), len(results.Tests))
	for _, f := range results.Failures {
		fmt.Fprintf(w, "  * %s\n", f.TestID)
		for _, e := range f.Errors {
			fmt.Fprintf(w, "      %s\n", strings.SplitN(e.Error(), "\n", 2)[0])
		}
	}
}

// CommandLine builds a shell-quoted command, used to print the command that re-runs failed tests.
type CommandLine []string

func (b *CommandLine) Add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b CommandLine) String() string {
	return strings.Join(b, " ")
}

// RerunCommand returns base plus one --run flag per failed test, or "" if nothing failed.
// Names are anchored so only the failed tests are selected.
func RerunCommand(base []string, results Results) string {
	if results.OK() {
		return ""
	}
	var cmd CommandLine
	cmd.Add(base...)
	for _, f := range results.Failures {
		cmd.Add("--run", "^"+regexp.QuoteMeta(f.TestID.String())+"$")
	}
	return cmd.String()
}
