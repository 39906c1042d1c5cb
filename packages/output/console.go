package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/abdul-hamid-achik/httprun/packages/core/runner"
)

// Formatter renders run results for one output format.
type Formatter interface {
	FormatHeader(version string)
	FormatResult(result *runner.RunResult)
	FormatError(err error)
}

// Flushable is implemented by formatters that accumulate results and
// emit them in one piece at the end of the run.
type Flushable interface {
	Flush() error
}

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("httprun"), version)
}

func (f *ConsoleFormatter) FormatResult(result *runner.RunResult) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Running: "+result.File))

	for _, r := range result.Results {
		name := r.Name
		if name == "" && r.Request != nil {
			name = r.Request.Method + " " + r.Request.URL
		}

		if r.DryRun {
			fmt.Fprintf(f.writer, "  %s %s\n", yellow("-"), name)
			if r.Request != nil {
				fmt.Fprintf(f.writer, "    %s %s\n", r.Request.Method, r.Request.URL)
			}
			continue
		}

		if r.Error != nil && r.Response == nil {
			fmt.Fprintf(f.writer, "  %s %s %s\n", red("x"), name, red(fmt.Sprintf("(%v)", r.Error)))
			continue
		}

		symbol := green("✓")
		if !r.Passed() {
			symbol = red("✗")
		}

		status := ""
		if r.Response != nil {
			status = f.colorStatus(r.Response.StatusCode)
		}
		fmt.Fprintf(f.writer, "  %s %s %s %s\n", symbol, name, status,
			cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))

		if f.verbose && r.Request != nil {
			fmt.Fprintf(f.writer, "    %s %s\n", r.Request.Method, r.Request.URL)
		}

		for _, line := range r.Logs {
			fmt.Fprintf(f.writer, "    LOG %s\n", line)
		}

		for _, tr := range r.Tests {
			if tr.Passed {
				if f.verbose {
					fmt.Fprintf(f.writer, "    %s %s\n", green("PASS"), tr.Name)
				}
				continue
			}
			fmt.Fprintf(f.writer, "    %s %s\n", red("FAIL"), tr.Name)
			if tr.FailureMessage != "" && tr.FailureMessage != tr.Name {
				fmt.Fprintf(f.writer, "         %s\n", tr.FailureMessage)
			}
		}

		if r.Error != nil {
			fmt.Fprintf(f.writer, "    %s %v\n", red("ERROR"), r.Error)
		}
	}

	fmt.Fprintf(f.writer, "\nTests: ")
	if result.TestsPassed > 0 {
		fmt.Fprintf(f.writer, "%s, ", green(fmt.Sprintf("%d passed", result.TestsPassed)))
	}
	if result.TestsFailed > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d failed", result.TestsFailed)))
	}
	if result.Errors > 0 {
		fmt.Fprintf(f.writer, "%s, ", red(fmt.Sprintf("%d errors", result.Errors)))
	}
	fmt.Fprintf(f.writer, "%d total\n", result.TestsPassed+result.TestsFailed)
	fmt.Fprintf(f.writer, "Time:  %dms\n\n", result.Duration.Milliseconds())
}

func (f *ConsoleFormatter) colorStatus(code int) string {
	text := fmt.Sprintf("%d", code)
	switch {
	case code >= 200 && code < 300:
		return color.New(color.FgGreen).Sprint(text)
	case code >= 300 && code < 400:
		return color.New(color.FgYellow).Sprint(text)
	default:
		return color.New(color.FgRed).Sprint(text)
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}
