// Command hal-trace is a tool for viewing and analyzing HAL call traces.
//
// Trace files are created by hal-l1test with the --trace flag. Each record is
// one HAL call, one test outcome or one run boundary, encoded as CBOR.
//
// Usage:
//
//	hal-trace <command> [flags] <file.trace>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSONL or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show per entry point and per run statistics
//
// Examples:
//
//	# View all failing calls
//	hal-trace view --status error run.trace
//
//	# View calls made by one test
//	hal-trace view --test GetFanSpeed/invalid_fan run.trace
//
//	# Export to CSV
//	hal-trace export --format csv -o run.csv run.trace
//
//	# Keep only one run
//	hal-trace filter --run-id 3f2a... -o one.trace run.trace
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/platform-hal/hal-l1test/cmd/hal-trace/commands"
)

const usage = `hal-trace - HAL Call Trace Analyzer

Usage:
  hal-trace <command> [flags] <file.trace>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSONL or CSV format
  filter   Filter trace file and write to new file
  stats    Show per entry point and per run statistics

Use "hal-trace <command> --help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a command flag set with the shared selection flags.
func newFlagSet(name, summary string) (*pflag.FlagSet, *commands.FilterOptions) {
	fs := pflag.NewFlagSet(name, pflag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "hal-trace %s - %s\n\nUsage:\n  hal-trace %s [flags] <file.trace>\n\nFlags:\n", name, summary, name)
		fs.PrintDefaults()
	}

	opts := &commands.FilterOptions{}
	fs.StringVar(&opts.RunID, "run-id", "", "Filter by run ID")
	fs.StringVar(&opts.TestID, "test", "", "Filter by test ID")
	fs.StringVar(&opts.EntryPoint, "entry-point", "", "Filter by HAL entry point")
	fs.StringVar(&opts.Status, "status", "", "Filter calls by status (ok, error)")
	fs.StringVar(&opts.Category, "category", "", "Filter by category (call, test, run)")
	fs.StringVar(&opts.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&opts.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return fs, opts
}

// tracePath parses args and returns the single positional trace file.
func tracePath(fs *pflag.FlagSet, args []string) string {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs, opts := newFlagSet("view", "View trace file in human-readable format")
	path := tracePath(fs, args)

	if err := commands.RunView(path, *opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs, opts := newFlagSet("export", "Export trace file to JSONL or CSV format")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.StringP("output", "o", "", "Output file (default: stdout)")
	path := tracePath(fs, args)

	if err := commands.RunExport(path, *format, *output, *opts); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs, opts := newFlagSet("filter", "Filter trace file and write to new file")
	output := fs.StringP("output", "o", "", "Output file (required)")
	path := tracePath(fs, args)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunFilter(path, *output, *opts, os.Stdout); err != nil {
		fail(err)
	}
}

func runStats(args []string) {
	fs, opts := newFlagSet("stats", "Show per entry point and per run statistics")
	path := tracePath(fs, args)

	if err := commands.RunStatsCommand(path, *opts, os.Stdout); err != nil {
		fail(err)
	}
}
