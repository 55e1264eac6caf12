// Command hal-l1test runs the Level 1 conformance suite against a platform
// HAL.
//
// Each HAL entry point is exercised in isolation with valid inputs, absent
// outputs and out of range arguments. Expected values come from the platform
// fixture (platform_config) and an optional expectation profile.
//
// Usage:
//
//	hal-l1test [flags] [test-pattern]
//
// Flags:
//
//	-c, --config string       Platform fixture JSON (default "./platform_config")
//	-p, --profile string      Expectation profile YAML (default: built in)
//	    --hal string          HAL driver to test (default "sim")
//	    --timeout duration    Per test timeout, 0 disables (default 30s)
//	-v, --verbose             Per assertion output and HAL call logging
//	    --json                Output results as JSON
//	    --junit               Output results as JUnit XML
//	    --trace string        File path for the CBOR call trace
//	-g, --group strings       Run only these groups (repeatable, comma separated)
//	    --skip-group strings  Skip these groups
//	    --stop-on-failure     Stop after the first failed test
//	-l, --list                List matching test cases and exit
//	-i, --interactive         Start the interactive console
//
// Examples:
//
//	# Run the whole suite against the simulator
//	hal-l1test --config ./testdata/platform_config
//
//	# Run the thermal group with a vendor profile and a call trace
//	hal-l1test -g thermal -p vendor.yaml --trace run.trace
//
//	# Run specific entry points
//	hal-l1test "GetFan*,SetLED/valid"
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/platform-hal/hal-l1test/internal/fixture"
	"github.com/platform-hal/hal-l1test/internal/testharness/console"
	"github.com/platform-hal/hal-l1test/internal/testharness/runner"
	"github.com/platform-hal/hal-l1test/pkg/hal"
	"github.com/platform-hal/hal-l1test/pkg/hal/sim"
)

var (
	configPath    = pflag.StringP("config", "c", fixture.DefaultPath, "Platform fixture JSON")
	profilePath   = pflag.StringP("profile", "p", "", "Expectation profile YAML (default: built in)")
	driver        = pflag.String("hal", sim.DriverName, "HAL driver to test")
	timeout       = pflag.Duration("timeout", 30*time.Second, "Per test timeout, 0 disables")
	verbose       = pflag.BoolP("verbose", "v", false, "Per assertion output and HAL call logging")
	jsonOut       = pflag.Bool("json", false, "Output results as JSON")
	junitOut      = pflag.Bool("junit", false, "Output results as JUnit XML")
	traceFile     = pflag.String("trace", "", "File path for the CBOR call trace")
	groups        = pflag.StringSliceP("group", "g", nil, "Run only these groups")
	skipGroups    = pflag.StringSlice("skip-group", nil, "Skip these groups")
	stopOnFailure = pflag.Bool("stop-on-failure", false, "Stop after the first failed test")
	list          = pflag.BoolP("list", "l", false, "List matching test cases and exit")
	interactive   = pflag.BoolP("interactive", "i", false, "Start the interactive console")
)

func main() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [test-pattern]\n\n", os.Args[0])
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nHAL drivers: %s\n", strings.Join(hal.Drivers(), ", "))
	}
	pflag.Parse()

	pattern := ""
	if pflag.NArg() > 0 {
		pattern = pflag.Arg(0)
	}

	if *jsonOut && *junitOut {
		fmt.Fprintln(os.Stderr, "Error: --json and --junit are mutually exclusive")
		pflag.Usage()
		os.Exit(1)
	}

	outputFormat := "text"
	if *jsonOut {
		outputFormat = "json"
	} else if *junitOut {
		outputFormat = "junit"
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Setup logging for text output
	if outputFormat == "text" && !*list {
		log.SetFlags(log.Ltime)
		if *verbose {
			log.SetFlags(log.Ltime | log.Lmicroseconds)
		}
		printBanner()
		log.Printf("HAL: %s", *driver)
		log.Printf("Fixture: %s", *configPath)
		if *profilePath != "" {
			log.Printf("Profile: %s", *profilePath)
		}
		if pattern != "" {
			log.Printf("Pattern: %s", pattern)
		}
		if *traceFile != "" {
			log.Printf("Call trace to: %s", *traceFile)
		}
		log.Println()
	}

	config := &runner.Config{
		FixturePath:        *configPath,
		ProfilePath:        *profilePath,
		Platform:           *driver,
		Pattern:            pattern,
		Groups:             *groups,
		ExcludeGroups:      *skipGroups,
		Timeout:            *timeout,
		Verbose:            *verbose,
		Output:             os.Stdout,
		OutputFormat:       outputFormat,
		TraceFile:          *traceFile,
		StopOnFirstFailure: *stopOnFailure,
		Logger:             logger,
	}

	r, err := runner.New(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, r, pattern)
	cancel()
	if err := r.Close(); err != nil {
		log.Printf("Error: close: %v", err)
	}
	os.Exit(code)
}

func run(ctx context.Context, r *runner.Runner, pattern string) int {
	if *list {
		cases := r.Cases(pattern)
		for _, tc := range cases {
			fmt.Printf("%-45s %-13s %s\n", tc.ID, tc.Group, tc.Name)
		}
		if len(cases) == 0 {
			return 1
		}
		return 0
	}

	if *interactive {
		c, err := console.New(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		c.Run(ctx)
		return 0
	}

	result, err := r.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if result.Failed() {
		return 1
	}
	return 0
}

func printBanner() {
	fmt.Print(`
 _   _    _    _       _     _   _____         _
| | | |  / \  | |     | |   / | |_   _|__  ___| |_
| |_| | / _ \ | |     | |   | |   | |/ _ \/ __| __|
|  _  |/ ___ \| |___  | |___| |   | |  __/\__ \ |_
|_| |_/_/   \_\_____| |_____|_|   |_|\___||___/\__|

Platform HAL Level 1 Test Runner
`)
}
