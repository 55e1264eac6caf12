// Package console provides the interactive command loop of hal-l1test. It
// lets an operator list the registered cases and run them by pattern without
// reopening the platform between runs.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/platform-hal/hal-l1test/internal/testharness/engine"
)

// Runner is the part of the test runner the console drives.
type Runner interface {
	Suite() *engine.Suite
	Cases(pattern string) []*engine.TestCase
	RunPattern(ctx context.Context, pattern string) (*engine.SuiteResult, error)
	Last() *engine.SuiteResult
}

// Console handles interactive mode for hal-l1test.
type Console struct {
	runner Runner
	rl     *readline.Instance
	out    io.Writer
}

// New creates a console reading from the terminal.
func New(r Runner) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "hal-l1> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    completer(r.Suite()),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &Console{runner: r, rl: rl, out: rl.Stdout()}, nil
}

// completer offers command names, and group names after "group".
func completer(suite *engine.Suite) *readline.PrefixCompleter {
	var groups []readline.PrefixCompleterInterface
	for _, g := range suite.Groups() {
		groups = append(groups, readline.PcItem(g))
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("groups"),
		readline.PcItem("group", groups...),
		readline.PcItem("run"),
		readline.PcItem("all"),
		readline.PcItem("last"),
		readline.PcItem("rerun"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

// Stdout returns a writer that coordinates with the readline prompt. Use it
// for report and log output while the console is running.
func (c *Console) Stdout() io.Writer {
	return c.out
}

// Run starts the interactive command loop. It returns when the operator
// quits, input ends or ctx is cancelled.
func (c *Console) Run(ctx context.Context) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			return
		}
		if !c.Execute(ctx, line) {
			return
		}
	}
}

// Execute runs one command line and reports whether the loop should go on.
func (c *Console) Execute(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp()

	case "list", "ls", "l":
		c.cmdList(args)

	case "groups", "g":
		c.cmdGroups()

	case "group":
		c.cmdGroup(ctx, args)

	case "run", "r":
		c.cmdRun(ctx, args)

	case "all", "a":
		c.run(ctx, "")

	case "last":
		c.cmdLast()

	case "rerun":
		c.cmdRerun(ctx)

	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false

	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
HAL L1 Test Commands:
  Discovery:
    list [pattern]     - List test cases (optionally matching pattern)
    groups             - List test groups with case counts

  Execution:
    run <pattern>      - Run cases matching pattern (e.g. GetFan*,SetLED/valid)
    group <name>       - Run every case in a group
    all                - Run every case
    rerun              - Run the cases that failed in the last run

  Results:
    last               - Show the summary of the last run

  General:
    help               - Show this help
    quit               - Exit`)
}

// cmdList handles the list command.
func (c *Console) cmdList(args []string) {
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	cases := c.runner.Cases(pattern)
	if len(cases) == 0 {
		fmt.Fprintln(c.out, "No test cases match.")
		return
	}
	for _, tc := range cases {
		fmt.Fprintf(c.out, "  %-45s %-13s %s\n", tc.ID, tc.Group, tc.Description)
	}
	fmt.Fprintf(c.out, "%d test case(s)\n", len(cases))
}

// cmdGroups handles the groups command.
func (c *Console) cmdGroups() {
	counts := make(map[string]int)
	for _, tc := range c.runner.Cases("") {
		counts[tc.Group]++
	}
	for _, g := range c.runner.Suite().Groups() {
		if n := counts[g]; n > 0 {
			fmt.Fprintf(c.out, "  %-13s %d\n", g, n)
		}
	}
}

// cmdGroup handles the group command.
func (c *Console) cmdGroup(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: group <name>")
		return
	}
	var ids []string
	for _, tc := range c.runner.Cases("") {
		if tc.Group == args[0] {
			ids = append(ids, tc.ID)
		}
	}
	if len(ids) == 0 {
		fmt.Fprintf(c.out, "Unknown group: %s (type 'groups' for the list)\n", args[0])
		return
	}
	c.run(ctx, strings.Join(ids, ","))
}

// cmdRun handles the run command.
func (c *Console) cmdRun(ctx context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: run <pattern>")
		fmt.Fprintln(c.out, "  Example: run GetFan*")
		return
	}
	c.run(ctx, strings.Join(args, ","))
}

// cmdLast handles the last command.
func (c *Console) cmdLast() {
	result := c.runner.Last()
	if result == nil {
		fmt.Fprintln(c.out, "No run yet.")
		return
	}
	fmt.Fprintf(c.out, "Run %s: %d passed, %d failed, %d skipped in %v\n",
		result.RunID, result.PassCount, result.FailCount, result.SkipCount, result.Duration)
	if result.InitError != nil {
		fmt.Fprintf(c.out, "  init failed: %v\n", result.InitError)
		return
	}
	for _, id := range failedIDs(result) {
		fmt.Fprintf(c.out, "  FAIL %s\n", id)
	}
}

// cmdRerun handles the rerun command.
func (c *Console) cmdRerun(ctx context.Context) {
	result := c.runner.Last()
	if result == nil {
		fmt.Fprintln(c.out, "No run yet.")
		return
	}
	ids := failedIDs(result)
	if len(ids) == 0 {
		fmt.Fprintln(c.out, "Nothing failed in the last run.")
		return
	}
	c.run(ctx, strings.Join(ids, ","))
}

func (c *Console) run(ctx context.Context, pattern string) {
	if _, err := c.runner.RunPattern(ctx, pattern); err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func failedIDs(result *engine.SuiteResult) []string {
	var ids []string
	for _, tr := range result.Results {
		if tr.State == engine.StateFailed {
			ids = append(ids, tr.TestCase.ID)
		}
	}
	return ids
}
