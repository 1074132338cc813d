// Command lpf2-trace views and summarises pipeline traces written by
// lpf2-descgen --trace.
//
// Usage:
//
//	lpf2-trace <command> [flags] <file.ctrace>
//
// Commands:
//
//	view     View trace events in human-readable format
//	stats    Show statistics about the trace
//
// Examples:
//
//	# View all events
//	lpf2-trace view run.ctrace
//
//	# View only emitter events
//	lpf2-trace view -stage emit run.ctrace
//
//	# View what happened to one device
//	lpf2-trace view -device 0x25 run.ctrace
//
//	# Show statistics
//	lpf2-trace stats run.ctrace
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lpf2-protocol/lpf2-go/cmd/lpf2-trace/commands"
)

const usage = `lpf2-trace - LPF2 descriptor pipeline trace viewer

Usage:
  lpf2-trace <command> [flags] <file.ctrace>

Commands:
  view     View trace events in human-readable format
  stats    Show statistics about the trace

Use "lpf2-trace <command> -help" for more information about a command.
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

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lpf2-trace view - View trace events in human-readable format

Usage:
  lpf2-trace view [flags] <file.ctrace>

Flags:
`)
		fs.PrintDefaults()
	}

	runID := fs.String("run", "", "Filter by run ID")
	stage := fs.String("stage", "", "Filter by stage (parse, emit, run)")
	action := fs.String("action", "", "Filter by action (e.g. field_set, error)")
	device := fs.String("device", "", "Filter by device id (e.g. 0x25)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter, err := commands.BuildFilter(*runID, *stage, *action, *device)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := commands.RunView(fs.Arg(0), filter, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `lpf2-trace stats - Show statistics about the trace

Usage:
  lpf2-trace stats <file.ctrace>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunStats(fs.Arg(0), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
