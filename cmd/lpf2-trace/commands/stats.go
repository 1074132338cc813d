package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/lpf2-protocol/lpf2-go/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents    int
	EventsByStage  map[log.Stage]int
	EventsByAction map[log.Action]int
	Runs           map[string]*RunSummary
	Errors         int
	TimeRange      struct {
		Start time.Time
		End   time.Time
	}
}

// RunSummary holds statistics for a single generator run.
type RunSummary struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Devices   map[uint64]bool
	Blocks    int
	Failed    bool

	// Started and Done record the FileLogger run markers. A run that
	// started but never finished was interrupted.
	Started bool
	Done    bool
}

// Status summarises how the run ended.
func (r *RunSummary) Status() string {
	switch {
	case r.Failed:
		return "failed"
	case r.Started && !r.Done:
		return "incomplete"
	default:
		return "ok"
	}
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := collectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func collectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByStage:  make(map[log.Stage]int),
		EventsByAction: make(map[log.Action]int),
		Runs:           make(map[string]*RunSummary),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByStage[event.Stage]++
		stats.EventsByAction[event.Action]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		run, ok := stats.Runs[event.RunID]
		if !ok {
			run = &RunSummary{
				FirstSeen: event.Timestamp,
				LastSeen:  event.Timestamp,
				Devices:   make(map[uint64]bool),
			}
			stats.Runs[event.RunID] = run
		}
		run.Events++
		if event.Timestamp.After(run.LastSeen) {
			run.LastSeen = event.Timestamp
		}
		switch event.Action {
		case log.ActionRunStart:
			run.Started = true
		case log.ActionRunDone:
			run.Done = true
		case log.ActionDeviceStart:
			if event.DeviceID != nil {
				run.Devices[*event.DeviceID] = true
			}
		case log.ActionBlockEmitted:
			run.Blocks++
		}

		if event.Error != nil {
			stats.Errors++
			run.Failed = true
		}
	}

	return stats, nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== LPF2 Descriptor Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Stage:")
	for _, stage := range []log.Stage{log.StageRun, log.StageParse, log.StageEmit} {
		if count := stats.EventsByStage[stage]; count > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", stage.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Action:")
	for _, action := range actions {
		if count := stats.EventsByAction[action]; count > 0 {
			fmt.Fprintf(w, "  %-15s %d\n", action.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Runs: %d\n", len(stats.Runs))
	if len(stats.Runs) > 0 {
		type runInfo struct {
			id    string
			stats *RunSummary
		}
		runs := make([]runInfo, 0, len(stats.Runs))
		for id, rs := range stats.Runs {
			runs = append(runs, runInfo{id, rs})
		}
		sort.Slice(runs, func(i, j int) bool {
			return runs[i].stats.FirstSeen.Before(runs[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, r := range runs {
			duration := r.stats.LastSeen.Sub(r.stats.FirstSeen).Round(time.Microsecond)
			fmt.Fprintf(w, "  [%s] %d events, %d devices, %d blocks, %s, duration %s\n",
				shortenRunID(r.id), r.stats.Events, len(r.stats.Devices), r.stats.Blocks, r.stats.Status(), duration)
		}
	}

	if stats.Errors > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Errors: %d\n", stats.Errors)
	}
}
