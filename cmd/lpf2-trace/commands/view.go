// Package commands implements the lpf2-trace CLI commands.
package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lpf2-protocol/lpf2-go/pkg/log"
)

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [run:id] STAGE ACTION
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	fmt.Fprintf(w, "%s [run:%s] %-5s %s\n", ts, shortenRunID(event.RunID), event.Stage, event.Action)

	if event.Line > 0 {
		fmt.Fprintf(w, "  Line: %d\n", event.Line)
	}
	if event.DeviceID != nil {
		fmt.Fprintf(w, "  Device: 0x%02X", *event.DeviceID)
		if event.ModeIndex != nil {
			fmt.Fprintf(w, "  Mode: %d", *event.ModeIndex)
		}
		fmt.Fprintln(w)
	}

	switch {
	case event.Field != "":
		fmt.Fprintf(w, "  %s = %q\n", event.Field, event.Value)
	case event.Value != "":
		fmt.Fprintf(w, "  Value: %q\n", event.Value)
	}

	if event.Error != nil {
		fmt.Fprintf(w, "  Error: %s\n", event.Error.Message)
		if event.Error.Context != "" {
			fmt.Fprintf(w, "  Context: %s\n", event.Error.Context)
		}
	}

	fmt.Fprintln(w) // Blank line between events
}

// shortenRunID returns the first 8 characters of the run ID.
func shortenRunID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// BuildFilter converts view flags into a trace filter. Empty strings match
// everything.
func BuildFilter(runID, stage, action, device string) (log.Filter, error) {
	filter := log.Filter{RunID: runID}

	if stage != "" {
		s, err := parseStage(stage)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Stage = &s
	}

	if action != "" {
		a, err := parseAction(action)
		if err != nil {
			return log.Filter{}, err
		}
		filter.Action = &a
	}

	if device != "" {
		id, err := strconv.ParseUint(device, 0, 64)
		if err != nil {
			return log.Filter{}, fmt.Errorf("invalid device: %s (want e.g. 0x25)", device)
		}
		filter.DeviceID = &id
	}

	return filter, nil
}

// parseStage parses a stage string (case-insensitive).
func parseStage(s string) (log.Stage, error) {
	switch strings.ToLower(s) {
	case "parse":
		return log.StageParse, nil
	case "emit":
		return log.StageEmit, nil
	case "run":
		return log.StageRun, nil
	default:
		return 0, fmt.Errorf("invalid stage: %s (must be parse, emit or run)", s)
	}
}

// actions lists every action in display order.
var actions = []log.Action{
	log.ActionRunStart,
	log.ActionDeviceStart,
	log.ActionDeviceDone,
	log.ActionModeStart,
	log.ActionFieldSet,
	log.ActionLineIgnored,
	log.ActionBlockEmitted,
	log.ActionError,
	log.ActionRunDone,
}

// parseAction parses an action name such as "field_set" (case-insensitive).
func parseAction(s string) (log.Action, error) {
	for _, a := range actions {
		if strings.EqualFold(a.String(), s) {
			return a, nil
		}
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = strings.ToLower(a.String())
	}
	return 0, fmt.Errorf("invalid action: %s (must be one of %s)", s, strings.Join(names, ", "))
}

// RunView executes the view command.
func RunView(path string, filter log.Filter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		formatEvent(output, event)
	}

	return nil
}
