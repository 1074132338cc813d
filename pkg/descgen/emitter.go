package descgen

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/tools/imports"

	"github.com/lpf2-protocol/lpf2-go/pkg/dump"
	"github.com/lpf2-protocol/lpf2-go/pkg/log"
)

// Emitter renders devices for one target.
type Emitter struct {
	Options Options

	// Source is the dump file name, recorded in the Go file header.
	Source string

	// Logger receives one event per rendered block. Nil disables tracing.
	Logger log.Logger

	// RunID is copied into every trace event.
	RunID string
}

// NewEmitter creates an emitter with the given options.
func NewEmitter(opts Options) *Emitter {
	return &Emitter{Options: opts}
}

// Emit renders devices to w using DefaultOptions.
func Emit(w io.Writer, devices []dump.Device) error {
	return NewEmitter(DefaultOptions()).Emit(w, devices)
}

// Emit renders devices to w.
func (e *Emitter) Emit(w io.Writer, devices []dump.Device) error {
	if err := e.Options.Validate(); err != nil {
		return err
	}

	var err error
	switch e.Options.Target {
	case TargetCPP:
		err = e.emitCPP(w, devices)
	case TargetGo:
		err = e.emitGo(w, devices)
	case TargetYAML:
		err = dump.WriteYAML(w, devices)
	}
	if err != nil {
		e.trace(log.ActionError, nil, func(ev *log.Event) {
			var mfe *MissingFieldError
			if errors.As(err, &mfe) {
				ev.DeviceID = log.Uint64Ptr(mfe.DeviceID)
				ev.ModeIndex = log.IntPtr(mfe.ModeIndex)
				ev.Field = mfe.Field
			}
			ev.Error = &log.ErrorEventData{Message: err.Error(), Context: string(e.Options.Target)}
		})
	}
	return err
}

// emitCPP writes each device block as soon as it is rendered.
func (e *Emitter) emitCPP(w io.Writer, devices []dump.Device) error {
	var buf bytes.Buffer
	for i := range devices {
		d := &devices[i]

		view, err := resolveDevice(d, &e.Options)
		if err != nil {
			return err
		}

		buf.Reset()
		if err := templates.ExecuteTemplate(&buf, "cppDevice", view); err != nil {
			return fmt.Errorf("rendering device %s: %w", d.Label(), err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return fmt.Errorf("writing device %s: %w", d.Label(), err)
		}

		e.trace(log.ActionBlockEmitted, d, func(ev *log.Event) {
			ev.Value = fmt.Sprintf("%s%s", e.Options.ConstPrefix, d.Label())
		})
	}
	return nil
}

// emitGo renders the whole file, formats it with goimports and writes it.
func (e *Emitter) emitGo(w io.Writer, devices []dump.Device) error {
	data := goFileData{
		Source:  e.Source,
		Package: e.Options.GoPackage,
		Prefix:  e.Options.GoPrefix,
		Import:  lpf2ImportPath,
		Devices: make([]deviceView, 0, len(devices)),
	}

	seen := make(map[uint64]int)
	for i := range devices {
		d := &devices[i]
		if line, dup := seen[d.ID]; dup {
			return fmt.Errorf("%w: %s at lines %d and %d", ErrDuplicateDevice, d.Label(), line, d.Line)
		}
		seen[d.ID] = d.Line

		view, err := resolveDevice(d, &e.Options)
		if err != nil {
			return err
		}
		if err := narrowGo(d, &view); err != nil {
			return err
		}
		data.Devices = append(data.Devices, view)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "goFile", data); err != nil {
		return fmt.Errorf("rendering go file: %w", err)
	}

	formatted, err := imports.Process(e.Options.GoPackage+"_gen.go", buf.Bytes(), nil)
	if err != nil {
		return fmt.Errorf("goimports: %w", err)
	}
	if _, err := w.Write(formatted); err != nil {
		return fmt.Errorf("writing go file: %w", err)
	}

	for i := range devices {
		d := &devices[i]
		e.trace(log.ActionBlockEmitted, d, func(ev *log.Event) {
			ev.Value = e.Options.GoPrefix + d.Label()
		})
	}
	return nil
}

func (e *Emitter) trace(action log.Action, d *dump.Device, fill func(*log.Event)) {
	if e.Logger == nil {
		return
	}

	ev := log.Event{
		Timestamp: time.Now(),
		RunID:     e.RunID,
		Stage:     log.StageEmit,
		Action:    action,
	}
	if d != nil {
		ev.DeviceID = log.Uint64Ptr(d.ID)
	}
	if fill != nil {
		fill(&ev)
	}
	e.Logger.Log(ev)
}
