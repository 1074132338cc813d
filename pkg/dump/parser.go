package dump

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lpf2-protocol/lpf2-go/pkg/log"
	"github.com/lpf2-protocol/lpf2-go/pkg/lpf2"
)

// maxLineSize bounds a single dump line.
const maxLineSize = 1 << 20

// Parser parses device dumps.
type Parser struct {
	// Logger receives a trace event for every line. Nil disables tracing.
	Logger log.Logger

	// RunID is copied into every trace event.
	RunID string
}

// NewParser creates a new dump parser with tracing disabled.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses a dump using a default parser.
func Parse(r io.Reader) ([]Device, error) {
	return NewParser().Parse(r)
}

// ParseFile parses a dump file using a default parser.
func ParseFile(path string) ([]Device, error) {
	return NewParser().ParseFile(path)
}

// ParseFile parses a dump file from the filesystem.
func (p *Parser) ParseFile(path string) ([]Device, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return p.ParseBytes(data)
}

// ParseBytes parses a dump held in memory.
func (p *Parser) ParseBytes(data []byte) ([]Device, error) {
	return p.Parse(bytes.NewReader(data))
}

// Parse reads the whole dump from r and returns its devices in input order.
func (p *Parser) Parse(r io.Reader) ([]Device, error) {
	s := &state{
		logger: log.OrNoop(p.Logger),
		runID:  p.RunID,
		dev:    -1,
		mode:   -1,
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		s.line++
		s.text = strings.TrimSpace(scanner.Text())

		if err := s.dispatch(); err != nil {
			pe := &ParseError{Line: s.line, Text: s.text, Err: err}
			s.trace(log.ActionError, func(e *log.Event) {
				e.Error = &log.ErrorEventData{Message: err.Error(), Context: s.text}
			})
			return nil, pe
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}

	s.finishDevice()
	return s.devices, nil
}

// state is the parser cursor. dev and mode are indices into devices and
// devices[dev].Modes, or -1 when unset.
type state struct {
	logger log.Logger
	runID  string

	devices []Device
	dev     int
	mode    int

	line int
	text string
}

// rule binds a line prefix to a handler. Rules are tried in order and the
// first match wins.
type rule struct {
	prefix string
	apply  func(s *state) error
}

// deviceRules apply regardless of the active mode.
var deviceRules = []rule{
	{"Device:", (*state).startDevice},
	{"InModes:", deviceField("inModes", func(d *Device) *uint64 { return &d.InModes })},
	{"OutModes:", deviceField("outModes", func(d *Device) *uint64 { return &d.OutModes })},
	{"Caps:", deviceField("caps", func(d *Device) *uint64 { return &d.Caps })},
	{"Mode", (*state).startMode},
}

// modeRules apply only while a mode is active.
var modeRules = []rule{
	{"name:", modeString("name", func(m *Mode) *Optional[string] { return &m.Name })},
	{"unit:", modeString("unit", func(m *Mode) *Optional[string] { return &m.Unit })},
	{"min:", modeFloat("min", func(m *Mode) *Optional[float64] { return &m.Min })},
	{"max:", modeFloat("max", func(m *Mode) *Optional[float64] { return &m.Max })},
	{"PCT min:", modeFloat("pctMin", func(m *Mode) *Optional[float64] { return &m.PctMin })},
	{"PCT max:", modeFloat("pctMax", func(m *Mode) *Optional[float64] { return &m.PctMax })},
	{"SI min:", modeFloat("siMin", func(m *Mode) *Optional[float64] { return &m.SIMin })},
	{"SI max:", modeFloat("siMax", func(m *Mode) *Optional[float64] { return &m.SIMax })},
	{"Data sets:", modeInt("dataSets", func(m *Mode) *Optional[int] { return &m.DataSets })},
	{"format:", modeString("format", func(m *Mode) *Optional[string] { return &m.Format })},
	{"Figures:", modeInt("figures", func(m *Mode) *Optional[int] { return &m.Figures })},
	{"Decimals:", modeInt("decimals", func(m *Mode) *Optional[int] { return &m.Decimals })},
	{"in:", modeToken("in", func(m *Mode) *Optional[string] { return &m.In })},
	{"out:", modeToken("out", func(m *Mode) *Optional[string] { return &m.Out })},
	{"Flags:", (*state).setFlags},
}

func (s *state) dispatch() error {
	for _, r := range deviceRules {
		if strings.HasPrefix(s.text, r.prefix) {
			return r.apply(s)
		}
	}

	if s.mode >= 0 {
		for _, r := range modeRules {
			if strings.HasPrefix(s.text, r.prefix) {
				return r.apply(s)
			}
		}
	}

	if s.text != "" {
		s.trace(log.ActionLineIgnored, func(e *log.Event) { e.Value = s.text })
	}
	return nil
}

func (s *state) startDevice() error {
	tok, err := secondToken(s.text)
	if err != nil {
		return err
	}
	id, err := ParseInt(tok)
	if err != nil {
		return err
	}

	s.finishDevice()
	s.devices = append(s.devices, Device{ID: id, Line: s.line})
	s.dev = len(s.devices) - 1
	s.mode = -1

	s.trace(log.ActionDeviceStart, func(e *log.Event) { e.Value = tok })
	return nil
}

// finishDevice marks the current device as complete.
func (s *state) finishDevice() {
	if s.dev < 0 {
		return
	}
	s.trace(log.ActionDeviceDone, nil)
}

func (s *state) startMode() error {
	d, err := s.device()
	if err != nil {
		return err
	}
	d.Modes = append(d.Modes, Mode{Line: s.line})
	s.mode = len(d.Modes) - 1

	s.trace(log.ActionModeStart, func(e *log.Event) { e.Value = s.text })
	return nil
}

func (s *state) setFlags() error {
	tok, err := secondToken(s.text)
	if err != nil {
		return err
	}
	v, err := parseHex(tok)
	if err != nil {
		return err
	}
	if v > lpf2.MaxFlags {
		return fmt.Errorf("%w: %s", ErrFlagsOverflow, tok)
	}
	flags, err := lpf2.FlagsFromUint64(v)
	if err != nil {
		return err
	}

	s.activeMode().Flags = Some(flags)
	s.traceField("flags", tok)
	return nil
}

func (s *state) device() (*Device, error) {
	if s.dev < 0 {
		return nil, ErrNoDevice
	}
	return &s.devices[s.dev], nil
}

// activeMode must only be called while s.mode >= 0.
func (s *state) activeMode() *Mode {
	return &s.devices[s.dev].Modes[s.mode]
}

func deviceField(name string, field func(*Device) *uint64) func(*state) error {
	return func(s *state) error {
		d, err := s.device()
		if err != nil {
			return err
		}
		raw := colonSegment(s.text)
		v, err := ParseInt(raw)
		if err != nil {
			return err
		}
		*field(d) = v
		s.traceField(name, raw)
		return nil
	}
}

func modeString(name string, field func(*Mode) *Optional[string]) func(*state) error {
	return func(s *state) error {
		v := afterColon(s.text)
		*field(s.activeMode()) = Some(v)
		s.traceField(name, v)
		return nil
	}
}

func modeFloat(name string, field func(*Mode) *Optional[float64]) func(*state) error {
	return func(s *state) error {
		raw := colonSegment(s.text)
		v, err := strconv.ParseFloat(raw, 64)
		// Out-of-range literals saturate to ±Inf (or round to zero).
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return err
		}
		*field(s.activeMode()) = Some(v)
		s.traceField(name, raw)
		return nil
	}
}

func modeInt(name string, field func(*Mode) *Optional[int]) func(*state) error {
	return func(s *state) error {
		raw := afterColon(s.text)
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*field(s.activeMode()) = Some(v)
		s.traceField(name, raw)
		return nil
	}
}

func modeToken(name string, field func(*Mode) *Optional[string]) func(*state) error {
	return func(s *state) error {
		tok, err := secondToken(s.text)
		if err != nil {
			return err
		}
		*field(s.activeMode()) = Some(tok)
		s.traceField(name, tok)
		return nil
	}
}

func (s *state) traceField(field, value string) {
	s.trace(log.ActionFieldSet, func(e *log.Event) {
		e.Field = field
		e.Value = value
	})
}

// trace emits an event stamped with the current cursor.
func (s *state) trace(action log.Action, fill func(*log.Event)) {
	if _, ok := s.logger.(log.NoopLogger); ok {
		return
	}

	e := log.Event{
		Timestamp: time.Now(),
		RunID:     s.runID,
		Stage:     log.StageParse,
		Action:    action,
		Line:      s.line,
	}
	if s.dev >= 0 {
		e.DeviceID = log.Uint64Ptr(s.devices[s.dev].ID)
		if s.mode >= 0 {
			e.ModeIndex = log.IntPtr(s.mode)
		}
	}
	if fill != nil {
		fill(&e)
	}
	s.logger.Log(e)
}
