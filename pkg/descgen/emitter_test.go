package descgen

import (
	"bytes"
	"errors"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpf2-protocol/lpf2-go/pkg/dump"
	"github.com/lpf2-protocol/lpf2-go/pkg/log"
)

func mustContain(t *testing.T, s, substr string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("output missing %q\n--- output ---\n%s", substr, s)
	}
}

func mustParse(t *testing.T, path string) []dump.Device {
	t.Helper()
	devices, err := dump.ParseFile(path)
	require.NoError(t, err)
	return devices
}

func emitString(t *testing.T, e *Emitter, devices []dump.Device) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, e.Emit(&buf, devices))
	return buf.String()
}

func TestEmit_Golden(t *testing.T) {
	for _, name := range []string{"count", "hub"} {
		t.Run(name, func(t *testing.T) {
			devices := mustParse(t, "testdata/"+name+".txt")

			want, err := os.ReadFile("testdata/" + name + ".golden.h")
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, Emit(&buf, devices))
			if diff := cmp.Diff(string(want), buf.String()); diff != "" {
				t.Errorf("%s.golden.h mismatch (-want +got):\n%s", name, diff)
			}
		})
	}
}

func TestEmit_CountScenario(t *testing.T) {
	out := emitString(t, NewEmitter(DefaultOptions()), mustParse(t, "testdata/count.txt"))

	mustContain(t, out, "// Device 0x25\n")
	mustContain(t, out, "const Lpf2DeviceDescriptor LPF2_DEVICE_0x25 =\n")
	mustContain(t, out, ".type = static_cast<Lpf2DeviceType>(0x25),")
	mustContain(t, out, ".inModes = 0x0003,")
	mustContain(t, out, ".outModes = 0x0001,")
	mustContain(t, out, ".caps = 0x00,")
	mustContain(t, out, ".combos = { 0x0000 },")
	mustContain(t, out, "            0.0f, 100.0f,\n")
	mustContain(t, out, "1, FORMAT_8BIT, 3, 0,")
	mustContain(t, out, "Lpf2Mode::Flags{{ 0x04, 0x05, 0x00, 0x00, 0x00, 0x00 }}")
	assert.True(t, strings.HasSuffix(out, "};\n\n"))
}

func TestEmit_BlockPerDevice(t *testing.T) {
	devices := mustParse(t, "testdata/hub.txt")
	out := emitString(t, NewEmitter(DefaultOptions()), devices)

	assert.Equal(t, len(devices), strings.Count(out, "// Device 0x"))
	assert.Less(t, strings.Index(out, "LPF2_DEVICE_0x36"), strings.Index(out, "LPF2_DEVICE_0x3B"))

	pos := strings.Index(out, `"POS"`)
	imp := strings.Index(out, `"IMP"`)
	cfg := strings.Index(out, `"CFG"`)
	assert.True(t, pos < imp && imp < cfg, "modes out of order")

	mustContain(t, out, "3, FORMAT_16BIT, 3, 0,")
	mustContain(t, out, "1, FORMAT_32BIT, 3, 0,")
	mustContain(t, out, "-180.0f, 180.0f,")
	mustContain(t, out, "0x44, 0x00,")
}

func TestEmit_ConsecutiveDevices(t *testing.T) {
	devices, err := dump.Parse(strings.NewReader("Device: 0x01\nDevice: 0x02\n"))
	require.NoError(t, err)

	out := emitString(t, NewEmitter(DefaultOptions()), devices)

	want := "// Device 0x01\n" +
		"const Lpf2DeviceDescriptor LPF2_DEVICE_0x01 =\n" +
		"{\n" +
		"    .type = static_cast<Lpf2DeviceType>(0x01),\n" +
		"    .inModes = 0x0000,\n" +
		"    .outModes = 0x0000,\n" +
		"    .caps = 0x00,\n" +
		"    .combos = { 0x0000 },\n" +
		"    .modes =\n" +
		"    {\n" +
		"    }\n" +
		"};\n\n"
	assert.True(t, strings.HasPrefix(out, want), "got:\n%s", out)
	assert.Equal(t, 2, strings.Count(out, "    .modes =\n    {\n    }\n"))
}

func TestEmit_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Emit(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestEmit_Idempotent(t *testing.T) {
	devices := mustParse(t, "testdata/hub.txt")

	for _, target := range []Target{TargetCPP, TargetGo, TargetYAML} {
		t.Run(string(target), func(t *testing.T) {
			opts := DefaultOptions()
			opts.Target = target
			e := NewEmitter(opts)

			first := emitString(t, e, devices)
			second := emitString(t, e, devices)
			assert.Equal(t, first, second)
		})
	}
}

func TestEmit_FormatTagMapping(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"format: 0x00", "FORMAT_8BIT"},
		{"format: 0x01", "FORMAT_16BIT"},
		{"format: 0x02", "FORMAT_32BIT"},
		{"format: 0x03", "FORMAT_FLOAT"},
		{"format: 0x07", "FORMAT_8BIT"},
		{"format: float", "FORMAT_8BIT"},
		{"", "FORMAT_8BIT"},
	}

	for _, tt := range tests {
		t.Run(tt.want+"/"+tt.format, func(t *testing.T) {
			devices, err := dump.Parse(strings.NewReader(completeMode(tt.format)))
			require.NoError(t, err)

			out := emitString(t, NewEmitter(DefaultOptions()), devices)
			mustContain(t, out, "1, "+tt.want+", 4, 1,")
		})
	}
}

func TestEmit_CustomNames(t *testing.T) {
	opts, err := ParseOptions([]byte(`
descriptorType: DeviceDesc
deviceType: Lpf2::DeviceType
modeType: Lpf2::Mode
constPrefix: DEV_
formatTags:
  8bit: DATA8
`))
	require.NoError(t, err)

	out := emitString(t, NewEmitter(opts), mustParse(t, "testdata/count.txt"))

	mustContain(t, out, "const DeviceDesc DEV_0x25 =")
	mustContain(t, out, "static_cast<Lpf2::DeviceType>(0x25)")
	mustContain(t, out, "1, DATA8, 3, 0,")
	mustContain(t, out, "Lpf2::Mode::Flags{{ 0x04")
}

func TestEmit_EscapesStrings(t *testing.T) {
	text := strings.Replace(completeMode(""), "name: LVL", `name: A "B" \C`, 1)
	devices, err := dump.Parse(strings.NewReader(text))
	require.NoError(t, err)

	out := emitString(t, NewEmitter(DefaultOptions()), devices)
	mustContain(t, out, `"A \"B\" \\C",`)
}

func TestEmit_MissingField(t *testing.T) {
	text := "Device: 0x10\n" + strings.TrimPrefix(completeMode(""), "Device: 0x40\n") +
		"Device: 0x20\nMode\n  name: BROKEN\n  min: 0\n"
	devices, err := dump.Parse(strings.NewReader(text))
	require.NoError(t, err)

	var buf bytes.Buffer
	err = Emit(&buf, devices)
	require.Error(t, err)

	var mfe *MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, uint64(0x20), mfe.DeviceID)
	assert.Equal(t, 0, mfe.ModeIndex)
	assert.Equal(t, "max", mfe.Field)
	assert.Equal(t, devices[1].Modes[0].Line, mfe.ModeLine)
	assert.Contains(t, err.Error(), "device 0x20 mode 0")

	out := buf.String()
	mustContain(t, out, "LPF2_DEVICE_0x10")
	assert.NotContains(t, out, "LPF2_DEVICE_0x20", "failing block must not be written")
}

func TestEmit_MissingFieldOrder(t *testing.T) {
	devices, err := dump.Parse(strings.NewReader("Device: 1\nMode\n"))
	require.NoError(t, err)

	err = Emit(&bytes.Buffer{}, devices)

	var mfe *MissingFieldError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "name", mfe.Field)
}

func TestEmit_InvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = "rust"

	err := NewEmitter(opts).Emit(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, ErrUnknownTarget)

	opts = DefaultOptions()
	opts.ModeType = ""
	err = NewEmitter(opts).Emit(&bytes.Buffer{}, nil)
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestEmit_GoTarget(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = TargetGo
	e := NewEmitter(opts)
	e.Source = "hub.txt"

	out := emitString(t, e, mustParse(t, "testdata/hub.txt"))

	mustContain(t, out, "// Code generated by lpf2-descgen from hub.txt. DO NOT EDIT.")
	mustContain(t, out, "package descriptors")
	mustContain(t, out, `import "github.com/lpf2-protocol/lpf2-go/pkg/lpf2"`)
	mustContain(t, out, "var Device0x36 = lpf2.DeviceDescriptor{")
	mustContain(t, out, "var Device0x3B = lpf2.DeviceDescriptor{")
	mustContain(t, out, "func Register(r *lpf2.Registry) error {")
	mustContain(t, out, "&Device0x36,")
	mustContain(t, out, "&Device0x3B,")
	mustContain(t, out, "lpf2.Flags{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}")

	assert.Regexp(t, regexp.MustCompile(`Type:\s+lpf2\.DeviceType\(0x3B\),`), out)
	assert.Regexp(t, regexp.MustCompile(`Format:\s+lpf2\.Format16Bit,`), out)
	assert.Regexp(t, regexp.MustCompile(`Name:\s+"POS",`), out)
	assert.Regexp(t, regexp.MustCompile(`RawMin:\s+-180\.0,`), out)
	assert.Regexp(t, regexp.MustCompile(`In:\s+0x44, Out: 0x00,`), out)

	typeCheckGo(t, out)
}

func TestEmit_GoTargetRejectsUnrepresentable(t *testing.T) {
	mode := completeMode("")
	tests := []struct {
		name string
		text string
		want string
	}{
		{"wide device", strings.Replace(mode, "Device: 0x40", "Device: 0x1FF", 1), "Device 0x1FF exceeds 0xFF"},
		{"wide in modes", strings.Replace(mode, "Mode 0:", "InModes: 0x10000\nMode 0:", 1), "InModes 0x10000 exceeds 0xFFFF"},
		{"wide out modes", strings.Replace(mode, "Mode 0:", "OutModes: 0x10000\nMode 0:", 1), "OutModes 0x10000 exceeds 0xFFFF"},
		{"wide caps", strings.Replace(mode, "Mode 0:", "Caps: 0x100\nMode 0:", 1), "Caps 0x100 exceeds 0xFF"},
		{"symbolic in", strings.Replace(mode, "in: 0x10", "in: DATA8", 1), `in "DATA8" is not a byte literal`},
		{"wide out", strings.Replace(mode, "out: 0x00", "out: 256", 1), `out "256" is not a byte literal`},
	}

	opts := DefaultOptions()
	opts.Target = TargetGo

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			devices, err := dump.Parse(strings.NewReader(tt.text))
			require.NoError(t, err)

			var buf bytes.Buffer
			err = NewEmitter(opts).Emit(&buf, devices)
			require.ErrorIs(t, err, ErrNotRepresentable)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, buf.String())
		})
	}
}

func TestEmit_GoTargetRejectsSymbolicMapping(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = TargetGo

	err := NewEmitter(opts).Emit(&bytes.Buffer{}, mustParse(t, "testdata/count.txt"))
	require.ErrorIs(t, err, ErrNotRepresentable)
	assert.Contains(t, err.Error(), "device 0x25 mode 0")
}

func TestEmit_SaturatedFloats(t *testing.T) {
	text := completeMode("")
	text = strings.Replace(text, "  min: 0\n", "  min: -1e39\n", 1)
	text = strings.Replace(text, "  SI max: 10\n", "  SI max: 1e400\n", 1)
	devices, err := dump.Parse(strings.NewReader(text))
	require.NoError(t, err)

	cpp := emitString(t, NewEmitter(DefaultOptions()), devices)
	mustContain(t, cpp, "0.0f, INFINITY,")

	opts := DefaultOptions()
	opts.Target = TargetGo
	out := emitString(t, NewEmitter(opts), devices)
	assert.Regexp(t, regexp.MustCompile(`RawMin:\s+float32\(math\.Inf\(-1\)\),`), out)
	assert.Regexp(t, regexp.MustCompile(`SIMax:\s+float32\(math\.Inf\(1\)\),`), out)

	typeCheckGo(t, out)
}

func TestEmit_GoTargetRejectsDuplicates(t *testing.T) {
	devices, err := dump.Parse(strings.NewReader("Device: 0x25\nDevice: 0x25\n"))
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Target = TargetGo

	var buf bytes.Buffer
	err = NewEmitter(opts).Emit(&buf, devices)
	assert.ErrorIs(t, err, ErrDuplicateDevice)
	assert.Empty(t, buf.String(), "go target writes nothing on error")
}

func TestEmit_YAMLTarget(t *testing.T) {
	opts := DefaultOptions()
	opts.Target = TargetYAML

	out := emitString(t, NewEmitter(opts), mustParse(t, "testdata/count.txt"))
	mustContain(t, out, "devices:")
	mustContain(t, out, "name: COUNT")
}

type recordingLogger struct {
	events []log.Event
}

func (r *recordingLogger) Log(e log.Event) { r.events = append(r.events, e) }

func TestEmitter_Trace(t *testing.T) {
	rec := &recordingLogger{}
	e := NewEmitter(DefaultOptions())
	e.Logger = rec
	e.RunID = "run-7"

	emitString(t, e, mustParse(t, "testdata/hub.txt"))

	require.Len(t, rec.events, 2)
	for _, ev := range rec.events {
		assert.Equal(t, "run-7", ev.RunID)
		assert.Equal(t, log.StageEmit, ev.Stage)
		assert.Equal(t, log.ActionBlockEmitted, ev.Action)
	}
	assert.Equal(t, "LPF2_DEVICE_0x36", rec.events[0].Value)
	require.NotNil(t, rec.events[1].DeviceID)
	assert.Equal(t, uint64(0x3B), *rec.events[1].DeviceID)
}

func TestEmitter_TraceError(t *testing.T) {
	devices, err := dump.Parse(strings.NewReader("Device: 0x11\nMode\nname: X\n"))
	require.NoError(t, err)

	rec := &recordingLogger{}
	e := NewEmitter(DefaultOptions())
	e.Logger = rec

	require.Error(t, e.Emit(&bytes.Buffer{}, devices))
	require.Len(t, rec.events, 1)

	ev := rec.events[0]
	assert.Equal(t, log.ActionError, ev.Action)
	assert.Equal(t, "min", ev.Field)
	require.NotNil(t, ev.DeviceID)
	assert.Equal(t, uint64(0x11), *ev.DeviceID)
	require.NotNil(t, ev.ModeIndex)
	assert.Equal(t, 0, *ev.ModeIndex)
	require.NotNil(t, ev.Error)
	assert.Equal(t, "cpp", ev.Error.Context)
}

// typeCheckGo type-checks a generated file against the lpf2 sources.
func typeCheckGo(t *testing.T, src string) {
	t.Helper()

	fset := token.NewFileSet()
	std := importer.ForCompiler(fset, "source", nil)

	paths, err := filepath.Glob("../lpf2/*.go")
	require.NoError(t, err)
	var lpf2Files []*ast.File
	for _, p := range paths {
		if strings.HasSuffix(p, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, p, nil, 0)
		require.NoError(t, err)
		lpf2Files = append(lpf2Files, f)
	}
	lpf2Pkg, err := (&types.Config{Importer: std}).Check(lpf2ImportPath, fset, lpf2Files, nil)
	require.NoError(t, err)

	file, err := parser.ParseFile(fset, "descriptors_gen.go", src, parser.AllErrors)
	require.NoError(t, err, "generated Go must parse:\n%s", src)

	conf := types.Config{Importer: pkgImporter{path: lpf2ImportPath, pkg: lpf2Pkg, fallback: std}}
	_, err = conf.Check("example.com/descriptors", fset, []*ast.File{file}, nil)
	require.NoError(t, err, "generated Go must type-check:\n%s", src)
}

// pkgImporter serves one pre-checked package and defers the rest.
type pkgImporter struct {
	path     string
	pkg      *types.Package
	fallback types.Importer
}

func (p pkgImporter) Import(path string) (*types.Package, error) {
	if path == p.path {
		return p.pkg, nil
	}
	return p.fallback.Import(path)
}

// completeMode returns a one-mode device with every required field. An
// empty format line leaves the format absent.
func completeMode(format string) string {
	lines := []string{
		"Device: 0x40",
		"Mode 0:",
		"  name: LVL",
		"  unit: PCT",
		"  min: 0",
		"  max: 10",
		"  PCT min: 0",
		"  PCT max: 100",
		"  SI min: 0",
		"  SI max: 10",
		"  in: 0x10",
		"  out: 0x00",
		"  Data sets: 1",
	}
	if format != "" {
		lines = append(lines, "  "+format)
	}
	lines = append(lines,
		"  Figures: 4",
		"  Decimals: 1",
		"  Flags: 0x000000000000",
	)
	return strings.Join(lines, "\n") + "\n"
}
