package descgen

import (
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/lpf2-protocol/lpf2-go/pkg/lpf2"
)

// lpf2ImportPath is imported by generated Go files.
const lpf2ImportPath = "github.com/lpf2-protocol/lpf2-go/pkg/lpf2"

// funcMap provides helper functions available to all templates.
var funcMap = template.FuncMap{
	"hex2":      func(v uint64) string { return fmt.Sprintf("0x%02X", v) },
	"hex4":      func(v uint64) string { return fmt.Sprintf("0x%04X", v) },
	"cppFloat":  cppFloat,
	"goFloat":   goFloat,
	"cppString": cppString,
	"goString":  strconv.Quote,
	"goFormat":  goFormatConst,
	"flagBytes": flagBytes,
}

// templates holds all parsed code generation templates.
var templates = template.Must(template.New("").Funcs(funcMap).Parse(
	cppDeviceTmpl +
		goFileTmpl,
))

// cppString quotes s as a C++ string literal.
func cppString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

// flagBytes renders flags as "0x04, 0x05, 0x00, 0x00, 0x00, 0x00".
func flagBytes(f lpf2.Flags) string {
	parts := make([]string, len(f))
	for i, b := range f {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, ", ")
}

func goFormatConst(f lpf2.Format) string {
	switch f {
	case lpf2.Format16Bit:
		return "Format16Bit"
	case lpf2.Format32Bit:
		return "Format32Bit"
	case lpf2.FormatFloat:
		return "FormatFloat"
	default:
		return "Format8Bit"
	}
}

// --- Template data types ---

type goFileData struct {
	Source  string
	Package string
	Prefix  string
	Import  string
	Devices []deviceView
}

// --- Template definitions ---

const cppDeviceTmpl = `{{define "cppDevice" -}}
// Device {{hex2 .ID}}
const {{.Opts.DescriptorType}} {{.Opts.ConstPrefix}}{{hex2 .ID}} =
{
    .type = static_cast<{{.Opts.DeviceType}}>({{hex2 .ID}}),
    .inModes = {{hex4 .InModes}},
    .outModes = {{hex4 .OutModes}},
    .caps = {{hex2 .Caps}},
    .combos = { 0x0000 },
    .modes =
    {
{{- range .Modes}}
        {
            {{cppString .Name}},
            {{cppFloat .Min}}, {{cppFloat .Max}},
            {{cppFloat .PctMin}}, {{cppFloat .PctMax}},
            {{cppFloat .SIMin}}, {{cppFloat .SIMax}},
            {{cppString .Unit}},
            {{.In}}, {{.Out}},
            {{.DataSets}}, {{.FormatTag}}, {{.Figures}}, {{.Decimals}},
            {},
            0x00,
            {{$.Opts.ModeType}}::Flags{{"{{"}} {{flagBytes .Flags}} {{"}}"}}
        },
{{- end}}
    }
};

{{end}}`

const goFileTmpl = `{{define "goFile" -}}
// Code generated by lpf2-descgen{{if .Source}} from {{.Source}}{{end}}. DO NOT EDIT.

package {{.Package}}

import "{{.Import}}"
{{range .Devices}}
// {{$.Prefix}}{{hex2 .ID}} describes device {{hex2 .ID}}.
var {{$.Prefix}}{{hex2 .ID}} = lpf2.DeviceDescriptor{
Type: lpf2.DeviceType({{hex2 .ID}}),
InModes: {{hex4 .InModes}},
OutModes: {{hex4 .OutModes}},
Caps: {{hex2 .Caps}},
Combos: []uint16{0x0000},
Modes: []lpf2.Mode{
{{- range .Modes}}
{
Name: {{goString .Name}},
RawMin: {{goFloat .Min}}, RawMax: {{goFloat .Max}},
PctMin: {{goFloat .PctMin}}, PctMax: {{goFloat .PctMax}},
SIMin: {{goFloat .SIMin}}, SIMax: {{goFloat .SIMax}},
Unit: {{goString .Unit}},
In: {{hex2 .InByte}}, Out: {{hex2 .OutByte}},
DataSets: {{.DataSets}},
Format: lpf2.{{goFormat .Format}},
Figures: {{.Figures}},
Decimals: {{.Decimals}},
Flags: lpf2.Flags{ {{- flagBytes .Flags -}} },
},
{{- end}}
},
}
{{end}}
// Register adds the descriptors declared in this file to r.
func Register(r *lpf2.Registry) error {
for _, d := range []*lpf2.DeviceDescriptor{
{{- range .Devices}}
&{{$.Prefix}}{{hex2 .ID}},
{{- end}}
} {
if err := r.Register(d); err != nil {
return err
}
}
return nil
}
{{end}}`
