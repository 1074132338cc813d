package descgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lpf2-protocol/lpf2-go/pkg/lpf2"
)

// Target selects the output language.
type Target string

const (
	TargetCPP  Target = "cpp"
	TargetGo   Target = "go"
	TargetYAML Target = "yaml"
)

// ParseTarget parses a target name.
func ParseTarget(s string) (Target, error) {
	switch t := Target(s); t {
	case TargetCPP, TargetGo, TargetYAML:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (want cpp, go or yaml)", ErrUnknownTarget, s)
	}
}

// FormatTags names the sample format constants in generated code.
type FormatTags struct {
	Bit8  string `yaml:"8bit"`
	Bit16 string `yaml:"16bit"`
	Bit32 string `yaml:"32bit"`
	Float string `yaml:"float"`
}

// Tag returns the constant name for f. Unknown formats use the 8-bit tag.
func (t FormatTags) Tag(f lpf2.Format) string {
	switch f {
	case lpf2.Format16Bit:
		return t.Bit16
	case lpf2.Format32Bit:
		return t.Bit32
	case lpf2.FormatFloat:
		return t.Float
	default:
		return t.Bit8
	}
}

// Options configures code generation. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	Target Target `yaml:"target"`

	// C++ naming.
	DescriptorType string     `yaml:"descriptorType"`
	DeviceType     string     `yaml:"deviceType"`
	ModeType       string     `yaml:"modeType"`
	ConstPrefix    string     `yaml:"constPrefix"`
	FormatTags     FormatTags `yaml:"formatTags"`

	// Go naming.
	GoPackage string `yaml:"goPackage"`
	GoPrefix  string `yaml:"goPrefix"`
}

// DefaultOptions returns the options matching the firmware's descriptor
// struct.
func DefaultOptions() Options {
	return Options{
		Target:         TargetCPP,
		DescriptorType: "Lpf2DeviceDescriptor",
		DeviceType:     "Lpf2DeviceType",
		ModeType:       "Lpf2Mode",
		ConstPrefix:    "LPF2_DEVICE_",
		FormatTags: FormatTags{
			Bit8:  "FORMAT_8BIT",
			Bit16: "FORMAT_16BIT",
			Bit32: "FORMAT_32BIT",
			Float: "FORMAT_FLOAT",
		},
		GoPackage: "descriptors",
		GoPrefix:  "Device",
	}
}

// ParseOptions decodes a YAML config on top of DefaultOptions. Keys that
// are not recognised are rejected.
func ParseOptions(data []byte) (Options, error) {
	opts := DefaultOptions()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opts); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("parsing options: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// LoadOptions loads a YAML config file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseOptions(data)
}

// Validate checks that every name is usable in generated code.
func (o *Options) Validate() error {
	if _, err := ParseTarget(string(o.Target)); err != nil {
		return err
	}

	required := []struct {
		name, value string
	}{
		{"descriptorType", o.DescriptorType},
		{"deviceType", o.DeviceType},
		{"modeType", o.ModeType},
		{"constPrefix", o.ConstPrefix},
		{"formatTags.8bit", o.FormatTags.Bit8},
		{"formatTags.16bit", o.FormatTags.Bit16},
		{"formatTags.32bit", o.FormatTags.Bit32},
		{"formatTags.float", o.FormatTags.Float},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidOptions, r.name)
		}
	}

	if !token.IsIdentifier(o.GoPackage) {
		return fmt.Errorf("%w: goPackage %q is not a Go identifier", ErrInvalidOptions, o.GoPackage)
	}
	if !token.IsIdentifier(o.GoPrefix + "0x00") {
		return fmt.Errorf("%w: goPrefix %q does not form Go identifiers", ErrInvalidOptions, o.GoPrefix)
	}
	return nil
}
