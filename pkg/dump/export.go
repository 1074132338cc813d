package dump

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// exportDoc is the top-level YAML document written by WriteYAML.
type exportDoc struct {
	Devices []Device `yaml:"devices"`
}

// WriteYAML writes the parsed devices as a YAML document. Absent mode fields
// are omitted.
func WriteYAML(w io.Writer, devices []Device) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(exportDoc{Devices: devices}); err != nil {
		return fmt.Errorf("encoding devices: %w", err)
	}
	return enc.Close()
}
