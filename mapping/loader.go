package mapping

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// mappingFile is the raw declarative shape of the mapping config.
type mappingFile struct {
	Entries []map[string]interface{} `yaml:"entries"`
}

// LoadFile reads the mapping table from a YAML file. ${VAR} references in
// the file are expanded from the environment before parsing, so secrets and
// per-environment identifiers can live outside the file.
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping file: %w", err)
	}
	return Parse([]byte(os.ExpandEnv(string(raw))))
}

// Parse builds a table from YAML bytes (post env expansion).
func Parse(raw []byte) (*Table, error) {
	var f mappingFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse mapping file: %w", err)
	}
	if len(f.Entries) == 0 {
		return nil, fmt.Errorf("mapping file has no entries")
	}

	entries := make([]Entry, 0, len(f.Entries))
	for i, row := range f.Entries {
		var e Entry
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &e,
			TagName:          "mapstructure",
			WeaklyTypedInput: true, // YAML scalars may arrive as strings
			ErrorUnused:      true,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(row); err != nil {
			return nil, fmt.Errorf("mapping entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return NewTable(entries)
}
