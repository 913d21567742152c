package mapping

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"metatree/internal/diagnostic"
)

// LoadFile loads and parses a YAML schema file from the given path.
func LoadFile(path string) (*SchemaFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a SchemaFile. Target and path syntax errors
// of every schema are reported together.
func Parse(data []byte) (*SchemaFile, error) {
	var sf SchemaFile

	err := yaml.Unmarshal(data, &sf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema YAML: %w", err)
	}

	if err := sf.Schemas.Diagnostics().Error(); err != nil {
		return nil, fmt.Errorf("invalid schema file: %w", err)
	}

	if sf.MaxDepth < 0 {
		return nil, fmt.Errorf("invalid schema file: max_depth must not be negative, got %d", sf.MaxDepth)
	}

	// Apply defaults and normalize
	applyDefaults(&sf)

	return &sf, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(sf *SchemaFile) {
	if sf.Version == "" {
		sf.Version = "1"
	}

	for alias, target := range sf.Aliases {
		sf.Aliases[alias] = strings.TrimSpace(target)
	}
}

// Build merges the named schemas left to right. With no names every
// schema of the file is merged in file order.
func (sf *SchemaFile) Build(names ...string) (*Schema, error) {
	if len(names) == 0 {
		names = sf.Schemas.Names()
	}

	var (
		d     diagnostic.Diagnostics
		parts []*Schema
	)

	for _, name := range names {
		s, ok := sf.Schemas.Lookup(name)
		if !ok {
			d.AddError(diagnostic.CodeUnknownSchema,
				fmt.Sprintf("schema %q is not defined", name), name, "")

			continue
		}

		parts = append(parts, s)
	}

	if err := d.Error(); err != nil {
		return nil, err
	}

	out := Merge(parts...)
	out.name = strings.Join(names, "+")

	return out, nil
}

// Marshal serializes a SchemaFile to YAML.
func Marshal(sf *SchemaFile) ([]byte, error) {
	return yaml.Marshal(sf)
}

// WriteFile writes a SchemaFile to the given path.
func WriteFile(sf *SchemaFile, path string) error {
	data, err := Marshal(sf)
	if err != nil {
		return fmt.Errorf("failed to marshal schema file: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write schema file %s: %w", path, err)
	}

	return nil
}
