package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// HierarchySchema is the top-level YAML structure for a project import.
type HierarchySchema struct {
	Project ProjectImport  `yaml:"project"`
	Modules []ModuleImport `yaml:"modules"`
}

// ProjectImport defines the project-level fields in the import file.
// Manager is a username, resolved at import time.
type ProjectImport struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description,omitempty"`
	Manager         string  `yaml:"manager,omitempty"`
	StartDate       string  `yaml:"start_date,omitempty"`
	ExpectedEndDate *string `yaml:"expected_end_date,omitempty"`
}

type ModuleImport struct {
	Name            string       `yaml:"name"`
	Description     string       `yaml:"description,omitempty"`
	StartDate       string       `yaml:"start_date,omitempty"`
	ExpectedEndDate *string      `yaml:"expected_end_date,omitempty"`
	Tasks           []TaskImport `yaml:"tasks"`
}

type TaskImport struct {
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description,omitempty"`
	Complexity      string  `yaml:"complexity,omitempty"`
	StartDate       string  `yaml:"start_date,omitempty"`
	ExpectedEndDate *string `yaml:"expected_end_date,omitempty"`
}

// ParseHierarchy decodes a YAML import document. Unknown keys are rejected.
func ParseHierarchy(data []byte) (*HierarchySchema, error) {
	var schema HierarchySchema
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&schema); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parsing import file: document is empty")
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

// LoadHierarchyFile reads and parses a YAML import file.
func LoadHierarchyFile(path string) (*HierarchySchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseHierarchy(data)
}
