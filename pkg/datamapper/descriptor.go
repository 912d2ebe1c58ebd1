package datamapper

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	TypeString = "string"
	TypeObject = "object"
)

type Field struct {
	Name   string  `yaml:"name" json:"name"`
	Type   string  `yaml:"type" json:"type"`
	Fields []Field `yaml:"fields,omitempty" json:"fields,omitempty"`
}

type SchemaInfo struct {
	Title  string  `yaml:"title" json:"title"`
	Type   string  `yaml:"type" json:"type"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Properties is host-supplied configuration for the mapping resource. It is
// handed to whoever needs it and is never read by Map.
type Properties map[string]string

// Descriptor carries the declared input and output shapes of the mapping for
// editors and other tooling. It is metadata only and is not enforced.
type Descriptor struct {
	Name          string     `yaml:"name" json:"name"`
	FunctionName  string     `yaml:"function_name" json:"function_name"`
	InputVariable string     `yaml:"input_variable" json:"input_variable"`
	Input         SchemaInfo `yaml:"input" json:"input"`
	Output        SchemaInfo `yaml:"output" json:"output"`
	Properties    Properties `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// FieldPair links an input field to its output position, as a dotted path.
type FieldPair struct {
	Source string `yaml:"source" json:"source"`
	Target string `yaml:"target" json:"target"`
}

var fieldPairs = []FieldPair{
	{Source: "name", Target: "patient.name"},
	{Source: "dob", Target: "patient.dob"},
	{Source: "ssn", Target: "patient.ssn"},
	{Source: "address", Target: "patient.address"},
	{Source: "phone", Target: "patient.phone"},
	{Source: "email", Target: "patient.email"},
	{Source: "doctor", Target: "doctor"},
	{Source: "hospital_id", Target: "hospital_id"},
	{Source: "hospital", Target: "hospital"},
	{Source: "appointment_date", Target: "appointment_date"},
}

func DefaultDescriptor() Descriptor {
	return Descriptor{
		Name:          "RequestMapping",
		FunctionName:  "map_S_root_S_root",
		InputVariable: "inputroot",
		Input: SchemaInfo{
			Title: "root",
			Type:  "JSON",
			Fields: stringFields("name", "dob", "ssn", "address", "phone", "email",
				"doctor", "hospital_id", "hospital", "cardNo", "appointment_date"),
		},
		Output: SchemaInfo{
			Title: "root",
			Type:  "JSON",
			Fields: append(
				[]Field{{
					Name:   "patient",
					Type:   TypeObject,
					Fields: stringFields("name", "dob", "ssn", "address", "phone", "email"),
				}},
				stringFields("doctor", "hospital_id", "hospital", "appointment_date")...,
			),
		},
	}
}

// WithProperties returns a copy of d carrying props.
func (d Descriptor) WithProperties(props Properties) Descriptor {
	if len(props) == 0 {
		d.Properties = nil
		return d
	}
	copied := make(Properties, len(props))
	for k, v := range props {
		copied[k] = v
	}
	d.Properties = copied
	return d
}

func (d Descriptor) YAML() ([]byte, error) {
	return yaml.Marshal(d)
}

func ParseDescriptor(content []byte) (Descriptor, error) {
	var d Descriptor
	if err := yaml.Unmarshal(content, &d); err != nil {
		return Descriptor{}, err
	}
	if d.FunctionName == "" {
		return Descriptor{}, errors.New("descriptor has no function name")
	}
	return d, nil
}

// FieldPairs lists every input field that reaches the output and where it lands.
func FieldPairs() []FieldPair {
	out := make([]FieldPair, len(fieldPairs))
	copy(out, fieldPairs)
	return out
}

// Dropped lists the input fields that have no output position.
func Dropped() []string {
	carried := make(map[string]struct{}, len(fieldPairs))
	for _, p := range fieldPairs {
		carried[p.Source] = struct{}{}
	}
	var dropped []string
	for _, f := range DefaultDescriptor().Input.Fields {
		if _, ok := carried[f.Name]; !ok {
			dropped = append(dropped, f.Name)
		}
	}
	return dropped
}

// LoadProperties reads a flat YAML mapping of property names to values.
// An empty path yields no properties.
func LoadProperties(path string) (Properties, error) {
	if path == "" {
		return Properties{}, nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading properties file: %w", err)
	}

	props := Properties{}
	if err := yaml.Unmarshal(content, &props); err != nil {
		return nil, fmt.Errorf("parsing properties file: %w", err)
	}
	return props, nil
}

func stringFields(names ...string) []Field {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		fields = append(fields, Field{Name: n, Type: TypeString})
	}
	return fields
}
