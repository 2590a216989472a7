package suite

import (
	"encoding/json"
	"fmt"
	"maps"

	"gopkg.in/yaml.v3"

	"github.com/BaSui01/suitekit/types"
)

// SuiteDocument is the structured form of a suite.
type SuiteDocument struct {
	Name      string            `json:"name" yaml:"name"`
	Variables map[string]string `json:"variables" yaml:"variables"`
	Families  []FamilyDocument  `json:"families" yaml:"families"`
}

// FamilyDocument is the structured form of a family.
type FamilyDocument struct {
	Name      string            `json:"name" yaml:"name"`
	Variables map[string]string `json:"variables" yaml:"variables"`
	Tasks     []TaskDocument    `json:"tasks" yaml:"tasks"`
	Families  []FamilyDocument  `json:"families" yaml:"families"`
}

// TaskDocument is the structured form of a task.
type TaskDocument struct {
	Name      string            `json:"name" yaml:"name"`
	Variables map[string]string `json:"variables" yaml:"variables"`
	Labels    []LabelDocument   `json:"labels" yaml:"labels"`
	Meters    []MeterDocument   `json:"meters" yaml:"meters"`
}

// LabelDocument is the structured form of a label.
type LabelDocument struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// MeterDocument is the structured form of a meter.
type MeterDocument struct {
	Name    string `json:"name" yaml:"name"`
	Minimum int    `json:"minimum" yaml:"minimum"`
	Maximum int    `json:"maximum" yaml:"maximum"`
	Mark    int    `json:"mark" yaml:"mark"`
}

// Document returns the structured form of the suite. Arrays keep
// declaration order.
func (s *Suite) Document() *SuiteDocument {
	doc := &SuiteDocument{
		Name:      s.name,
		Variables: maps.Clone(s.variables),
		Families:  make([]FamilyDocument, 0, len(s.families)),
	}
	for _, f := range s.families {
		doc.Families = append(doc.Families, *f.Document())
	}
	return doc
}

// Document returns the structured form of the family.
func (f *Family) Document() *FamilyDocument {
	doc := &FamilyDocument{
		Name:      f.name,
		Variables: maps.Clone(f.variables),
		Tasks:     make([]TaskDocument, 0, len(f.tasks)),
		Families:  make([]FamilyDocument, 0, len(f.families)),
	}
	for _, t := range f.tasks {
		doc.Tasks = append(doc.Tasks, *t.Document())
	}
	for _, c := range f.families {
		doc.Families = append(doc.Families, *c.Document())
	}
	return doc
}

// Document returns the structured form of the task.
func (t *Task) Document() *TaskDocument {
	doc := &TaskDocument{
		Name:      t.name,
		Variables: maps.Clone(t.variables),
		Labels:    make([]LabelDocument, 0, len(t.labels)),
		Meters:    make([]MeterDocument, 0, len(t.meters)),
	}
	for _, l := range t.labels {
		doc.Labels = append(doc.Labels, *l.Document())
	}
	for _, m := range t.meters {
		doc.Meters = append(doc.Meters, *m.Document())
	}
	return doc
}

// Document returns the structured form of the label.
func (l *Label) Document() *LabelDocument {
	return &LabelDocument{Name: l.Name, Text: l.Text}
}

// Document returns the structured form of the meter.
func (m *Meter) Document() *MeterDocument {
	return &MeterDocument{Name: m.name, Minimum: m.minimum, Maximum: m.maximum, Mark: m.mark}
}

// MarshalJSON serializes the suite document.
func (s *Suite) MarshalJSON() ([]byte, error) { return json.Marshal(s.Document()) }

// MarshalJSON serializes the family document.
func (f *Family) MarshalJSON() ([]byte, error) { return json.Marshal(f.Document()) }

// MarshalJSON serializes the task document.
func (t *Task) MarshalJSON() ([]byte, error) { return json.Marshal(t.Document()) }

// MarshalJSON serializes the meter document.
func (m *Meter) MarshalJSON() ([]byte, error) { return json.Marshal(m.Document()) }

// MarshalYAML returns the suite document for YAML encoding.
func (s *Suite) MarshalYAML() (interface{}, error) { return s.Document(), nil }

// MarshalYAML returns the family document for YAML encoding.
func (f *Family) MarshalYAML() (interface{}, error) { return f.Document(), nil }

// MarshalYAML returns the task document for YAML encoding.
func (t *Task) MarshalYAML() (interface{}, error) { return t.Document(), nil }

// MarshalYAML returns the meter document for YAML encoding.
func (m *Meter) MarshalYAML() (interface{}, error) { return m.Document(), nil }

// document maps v onto the closed set of document types.
func document(v any) (any, error) {
	switch n := v.(type) {
	case *Suite:
		return n.Document(), nil
	case *Family:
		return n.Document(), nil
	case *Task:
		return n.Document(), nil
	case *Label:
		return n.Document(), nil
	case *Meter:
		return n.Document(), nil
	}
	return nil, types.NewError(types.ErrUnsupportedType, fmt.Sprintf("cannot serialize %T", v))
}

// MarshalNode serializes a suite, family, task, label or meter to JSON.
// Any other value fails with UNSUPPORTED_TYPE.
func MarshalNode(v any) ([]byte, error) {
	return MarshalNodeIndent(v, "")
}

// MarshalNodeIndent is like MarshalNode with indented output. An empty
// indent produces compact JSON.
func MarshalNodeIndent(v any, indent string) ([]byte, error) {
	doc, err := document(v)
	if err != nil {
		return nil, err
	}
	if indent == "" {
		return json.Marshal(doc)
	}
	return json.MarshalIndent(doc, "", indent)
}

// ToJSON converts a node to an indented JSON string
func ToJSON(v any) (string, error) {
	data, err := MarshalNodeIndent(v, "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToYAML converts a node to a YAML string
func ToYAML(v any) (string, error) {
	doc, err := document(v)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal to YAML: %w", err)
	}
	return string(data), nil
}
