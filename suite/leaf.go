package suite

import (
	"fmt"
	"strings"

	"github.com/BaSui01/suitekit/types"
)

// Label is a free-text annotation on a task.
type Label struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Limit is a named capacity declared on a family or task.
type Limit struct {
	Name     string `json:"name" yaml:"name"`
	Capacity int    `json:"capacity" yaml:"capacity"`
}

// InLimit references a limit declared on another node. Node and Limit are
// nil when the reference does not resolve.
type InLimit struct {
	// Path is the node path as written; empty means the nearest
	// ancestor-or-self declaring Name.
	Path  string
	Name  string
	Node  Node
	Limit *Limit
}

// Spec renders the reference for a definition. A reference bound to a node
// inside a suite uses that node's current path, so renames and moves are
// reflected; otherwise the path as written is kept.
func (il *InLimit) Spec() string {
	if il.Path == "" {
		return il.Name
	}
	return il.displayPath() + ":" + il.Name
}

// refreshPath records the bound node's current path as the written path.
func (il *InLimit) refreshPath() {
	if il.Path != "" {
		il.Path = il.displayPath()
	}
}

func (il *InLimit) displayPath() string {
	if il.Node != nil {
		if p := il.Node.Path(); strings.HasPrefix(p, "/") {
			return p
		}
	}
	return il.Path
}

// Meter is a bounded integer progress indicator on a task. The mark always
// lies within [Minimum, Maximum].
type Meter struct {
	name    string
	minimum int
	maximum int
	mark    int
}

// NewMeter creates a meter. It fails with RANGE_VIOLATION when minimum
// exceeds maximum or mark is out of range.
func NewMeter(name string, minimum, maximum, mark int) (*Meter, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if minimum > maximum {
		return nil, types.NewError(types.ErrRangeViolation,
			fmt.Sprintf("meter %s minimum %d exceeds maximum %d", name, minimum, maximum))
	}
	m := &Meter{name: name, minimum: minimum, maximum: maximum, mark: minimum}
	if err := m.SetMark(mark); err != nil {
		return nil, err
	}
	return m, nil
}

// Name returns the meter name.
func (m *Meter) Name() string { return m.name }

// Minimum returns the lower bound.
func (m *Meter) Minimum() int { return m.minimum }

// Maximum returns the upper bound.
func (m *Meter) Maximum() int { return m.maximum }

// Mark returns the current value.
func (m *Meter) Mark() int { return m.mark }

// SetMark updates the mark. A value outside [Minimum, Maximum] leaves the
// mark unchanged and returns RANGE_VIOLATION.
func (m *Meter) SetMark(mark int) error {
	if mark < m.minimum || mark > m.maximum {
		return types.NewError(types.ErrRangeViolation,
			fmt.Sprintf("meter %s mark %d outside [%d, %d]", m.name, mark, m.minimum, m.maximum))
	}
	m.mark = mark
	return nil
}

// Reset moves the mark back to the minimum.
func (m *Meter) Reset() {
	m.mark = m.minimum
}
