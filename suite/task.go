package suite

import (
	"slices"
)

// Task is a leaf unit of work. It owns labels and meters.
type Task struct {
	nodeBase
	attributes
	labels []*Label
	meters []*Meter
}

// NewTask creates a detached task.
func NewTask(name string) (*Task, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return newTask(name), nil
}

func newTask(name string) *Task {
	return &Task{nodeBase: newBase(name), attributes: newAttributes()}
}

// Kind returns KindTask.
func (t *Task) Kind() Kind { return KindTask }

// Resolve looks up path relative to the task's parent.
func (t *Task) Resolve(path string) (Node, bool) { return resolve(t, path) }

func (t *Task) children() []Node { return nil }

func (t *Task) child(string) Node { return nil }

// Labels returns the labels in declaration order.
func (t *Task) Labels() []*Label { return slices.Clone(t.labels) }

// Meters returns the meters in declaration order.
func (t *Task) Meters() []*Meter { return slices.Clone(t.meters) }

// Label returns the first label with the given name, or nil.
func (t *Task) Label(name string) *Label {
	for _, l := range t.labels {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Meter returns the first meter with the given name, or nil.
func (t *Task) Meter(name string) *Meter {
	for _, m := range t.meters {
		if m.name == name {
			return m
		}
	}
	return nil
}

// AddLabel appends a label. Names may repeat. Text is normalized like a
// variable value.
func (t *Task) AddLabel(name, text string) (*Label, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	text, verr := normalizeValue(text)
	if verr != nil {
		return nil, verr.WithNode(t.path)
	}
	l := &Label{Name: name, Text: text}
	t.labels = append(t.labels, l)
	return l, nil
}

// AddMeter appends a meter. Names may repeat.
func (t *Task) AddMeter(name string, minimum, maximum, mark int) (*Meter, error) {
	m, err := NewMeter(name, minimum, maximum, mark)
	if err != nil {
		return nil, err
	}
	t.meters = append(t.meters, m)
	return m, nil
}

// Rename changes the task name and recomputes its path. A name already
// used by a sibling task is rejected and nothing changes.
func (t *Task) Rename(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if f, ok := t.parent.(*Family); ok {
		if other := f.Task(name); other != nil && other != t {
			return duplicateError(f, name)
		}
	}
	t.name = name
	refreshPaths(t)
	return nil
}

// AddInLimit adds a reference to limit name on the node at path. An empty
// path means the nearest ancestor-or-self declaring name.
func (t *Task) AddInLimit(path, name string) (*InLimit, error) {
	return t.addInLimit(t, path, name)
}

// SetTrigger replaces the trigger. The text is parsed and linked relative
// to t; on error the previous trigger stays.
func (t *Task) SetTrigger(text string) error {
	return t.setTrigger(t, text)
}
