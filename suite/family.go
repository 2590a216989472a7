package suite

import (
	"slices"

	"github.com/BaSui01/suitekit/types"
)

// Family groups tasks and sub-families.
type Family struct {
	nodeBase
	attributes
	tasks    []*Task
	families []*Family
}

// NewFamily creates an empty, detached family.
func NewFamily(name string) (*Family, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return newFamily(name), nil
}

func newFamily(name string) *Family {
	return &Family{nodeBase: newBase(name), attributes: newAttributes()}
}

// Kind returns KindFamily.
func (f *Family) Kind() Kind { return KindFamily }

// Resolve looks up path relative to the family's parent.
func (f *Family) Resolve(path string) (Node, bool) { return resolve(f, path) }

// Tasks returns the child tasks in declaration order.
func (f *Family) Tasks() []*Task { return slices.Clone(f.tasks) }

// Families returns the child families in declaration order.
func (f *Family) Families() []*Family { return slices.Clone(f.families) }

// Task returns the child task with the given name, or nil.
func (f *Family) Task(name string) *Task {
	for _, t := range f.tasks {
		if t.name == name {
			return t
		}
	}
	return nil
}

// Family returns the child family with the given name, or nil.
func (f *Family) Family(name string) *Family {
	for _, c := range f.families {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (f *Family) children() []Node {
	out := make([]Node, 0, len(f.tasks)+len(f.families))
	for _, t := range f.tasks {
		out = append(out, t)
	}
	for _, c := range f.families {
		out = append(out, c)
	}
	return out
}

// child searches tasks before families.
func (f *Family) child(name string) Node {
	if t := f.Task(name); t != nil {
		return t
	}
	if c := f.Family(name); c != nil {
		return c
	}
	return nil
}

// Rename changes the family name and recomputes the path of the family
// and every descendant. A name already used by a sibling family is
// rejected and nothing changes.
func (f *Family) Rename(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if other := siblingFamily(f.parent, name); other != nil && other != f {
		return duplicateError(f.parent, name)
	}
	f.name = name
	refreshPaths(f)
	return nil
}

// AddTask moves t under f, detaching it from any previous parent.
func (f *Family) AddTask(t *Task) error {
	if t == nil {
		return types.NewError(types.ErrInvalidName, "task is nil")
	}
	if t.parent == Node(f) {
		return nil
	}
	if f.Task(t.name) != nil {
		return duplicateError(f, t.name)
	}
	detach(t)
	f.tasks = append(f.tasks, t)
	t.parent = f
	refreshPaths(t)
	return nil
}

// RemoveTask detaches t from f.
func (f *Family) RemoveTask(t *Task) error {
	i := slices.Index(f.tasks, t)
	if i < 0 {
		return notAChildError(f, nameOf(t))
	}
	f.tasks = slices.Delete(f.tasks, i, i+1)
	t.parent = nil
	refreshPaths(t)
	return nil
}

// AddFamily moves c under f. Adding f to itself or to one of its own
// descendants is rejected.
func (f *Family) AddFamily(c *Family) error {
	if c == nil {
		return types.NewError(types.ErrInvalidName, "family is nil")
	}
	if c.parent == Node(f) {
		return nil
	}
	for n := Node(f); n != nil; n = n.Parent() {
		if n == Node(c) {
			return types.NewError(types.ErrCycle, "family "+quote(c.name)+" cannot contain itself").WithNode(f.path)
		}
	}
	if f.Family(c.name) != nil {
		return duplicateError(f, c.name)
	}
	detach(c)
	f.families = append(f.families, c)
	c.parent = f
	refreshPaths(c)
	return nil
}

// RemoveFamily detaches c from f.
func (f *Family) RemoveFamily(c *Family) error {
	i := slices.Index(f.families, c)
	if i < 0 {
		return notAChildError(f, nameOf(c))
	}
	f.families = slices.Delete(f.families, i, i+1)
	c.parent = nil
	refreshPaths(c)
	return nil
}

// AddInLimit adds a reference to limit name on the node at path. An empty
// path means the nearest ancestor-or-self declaring name. A miss is
// recorded with a nil limit.
func (f *Family) AddInLimit(path, name string) (*InLimit, error) {
	return f.addInLimit(f, path, name)
}

// SetTrigger replaces the trigger. The text is parsed and linked relative
// to f; on error the previous trigger stays.
func (f *Family) SetTrigger(text string) error {
	return f.setTrigger(f, text)
}

// Link parses and links every trigger in the family's subtree.
func (f *Family) Link() error {
	return linkTree(f)
}

// Relink re-resolves every in-limit and trigger in the subtree the way
// Suite.Relink does.
func (f *Family) Relink() error {
	return relinkTree(f)
}

func siblingFamily(parent Node, name string) *Family {
	switch p := parent.(type) {
	case *Suite:
		return p.Family(name)
	case *Family:
		return p.Family(name)
	}
	return nil
}

// detach removes n from its current parent's collection, if any.
func detach(n Node) {
	switch v := n.(type) {
	case *Task:
		if p, ok := v.parent.(*Family); ok {
			_ = p.RemoveTask(v)
		}
	case *Family:
		switch p := v.parent.(type) {
		case *Suite:
			_ = p.RemoveFamily(v)
		case *Family:
			_ = p.RemoveFamily(v)
		}
	}
}

func duplicateError(parent Node, name string) error {
	return types.NewError(types.ErrDuplicateName, "name "+quote(name)+" already used by a sibling").WithNode(parent.Path())
}

func notAChildError(parent Node, name string) error {
	return types.NewError(types.ErrNotAChild, quote(name)+" is not a child").WithNode(parent.Path())
}

func nameOf(n Node) string {
	switch v := n.(type) {
	case *Task:
		if v != nil {
			return v.name
		}
	case *Family:
		if v != nil {
			return v.name
		}
	}
	return "<nil>"
}
