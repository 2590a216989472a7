package suite

import (
	"maps"
	"strings"

	"github.com/BaSui01/suitekit/suite/dsl"
	"github.com/BaSui01/suitekit/suite/trigger"
	"github.com/BaSui01/suitekit/types"
)

// Kind identifies the type of a node.
type Kind string

// Node kinds
const (
	KindSuite  Kind = "suite"
	KindFamily Kind = "family"
	KindTask   Kind = "task"
)

// Node is a Suite, Family or Task.
type Node interface {
	Name() string
	// Path is "/" for a suite, "/name" for a suite's children and
	// parent path + "/" + name below that. The root of a detached subtree
	// has its bare name as path.
	Path() string
	Kind() Kind
	// Parent is nil for a suite and for the root of a detached subtree.
	Parent() Node
	// Suite walks up the parent chain; nil when detached.
	Suite() *Suite
	Status() types.Status
	SetStatus(status types.Status)
	Variable(name string) (string, bool)
	SetVariable(name, value string) error
	// Variables returns a copy of the node's variables.
	Variables() map[string]string
	// Resolve looks up a node by absolute or relative path. A miss returns
	// (nil, false).
	Resolve(path string) (Node, bool)

	base() *nodeBase
	children() []Node
	child(name string) Node
}

// Gated is a node that can carry a trigger: a Family or a Task.
type Gated interface {
	Node
	Trigger() *trigger.Expression
	TriggerText() string
	SetTrigger(text string) error
	Eligible() (bool, error)
}

var (
	_ Gated = (*Family)(nil)
	_ Gated = (*Task)(nil)
)

type nodeBase struct {
	name      string
	path      string
	parent    Node
	status    types.Status
	variables map[string]string
}

func newBase(name string) nodeBase {
	return nodeBase{
		name:      name,
		path:      name,
		status:    types.StatusUnknown,
		variables: make(map[string]string),
	}
}

func (b *nodeBase) base() *nodeBase { return b }

// Name returns the node name.
func (b *nodeBase) Name() string { return b.name }

// Path returns the node path.
func (b *nodeBase) Path() string { return b.path }

// Parent returns the owning node, or nil.
func (b *nodeBase) Parent() Node { return b.parent }

// Suite returns the suite the node belongs to, or nil when detached.
func (b *nodeBase) Suite() *Suite {
	for n := b.parent; n != nil; n = n.Parent() {
		if s, ok := n.(*Suite); ok {
			return s
		}
	}
	return nil
}

// Status returns the current run state.
func (b *nodeBase) Status() types.Status { return b.status }

// SetStatus sets the run state. The empty status becomes unknown.
func (b *nodeBase) SetStatus(status types.Status) {
	b.status = types.ParseStatus(string(status))
}

// Variable returns one variable.
func (b *nodeBase) Variable(name string) (string, bool) {
	v, ok := b.variables[name]
	return v, ok
}

// SetVariable sets a variable. The name must be an identifier. Whitespace
// runs in value collapse to single spaces, as in a definition.
func (b *nodeBase) SetVariable(name, value string) error {
	if !dsl.IsIdentifier(name) || dsl.IsReserved(name) {
		return types.NewError(types.ErrInvalidName, "invalid variable name "+quote(name)).WithNode(b.path)
	}
	v, err := normalizeValue(value)
	if err != nil {
		return err.WithNode(b.path)
	}
	b.variables[name] = v
	return nil
}

// DeleteVariable removes a variable if present.
func (b *nodeBase) DeleteVariable(name string) {
	delete(b.variables, name)
}

// Variables returns a copy of the variables.
func (b *nodeBase) Variables() map[string]string {
	return maps.Clone(b.variables)
}

func joinPath(parent Node, name string) string {
	switch p := parent.(type) {
	case nil:
		return name
	case *Suite:
		return "/" + name
	default:
		return p.Path() + "/" + name
	}
}

// refreshPaths recomputes the path of n and every descendant.
func refreshPaths(n Node) {
	b := n.base()
	if _, ok := n.(*Suite); ok {
		b.path = "/"
	} else {
		b.path = joinPath(b.parent, b.name)
	}
	for _, c := range n.children() {
		refreshPaths(c)
	}
}

// Walk visits n and its descendants depth first, tasks before
// sub-families. It stops at the first error fn returns.
func Walk(n Node, fn func(Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.children() {
		if err := Walk(c, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes in the subtree rooted at n.
func Count(n Node) int {
	count := 0
	_ = Walk(n, func(Node) error {
		count++
		return nil
	})
	return count
}

func validName(name string) error {
	if !dsl.IsIdentifier(name) || dsl.IsReserved(name) {
		return types.NewError(types.ErrInvalidName, "invalid node name "+quote(name))
	}
	return nil
}

// normalizeValue brings a variable or label value into the form a
// definition can carry. A value holding both quote characters has none.
func normalizeValue(value string) (string, *types.Error) {
	if strings.ContainsRune(value, '"') && strings.ContainsRune(value, '\'') {
		return "", types.NewError(types.ErrInvalidValue, "value "+quote(value)+" holds both quote characters")
	}
	return strings.Join(strings.Fields(value), " "), nil
}

func quote(s string) string {
	return `"` + s + `"`
}
