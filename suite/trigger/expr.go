package trigger

import (
	"errors"
	"strings"

	"github.com/BaSui01/suitekit/types"
)

// Operator compares a node's status with a status literal.
type Operator string

const (
	// OpEqual is true when the status equals the literal
	OpEqual Operator = "=="
	// OpNotEqual is true when the status differs from the literal
	OpNotEqual Operator = "!="
)

// Target is a node a trigger operand can point at.
type Target interface {
	Path() string
	Status() types.Status
}

// ResolveFunc resolves an operand path relative to the trigger's owner.
// It returns false when nothing matches.
type ResolveFunc func(path string) (Target, bool)

// Expr is a node of the trigger expression tree.
type Expr interface {
	// Evaluate interprets the expression against the current status of
	// every linked operand.
	Evaluate() (bool, error)
	// String renders canonical trigger text.
	String() string

	collect(dst []*Comparison) []*Comparison
}

// Operand is a path reference inside a comparison.
type Operand struct {
	// Path is the path as written in the definition.
	Path string
	// Target is the linked node, nil until linked.
	Target Target
}

// DisplayPath returns the path to render: the linked node's absolute path
// when available, otherwise the path as written.
func (o *Operand) DisplayPath() string {
	if o.Target != nil {
		if p := o.Target.Path(); strings.HasPrefix(p, "/") {
			return p
		}
	}
	return o.Path
}

// Comparison is a leaf `path op status`.
type Comparison struct {
	Operand
	Op      Operator
	Literal types.Status
}

// And is true when both sides are true.
type And struct {
	Left, Right Expr
}

// Or is true when either side is true.
type Or struct {
	Left, Right Expr
}

// Group is an explicitly parenthesised sub-expression.
type Group struct {
	Inner Expr
}

// Evaluate compares the linked target's status with the literal.
func (c *Comparison) Evaluate() (bool, error) {
	if c.Target == nil {
		return false, types.NewError(types.ErrLinkError, "trigger operand is not linked").WithPath(c.Path)
	}
	status := c.Target.Status()
	switch c.Op {
	case OpEqual:
		return status == c.Literal, nil
	case OpNotEqual:
		return status != c.Literal, nil
	}
	return false, types.NewError(types.ErrLinkError, "unknown operator "+string(c.Op)).WithPath(c.Path)
}

func (c *Comparison) String() string {
	return c.DisplayPath() + " " + string(c.Op) + " " + string(c.Literal)
}

func (c *Comparison) collect(dst []*Comparison) []*Comparison {
	return append(dst, c)
}

// Evaluate short-circuits on a false left side.
func (a *And) Evaluate() (bool, error) {
	left, err := a.Left.Evaluate()
	if err != nil || !left {
		return false, err
	}
	return a.Right.Evaluate()
}

func (a *And) String() string {
	return wrapOr(a.Left) + " AND " + wrapOr(a.Right)
}

func (a *And) collect(dst []*Comparison) []*Comparison {
	return a.Right.collect(a.Left.collect(dst))
}

// Evaluate short-circuits on a true left side.
func (o *Or) Evaluate() (bool, error) {
	left, err := o.Left.Evaluate()
	if err != nil {
		return false, err
	}
	if left {
		return true, nil
	}
	return o.Right.Evaluate()
}

func (o *Or) String() string {
	return o.Left.String() + " OR " + o.Right.String()
}

func (o *Or) collect(dst []*Comparison) []*Comparison {
	return o.Right.collect(o.Left.collect(dst))
}

// Evaluate evaluates the grouped expression.
func (g *Group) Evaluate() (bool, error) {
	return g.Inner.Evaluate()
}

func (g *Group) String() string {
	return "(" + g.Inner.String() + ")"
}

func (g *Group) collect(dst []*Comparison) []*Comparison {
	return g.Inner.collect(dst)
}

// wrapOr parenthesises a bare Or under an And so the rendered text keeps
// the tree's precedence.
func wrapOr(e Expr) string {
	if _, ok := e.(*Or); ok {
		return "(" + e.String() + ")"
	}
	return e.String()
}

// Expression is a parsed trigger together with its source text.
type Expression struct {
	// Source is the trigger text the expression was parsed from.
	Source string
	// Root is the top of the expression tree.
	Root Expr
}

// Operands returns every comparison in left-to-right order.
func (e *Expression) Operands() []*Comparison {
	if e == nil || e.Root == nil {
		return nil
	}
	return e.Root.collect(nil)
}

// Link resolves every operand path. Each path that does not resolve yields
// a LINK_ERROR naming the path and owner; all of them are returned joined.
// Operands that fail keep a nil target.
func (e *Expression) Link(owner string, resolve ResolveFunc) error {
	var errs []error
	for _, c := range e.Operands() {
		target, ok := resolve(c.Path)
		if !ok || target == nil {
			c.Target = nil
			errs = append(errs, types.NewLinkError(owner, c.Path))
			continue
		}
		c.Target = target
	}
	return errors.Join(errs...)
}

// Unlink clears every operand's target.
func (e *Expression) Unlink() {
	for _, c := range e.Operands() {
		c.Target = nil
	}
}

// Linked reports whether every operand has a target.
func (e *Expression) Linked() bool {
	for _, c := range e.Operands() {
		if c.Target == nil {
			return false
		}
	}
	return true
}

// Evaluate reports whether the trigger holds. A nil expression is true.
func (e *Expression) Evaluate() (bool, error) {
	if e == nil || e.Root == nil {
		return true, nil
	}
	return e.Root.Evaluate()
}

// String renders canonical trigger text.
func (e *Expression) String() string {
	if e == nil || e.Root == nil {
		return ""
	}
	return e.Root.String()
}

// Conjoin combines expressions with AND, skipping nil entries. It returns
// nil when nothing is left.
func Conjoin(exprs ...*Expression) *Expression {
	var (
		root    Expr
		sources []string
	)
	for _, e := range exprs {
		if e == nil || e.Root == nil {
			continue
		}
		sources = append(sources, e.Source)
		if root == nil {
			root = e.Root
			continue
		}
		root = &And{Left: root, Right: e.Root}
	}
	if root == nil {
		return nil
	}
	if len(sources) == 1 {
		return &Expression{Source: sources[0], Root: root}
	}
	for i, src := range sources {
		sources[i] = "(" + src + ")"
	}
	return &Expression{Source: strings.Join(sources, " AND "), Root: root}
}
