package trigger

import (
	"strings"

	"github.com/BaSui01/suitekit/types"
)

// Template is the legacy flat form of a trigger: Format is the expression
// text with each operand path replaced by a %s placeholder, and Operands
// lists the paths in placeholder order.
type Template struct {
	Format   string
	Operands []Operand
}

// Template converts the expression into its legacy form. Operand targets
// are carried over, so a linked expression yields a linked template.
func (e *Expression) Template() *Template {
	if e == nil || e.Root == nil {
		return nil
	}
	comparisons := e.Operands()
	t := &Template{
		Format:   format(e.Root),
		Operands: make([]Operand, 0, len(comparisons)),
	}
	for _, c := range comparisons {
		t.Operands = append(t.Operands, c.Operand)
	}
	return t
}

// Expression rebuilds the expression tree by parsing Format and binding
// each placeholder to the next operand. Evaluation of the result matches
// the expression the template was produced from.
func (t *Template) Expression() (*Expression, error) {
	if t == nil || strings.TrimSpace(t.Format) == "" {
		return nil, nil
	}
	root, err := parseTokens(t.Format, t.Operands, true)
	if err != nil {
		return nil, err
	}
	e := &Expression{Root: root}
	e.Source = e.String()
	return e, nil
}

// Evaluate evaluates the template through its rebuilt expression.
func (t *Template) Evaluate() (bool, error) {
	e, err := t.Expression()
	if err != nil {
		return false, err
	}
	return e.Evaluate()
}

// String substitutes the operand paths into Format.
func (t *Template) String() string {
	var sb strings.Builder
	rest := t.Format
	for _, o := range t.Operands {
		i := strings.Index(rest, "%s")
		if i < 0 {
			break
		}
		sb.WriteString(rest[:i])
		sb.WriteString(o.DisplayPath())
		rest = rest[i+2:]
	}
	sb.WriteString(rest)
	return sb.String()
}

func format(e Expr) string {
	switch n := e.(type) {
	case *Comparison:
		return "%s " + string(n.Op) + " " + string(n.Literal)
	case *And:
		return formatOperand(n.Left) + " AND " + formatOperand(n.Right)
	case *Or:
		return format(n.Left) + " OR " + format(n.Right)
	case *Group:
		return "(" + format(n.Inner) + ")"
	}
	panic(types.NewError(types.ErrUnsupportedType, "unknown trigger node"))
}

func formatOperand(e Expr) string {
	if _, ok := e.(*Or); ok {
		return "(" + format(e) + ")"
	}
	return format(e)
}
