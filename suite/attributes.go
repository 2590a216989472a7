package suite

import (
	"slices"
	"sort"
	"strings"

	"github.com/BaSui01/suitekit/suite/trigger"
	"github.com/BaSui01/suitekit/types"
)

// attributes holds what families and tasks share: limits, in-limits and
// the trigger.
type attributes struct {
	limits   map[string]*Limit
	inLimits []*InLimit
	// sources keeps each trigger clause's text in declaration order.
	sources []string
	trigger *trigger.Expression
}

func newAttributes() attributes {
	return attributes{limits: make(map[string]*Limit)}
}

// Limits returns the declared limits sorted by name.
func (a *attributes) Limits() []*Limit {
	out := make([]*Limit, 0, len(a.limits))
	for _, l := range a.limits {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Limit returns the limit with the given name.
func (a *attributes) Limit(name string) (*Limit, bool) {
	l, ok := a.limits[name]
	return l, ok
}

// AddLimit declares a limit, replacing any existing one with that name.
func (a *attributes) AddLimit(name string, capacity int) (*Limit, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if capacity < 0 {
		return nil, types.NewError(types.ErrRangeViolation, "limit capacity must not be negative")
	}
	l := &Limit{Name: name, Capacity: capacity}
	a.limits[name] = l
	return l, nil
}

// InLimits returns the in-limit references in declaration order.
func (a *attributes) InLimits() []*InLimit {
	return slices.Clone(a.inLimits)
}

// Trigger returns the parsed trigger, nil when there is none or it has not
// been linked yet.
func (a *attributes) Trigger() *trigger.Expression {
	return a.trigger
}

// TriggerText returns the trigger in canonical form when parsed, otherwise
// the captured clause text.
func (a *attributes) TriggerText() string {
	if a.trigger != nil {
		return a.trigger.String()
	}
	switch len(a.sources) {
	case 0:
		return ""
	case 1:
		return a.sources[0]
	}
	parts := make([]string, len(a.sources))
	for i, s := range a.sources {
		parts[i] = "(" + s + ")"
	}
	return strings.Join(parts, " AND ")
}

// Eligible evaluates the trigger. A node without a trigger is eligible.
func (a *attributes) Eligible() (bool, error) {
	if a.trigger == nil && len(a.sources) > 0 {
		return false, types.NewError(types.ErrLinkError, "trigger has not been linked")
	}
	return a.trigger.Evaluate()
}

func (a *attributes) addTriggerClause(text string, expr *trigger.Expression) {
	a.sources = append(a.sources, text)
	if expr != nil {
		a.trigger = trigger.Conjoin(a.trigger, expr)
	}
}

// parseTrigger parses every captured clause and combines them with AND.
func (a *attributes) parseTrigger() (*trigger.Expression, error) {
	exprs := make([]*trigger.Expression, 0, len(a.sources))
	for _, src := range a.sources {
		e, err := trigger.Parse(src)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return trigger.Conjoin(exprs...), nil
}

// link parses the trigger if needed and resolves its operands relative to
// owner.
func (a *attributes) link(owner Node) error {
	if len(a.sources) == 0 {
		return nil
	}
	if a.trigger == nil {
		e, err := a.parsed(owner)
		if err != nil {
			return err
		}
		a.trigger = e
	}
	return a.trigger.Link(owner.Path(), resolverFor(owner))
}

// parsed returns the trigger, parsing the captured clauses when it has not
// been parsed yet. It does not store the result.
func (a *attributes) parsed(owner Node) (*trigger.Expression, error) {
	if a.trigger != nil {
		return a.trigger, nil
	}
	e, err := a.parseTrigger()
	if err != nil {
		return nil, types.NewError(types.ErrLinkError, "malformed trigger").WithNode(owner.Path()).WithCause(err)
	}
	return e, nil
}

// setTrigger replaces the trigger with text, parsed and linked relative to
// owner. On error nothing changes. Empty text removes the trigger.
func (a *attributes) setTrigger(owner Node, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		a.sources, a.trigger = nil, nil
		return nil
	}
	e, err := trigger.Parse(text)
	if err != nil {
		return err
	}
	if err := e.Link(owner.Path(), resolverFor(owner)); err != nil {
		return err
	}
	a.sources, a.trigger = []string{text}, e
	return nil
}

func (a *attributes) addInLimit(owner Node, path, name string) (*InLimit, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	il := &InLimit{Path: path, Name: name}
	resolveInLimit(owner, il)
	a.inLimits = append(a.inLimits, il)
	return il, nil
}

func resolverFor(owner Node) trigger.ResolveFunc {
	return func(path string) (trigger.Target, bool) {
		n, ok := owner.Resolve(path)
		if !ok {
			return nil, false
		}
		return n, true
	}
}

// attributesOf returns the shared attributes of a family or task.
func attributesOf(n Node) *attributes {
	switch v := n.(type) {
	case *Family:
		return &v.attributes
	case *Task:
		return &v.attributes
	}
	return nil
}
