package suite

import (
	"errors"
	"slices"

	"github.com/BaSui01/suitekit/suite/trigger"
	"github.com/BaSui01/suitekit/types"
)

// Suite is the root of a definition tree. Its path is always "/".
type Suite struct {
	nodeBase
	families []*Family
}

// NewSuite creates an empty suite.
func NewSuite(name string) (*Suite, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	return newSuite(name), nil
}

func newSuite(name string) *Suite {
	s := &Suite{nodeBase: newBase(name)}
	s.path = "/"
	return s
}

// Kind returns KindSuite.
func (s *Suite) Kind() Kind { return KindSuite }

// Suite returns s.
func (s *Suite) Suite() *Suite { return s }

// Resolve looks up path from the suite. Relative paths also start at the
// suite.
func (s *Suite) Resolve(path string) (Node, bool) { return resolve(s, path) }

// Find resolves an absolute or suite-relative path.
func (s *Suite) Find(path string) (Node, bool) { return resolve(s, path) }

// Families returns the top-level families in declaration order.
func (s *Suite) Families() []*Family { return slices.Clone(s.families) }

// Family returns the top-level family with the given name, or nil.
func (s *Suite) Family(name string) *Family {
	for _, f := range s.families {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (s *Suite) children() []Node {
	out := make([]Node, 0, len(s.families))
	for _, f := range s.families {
		out = append(out, f)
	}
	return out
}

func (s *Suite) child(name string) Node {
	if f := s.Family(name); f != nil {
		return f
	}
	return nil
}

// Rename changes the suite name. Paths are unaffected.
func (s *Suite) Rename(name string) error {
	if err := validName(name); err != nil {
		return err
	}
	s.name = name
	return nil
}

// AddFamily moves f under the suite, detaching it from any previous
// parent.
func (s *Suite) AddFamily(f *Family) error {
	if f == nil {
		return types.NewError(types.ErrInvalidName, "family is nil")
	}
	if f.parent == Node(s) {
		return nil
	}
	if s.Family(f.name) != nil {
		return duplicateError(s, f.name)
	}
	detach(f)
	s.families = append(s.families, f)
	f.parent = s
	refreshPaths(f)
	return nil
}

// RemoveFamily detaches f from the suite. f becomes the root of a detached
// subtree.
func (s *Suite) RemoveFamily(f *Family) error {
	i := slices.Index(s.families, f)
	if i < 0 {
		return notAChildError(s, nameOf(f))
	}
	s.families = slices.Delete(s.families, i, i+1)
	f.parent = nil
	refreshPaths(f)
	return nil
}

// Link parses and links every trigger in the suite. All link errors are
// returned joined; nodes whose operands resolved stay linked.
func (s *Suite) Link() error {
	return linkTree(s)
}

// Relink re-resolves every in-limit and trigger. References whose target is
// still in the tree follow it; the others are resolved again from their
// recorded path. Use it after mutations that move, rename or remove
// referenced nodes. On error nothing changes.
func (s *Suite) Relink() error {
	return relinkTree(s)
}

// NodeCount returns the number of suites, families and tasks in the tree.
func (s *Suite) NodeCount() int { return Count(s) }

func linkTree(root Node) error {
	var errs []error
	_ = Walk(root, func(n Node) error {
		if a := attributesOf(n); a != nil {
			if err := a.link(n); err != nil {
				errs = append(errs, err)
			}
		}
		return nil
	})
	return errors.Join(errs...)
}

func relinkTree(root Node) error {
	var (
		errs  []error
		apply []func()
	)
	_ = Walk(root, func(n Node) error {
		a := attributesOf(n)
		if a == nil {
			return nil
		}
		for _, il := range a.inLimits {
			node, limit := rebindInLimit(n, il)
			apply = append(apply, func() { il.Node, il.Limit = node, limit; il.refreshPath() })
		}
		if len(a.sources) == 0 {
			return nil
		}
		expr, err := a.parsed(n)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		operands := expr.Operands()
		targets := make([]trigger.Target, len(operands))
		failed := false
		for i, c := range operands {
			if target, ok := followTarget(n, c.Target); ok {
				targets[i] = target
				continue
			}
			target, ok := n.Resolve(c.Path)
			if !ok {
				errs = append(errs, types.NewLinkError(n.Path(), c.Path))
				failed = true
				continue
			}
			targets[i] = target
		}
		if failed {
			return nil
		}
		apply = append(apply, func() {
			a.trigger = expr
			for i, c := range operands {
				c.Target = targets[i]
				c.Path = c.DisplayPath()
			}
		})
		return nil
	})
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, fn := range apply {
		fn()
	}
	return nil
}

// followTarget returns target when it is a node still in owner's tree.
func followTarget(owner Node, target trigger.Target) (Node, bool) {
	n, ok := target.(Node)
	if !ok || n == nil || rootOf(n) != rootOf(owner) {
		return nil, false
	}
	return n, true
}

func rootOf(n Node) Node {
	for n.Parent() != nil {
		n = n.Parent()
	}
	return n
}
