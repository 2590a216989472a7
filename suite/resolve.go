package suite

import "strings"

// resolve walks path from the node `from`.
//
// Absolute paths start at the suite. Relative paths start at the parent of
// `from`, or at `from` itself when it has no parent. Each ".." segment moves
// the base up one level; "" and "." keep it; any other segment must match a
// child name exactly.
func resolve(from Node, path string) (Node, bool) {
	var base Node
	if strings.HasPrefix(path, "/") {
		s := from.Suite()
		if s == nil {
			return nil, false
		}
		base = s
		path = path[1:]
	} else {
		base = from.Parent()
		if base == nil {
			base = from
		}
	}

	for _, segment := range strings.Split(path, "/") {
		switch segment {
		case "", ".":
			continue
		case "..":
			base = base.Parent()
			if base == nil {
				return nil, false
			}
		default:
			base = base.child(segment)
			if base == nil {
				return nil, false
			}
		}
	}
	return base, true
}

// resolveInLimit binds il to its node and limit. Without a path the nearest
// ancestor-or-self declaring the limit wins. Misses leave Limit nil.
func resolveInLimit(owner Node, il *InLimit) {
	il.Node, il.Limit = bindInLimit(owner, il.Path, il.Name)
}

func bindInLimit(owner Node, path, name string) (Node, *Limit) {
	if path == "" {
		for n := owner; n != nil; n = n.Parent() {
			if a := attributesOf(n); a != nil {
				if l, ok := a.limits[name]; ok {
					return n, l
				}
			}
		}
		return nil, nil
	}

	target, ok := owner.Resolve(path)
	if !ok {
		return nil, nil
	}
	return target, limitOf(target, name)
}

// rebindInLimit is resolveInLimit for Relink: a path reference whose node is
// still in the tree stays on that node.
func rebindInLimit(owner Node, il *InLimit) (Node, *Limit) {
	if il.Path != "" && il.Node != nil && rootOf(il.Node) == rootOf(owner) {
		return il.Node, limitOf(il.Node, il.Name)
	}
	return bindInLimit(owner, il.Path, il.Name)
}

func limitOf(n Node, name string) *Limit {
	if a := attributesOf(n); a != nil {
		return a.limits[name]
	}
	return nil
}
