package fixtures

import (
	"fmt"
	"strings"

	"pgregory.net/rapid"
)

type genNode struct {
	kind     string
	name     string
	path     string
	parent   string // "" for the suite
	lines    []string
	tasks    []*genNode
	families []*genNode
}

// Definition draws a random valid suite definition. Triggers and
// path-qualified in-limits reference existing nodes, written either
// absolute or relative to the owner, so the result always builds.
func Definition(rt *rapid.T) string {
	var all []*genNode

	var family func(parent, path string, depth int) *genNode
	family = func(parent, path string, depth int) *genNode {
		f := &genNode{kind: "family", path: path, parent: parent, name: path[strings.LastIndexByte(path, '/')+1:]}
		f.lines = append(f.lines, clauses(rt, "family")...)
		for i, n := 0, rapid.IntRange(0, 3).Draw(rt, "tasks"); i < n; i++ {
			t := &genNode{kind: "task", name: fmt.Sprintf("t%d", i), path: fmt.Sprintf("%s/t%d", path, i), parent: path}
			t.lines = append(t.lines, clauses(rt, "task")...)
			f.tasks = append(f.tasks, t)
			all = append(all, t)
		}
		if depth > 0 {
			for i, n := 0, rapid.IntRange(0, 2).Draw(rt, "families"); i < n; i++ {
				f.families = append(f.families, family(path, fmt.Sprintf("%s/f%d", path, i), depth-1))
			}
		}
		all = append(all, f)
		return f
	}

	var top []*genNode
	for i, n := 0, rapid.IntRange(1, 3).Draw(rt, "top"); i < n; i++ {
		top = append(top, family("", fmt.Sprintf("/f%d", i), 2))
	}

	for _, n := range all {
		if rapid.IntRange(0, 3).Draw(rt, "has_inlimit_path") == 0 {
			target := rapid.SampledFrom(all).Draw(rt, "inlimit_target")
			n.lines = append(n.lines, "inlimit "+reference(rt, n, target)+":lim")
		}
		if rapid.IntRange(0, 3).Draw(rt, "has_trigger") == 0 {
			n.lines = append(n.lines, "trigger "+triggerText(rt, n, all))
		}
	}

	var sb strings.Builder
	sb.WriteString("suite gen\n")
	for _, line := range clauses(rt, "suite") {
		sb.WriteString("\t" + line + "\n")
	}
	for _, f := range top {
		render(&sb, f, 1)
	}
	sb.WriteString("endsuite\n")
	return sb.String()
}

func render(sb *strings.Builder, n *genNode, depth int) {
	indent := strings.Repeat("\t", depth)
	sb.WriteString(indent + n.kind + " " + n.name + "\n")
	for _, line := range n.lines {
		sb.WriteString(indent + "\t" + line + "\n")
	}
	for _, t := range n.tasks {
		render(sb, t, depth+1)
	}
	for _, f := range n.families {
		render(sb, f, depth+1)
	}
	sb.WriteString(indent + "end" + n.kind + "\n")
}

var (
	valueGen = rapid.StringMatching(`[a-z0-9]{1,6}( [a-z0-9]{1,6}){0,2}`)
	nameGen  = rapid.StringMatching(`[A-Z][A-Z0-9_]{0,5}`)
)

func clauses(rt *rapid.T, kind string) []string {
	var out []string
	for i, n := 0, rapid.IntRange(0, 2).Draw(rt, "vars"); i < n; i++ {
		out = append(out, fmt.Sprintf("edit %s %q", nameGen.Draw(rt, "var"), valueGen.Draw(rt, "value")))
	}
	if kind == "suite" {
		return out
	}
	if rapid.Bool().Draw(rt, "limit") {
		out = append(out, fmt.Sprintf("limit lim %d", rapid.IntRange(0, 10).Draw(rt, "capacity")))
	}
	if rapid.Bool().Draw(rt, "inlimit") {
		out = append(out, "inlimit lim")
	}
	if kind != "task" {
		return out
	}
	for i, n := 0, rapid.IntRange(0, 2).Draw(rt, "labels"); i < n; i++ {
		out = append(out, fmt.Sprintf("label note %q", valueGen.Draw(rt, "label")))
	}
	for i, n := 0, rapid.IntRange(0, 2).Draw(rt, "meters"); i < n; i++ {
		lo := rapid.IntRange(0, 50).Draw(rt, "min")
		hi := rapid.IntRange(lo, 100).Draw(rt, "max")
		mark := rapid.IntRange(lo, hi).Draw(rt, "mark")
		out = append(out, fmt.Sprintf("meter m%d %d %d %d", i, lo, hi, mark))
	}
	return out
}

// reference writes target's path as seen from owner: absolute, or relative
// to the owner's parent, which is where relative paths start.
func reference(rt *rapid.T, owner, target *genNode) string {
	if rapid.Bool().Draw(rt, "absolute") {
		return target.path
	}
	if rel := relativePath(owner.parent, target.path); rel != "" {
		return rel
	}
	return target.path
}

func relativePath(base, target string) string {
	b := strings.FieldsFunc(base, func(r rune) bool { return r == '/' })
	t := strings.FieldsFunc(target, func(r rune) bool { return r == '/' })
	k := 0
	for k < len(b) && k < len(t) && b[k] == t[k] {
		k++
	}
	var parts []string
	for range len(b) - k {
		parts = append(parts, "..")
	}
	return strings.Join(append(parts, t[k:]...), "/")
}

func triggerText(rt *rapid.T, owner *genNode, nodes []*genNode) string {
	pick := rapid.SampledFrom(nodes)
	statuses := rapid.SampledFrom([]string{"complete", "unknown", "aborted"})
	ops := rapid.SampledFrom([]string{"==", "!="})
	cmp := func() string {
		return reference(rt, owner, pick.Draw(rt, "target")) + " " + ops.Draw(rt, "op") + " " + statuses.Draw(rt, "status")
	}
	switch rapid.IntRange(0, 2).Draw(rt, "shape") {
	case 1:
		return cmp() + " AND " + cmp()
	case 2:
		return cmp() + " AND (" + cmp() + " OR " + cmp() + ")"
	}
	return cmp()
}
