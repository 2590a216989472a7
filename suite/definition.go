package suite

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultIndent is the per-level indentation of definition text.
const DefaultIndent = "\t"

// Definition renders the suite as canonical definition text.
func (s *Suite) Definition() string {
	return s.DefinitionIndent(DefaultIndent)
}

// DefinitionIndent renders the suite using indent for each nesting level.
func (s *Suite) DefinitionIndent(indent string) string {
	w := &definitionWriter{indent: indent}
	w.line(0, "suite "+s.name)
	w.variables(1, s.variables)
	for _, f := range s.families {
		w.family(1, f)
	}
	w.line(0, "endsuite")
	return w.sb.String()
}

// Definition renders the family as a definition fragment.
func (f *Family) Definition() string {
	return f.DefinitionIndent(DefaultIndent)
}

// DefinitionIndent renders the family using indent for each nesting level.
func (f *Family) DefinitionIndent(indent string) string {
	w := &definitionWriter{indent: indent}
	w.family(0, f)
	return w.sb.String()
}

// Definition renders the task block.
func (t *Task) Definition() string {
	return t.DefinitionIndent(DefaultIndent)
}

// DefinitionIndent renders the task block using indent for its attributes.
func (t *Task) DefinitionIndent(indent string) string {
	w := &definitionWriter{indent: indent}
	w.task(0, t)
	return w.sb.String()
}

type definitionWriter struct {
	sb     strings.Builder
	indent string
}

func (w *definitionWriter) line(depth int, text string) {
	w.sb.WriteString(strings.Repeat(w.indent, depth))
	w.sb.WriteString(text)
	w.sb.WriteByte('\n')
}

func (w *definitionWriter) variables(depth int, vars map[string]string) {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		w.line(depth, "edit "+k+" "+quoteValue(vars[k]))
	}
}

func (w *definitionWriter) attributes(depth int, a *attributes) {
	for _, l := range a.Limits() {
		w.line(depth, fmt.Sprintf("limit %s %d", l.Name, l.Capacity))
	}
	for _, il := range a.inLimits {
		w.line(depth, "inlimit "+il.Spec())
	}
}

func (w *definitionWriter) trigger(depth int, a *attributes) {
	if text := a.TriggerText(); text != "" {
		w.line(depth, "trigger "+text)
	}
}

func (w *definitionWriter) family(depth int, f *Family) {
	w.line(depth, "family "+f.name)
	w.variables(depth+1, f.variables)
	w.attributes(depth+1, &f.attributes)
	w.trigger(depth+1, &f.attributes)
	for _, t := range f.tasks {
		w.task(depth+1, t)
	}
	for _, c := range f.families {
		w.family(depth+1, c)
	}
	w.line(depth, "endfamily")
}

func (w *definitionWriter) task(depth int, t *Task) {
	w.line(depth, "task "+t.name)
	w.variables(depth+1, t.variables)
	w.attributes(depth+1, &t.attributes)
	for _, l := range t.labels {
		w.line(depth+1, "label "+l.Name+" "+quoteValue(l.Text))
	}
	for _, m := range t.meters {
		w.line(depth+1, fmt.Sprintf("meter %s %d %d %d", m.name, m.minimum, m.maximum, m.mark))
	}
	w.trigger(depth+1, &t.attributes)
	w.line(depth, "endtask")
}

// quoteValue double-quotes v, falling back to single quotes when v holds a
// double quote.
func quoteValue(v string) string {
	if strings.ContainsRune(v, '"') {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}
