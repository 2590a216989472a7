package suite

import (
	"fmt"
	"maps"
)

// Equal reports whether two suites are structurally equal: names,
// hierarchy, variables, limits, in-limits, labels, meters and canonical
// trigger text. Paths and statuses are not compared.
func Equal(a, b *Suite) bool {
	return Diff(a, b) == ""
}

// Diff describes the first structural difference between two suites, or
// returns "" when they are equal.
func Diff(a, b *Suite) string {
	if a == nil || b == nil {
		if a == b {
			return ""
		}
		return "one suite is nil"
	}
	if a.name != b.name {
		return fmt.Sprintf("suite name %q != %q", a.name, b.name)
	}
	if !maps.Equal(a.variables, b.variables) {
		return "suite variables differ"
	}
	return diffFamilies("/", a.families, b.families)
}

// FamilyDiff compares two families the way Diff compares suites.
func FamilyDiff(a, b *Family) string {
	return diffFamily(a, b)
}

func diffFamilies(where string, a, b []*Family) string {
	if len(a) != len(b) {
		return fmt.Sprintf("%s: %d families != %d", where, len(a), len(b))
	}
	for i := range a {
		if d := diffFamily(a[i], b[i]); d != "" {
			return d
		}
	}
	return ""
}

func diffFamily(a, b *Family) string {
	if a.name != b.name {
		return fmt.Sprintf("family name %q != %q", a.path, b.path)
	}
	if !maps.Equal(a.variables, b.variables) {
		return a.path + ": variables differ"
	}
	if d := diffAttributes(a.path, &a.attributes, &b.attributes); d != "" {
		return d
	}
	if len(a.tasks) != len(b.tasks) {
		return fmt.Sprintf("%s: %d tasks != %d", a.path, len(a.tasks), len(b.tasks))
	}
	for i := range a.tasks {
		if d := diffTask(a.tasks[i], b.tasks[i]); d != "" {
			return d
		}
	}
	return diffFamilies(a.path, a.families, b.families)
}

func diffTask(a, b *Task) string {
	if a.name != b.name {
		return fmt.Sprintf("task name %q != %q", a.path, b.path)
	}
	if !maps.Equal(a.variables, b.variables) {
		return a.path + ": variables differ"
	}
	if d := diffAttributes(a.path, &a.attributes, &b.attributes); d != "" {
		return d
	}
	if len(a.labels) != len(b.labels) {
		return fmt.Sprintf("%s: %d labels != %d", a.path, len(a.labels), len(b.labels))
	}
	for i := range a.labels {
		if *a.labels[i] != *b.labels[i] {
			return fmt.Sprintf("%s: label %d differs", a.path, i)
		}
	}
	if len(a.meters) != len(b.meters) {
		return fmt.Sprintf("%s: %d meters != %d", a.path, len(a.meters), len(b.meters))
	}
	for i := range a.meters {
		if *a.meters[i] != *b.meters[i] {
			return fmt.Sprintf("%s: meter %d differs", a.path, i)
		}
	}
	return ""
}

func diffAttributes(where string, a, b *attributes) string {
	if !maps.EqualFunc(a.limits, b.limits, func(x, y *Limit) bool { return *x == *y }) {
		return where + ": limits differ"
	}
	if len(a.inLimits) != len(b.inLimits) {
		return fmt.Sprintf("%s: %d inlimits != %d", where, len(a.inLimits), len(b.inLimits))
	}
	for i := range a.inLimits {
		if a.inLimits[i].Spec() != b.inLimits[i].Spec() {
			return fmt.Sprintf("%s: inlimit %s != %s", where, a.inLimits[i].Spec(), b.inLimits[i].Spec())
		}
		if (a.inLimits[i].Limit == nil) != (b.inLimits[i].Limit == nil) {
			return fmt.Sprintf("%s: inlimit %s resolves differently", where, a.inLimits[i].Spec())
		}
	}
	if ta, tb := a.TriggerText(), b.TriggerText(); ta != tb {
		return fmt.Sprintf("%s: trigger %q != %q", where, ta, tb)
	}
	return ""
}
