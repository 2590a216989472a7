// =============================================================================
// 📦 Fixtures - definition texts
// =============================================================================
// Ready-made definitions shared by parser, builder and facade tests.
// =============================================================================
package fixtures

// Nightly exercises every clause kind. Paths: /s, /s/f1, /s/f1/t1,
// /s/f1/t2, /s/f2, /s/f2/t3, /s/f2/t4.
const Nightly = `# nightly batch
suite nightly
	edit OWNER "ops team"
	family s
		limit workers 2
		edit QUEUE batch
		family f1
			task t1
				inlimit /s:workers
				label status "waiting"
				meter progress 0 100 0
			task t2
				inlimit workers
				trigger t1 == complete
			endtask
		endfamily
		family f2
			trigger f1 == complete
			task t3
				trigger /s/f1/t2 == complete AND (../f1/t1 == complete OR t4 != aborted)
			task t4
				meter done 0 5 5
		endfamily
	endfamily
endsuite
`

// EmptyFamily is the smallest family fragment. It renders back to itself.
const EmptyFamily = "family X\nendfamily\n"

// UnresolvedTrigger references a task that does not exist.
const UnresolvedTrigger = `suite s
	family f
		task a
			trigger b == complete
	endfamily
endsuite
`

// MissingLimit has an in-limit whose limit is not declared.
const MissingLimit = `suite s
	family f
		limit present 1
		task a
			inlimit /f:absent
			inlimit nowhere
	endfamily
endsuite
`

// MalformedTrigger has trigger text that does not parse.
const MalformedTrigger = `suite s
	family f
		task a
			trigger a ==
	endfamily
endsuite
`

// Definitions returns every valid suite fixture by name.
func Definitions() map[string]string {
	return map[string]string{
		"nightly":       Nightly,
		"missing_limit": MissingLimit,
	}
}
