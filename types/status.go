package types

// Status is the run-state of a suite node.
type Status string

const (
	// StatusUnknown is the default state of every node.
	StatusUnknown Status = "unknown"
	// StatusQueued means the node is waiting for its dependencies.
	StatusQueued Status = "queued"
	// StatusSubmitted means the node was handed to a runner.
	StatusSubmitted Status = "submitted"
	// StatusActive means the node is running.
	StatusActive Status = "active"
	// StatusComplete means the node finished successfully.
	StatusComplete Status = "complete"
	// StatusAborted means the node failed.
	StatusAborted Status = "aborted"
	// StatusSuspended means the node was put on hold.
	StatusSuspended Status = "suspended"
)

var knownStatuses = map[Status]bool{
	StatusUnknown:   true,
	StatusQueued:    true,
	StatusSubmitted: true,
	StatusActive:    true,
	StatusComplete:  true,
	StatusAborted:   true,
	StatusSuspended: true,
}

// String returns the status literal.
func (s Status) String() string {
	return string(s)
}

// IsKnown reports whether s is one of the built-in states. Other values
// are environment-defined and still valid.
func (s Status) IsKnown() bool {
	return knownStatuses[s]
}

// ParseStatus converts a literal into a Status. An empty literal maps to
// StatusUnknown; anything else is kept verbatim.
func ParseStatus(literal string) Status {
	if literal == "" {
		return StatusUnknown
	}
	return Status(literal)
}
