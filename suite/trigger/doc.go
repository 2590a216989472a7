// Package trigger parses, links and evaluates trigger expressions.
//
// A trigger is a boolean expression over comparisons of the form
// `path == status` or `path != status`, combined with AND/OR and
// parentheses. Paths are linked to concrete nodes through a resolver
// supplied by the owning node; evaluation reads the linked nodes' current
// status and never mutates anything.
package trigger
