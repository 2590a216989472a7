package dsl

import "github.com/BaSui01/suitekit/suite/trigger"

// Pos is a 1-based source position.
type Pos struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Position returns the position itself so records embedding Pos satisfy Clause.
func (p Pos) Position() Pos { return p }

// Clause is one member of a suite, family or task body, kept in
// declaration order.
type Clause interface {
	Position() Pos
	clause()
}

// VariableClause is `edit NAME VALUE`.
type VariableClause struct {
	Pos
	Name  string
	Value string
}

// LimitClause is `limit NAME CAPACITY`.
type LimitClause struct {
	Pos
	Name     string
	Capacity int
}

// InLimitClause is `inlimit PATH:NAME` or `inlimit NAME`. Path is empty in
// the second form.
type InLimitClause struct {
	Pos
	Path string
	Name string
}

// LabelClause is `label NAME VALUE`.
type LabelClause struct {
	Pos
	Name string
	Text string
}

// MeterClause is `meter NAME MIN MAX [MARK]`.
type MeterClause struct {
	Pos
	Name    string
	Minimum int
	Maximum int
	Mark    int
}

// TriggerClause is `trigger TEXT`. Text is the remainder of the line. Expr
// is set by the structured dialect and left nil by the legacy dialect,
// which defers parsing to link time.
type TriggerClause struct {
	Pos
	Text string
	Expr *trigger.Expression
}

// SuiteRecord is a parsed `suite NAME ... endsuite` block.
type SuiteRecord struct {
	Pos
	Name    string
	Members []Clause
}

// FamilyRecord is a parsed `family NAME ... endfamily` block.
type FamilyRecord struct {
	Pos
	Name    string
	Members []Clause
}

// TaskRecord is a parsed `task NAME ... [endtask]` block.
type TaskRecord struct {
	Pos
	Name    string
	Members []Clause
}

func (*VariableClause) clause() {}
func (*LimitClause) clause()    {}
func (*InLimitClause) clause()  {}
func (*LabelClause) clause()    {}
func (*MeterClause) clause()    {}
func (*TriggerClause) clause()  {}
func (*FamilyRecord) clause()   {}
func (*TaskRecord) clause()     {}
