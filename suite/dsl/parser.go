package dsl

import (
	"errors"
	"strconv"
	"strings"

	"github.com/BaSui01/suitekit/suite/trigger"
	"github.com/BaSui01/suitekit/types"
)

// Dialect selects how trigger clauses are handled.
type Dialect string

const (
	// DialectLegacy captures trigger text verbatim; it is parsed at link time.
	DialectLegacy Dialect = "legacy"
	// DialectStructured parses trigger text while parsing the definition.
	DialectStructured Dialect = "structured"
)

// ParseDialect converts a configuration value into a Dialect. The empty
// string selects the legacy dialect.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(strings.ToLower(strings.TrimSpace(s))) {
	case "", DialectLegacy:
		return DialectLegacy, nil
	case DialectStructured:
		return DialectStructured, nil
	}
	return "", types.NewError(types.ErrInvalidConfig, "unknown dialect "+strconv.Quote(s))
}

var reserved = map[string]bool{
	"suite": true, "endsuite": true,
	"family": true, "endfamily": true,
	"task": true, "endtask": true,
	"edit": true, "limit": true, "inlimit": true,
	"label": true, "meter": true, "trigger": true,
	"AND": true, "OR": true,
}

// IsReserved reports whether word is a keyword of the grammar.
func IsReserved(word string) bool {
	return reserved[word]
}

// Option configures parsing.
type Option func(*parser)

// WithDialect selects the trigger dialect. The default is DialectLegacy.
func WithDialect(d Dialect) Option {
	return func(p *parser) { p.dialect = d }
}

// WithStrictMeters controls meter marks outside [MIN, MAX]. When strict
// (the default) they are a parse error; otherwise the mark falls back to MIN.
func WithStrictMeters(strict bool) Option {
	return func(p *parser) { p.strictMeters = strict }
}

type parser struct {
	s            *scanner
	dialect      Dialect
	strictMeters bool
}

func newParser(src string, opts []Option) *parser {
	p := &parser{s: newScanner(src), dialect: DialectLegacy, strictMeters: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a complete `suite ... endsuite` definition. On error no
// record is returned.
func Parse(src string, opts ...Option) (*SuiteRecord, error) {
	p := newParser(src, opts)
	rec, err := p.parseSuite()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF("endsuite"); err != nil {
		return nil, err
	}
	return rec, nil
}

// ParseFamily parses a single bare `family ... endfamily` fragment.
func ParseFamily(src string, opts ...Option) (*FamilyRecord, error) {
	p := newParser(src, opts)
	rec, err := p.parseFamily()
	if err != nil {
		return nil, err
	}
	if err := p.expectEOF("endfamily"); err != nil {
		return nil, err
	}
	return rec, nil
}

func (p *parser) errorf(pos Pos, format string, args ...any) error {
	return types.NewParseError(pos.Line, pos.Column, format, args...)
}

func (p *parser) expectEOF(after string) error {
	t, err := p.s.peek()
	if err != nil {
		return err
	}
	if t.kind != tokEOF {
		return p.errorf(t.pos, "unexpected %s after %s", t.describe(), after)
	}
	return nil
}

func (p *parser) expectKeyword(keyword string) (token, error) {
	t, err := p.s.next()
	if err != nil {
		return token{}, err
	}
	if !t.is(keyword) {
		return token{}, p.errorf(t.pos, "expected %q, got %s", keyword, t.describe())
	}
	return t, nil
}

// name reads an identifier that is not a reserved word.
func (p *parser) name(what string) (string, error) {
	t, err := p.s.next()
	if err != nil {
		return "", err
	}
	if t.kind != tokWord || !IsIdentifier(t.text) {
		return "", p.errorf(t.pos, "expected %s name, got %s", what, t.describe())
	}
	if reserved[t.text] {
		return "", p.errorf(t.pos, "reserved word %q cannot be a %s name", t.text, what)
	}
	return t.text, nil
}

func (p *parser) value(what string) (string, error) {
	t, err := p.s.next()
	if err != nil {
		return "", err
	}
	switch {
	case t.kind == tokString:
		return t.text, nil
	case t.kind == tokWord && IsBareValue(t.text) && !reserved[t.text]:
		return t.text, nil
	}
	return "", p.errorf(t.pos, "expected %s value, got %s", what, t.describe())
}

func (p *parser) unsigned(what string) (int, error) {
	t, err := p.s.next()
	if err != nil {
		return 0, err
	}
	if t.kind != tokWord || !isUnsigned(t.text) {
		return 0, p.errorf(t.pos, "expected unsigned integer for %s, got %s", what, t.describe())
	}
	n, err := strconv.Atoi(t.text)
	if err != nil {
		return 0, p.errorf(t.pos, "%s %s out of range", what, t.text)
	}
	return n, nil
}

func (p *parser) parseSuite() (*SuiteRecord, error) {
	start, err := p.expectKeyword("suite")
	if err != nil {
		return nil, err
	}
	name, err := p.name("suite")
	if err != nil {
		return nil, err
	}
	rec := &SuiteRecord{Pos: start.pos, Name: name}

	for {
		t, err := p.s.peek()
		if err != nil {
			return nil, err
		}
		var member Clause
		switch {
		case t.is("endsuite"):
			p.s.next()
			return rec, nil
		case t.is("edit"):
			member, err = p.parseVariable()
		case t.is("family"):
			member, err = p.parseFamily()
		case t.kind == tokEOF:
			return nil, p.errorf(t.pos, "missing endsuite for suite %q", name)
		default:
			return nil, p.errorf(t.pos, "unexpected %s in suite %q", t.describe(), name)
		}
		if err != nil {
			return nil, err
		}
		rec.Members = append(rec.Members, member)
	}
}

func (p *parser) parseFamily() (*FamilyRecord, error) {
	start, err := p.expectKeyword("family")
	if err != nil {
		return nil, err
	}
	name, err := p.name("family")
	if err != nil {
		return nil, err
	}
	rec := &FamilyRecord{Pos: start.pos, Name: name}

	for {
		t, err := p.s.peek()
		if err != nil {
			return nil, err
		}
		var member Clause
		switch {
		case t.is("endfamily"):
			p.s.next()
			return rec, nil
		case t.is("family"):
			member, err = p.parseFamily()
		case t.is("task"):
			member, err = p.parseTask()
		case t.is("label"), t.is("meter"):
			return nil, p.errorf(t.pos, "%s is only allowed in a task (family %q)", t.text, name)
		case t.kind == tokEOF:
			return nil, p.errorf(t.pos, "missing endfamily for family %q", name)
		default:
			member, err = p.parseCommon(t, "family", name)
		}
		if err != nil {
			return nil, err
		}
		rec.Members = append(rec.Members, member)
	}
}

func (p *parser) parseTask() (*TaskRecord, error) {
	start, err := p.expectKeyword("task")
	if err != nil {
		return nil, err
	}
	name, err := p.name("task")
	if err != nil {
		return nil, err
	}
	rec := &TaskRecord{Pos: start.pos, Name: name}

	for {
		t, err := p.s.peek()
		if err != nil {
			return nil, err
		}
		var member Clause
		switch {
		case t.is("endtask"):
			p.s.next()
			return rec, nil
		case t.is("task"), t.is("family"), t.is("endfamily"), t.kind == tokEOF:
			// endtask is optional
			return rec, nil
		case t.is("label"):
			member, err = p.parseLabel()
		case t.is("meter"):
			member, err = p.parseMeter()
		default:
			member, err = p.parseCommon(t, "task", name)
		}
		if err != nil {
			return nil, err
		}
		rec.Members = append(rec.Members, member)
	}
}

// parseCommon handles the clauses shared by family and task bodies.
func (p *parser) parseCommon(t token, kind, owner string) (Clause, error) {
	switch {
	case t.is("edit"):
		return p.parseVariable()
	case t.is("limit"):
		return p.parseLimit()
	case t.is("inlimit"):
		return p.parseInLimit()
	case t.is("trigger"):
		return p.parseTrigger()
	}
	return nil, p.errorf(t.pos, "unexpected %s in %s %q", t.describe(), kind, owner)
}

func (p *parser) parseVariable() (*VariableClause, error) {
	start, err := p.expectKeyword("edit")
	if err != nil {
		return nil, err
	}
	name, err := p.name("variable")
	if err != nil {
		return nil, err
	}
	value, err := p.value("variable")
	if err != nil {
		return nil, err
	}
	return &VariableClause{Pos: start.pos, Name: name, Value: value}, nil
}

func (p *parser) parseLimit() (*LimitClause, error) {
	start, err := p.expectKeyword("limit")
	if err != nil {
		return nil, err
	}
	name, err := p.name("limit")
	if err != nil {
		return nil, err
	}
	capacity, err := p.unsigned("limit capacity")
	if err != nil {
		return nil, err
	}
	return &LimitClause{Pos: start.pos, Name: name, Capacity: capacity}, nil
}

func (p *parser) parseInLimit() (*InLimitClause, error) {
	start, err := p.expectKeyword("inlimit")
	if err != nil {
		return nil, err
	}
	t, err := p.s.next()
	if err != nil {
		return nil, err
	}
	if t.kind != tokWord {
		return nil, p.errorf(t.pos, "expected inlimit reference, got %s", t.describe())
	}

	clause := &InLimitClause{Pos: start.pos, Name: t.text}
	if i := strings.LastIndexByte(t.text, ':'); i >= 0 {
		clause.Path, clause.Name = t.text[:i], t.text[i+1:]
		if !isNodePath(clause.Path) {
			return nil, p.errorf(t.pos, "invalid inlimit path %q", clause.Path)
		}
	}
	if !IsIdentifier(clause.Name) {
		return nil, p.errorf(t.pos, "invalid inlimit name %q", clause.Name)
	}
	return clause, nil
}

func (p *parser) parseLabel() (*LabelClause, error) {
	start, err := p.expectKeyword("label")
	if err != nil {
		return nil, err
	}
	name, err := p.name("label")
	if err != nil {
		return nil, err
	}
	text, err := p.value("label")
	if err != nil {
		return nil, err
	}
	return &LabelClause{Pos: start.pos, Name: name, Text: text}, nil
}

func (p *parser) parseMeter() (*MeterClause, error) {
	start, err := p.expectKeyword("meter")
	if err != nil {
		return nil, err
	}
	name, err := p.name("meter")
	if err != nil {
		return nil, err
	}
	minimum, err := p.unsigned("meter minimum")
	if err != nil {
		return nil, err
	}
	maximum, err := p.unsigned("meter maximum")
	if err != nil {
		return nil, err
	}
	if minimum > maximum {
		return nil, p.errorf(start.pos, "meter %q minimum %d exceeds maximum %d", name, minimum, maximum)
	}

	clause := &MeterClause{Pos: start.pos, Name: name, Minimum: minimum, Maximum: maximum, Mark: minimum}
	t, err := p.s.peek()
	if err != nil {
		return nil, err
	}
	if t.kind != tokWord || !isUnsigned(t.text) {
		return clause, nil
	}
	mark, err := p.unsigned("meter mark")
	if err != nil {
		return nil, err
	}
	if mark < minimum || mark > maximum {
		if p.strictMeters {
			return nil, p.errorf(t.pos, "meter %q mark %d outside [%d, %d]", name, mark, minimum, maximum)
		}
		return clause, nil
	}
	clause.Mark = mark
	return clause, nil
}

func (p *parser) parseTrigger() (*TriggerClause, error) {
	start, err := p.expectKeyword("trigger")
	if err != nil {
		return nil, err
	}
	text, pos := p.s.restOfLine()
	if text == "" {
		return nil, p.errorf(start.pos, "trigger requires an expression")
	}

	clause := &TriggerClause{Pos: start.pos, Text: text}
	if p.dialect != DialectStructured {
		return clause, nil
	}
	expr, err := trigger.Parse(text)
	if err != nil {
		var perr *types.Error
		if errors.As(err, &perr) {
			return nil, p.errorf(Pos{Line: pos.Line, Column: pos.Column + perr.Column - 1}, "%s", perr.Message)
		}
		return nil, err
	}
	clause.Expr = expr
	return clause, nil
}
