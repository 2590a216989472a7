package suite

import (
	"time"

	"go.uber.org/zap"

	"github.com/BaSui01/suitekit/suite/dsl"
	"github.com/BaSui01/suitekit/types"
)

// Builder turns definition text into a linked node tree.
type Builder struct {
	dialect      dsl.Dialect
	strictMeters bool
	logger       *zap.Logger
}

// NewBuilder creates a builder for the legacy dialect with strict meters.
func NewBuilder() *Builder {
	return &Builder{
		dialect:      dsl.DialectLegacy,
		strictMeters: true,
		logger:       zap.NewNop(),
	}
}

// WithLogger sets a custom logger
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	b.logger = logger.With(zap.String("component", "suite_builder"))
	return b
}

// WithDialect selects how trigger clauses are parsed.
func (b *Builder) WithDialect(d dsl.Dialect) *Builder {
	b.dialect = d
	return b
}

// WithStrictMeters controls whether out-of-range meter marks in the
// definition are rejected.
func (b *Builder) WithStrictMeters(strict bool) *Builder {
	b.strictMeters = strict
	return b
}

func (b *Builder) parseOptions() []dsl.Option {
	return []dsl.Option{dsl.WithDialect(b.dialect), dsl.WithStrictMeters(b.strictMeters)}
}

// Build parses src, constructs the tree and links every trigger. Any parse
// or link error fails the whole build.
func (b *Builder) Build(src string) (*Suite, error) {
	start := time.Now()

	rec, err := dsl.Parse(src, b.parseOptions()...)
	if err != nil {
		b.logger.Debug("definition parse failed", zap.Error(err))
		return nil, err
	}
	s, err := b.Construct(rec)
	if err != nil {
		return nil, err
	}
	if err := s.Link(); err != nil {
		b.logger.Debug("trigger link failed", zap.String("suite", s.Name()), zap.Error(err))
		return nil, err
	}

	b.logger.Info("suite built successfully",
		zap.String("name", s.Name()),
		zap.Int("nodes", s.NodeCount()),
		zap.Duration("duration", time.Since(start)),
	)
	return s, nil
}

// BuildFamily parses a bare family fragment into a detached family and
// links its triggers against the fragment itself.
func (b *Builder) BuildFamily(src string) (*Family, error) {
	rec, err := dsl.ParseFamily(src, b.parseOptions()...)
	if err != nil {
		b.logger.Debug("family parse failed", zap.Error(err))
		return nil, err
	}
	f, err := b.ConstructFamily(rec)
	if err != nil {
		return nil, err
	}
	if err := f.Link(); err != nil {
		return nil, err
	}
	b.logger.Debug("family built", zap.String("name", f.Name()), zap.Int("nodes", Count(f)))
	return f, nil
}

// Construct builds the unlinked tree for a parsed suite. In-limits are
// resolved once the whole tree exists.
func (b *Builder) Construct(rec *dsl.SuiteRecord) (*Suite, error) {
	c := &constructor{logger: b.logger}
	s := newSuite(rec.Name)
	for _, m := range rec.Members {
		switch cl := m.(type) {
		case *dsl.VariableClause:
			s.variables[cl.Name] = cl.Value
		case *dsl.FamilyRecord:
			if s.Family(cl.Name) != nil {
				return nil, c.duplicate(cl.Pos, "family", cl.Name, s)
			}
			f := c.family(cl)
			s.families = append(s.families, f)
			f.parent = s
		}
	}
	if c.err != nil {
		return nil, c.err
	}
	refreshPaths(s)
	c.resolveInLimits()
	return s, nil
}

// ConstructFamily builds an unlinked, detached family.
func (b *Builder) ConstructFamily(rec *dsl.FamilyRecord) (*Family, error) {
	c := &constructor{logger: b.logger}
	f := c.family(rec)
	if c.err != nil {
		return nil, c.err
	}
	refreshPaths(f)
	c.resolveInLimits()
	return f, nil
}

type pendingInLimit struct {
	owner  Node
	attrs  *attributes
	clause *dsl.InLimitClause
}

// constructor holds the state of one tree construction. It records the
// first error and ignores later ones.
type constructor struct {
	logger   *zap.Logger
	inLimits []pendingInLimit
	err      error
}

func (c *constructor) duplicate(pos dsl.Pos, kind, name string, parent Node) error {
	return types.NewParseError(pos.Line, pos.Column, "duplicate %s name %q in %s", kind, name, parent.Name())
}

func (c *constructor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *constructor) family(rec *dsl.FamilyRecord) *Family {
	f := newFamily(rec.Name)
	for _, m := range rec.Members {
		switch cl := m.(type) {
		case *dsl.VariableClause:
			f.variables[cl.Name] = cl.Value
		case *dsl.LimitClause:
			f.limits[cl.Name] = &Limit{Name: cl.Name, Capacity: cl.Capacity}
		case *dsl.InLimitClause:
			c.inLimits = append(c.inLimits, pendingInLimit{owner: f, attrs: &f.attributes, clause: cl})
		case *dsl.TriggerClause:
			f.addTriggerClause(cl.Text, cl.Expr)
		case *dsl.TaskRecord:
			if f.Task(cl.Name) != nil {
				c.fail(c.duplicate(cl.Pos, "task", cl.Name, f))
				continue
			}
			t := c.task(cl)
			f.tasks = append(f.tasks, t)
			t.parent = f
		case *dsl.FamilyRecord:
			if f.Family(cl.Name) != nil {
				c.fail(c.duplicate(cl.Pos, "family", cl.Name, f))
				continue
			}
			child := c.family(cl)
			f.families = append(f.families, child)
			child.parent = f
		}
	}
	return f
}

func (c *constructor) task(rec *dsl.TaskRecord) *Task {
	t := newTask(rec.Name)
	for _, m := range rec.Members {
		switch cl := m.(type) {
		case *dsl.VariableClause:
			t.variables[cl.Name] = cl.Value
		case *dsl.LimitClause:
			t.limits[cl.Name] = &Limit{Name: cl.Name, Capacity: cl.Capacity}
		case *dsl.InLimitClause:
			c.inLimits = append(c.inLimits, pendingInLimit{owner: t, attrs: &t.attributes, clause: cl})
		case *dsl.LabelClause:
			t.labels = append(t.labels, &Label{Name: cl.Name, Text: cl.Text})
		case *dsl.MeterClause:
			t.meters = append(t.meters, &Meter{name: cl.Name, minimum: cl.Minimum, maximum: cl.Maximum, mark: cl.Mark})
		case *dsl.TriggerClause:
			t.addTriggerClause(cl.Text, cl.Expr)
		}
	}
	return t
}

func (c *constructor) resolveInLimits() {
	for _, p := range c.inLimits {
		il := &InLimit{Path: p.clause.Path, Name: p.clause.Name}
		resolveInLimit(p.owner, il)
		if il.Limit == nil {
			c.logger.Debug("inlimit did not resolve",
				zap.String("node", p.owner.Path()),
				zap.String("inlimit", il.Spec()),
			)
		}
		p.attrs.inLimits = append(p.attrs.inLimits, il)
	}
}
