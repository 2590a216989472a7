package suite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/suitekit/suite/dsl"
	"github.com/BaSui01/suitekit/testutil"
	"github.com/BaSui01/suitekit/testutil/fixtures"
)

const nightlyDefinition = `suite nightly
	edit OWNER "ops team"
	family s
		edit QUEUE "batch"
		limit workers 2
		family f1
			task t1
				inlimit /s:workers
				label status "waiting"
				meter progress 0 100 0
			endtask
			task t2
				inlimit workers
				trigger /s/f1/t1 == complete
			endtask
		endfamily
		family f2
			trigger /s/f1 == complete
			task t3
				trigger /s/f1/t2 == complete AND (/s/f1/t1 == complete OR /s/f2/t4 != aborted)
			endtask
			task t4
				meter done 0 5 5
			endtask
		endfamily
	endfamily
endsuite
`

func TestDefinition_Nightly(t *testing.T) {
	s := buildNightly(t)
	assert.Equal(t, nightlyDefinition, s.Definition())
}

func TestDefinition_IsAFixedPoint(t *testing.T) {
	s := buildNightly(t)
	again, err := NewBuilder().Build(s.Definition())
	require.NoError(t, err)

	assert.Equal(t, s.Definition(), again.Definition())
	assert.True(t, Equal(s, again), Diff(s, again))
}

func TestDefinition_EmptyFamilyRoundTrip(t *testing.T) {
	f, err := NewBuilder().BuildFamily(fixtures.EmptyFamily)
	require.NoError(t, err)
	assert.Equal(t, fixtures.EmptyFamily, f.Definition())
}

func TestDefinition_Indent(t *testing.T) {
	s, err := NewSuite("s")
	require.NoError(t, err)
	f, _ := NewFamily("f")
	require.NoError(t, s.AddFamily(f))
	task, _ := NewTask("t")
	require.NoError(t, f.AddTask(task))

	testutil.AssertLines(t, "suite s\n"+
		"  family f\n"+
		"    task t\n"+
		"    endtask\n"+
		"  endfamily\n"+
		"endsuite\n", s.DefinitionIndent("  "))

	assert.Equal(t, "family f\n\ttask t\n\tendtask\nendfamily\n", f.Definition())
	assert.Equal(t, "task t\nendtask\n", task.Definition())
}

func TestDefinition_Quoting(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "plain", value: "batch", want: `edit V "batch"`},
		{name: "spaces", value: "ops team", want: `edit V "ops team"`},
		{name: "empty", value: "", want: `edit V ""`},
		{name: "double quote", value: `say "hi"`, want: `edit V 'say "hi"'`},
		{name: "single quote", value: "it's", want: `edit V "it's"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask("t")
			require.NoError(t, err)
			require.NoError(t, task.SetVariable("V", tt.value))

			text := task.Definition()
			assert.Contains(t, text, "\t"+tt.want+"\n")

			f, err := NewBuilder().BuildFamily("family f\n" + text + "endfamily\n")
			require.NoError(t, err)
			got, _ := f.Task("t").Variable("V")
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestDefinition_VariablesSortedLimitsSorted(t *testing.T) {
	f, err := NewFamily("f")
	require.NoError(t, err)
	require.NoError(t, f.SetVariable("ZED", "1"))
	require.NoError(t, f.SetVariable("ALPHA", "2"))
	_, err = f.AddLimit("b", 1)
	require.NoError(t, err)
	_, err = f.AddLimit("a", 2)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(f.Definition(), "\n"), "\n")
	assert.Equal(t, []string{
		"family f",
		`	edit ALPHA "2"`,
		`	edit ZED "1"`,
		"	limit a 2",
		"	limit b 1",
		"endfamily",
	}, lines)
}

func TestDefinition_UnlinkedTriggerKeepsSourceText(t *testing.T) {
	rec, err := dsl.Parse("suite s\nfamily f\ntask a\ntrigger x == complete\ntrigger y == complete\nendfamily\nendsuite")
	require.NoError(t, err)
	s, err := NewBuilder().Construct(rec)
	require.NoError(t, err)

	assert.Nil(t, s.Family("f").Task("a").Trigger())
	assert.Contains(t, s.Definition(), "\t\t\ttrigger (x == complete) AND (y == complete)\n")
}
