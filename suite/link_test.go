package suite

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/suitekit/types"
)

func TestEligible_FollowsStatuses(t *testing.T) {
	s := buildNightly(t)
	t1 := mustFind(t, s, "/s/f1/t1")
	t2 := mustFind(t, s, "/s/f1/t2").(*Task)

	ok, err := t2.Eligible()
	require.NoError(t, err)
	assert.False(t, ok)

	t1.SetStatus(types.StatusComplete)
	ok, err = t2.Eligible()
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = t1.(*Task).Eligible()
	require.NoError(t, err)
	assert.True(t, ok, "no trigger means eligible")
}

func TestEligible_Nightly(t *testing.T) {
	tests := []struct {
		name     string
		statuses map[string]types.Status
		want     bool
	}{
		{name: "nothing done", want: false},
		{
			name:     "t2 done, t4 not aborted",
			statuses: map[string]types.Status{"/s/f1/t2": types.StatusComplete},
			want:     true,
		},
		{
			name:     "t2 done, t4 aborted, t1 pending",
			statuses: map[string]types.Status{"/s/f1/t2": types.StatusComplete, "/s/f2/t4": types.StatusAborted},
			want:     false,
		},
		{
			name: "t2 done, t4 aborted, t1 done",
			statuses: map[string]types.Status{
				"/s/f1/t2": types.StatusComplete,
				"/s/f2/t4": types.StatusAborted,
				"/s/f1/t1": types.StatusComplete,
			},
			want: true,
		},
		{
			name:     "custom status",
			statuses: map[string]types.Status{"/s/f1/t2": "waiting"},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildNightly(t)
			for path, status := range tt.statuses {
				mustFind(t, s, path).SetStatus(status)
			}
			t3 := mustFind(t, s, "/s/f2/t3").(*Task)
			ok, err := t3.Eligible()
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestEligible_UnlinkedTrigger(t *testing.T) {
	f, err := NewBuilder().BuildFamily("family f\ntask a\ntask b\ntrigger a == complete\nendfamily")
	require.NoError(t, err)
	b := f.Task("b")

	b.Trigger().Unlink()
	_, err = b.Eligible()
	require.Error(t, err)
	assert.True(t, types.IsLinkError(err))

	require.NoError(t, f.Link())
	ok, err := b.Eligible()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetTrigger(t *testing.T) {
	s := buildNightly(t)
	t4 := mustFind(t, s, "/s/f2/t4").(*Task)
	t3 := mustFind(t, s, "/s/f2/t3").(*Task)
	original := t3.TriggerText()

	require.NoError(t, t4.SetTrigger("t3 == complete OR ../f1 == complete"))
	assert.Equal(t, "/s/f2/t3 == complete OR /s/f1 == complete", t4.TriggerText())
	assert.True(t, t4.Trigger().Linked())

	tests := []struct {
		name string
		text string
		code types.ErrorCode
	}{
		{name: "malformed", text: "t4 ==", code: types.ErrParseError},
		{name: "unresolved", text: "ghost == complete", code: types.ErrLinkError},
		{name: "partly unresolved", text: "t4 == complete AND ghost == complete", code: types.ErrLinkError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := t3.SetTrigger(tt.text)
			require.Error(t, err)
			assert.Equal(t, tt.code, types.GetErrorCode(err))
			assert.Equal(t, original, t3.TriggerText(), "a failed update keeps the previous trigger")
			assert.True(t, t3.Trigger().Linked())
		})
	}

	require.NoError(t, t3.SetTrigger("  "))
	assert.Nil(t, t3.Trigger())
	assert.Equal(t, "", t3.TriggerText())
	ok, err := t3.Eligible()
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSetTrigger_Family(t *testing.T) {
	s := buildNightly(t)
	f2 := s.Family("s").Family("f2")

	require.NoError(t, f2.SetTrigger("f1/t1 == complete"))
	assert.Equal(t, "/s/f1/t1 == complete", f2.TriggerText())
	assert.Contains(t, s.Definition(), "\t\t\ttrigger /s/f1/t1 == complete\n")
}

// With only AND connectives a trigger holds exactly when every operand
// matches.
func TestEligible_ConjunctionProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	s, err := NewBuilder().Build(`suite s
	family f
		task a
		task b
		task c
		task gate
			trigger a == complete AND b == complete AND c != aborted
	endfamily
endsuite
`)
	require.NoError(t, err)
	f := s.Family("f")
	gate := f.Task("gate")

	status := func(done bool, match types.Status, other types.Status) types.Status {
		if done {
			return match
		}
		return other
	}

	properties.Property("AND holds iff every comparison holds", prop.ForAll(
		func(a, b, cAborted bool) bool {
			f.Task("a").SetStatus(status(a, types.StatusComplete, types.StatusActive))
			f.Task("b").SetStatus(status(b, types.StatusComplete, types.StatusQueued))
			f.Task("c").SetStatus(status(cAborted, types.StatusAborted, types.StatusComplete))
			ok, err := gate.Eligible()
			return err == nil && ok == (a && b && !cAborted)
		},
		gen.Bool(), gen.Bool(), gen.Bool(),
	))

	properties.TestingRun(t)
}
