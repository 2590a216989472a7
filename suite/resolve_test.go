package suite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BaSui01/suitekit/testutil/fixtures"
)

func buildNightly(t *testing.T) *Suite {
	t.Helper()
	s, err := NewBuilder().Build(fixtures.Nightly)
	require.NoError(t, err)
	return s
}

func mustFind(t *testing.T, s *Suite, path string) Node {
	t.Helper()
	n, ok := s.Find(path)
	require.True(t, ok, "path %s", path)
	return n
}

func TestResolve_Paths(t *testing.T) {
	s := buildNightly(t)

	assert.Equal(t, "/", s.Path())
	assert.Equal(t, "/s", mustFind(t, s, "/s").Path())
	assert.Equal(t, "/s/f1/t1", mustFind(t, s, "/s/f1/t1").Path())
	assert.Equal(t, "/s/f2/t4", mustFind(t, s, "s/f2/t4").Path())
}

func TestResolve_FromTask(t *testing.T) {
	s := buildNightly(t)
	t3 := mustFind(t, s, "/s/f2/t3")

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "dotdot is grandparent", path: "..", want: "/s"},
		{name: "root", path: "/", want: "/"},
		{name: "empty is parent", path: "", want: "/s/f2"},
		{name: "dot is parent", path: ".", want: "/s/f2"},
		{name: "sibling task", path: "t4", want: "/s/f2/t4"},
		{name: "dot sibling", path: "./t4", want: "/s/f2/t4"},
		{name: "cousin", path: "../f1/t2", want: "/s/f1/t2"},
		{name: "two levels up", path: "../..", want: "/"},
		{name: "absolute", path: "/s/f1", want: "/s/f1"},
		{name: "trailing slash", path: "../f1/", want: "/s/f1"},
		{name: "double slash", path: "..//f1", want: "/s/f1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := t3.Resolve(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, n.Path())
		})
	}
}

func TestResolve_Misses(t *testing.T) {
	s := buildNightly(t)
	t1 := mustFind(t, s, "/s/f1/t1")

	for _, path := range []string{"nope", "../../../..", "/s/f1/t1/deeper", "/t1", "../F1", "/s/f9"} {
		n, ok := t1.Resolve(path)
		assert.False(t, ok, path)
		assert.Nil(t, n, path)
	}
}

func TestResolve_SuiteRelativeStartsAtSuite(t *testing.T) {
	s := buildNightly(t)

	n, ok := s.Resolve("s/f1")
	require.True(t, ok)
	assert.Equal(t, "/s/f1", n.Path())

	_, ok = s.Resolve("..")
	assert.False(t, ok)
}

func TestResolve_TasksBeforeFamilies(t *testing.T) {
	s, err := NewSuite("s")
	require.NoError(t, err)
	f, _ := NewFamily("f")
	require.NoError(t, s.AddFamily(f))

	sameTask, _ := NewTask("x")
	sameFamily, _ := NewFamily("x")
	require.NoError(t, f.AddFamily(sameFamily))
	require.NoError(t, f.AddTask(sameTask))

	n, ok := s.Find("/f/x")
	require.True(t, ok)
	assert.Equal(t, KindTask, n.Kind())
}

func TestResolve_Detached(t *testing.T) {
	f, err := NewBuilder().BuildFamily("family top\n\tfamily sub\n\t\ttask t\n\tendfamily\nendfamily\n")
	require.NoError(t, err)

	assert.Equal(t, "top", f.Path())
	task := f.Family("sub").Task("t")
	assert.Equal(t, "top/sub/t", task.Path())

	n, ok := f.Resolve("sub/t")
	require.True(t, ok, "a parentless node resolves relative paths from itself")
	assert.Same(t, task, n)

	_, ok = task.Resolve("/top")
	assert.False(t, ok, "absolute paths need a suite")
	assert.Nil(t, task.Suite())
}
