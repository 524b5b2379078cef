package stack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type key string

func (k key) Key() string { return string(k) }

func TestSimple(t *testing.T) {
	var s Simple[string]
	_, ok := s.Top()
	require.False(t, ok)

	s.Push("a")
	s.Push("b")
	s.Push("c")
	top, ok := s.Top()
	require.True(t, ok)
	require.Equal(t, "c", top)

	s.Pop(2)
	require.Equal(t, 1, s.Len())
	top, _ = s.Top()
	require.Equal(t, "a", top)

	s.Pop()
	s.Pop()
	require.Equal(t, 0, s.Len())
}

func TestUniqueStack(t *testing.T) {
	var s UniqueStack
	require.NoError(t, s.Push(key("&a")))
	require.NoError(t, s.Push(key("%a")))
	require.ErrorIs(t, s.Push(key("&a")), ErrDuplicateItem)

	c := s.Clone()
	require.NoError(t, c.Push(key("&b")))
	_, ok := s.Lookup("&b")
	require.False(t, ok, "clone must not share pushes")

	s.Pop()
	_, ok = s.Lookup("%a")
	require.False(t, ok)
	require.NoError(t, s.Push(key("%a")))
}
