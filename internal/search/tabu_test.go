package search

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTabuList(t *testing.T) {
	t.Run("matches touched sets exactly", func(t *testing.T) {
		l := newTabuList(3)
		l.push([]int{1, 2})

		require.True(t, l.contains([]int{1, 2}))
		require.False(t, l.contains([]int{1}))
		require.False(t, l.contains([]int{1, 2, 3}))
		require.False(t, l.contains([]int{2, 1}))
	})

	t.Run("evicts oldest beyond window", func(t *testing.T) {
		l := newTabuList(2)
		l.push([]int{1})
		l.push([]int{2})
		l.push([]int{3})

		require.Equal(t, 2, l.len())
		require.False(t, l.contains([]int{1}))
		require.True(t, l.contains([]int{2}))
		require.True(t, l.contains([]int{3}))

		l.push([]int{4})
		require.False(t, l.contains([]int{2}))
		require.True(t, l.contains([]int{4}))
	})

	t.Run("duplicates are counted", func(t *testing.T) {
		l := newTabuList(2)
		l.push([]int{7})
		l.push([]int{7})
		l.push([]int{8})

		// one copy of {7} is still inside the window
		require.True(t, l.contains([]int{7}))
		l.push([]int{9})
		require.False(t, l.contains([]int{7}))
		require.Len(t, l.counts, 2)
	})

	t.Run("zero window disables", func(t *testing.T) {
		l := newTabuList(0)
		l.push([]int{1})

		require.False(t, l.contains([]int{1}))
		require.Equal(t, 0, l.len())
	})
}

func BenchmarkTabuList_Contains(b *testing.B) {
	l := newTabuList(50)
	for i := range 50 {
		l.push([]int{i, i + 1, i + 2})
	}
	probe := []int{25, 26, 27}

	for b.Loop() {
		_ = l.contains(probe)
	}
}
