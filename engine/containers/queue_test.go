package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOAcrossGrowth(t *testing.T) {
	q := NewQueue[int](2)
	assert.True(t, q.IsEmpty())

	q.Enqueue(1)
	q.Enqueue(2)
	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Wrap around, then force a resize.
	q.Enqueue(3)
	q.Enqueue(4)
	q.Enqueue(5)
	assert.Equal(t, 4, q.Len())

	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 2, head)

	var got []int
	for !q.IsEmpty() {
		v, err := q.Dequeue()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{2, 3, 4, 5}, got)
}

func TestQueue_Empty(t *testing.T) {
	q := NewQueue[string](0)
	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	q.Enqueue("a")
	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}
