package event

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueueOrdersByTimestampThenFIFO(t *testing.T) {
	q := NewQueue()
	q.Push(0, Event{Timestamp: 10, SynapseID: 2, Kind: KindGenerated})
	q.Push(0, Event{Timestamp: 5, SynapseID: 1, Kind: KindGenerated})
	q.Push(0, Event{Timestamp: 10, SynapseID: 3, Kind: KindGenerated})

	e1, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint32(1), e1.SynapseID)

	e2, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint32(2), e2.SynapseID, "equal-timestamp events dispatch in insertion order")

	e3, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, uint32(3), e3.SynapseID)

	_, ok = q.Pop()
	require.False(t, ok)
}

func TestQueueClampsPastTimestamps(t *testing.T) {
	q := NewQueue()
	q.Push(100, Event{Timestamp: 10})
	e, ok := q.Pop()
	require.True(t, ok)
	require.Equal(t, 100.0, e.Timestamp)
}

func TestQueueDrainUntil(t *testing.T) {
	q := NewQueue()
	q.Push(0, Event{Timestamp: 1})
	q.Push(0, Event{Timestamp: 2})
	q.Push(0, Event{Timestamp: 3})

	due := q.DrainUntil(2)
	require.Len(t, due, 2)
	require.Equal(t, 1, q.Len())
}

func TestQueueClear(t *testing.T) {
	q := NewQueue()
	q.Push(0, Event{Timestamp: 1})
	q.Clear()
	require.Equal(t, 0, q.Len())
	_, ok := q.Pop()
	require.False(t, ok)
}
