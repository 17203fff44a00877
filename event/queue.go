package event

import "container/heap"

// heapSlice is the container/heap.Interface implementation backing Queue.
// Kept as an unexported type, the way the donor's SignalQueue wrapped a
// []*synapse.ScheduledSignal — here it wraps plain Event values since
// events are small and have no identity beyond their fields.
type heapSlice []Event

func (h heapSlice) Len() int { return len(h) }

func (h heapSlice) Less(i, j int) bool {
	if h[i].Timestamp != h[j].Timestamp {
		return h[i].Timestamp < h[j].Timestamp
	}
	return h[i].seq < h[j].seq
}

func (h heapSlice) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *heapSlice) Push(x interface{}) {
	*h = append(*h, x.(Event))
}

func (h *heapSlice) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue is the time-ordered priority queue of pending spike events
// (spec.md C1). It is not safe for concurrent use — the simulation core is
// single-threaded (spec.md §5), so no locking is needed or provided.
type Queue struct {
	h       heapSlice
	nextSeq uint64
}

// NewQueue returns an empty event queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push inserts an event. Per spec.md §4.1, a timestamp earlier than now is
// clamped up to now rather than rejected: delays are never negative and
// the engine tolerates zero-delay self-loops (spec.md §9 open question,
// resolved here as spec'd — see DESIGN.md).
func (q *Queue) Push(now float64, e Event) {
	if e.Timestamp < now {
		e.Timestamp = now
	}
	e.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.h, e)
}

// Pop removes and returns the earliest-timestamp event, breaking ties by
// insertion order. The second return value is false if the queue is empty.
func (q *Queue) Pop() (Event, bool) {
	if len(q.h) == 0 {
		return Event{}, false
	}
	return heap.Pop(&q.h).(Event), true
}

// Peek returns the earliest-timestamp event without removing it.
func (q *Queue) Peek() (Event, bool) {
	if len(q.h) == 0 {
		return Event{}, false
	}
	return q.h[0], true
}

// Len reports the number of pending events.
func (q *Queue) Len() int { return len(q.h) }

// DrainUntil pops and returns every event with Timestamp <= t, in dispatch
// order. Used by the clock-driven scheduler to collect the events due at
// or before the current tick.
func (q *Queue) DrainUntil(t float64) []Event {
	var due []Event
	for {
		e, ok := q.Peek()
		if !ok || e.Timestamp > t {
			break
		}
		e, _ = q.Pop()
		due = append(due, e)
	}
	return due
}

// Clear empties the queue, discarding every pending event. Used by
// Network.ResetNetwork.
func (q *Queue) Clear() {
	q.h = nil
	q.nextSeq = 0
}
