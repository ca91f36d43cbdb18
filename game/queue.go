package game

// BoundedQueue is a fixed-capacity FIFO. Enqueueing past capacity evicts
// the oldest element. It backs the chat history cap.
type BoundedQueue[T any] struct {
	items    []T
	capacity int
}

func NewBoundedQueue[T any](capacity int) *BoundedQueue[T] {
	return &BoundedQueue[T]{capacity: capacity}
}

func (q *BoundedQueue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
	if len(q.items) > q.capacity {
		q.items = q.items[1:]
	}
}

func (q *BoundedQueue[T]) Dequeue() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	front := q.items[0]
	q.items = q.items[1:]
	return front, true
}

func (q *BoundedQueue[T]) Front() (T, bool) {
	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	return q.items[0], true
}

func (q *BoundedQueue[T]) Len() int {
	return len(q.items)
}

// Items returns a copy of the queued elements, oldest first.
func (q *BoundedQueue[T]) Items() []T {
	out := make([]T, len(q.items))
	copy(out, q.items)
	return out
}
