package storage

// fifo is a bounded buffer that drops its oldest element when full.
// It is not safe for concurrent use; MemoryStore guards it.
type fifo[T any] struct {
	items    []T
	capacity int
}

func newFIFO[T any](capacity int) *fifo[T] {
	return &fifo[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

func (f *fifo[T]) push(v T) {
	if len(f.items) >= f.capacity {
		copy(f.items, f.items[1:])
		f.items[len(f.items)-1] = v
		return
	}
	f.items = append(f.items, v)
}

func (f *fifo[T]) snapshot() []T {
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out
}

// tail copies the newest n elements; n <= 0 or beyond the length copies all.
func (f *fifo[T]) tail(n int) []T {
	if n <= 0 || n > len(f.items) {
		n = len(f.items)
	}
	out := make([]T, n)
	copy(out, f.items[len(f.items)-n:])
	return out
}
