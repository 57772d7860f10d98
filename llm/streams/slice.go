package streams

// SliceStream returns a Stream over the given slice.
func SliceStream[T any](items []T) Stream[T] {
	return &sliceStream[T]{items: items}
}

type sliceStream[T any] struct {
	items []T
	index int
}

func (s *sliceStream[T]) Next() bool {
	if s.index < len(s.items) {
		s.index++
		return true
	}

	return false
}

func (s *sliceStream[T]) Current() T {
	if s.index > 0 && s.index <= len(s.items) {
		return s.items[s.index-1]
	}

	var zero T

	return zero
}

func (s *sliceStream[T]) Err() error { return nil }

func (s *sliceStream[T]) Close() error { return nil }
