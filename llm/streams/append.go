package streams

// AppendStream yields every value from source, then the extra values.
// The extras are withheld if the source terminates with an error.
func AppendStream[T any](source Stream[T], extras ...T) Stream[T] {
	return &appendStream[T]{source: source, extras: extras}
}

type appendStream[T any] struct {
	source    Stream[T]
	extras    []T
	index     int
	exhausted bool
}

func (s *appendStream[T]) Next() bool {
	if !s.exhausted {
		if s.source.Next() {
			return true
		}

		s.exhausted = true
	}

	if s.source.Err() != nil {
		return false
	}

	if s.index < len(s.extras) {
		s.index++
		return true
	}

	return false
}

func (s *appendStream[T]) Current() T {
	if !s.exhausted {
		return s.source.Current()
	}

	if s.index > 0 && s.index <= len(s.extras) {
		return s.extras[s.index-1]
	}

	var zero T

	return zero
}

func (s *appendStream[T]) Err() error { return s.source.Err() }

func (s *appendStream[T]) Close() error { return s.source.Close() }
