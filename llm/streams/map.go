package streams

// Map transforms each value of the source stream with fn.
func Map[T, U any](source Stream[T], fn func(T) U) Stream[U] {
	return &mapStream[T, U]{source: source, fn: fn}
}

type mapStream[T, U any] struct {
	source Stream[T]
	fn     func(T) U
}

func (s *mapStream[T, U]) Next() bool { return s.source.Next() }

func (s *mapStream[T, U]) Current() U { return s.fn(s.source.Current()) }

func (s *mapStream[T, U]) Err() error { return s.source.Err() }

func (s *mapStream[T, U]) Close() error { return s.source.Close() }

// Filter yields only the values of source for which keep returns true.
func Filter[T any](source Stream[T], keep func(T) bool) Stream[T] {
	return &filterStream[T]{source: source, keep: keep}
}

type filterStream[T any] struct {
	source Stream[T]
	keep   func(T) bool
}

func (s *filterStream[T]) Next() bool {
	for s.source.Next() {
		if s.keep(s.source.Current()) {
			return true
		}
	}

	return false
}

func (s *filterStream[T]) Current() T { return s.source.Current() }

func (s *filterStream[T]) Err() error { return s.source.Err() }

func (s *filterStream[T]) Close() error { return s.source.Close() }
