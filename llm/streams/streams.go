// Package streams provides a minimal pull-based stream abstraction used
// across the decoding pipeline.
package streams

// Stream is a pull-based iterator over a sequence of values.
//
// Usage follows the bufio.Scanner convention: call Next, then Current.
// After Next returns false, Err reports the first error encountered, if
// any. Streams are not safe for concurrent use.
type Stream[T any] interface {
	// Next advances the stream to the next value.
	Next() bool

	// Current returns the value produced by the last successful Next.
	Current() T

	// Err returns the first error encountered while streaming.
	Err() error

	// Close releases any resources held by the stream.
	Close() error
}

// All drains the stream and returns every value along with the stream's
// terminal error.
func All[T any](stream Stream[T]) ([]T, error) {
	var result []T

	for stream.Next() {
		result = append(result, stream.Current())
	}

	return result, stream.Err()
}
