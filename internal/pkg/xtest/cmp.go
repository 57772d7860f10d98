package xtest

import (
	"encoding/json"

	"github.com/google/go-cmp/cmp"
)

// Custom comparator for json.RawMessage that compares semantic equality.
func jsonRawMessageComparer(x, y json.RawMessage) bool {
	if len(x) == 0 && len(y) == 0 {
		return true
	}

	if len(x) == 0 || len(y) == 0 {
		return false
	}

	var xVal, yVal any
	if err := json.Unmarshal(x, &xVal); err != nil {
		return false
	}

	if err := json.Unmarshal(y, &yVal); err != nil {
		return false
	}

	return cmp.Equal(xVal, yVal)
}

func nilString(x *string) string {
	if x == nil {
		return ""
	}

	return *x
}

func nilInt(x *int) int {
	if x == nil {
		return 0
	}

	return *x
}

func options(opts []cmp.Option) []cmp.Option {
	return append(opts,
		cmp.Transformer("", nilString),
		cmp.Transformer("", nilInt),
		cmp.Comparer(jsonRawMessageComparer))
}

// Equal provides semantic equality comparison with custom transformers and comparers.
func Equal(a, b any, opts ...cmp.Option) bool {
	return cmp.Equal(a, b, options(opts)...)
}

// Diff returns the cmp diff using the same options as Equal, for failure messages.
func Diff(a, b any, opts ...cmp.Option) string {
	return cmp.Diff(a, b, options(opts)...)
}
