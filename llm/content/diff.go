package content

import "strings"

// ChangeType classifies how a rendition changed.
type ChangeType string

const (
	// NoChange means the renditions are deeply equal.
	NoChange ChangeType = "no_change"

	// AppendToLastSegment means only the last segment changed, by growing
	// in place. The cheapest repaint.
	AppendToLastSegment ChangeType = "append_to_last_segment"

	// SegmentUpdate means exactly one segment changed and must be redrawn.
	SegmentUpdate ChangeType = "segment_update"

	// FullUpdate means the whole rendition must be redrawn. Always safe.
	FullUpdate ChangeType = "full_update"
)

// ContentDiff is the cheapest update strategy between two renditions.
type ContentDiff struct {
	ChangeType ChangeType

	// Index is the changed segment for AppendToLastSegment and SegmentUpdate.
	Index int

	// AffectedSegments lists the indices a renderer must touch, ascending.
	AffectedSegments []int
}

// Diff classifies the cheapest update from prev to next. The result is an
// optimization hint only: applying it must be equivalent to re-rendering
// next from scratch, and FullUpdate is the fallback whenever a cheaper
// classification cannot be proven.
func Diff(prev, next MessageContent) ContentDiff {
	if prev.Equal(next) {
		return ContentDiff{ChangeType: NoChange}
	}

	if len(prev.Segments) == len(next.Segments) {
		changed := changedIndices(prev.Segments, next.Segments)

		if len(changed) == 1 {
			index := changed[0]

			// Appending beats redrawing, so the incremental check runs
			// first even though SegmentUpdate would also be correct.
			if index == len(next.Segments)-1 && canIncrementallyUpdate(prev.Segments[index], next.Segments[index]) {
				return ContentDiff{
					ChangeType:       AppendToLastSegment,
					Index:            index,
					AffectedSegments: []int{index},
				}
			}

			return ContentDiff{
				ChangeType:       SegmentUpdate,
				Index:            index,
				AffectedSegments: []int{index},
			}
		}
	}

	return ContentDiff{
		ChangeType:       FullUpdate,
		AffectedSegments: allIndices(len(next.Segments)),
	}
}

func changedIndices(prev, next []Segment) []int {
	var changed []int

	for i := range prev {
		if !SegmentEqual(prev[i], next[i]) {
			changed = append(changed, i)
		}
	}

	return changed
}

// canIncrementallyUpdate reports whether the next segment extends the
// previous one in place: same variant, the previous text a prefix of the
// next, and for code variants an unchanged language token.
func canIncrementallyUpdate(prev, next Segment) bool {
	switch prev := prev.(type) {
	case Text:
		next, ok := next.(Text)
		return ok && strings.HasPrefix(next.Text, prev.Text)
	case StreamingText:
		next, ok := next.(StreamingText)
		return ok && strings.HasPrefix(next.Text, prev.Text)
	case Code:
		next, ok := next.(Code)
		return ok && prev.Language == next.Language && strings.HasPrefix(next.Code, prev.Code)
	case PartialCode:
		next, ok := next.(PartialCode)
		return ok && prev.Language == next.Language && strings.HasPrefix(next.Raw, prev.Raw)
	default:
		// Attachments and image payloads never grow in place.
		return false
	}
}

func allIndices(n int) []int {
	if n == 0 {
		return nil
	}

	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	return indices
}
