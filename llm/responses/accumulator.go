package responses

import (
	"strings"

	"github.com/samber/lo"
)

// State is the accumulator lifecycle state.
type State string

const (
	StateIdle      State = "idle"
	StateCreated   State = "created"
	StateStreaming State = "streaming"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further state transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

// UpdateKind discriminates StreamUpdate payloads.
type UpdateKind string

const (
	UpdateStarted   UpdateKind = "started"
	UpdateDelta     UpdateKind = "delta"
	UpdateSnapshot  UpdateKind = "snapshot"
	UpdateCompleted UpdateKind = "completed"
	UpdateFailed    UpdateKind = "failed"
	UpdateCancelled UpdateKind = "cancelled"
)

// StreamUpdate is one accumulator output consumed by the rendering side.
//
//   - Started: ResponseID is set.
//   - Delta: Text is the appended fragment.
//   - Snapshot: Text is the authoritative full text so far.
//   - Completed: Text is the final text, ResponseID is set.
//   - Failed: Message is the cause.
//   - Cancelled: no payload.
type StreamUpdate struct {
	Kind       UpdateKind `json:"kind"`
	ResponseID string     `json:"response_id,omitempty"`
	Text       string     `json:"text,omitempty"`
	Message    string     `json:"message,omitempty"`
}

// Terminal reports whether this update ends the stream.
func (u *StreamUpdate) Terminal() bool {
	return u.Kind == UpdateCompleted || u.Kind == UpdateFailed || u.Kind == UpdateCancelled
}

// Session holds per-conversation continuity state. The accumulator advances
// PreviousResponseID when a response completes, so the next request in the
// conversation threads onto it. One Session per conversation; concurrent
// conversations use independent sessions.
type Session struct {
	PreviousResponseID *string
}

// Accumulator folds an ordered stream of decoded events into a running
// response. One instance per in-flight request; not safe for concurrent use.
//
// Exactly one terminal update (Completed, Failed or Cancelled) is produced
// per instance. Events processed after a terminal state are discarded.
type Accumulator struct {
	session *Session

	state      State
	responseID string
	text       strings.Builder
}

// NewAccumulator creates an accumulator bound to the given session.
// A nil session is allowed for single-turn use.
func NewAccumulator(session *Session) *Accumulator {
	return &Accumulator{
		session: session,
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (a *Accumulator) State() State {
	return a.state
}

// ResponseID returns the response identifier, empty until Created arrives.
func (a *Accumulator) ResponseID() string {
	return a.responseID
}

// Text returns the accumulated text so far.
func (a *Accumulator) Text() string {
	return a.text.String()
}

// Process folds one event into the accumulator and returns the resulting
// update, or nil when the event requires none.
func (a *Accumulator) Process(event Event) *StreamUpdate {
	if a.state.Terminal() {
		return nil
	}

	switch event := event.(type) {
	case Created:
		a.state = StateCreated
		a.responseID = event.ResponseID

		return &StreamUpdate{Kind: UpdateStarted, ResponseID: event.ResponseID}

	case Delta:
		a.state = StateStreaming
		a.text.WriteString(event.Text)

		return &StreamUpdate{Kind: UpdateDelta, Text: event.Text}

	case TextDone:
		a.state = StateStreaming
		a.replaceText(event.Text)

		return &StreamUpdate{Kind: UpdateSnapshot, Text: event.Text}

	case ContentPartDone:
		if event.Text == nil {
			return nil
		}

		a.state = StateStreaming
		a.replaceText(*event.Text)

		return &StreamUpdate{Kind: UpdateSnapshot, Text: *event.Text}

	case Completed:
		a.state = StateCompleted

		if event.ResponseID != "" {
			a.responseID = event.ResponseID
		}

		// Deltas alone are not authoritative; the aggregated output text
		// wins when the server includes it.
		if event.OutputText != nil {
			a.replaceText(*event.OutputText)
		}

		if a.session != nil && a.responseID != "" {
			a.session.PreviousResponseID = lo.ToPtr(a.responseID)
		}

		return &StreamUpdate{
			Kind:       UpdateCompleted,
			ResponseID: a.responseID,
			Text:       a.text.String(),
		}

	case Failed:
		a.state = StateFailed

		return &StreamUpdate{Kind: UpdateFailed, Message: event.Message}

	case ErrorEvent:
		a.state = StateFailed

		return &StreamUpdate{Kind: UpdateFailed, Message: event.Message}

	default:
		// InProgress, Queued, Incomplete and Ignored carry nothing to fold.
		return nil
	}
}

// Fail drives the accumulator to Failed for causes outside the event
// stream, such as transport errors. Returns nil if already terminal.
func (a *Accumulator) Fail(err error) *StreamUpdate {
	if a.state.Terminal() {
		return nil
	}

	a.state = StateFailed

	message := ""
	if err != nil {
		message = err.Error()
	}

	return &StreamUpdate{Kind: UpdateFailed, Message: message}
}

// Cancel drives the accumulator to Cancelled. Returns nil if already
// terminal, so repeated cancellation emits the update exactly once.
func (a *Accumulator) Cancel() *StreamUpdate {
	if a.state.Terminal() {
		return nil
	}

	a.state = StateCancelled

	return &StreamUpdate{Kind: UpdateCancelled}
}

func (a *Accumulator) replaceText(text string) {
	a.text.Reset()
	a.text.WriteString(text)
}
