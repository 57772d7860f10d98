package responses

// EventType defines the wire type of streaming events for the Responses API.
type EventType string

const (
	EventTypeError EventType = "error"

	// Response lifecycle events.

	EventTypeResponseCreated    EventType = "response.created"
	EventTypeResponseInProgress EventType = "response.in_progress"
	EventTypeResponseCompleted  EventType = "response.completed"
	EventTypeResponseQueued     EventType = "response.queued"
	EventTypeResponseFailed     EventType = "response.failed"
	EventTypeResponseIncomplete EventType = "response.incomplete"

	// Output text events.

	EventTypeOutputTextDelta EventType = "response.output_text.delta"
	EventTypeOutputTextDone  EventType = "response.output_text.done"

	// Content part events.

	EventTypeContentPartDone EventType = "response.content_part.done"
)

// Event is one decoded streaming event. The concrete type carries the
// fields relevant to its wire discriminator; unknown discriminators decode
// to Ignored so new server-side event types never abort a stream.
type Event interface {
	// Type returns the wire discriminator of the event.
	Type() EventType
}

// Created signals that the server accepted the request and opened a response.
type Created struct {
	ResponseID string
	Status     string
}

func (Created) Type() EventType { return EventTypeResponseCreated }

// InProgress signals that generation is underway. Carries no payload the
// accumulator acts on.
type InProgress struct{}

func (InProgress) Type() EventType { return EventTypeResponseInProgress }

// Queued signals that the request is waiting for capacity.
type Queued struct{}

func (Queued) Type() EventType { return EventTypeResponseQueued }

// Incomplete signals that the response stopped before completion.
type Incomplete struct{}

func (Incomplete) Type() EventType { return EventTypeResponseIncomplete }

// Delta carries one incremental text fragment to be appended.
type Delta struct {
	ItemID       string
	OutputIndex  int
	ContentIndex int
	Text         string
}

func (Delta) Type() EventType { return EventTypeOutputTextDelta }

// TextDone carries the authoritative full text of one output part,
// replacing whatever the deltas accumulated to.
type TextDone struct {
	ItemID       string
	ContentIndex int
	Text         string
}

func (TextDone) Type() EventType { return EventTypeOutputTextDone }

// ContentPartDone closes one content part. Text is the part's final text
// when the server includes it.
type ContentPartDone struct {
	ItemID       string
	ContentIndex int
	Text         *string
}

func (ContentPartDone) Type() EventType { return EventTypeContentPartDone }

// Completed is the successful terminal event. OutputText, when present, is
// the authoritative final text of the whole response.
type Completed struct {
	ResponseID string
	OutputText *string
}

func (Completed) Type() EventType { return EventTypeResponseCompleted }

// Failed is the server-side terminal failure event.
type Failed struct {
	Message string
}

func (Failed) Type() EventType { return EventTypeResponseFailed }

// ErrorEvent is a protocol-level error frame.
type ErrorEvent struct {
	Code    string
	Message string
	Param   string
}

func (ErrorEvent) Type() EventType { return EventTypeError }

// Ignored is the forward-compatibility catch-all for event types this
// client does not act on.
type Ignored struct {
	RawType string
}

func (e Ignored) Type() EventType { return EventType(e.RawType) }
