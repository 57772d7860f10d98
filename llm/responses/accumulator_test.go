package responses

import (
	"errors"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func processAll(a *Accumulator, events []Event) []*StreamUpdate {
	var updates []*StreamUpdate

	for _, event := range events {
		if update := a.Process(event); update != nil {
			updates = append(updates, update)
		}
	}

	return updates
}

func TestAccumulator_HappyPath(t *testing.T) {
	accumulator := NewAccumulator(nil)

	events := []Event{
		Created{ResponseID: "resp_1", Status: "in_progress"},
		Delta{ItemID: "msg_1", Text: "Hel"},
		Delta{ItemID: "msg_1", Text: "lo"},
		TextDone{ItemID: "msg_1", Text: "Hello"},
		Completed{ResponseID: "resp_1", OutputText: lo.ToPtr("Hello")},
	}

	updates := processAll(accumulator, events)

	require.Equal(t, []*StreamUpdate{
		{Kind: UpdateStarted, ResponseID: "resp_1"},
		{Kind: UpdateDelta, Text: "Hel"},
		{Kind: UpdateDelta, Text: "lo"},
		{Kind: UpdateSnapshot, Text: "Hello"},
		{Kind: UpdateCompleted, ResponseID: "resp_1", Text: "Hello"},
	}, updates)

	require.Equal(t, StateCompleted, accumulator.State())
	require.Equal(t, "Hello", accumulator.Text())
}

func TestAccumulator_SnapshotCorrectsDrift(t *testing.T) {
	accumulator := NewAccumulator(nil)

	accumulator.Process(Created{ResponseID: "resp_1"})
	accumulator.Process(Delta{ItemID: "msg_1", Text: "Helo"})

	// The done event is authoritative and replaces the drifted delta text.
	update := accumulator.Process(TextDone{ItemID: "msg_1", Text: "Hello"})

	require.Equal(t, &StreamUpdate{Kind: UpdateSnapshot, Text: "Hello"}, update)
	require.Equal(t, "Hello", accumulator.Text())
}

func TestAccumulator_ContentPartDone(t *testing.T) {
	t.Run("with text replaces accumulated text", func(t *testing.T) {
		accumulator := NewAccumulator(nil)
		accumulator.Process(Delta{ItemID: "msg_1", Text: "partial"})

		update := accumulator.Process(ContentPartDone{ItemID: "msg_1", Text: lo.ToPtr("final text")})

		require.Equal(t, &StreamUpdate{Kind: UpdateSnapshot, Text: "final text"}, update)
		require.Equal(t, "final text", accumulator.Text())
	})

	t.Run("without text is a no-op", func(t *testing.T) {
		accumulator := NewAccumulator(nil)
		accumulator.Process(Delta{ItemID: "msg_1", Text: "partial"})

		update := accumulator.Process(ContentPartDone{ItemID: "msg_1"})

		require.Nil(t, update)
		require.Equal(t, "partial", accumulator.Text())
	})
}

func TestAccumulator_CompletedFallsBackToDeltas(t *testing.T) {
	accumulator := NewAccumulator(nil)

	accumulator.Process(Created{ResponseID: "resp_1"})
	accumulator.Process(Delta{ItemID: "msg_1", Text: "best "})
	accumulator.Process(Delta{ItemID: "msg_1", Text: "effort"})

	// No output_text and no prior done event: finalize with accumulated deltas.
	update := accumulator.Process(Completed{ResponseID: "resp_1"})

	require.Equal(t, &StreamUpdate{
		Kind:       UpdateCompleted,
		ResponseID: "resp_1",
		Text:       "best effort",
	}, update)
}

func TestAccumulator_CompletedBeforeCreated(t *testing.T) {
	accumulator := NewAccumulator(nil)

	update := accumulator.Process(Completed{ResponseID: "resp_1", OutputText: lo.ToPtr("Hello")})

	require.Equal(t, &StreamUpdate{
		Kind:       UpdateCompleted,
		ResponseID: "resp_1",
		Text:       "Hello",
	}, update)
	require.Equal(t, StateCompleted, accumulator.State())
}

func TestAccumulator_SessionContinuity(t *testing.T) {
	session := &Session{}

	first := NewAccumulator(session)
	first.Process(Created{ResponseID: "resp_1"})
	first.Process(Completed{ResponseID: "resp_1", OutputText: lo.ToPtr("Hi")})

	require.Equal(t, lo.ToPtr("resp_1"), session.PreviousResponseID)

	// A failed turn must not advance the continuity token.
	second := NewAccumulator(session)
	second.Process(Created{ResponseID: "resp_2"})
	second.Process(Failed{Message: "boom"})

	require.Equal(t, lo.ToPtr("resp_1"), session.PreviousResponseID)
}

func TestAccumulator_Failed(t *testing.T) {
	t.Run("failed event", func(t *testing.T) {
		accumulator := NewAccumulator(nil)
		accumulator.Process(Created{ResponseID: "resp_1"})

		update := accumulator.Process(Failed{Message: "model overloaded"})

		require.Equal(t, &StreamUpdate{Kind: UpdateFailed, Message: "model overloaded"}, update)
		require.Equal(t, StateFailed, accumulator.State())
	})

	t.Run("error event", func(t *testing.T) {
		accumulator := NewAccumulator(nil)

		update := accumulator.Process(ErrorEvent{Code: "rate_limit_exceeded", Message: "slow down"})

		require.Equal(t, &StreamUpdate{Kind: UpdateFailed, Message: "slow down"}, update)
		require.Equal(t, StateFailed, accumulator.State())
	})

	t.Run("transport failure", func(t *testing.T) {
		accumulator := NewAccumulator(nil)
		accumulator.Process(Delta{ItemID: "msg_1", Text: "Hel"})

		update := accumulator.Fail(errors.New("connection reset"))

		require.Equal(t, &StreamUpdate{Kind: UpdateFailed, Message: "connection reset"}, update)
		require.Equal(t, StateFailed, accumulator.State())
	})
}

func TestAccumulator_CancelExactlyOnce(t *testing.T) {
	accumulator := NewAccumulator(nil)

	accumulator.Process(Created{ResponseID: "resp_1"})
	accumulator.Process(Delta{ItemID: "msg_1", Text: "Hel"})
	accumulator.Process(Delta{ItemID: "msg_1", Text: "lo"})

	update := accumulator.Cancel()
	require.Equal(t, &StreamUpdate{Kind: UpdateCancelled}, update)
	require.Equal(t, StateCancelled, accumulator.State())

	// Buffered transport data may still be drained by the caller; the
	// accumulator discards everything after the terminal state.
	require.Nil(t, accumulator.Cancel())
	require.Nil(t, accumulator.Process(Delta{ItemID: "msg_1", Text: "!"}))
	require.Nil(t, accumulator.Process(Completed{ResponseID: "resp_1"}))
	require.Equal(t, StateCancelled, accumulator.State())
}

func TestAccumulator_SingleTerminal(t *testing.T) {
	accumulator := NewAccumulator(nil)

	accumulator.Process(Created{ResponseID: "resp_1"})
	require.NotNil(t, accumulator.Process(Completed{ResponseID: "resp_1"}))

	require.Nil(t, accumulator.Process(Failed{Message: "late failure"}))
	require.Nil(t, accumulator.Fail(errors.New("late transport error")))
	require.Nil(t, accumulator.Cancel())
	require.Equal(t, StateCompleted, accumulator.State())
}

func TestAccumulator_IgnoredEventsAreNoOps(t *testing.T) {
	accumulator := NewAccumulator(nil)

	accumulator.Process(Created{ResponseID: "resp_1"})

	require.Nil(t, accumulator.Process(InProgress{}))
	require.Nil(t, accumulator.Process(Queued{}))
	require.Nil(t, accumulator.Process(Incomplete{}))
	require.Nil(t, accumulator.Process(Ignored{RawType: "response.mcp_call.completed"}))

	// The stream continues normally after ignored events.
	update := accumulator.Process(Delta{ItemID: "msg_1", Text: "Hi"})
	require.Equal(t, &StreamUpdate{Kind: UpdateDelta, Text: "Hi"}, update)
}
