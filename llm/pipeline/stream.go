package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberlink/chatstream/internal/log"
	"github.com/emberlink/chatstream/llm/httpclient"
	"github.com/emberlink/chatstream/llm/responses"
	"github.com/emberlink/chatstream/llm/streams"
)

func newUpdateStream(
	ctx context.Context,
	source streams.Stream[*httpclient.StreamEvent],
	accumulator *responses.Accumulator,
) streams.Stream[*responses.StreamUpdate] {
	return &updateStream{
		ctx:         ctx,
		source:      source,
		accumulator: accumulator,
	}
}

// updateStream decodes SSE frames and folds them through the accumulator.
// It delivers exactly one terminal update and then stops, regardless of
// buffered transport data behind it.
//
//nolint:containedctx // Checked.
type updateStream struct {
	ctx         context.Context
	source      streams.Stream[*httpclient.StreamEvent]
	accumulator *responses.Accumulator

	current  *responses.StreamUpdate
	finished bool
	closed   bool
}

func (s *updateStream) Next() bool {
	if s.finished || s.closed {
		return false
	}

	for {
		select {
		case <-s.ctx.Done():
			return s.deliver(s.accumulator.Cancel())
		default:
		}

		if !s.source.Next() {
			return s.sourceStopped()
		}

		chunk := s.source.Current()
		if chunk == nil {
			continue
		}

		if responses.IsDoneFrame(chunk.Data) {
			// The terminal event is required before [DONE]; a stream that
			// ends without one failed upstream.
			return s.deliver(s.accumulator.Fail(errors.New("stream ended without a terminal event")))
		}

		event, err := responses.DecodeEvent(chunk.Data)
		if err != nil {
			var decodeErr *responses.DecodeError
			if errors.As(err, &decodeErr) && decodeErr.Recoverable() {
				log.Warn(s.ctx, "dropping undecodable event", log.Cause(err), log.String("event_type", chunk.Type))
				continue
			}

			return s.deliver(s.accumulator.Fail(fmt.Errorf("failed to decode event: %w", err)))
		}

		update := s.accumulator.Process(event)
		if update == nil {
			continue
		}

		return s.deliver(update)
	}
}

// sourceStopped maps the transport outcome to the terminal update. A clean
// EOF after the server's terminal event needs nothing further.
func (s *updateStream) sourceStopped() bool {
	err := s.source.Err()

	switch {
	case err == nil:
		if s.accumulator.State().Terminal() {
			s.finished = true
			return false
		}

		return s.deliver(s.accumulator.Fail(errors.New("stream closed before completion")))

	case errors.Is(err, context.Canceled):
		return s.deliver(s.accumulator.Cancel())

	default:
		return s.deliver(s.accumulator.Fail(err))
	}
}

func (s *updateStream) deliver(update *responses.StreamUpdate) bool {
	if update == nil {
		s.finished = true
		return false
	}

	s.current = update

	if update.Terminal() {
		s.finished = true
	}

	return true
}

func (s *updateStream) Current() *responses.StreamUpdate {
	return s.current
}

// Err always returns nil: every failure mode surfaces as the single
// terminal Failed update instead.
func (s *updateStream) Err() error {
	return nil
}

// Close releases the transport. Closing before the terminal update drives
// the accumulator to Cancelled so a later drain cannot resurrect the turn.
func (s *updateStream) Close() error {
	if s.closed {
		return nil
	}

	s.closed = true
	s.accumulator.Cancel()

	return s.source.Close()
}
