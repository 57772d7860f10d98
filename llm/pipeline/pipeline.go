// Package pipeline wires one streaming turn end to end: request transform,
// transport execution, SSE decode, and response accumulation.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/emberlink/chatstream/internal/log"
	"github.com/emberlink/chatstream/llm"
	"github.com/emberlink/chatstream/llm/httpclient"
	"github.com/emberlink/chatstream/llm/responses"
	"github.com/emberlink/chatstream/llm/streams"
)

// Executor abstracts the transport layer.
type Executor = httpclient.Client

// Option defines a pipeline configuration option.
type Option func(*Pipeline)

// WithMiddlewares configures decorators for the pipeline.
func WithMiddlewares(decorators ...Middleware) Option {
	return func(p *Pipeline) {
		p.middlewares = append(p.middlewares, decorators...)
	}
}

// Factory creates pipeline instances sharing one executor.
type Factory struct {
	Executor Executor
}

// NewFactory creates a new pipeline factory.
func NewFactory(executor Executor) *Factory {
	return &Factory{
		Executor: executor,
	}
}

// Pipeline creates a new pipeline with options.
func (f *Factory) Pipeline(outbound *responses.OutboundTransformer, opts ...Option) *Pipeline {
	p := &Pipeline{
		executor: f.Executor,
		outbound: outbound,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Pipeline executes streaming turns against the Responses API.
type Pipeline struct {
	executor    Executor
	outbound    *responses.OutboundTransformer
	middlewares []Middleware
}

func (p *Pipeline) applyRequestMiddlewares(ctx context.Context, request *llm.Request) (*llm.Request, error) {
	var err error

	for _, dec := range p.middlewares {
		request, err = dec.OnRequest(ctx, request)
		if err != nil {
			return nil, err
		}
	}

	return request, nil
}

func (p *Pipeline) applyRawRequestMiddlewares(ctx context.Context, request *httpclient.Request) (*httpclient.Request, error) {
	var err error

	for _, dec := range p.middlewares {
		request, err = dec.OnRawRequest(ctx, request)
		if err != nil {
			return nil, err
		}
	}

	return request, nil
}

func (p *Pipeline) applyRawStreamMiddlewares(ctx context.Context, stream streams.Stream[*httpclient.StreamEvent]) (streams.Stream[*httpclient.StreamEvent], error) {
	var err error

	// Stream middlewares are applied in reverse order (last to first).
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		stream, err = p.middlewares[i].OnRawStream(ctx, stream)
		if err != nil {
			return nil, err
		}
	}

	return stream, nil
}

func (p *Pipeline) applyUpdateStreamMiddlewares(ctx context.Context, stream streams.Stream[*responses.StreamUpdate]) (streams.Stream[*responses.StreamUpdate], error) {
	var err error

	// Stream middlewares are applied in reverse order (last to first).
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		stream, err = p.middlewares[i].OnUpdateStream(ctx, stream)
		if err != nil {
			return nil, err
		}
	}

	return stream, nil
}

func (p *Pipeline) applyRawErrorMiddlewares(ctx context.Context, err error) {
	// Error middlewares are applied in reverse order (last to first).
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		p.middlewares[i].OnRawError(ctx, err)
	}
}

// Stream executes one streaming turn and returns the ordered update stream.
// The caller owns the stream and must close it; closing before the terminal
// update cancels the turn. The session, when non-nil, supplies conversation
// continuity and is advanced when the response completes.
func (p *Pipeline) Stream(
	ctx context.Context,
	request *llm.Request,
	session *responses.Session,
) (streams.Stream[*responses.StreamUpdate], error) {
	request, err := p.applyRequestMiddlewares(ctx, request)
	if err != nil {
		return nil, err
	}

	httpReq, err := p.outbound.TransformRequest(ctx, request, session)
	if err != nil {
		return nil, fmt.Errorf("failed to transform request: %w", err)
	}

	httpReq, err = p.applyRawRequestMiddlewares(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to apply raw request middlewares: %w", err)
	}

	eventStream, err := p.executor.DoStream(ctx, httpReq)
	if err != nil {
		p.applyRawErrorMiddlewares(ctx, err)

		var httpErr *httpclient.Error
		if errors.As(err, &httpErr) {
			return nil, p.outbound.TransformError(ctx, httpErr)
		}

		return nil, err
	}

	eventStream, err = p.applyRawStreamMiddlewares(ctx, eventStream)
	if err != nil {
		return nil, fmt.Errorf("failed to apply raw stream middlewares: %w", err)
	}

	if log.DebugEnabled(ctx) {
		eventStream = streams.Map(eventStream,
			func(event *httpclient.StreamEvent) *httpclient.StreamEvent {
				log.Debug(ctx, "SSE stream event", log.Any("event", event))
				return event
			},
		)
	}

	updates := newUpdateStream(ctx, eventStream, responses.NewAccumulator(session))

	return p.applyUpdateStreamMiddlewares(ctx, updates)
}
