package pipeline

import (
	"context"

	"github.com/emberlink/chatstream/llm"
	"github.com/emberlink/chatstream/llm/httpclient"
	"github.com/emberlink/chatstream/llm/responses"
	"github.com/emberlink/chatstream/llm/streams"
)

// Middleware defines the interface for pipeline decorators.
//
// Request-side hooks run in forward order (first registered executes
// first); stream- and error-side hooks run in reverse, so the first
// registered middleware sits closest to the caller on the way back.
type Middleware interface {
	// Name returns the name of the middleware.
	Name() string

	// OnRequest executes before the request is transformed to the wire
	// format. Order: forward.
	OnRequest(ctx context.Context, request *llm.Request) (*llm.Request, error)

	// OnRawRequest executes after the wire request is built and before it
	// is sent. Order: forward.
	OnRawRequest(ctx context.Context, request *httpclient.Request) (*httpclient.Request, error)

	// OnRawError executes when establishing the stream fails (network
	// error or status code >= 400). Order: reverse.
	OnRawError(ctx context.Context, err error)

	// OnRawStream executes after the SSE stream is established. The
	// middleware can wrap the stream to observe individual frames.
	// Order: reverse.
	OnRawStream(ctx context.Context, stream streams.Stream[*httpclient.StreamEvent]) (streams.Stream[*httpclient.StreamEvent], error)

	// OnUpdateStream executes after the decoded update stream is built.
	// Order: reverse.
	OnUpdateStream(ctx context.Context, stream streams.Stream[*responses.StreamUpdate]) (streams.Stream[*responses.StreamUpdate], error)
}

// OnRequest builds a middleware from a single request handler.
func OnRequest(name string, handler func(ctx context.Context, request *llm.Request) (*llm.Request, error)) Middleware {
	return &simpleMiddleware{
		name:           name,
		requestHandler: handler,
	}
}

// OnRawRequest builds a middleware from a single wire request handler.
func OnRawRequest(name string, handler func(ctx context.Context, request *httpclient.Request) (*httpclient.Request, error)) Middleware {
	return &simpleMiddleware{
		name:              name,
		rawRequestHandler: handler,
	}
}

type simpleMiddleware struct {
	name                string
	requestHandler      func(ctx context.Context, request *llm.Request) (*llm.Request, error)
	rawRequestHandler   func(ctx context.Context, request *httpclient.Request) (*httpclient.Request, error)
	rawErrorHandler     func(ctx context.Context, err error)
	rawStreamHandler    func(ctx context.Context, stream streams.Stream[*httpclient.StreamEvent]) (streams.Stream[*httpclient.StreamEvent], error)
	updateStreamHandler func(ctx context.Context, stream streams.Stream[*responses.StreamUpdate]) (streams.Stream[*responses.StreamUpdate], error)
}

func (d *simpleMiddleware) Name() string {
	return d.name
}

func (d *simpleMiddleware) OnRequest(ctx context.Context, request *llm.Request) (*llm.Request, error) {
	if d.requestHandler == nil {
		return request, nil
	}

	return d.requestHandler(ctx, request)
}

func (d *simpleMiddleware) OnRawRequest(ctx context.Context, request *httpclient.Request) (*httpclient.Request, error) {
	if d.rawRequestHandler == nil {
		return request, nil
	}

	return d.rawRequestHandler(ctx, request)
}

func (d *simpleMiddleware) OnRawError(ctx context.Context, err error) {
	if d.rawErrorHandler == nil {
		return
	}

	d.rawErrorHandler(ctx, err)
}

func (d *simpleMiddleware) OnRawStream(ctx context.Context, stream streams.Stream[*httpclient.StreamEvent]) (streams.Stream[*httpclient.StreamEvent], error) {
	if d.rawStreamHandler == nil {
		return stream, nil
	}

	return d.rawStreamHandler(ctx, stream)
}

func (d *simpleMiddleware) OnUpdateStream(ctx context.Context, stream streams.Stream[*responses.StreamUpdate]) (streams.Stream[*responses.StreamUpdate], error) {
	if d.updateStreamHandler == nil {
		return stream, nil
	}

	return d.updateStreamHandler(ctx, stream)
}

// DummyMiddleware is a no-op base suitable for embedding.
type DummyMiddleware struct {
	name string
}

func (d *DummyMiddleware) Name() string {
	return d.name
}

func (d *DummyMiddleware) OnRequest(ctx context.Context, request *llm.Request) (*llm.Request, error) {
	return request, nil
}

func (d *DummyMiddleware) OnRawRequest(ctx context.Context, request *httpclient.Request) (*httpclient.Request, error) {
	return request, nil
}

func (d *DummyMiddleware) OnRawError(ctx context.Context, err error) {
	// Do nothing
}

func (d *DummyMiddleware) OnRawStream(ctx context.Context, stream streams.Stream[*httpclient.StreamEvent]) (streams.Stream[*httpclient.StreamEvent], error) {
	return stream, nil
}

func (d *DummyMiddleware) OnUpdateStream(ctx context.Context, stream streams.Stream[*responses.StreamUpdate]) (streams.Stream[*responses.StreamUpdate], error) {
	return stream, nil
}
