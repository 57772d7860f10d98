package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/multierr"
)

// Client executes requests against the generation API.
type Client interface {
	// Do executes a request and buffers the full response body.
	Do(ctx context.Context, request *Request) (*Response, error)

	// DoStream executes a request and returns a decoder over the SSE
	// response body. The caller owns the decoder and must close it.
	DoStream(ctx context.Context, request *Request) (StreamDecoder, error)
}

// HttpClient is the default Client backed by net/http.
type HttpClient struct {
	client *http.Client
}

// Option configures the HttpClient.
type Option func(*HttpClient)

// WithTimeout sets the timeout for non-streaming requests.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HttpClient) {
		c.client.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying net/http client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HttpClient) {
		c.client = client
	}
}

// NewHttpClient creates a new HTTP client.
func NewHttpClient(opts ...Option) *HttpClient {
	c := &HttpClient{
		client: &http.Client{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

var _ Client = (*HttpClient)(nil)

// Do executes the request and buffers the response body.
func (c *HttpClient) Do(ctx context.Context, request *Request) (*Response, error) {
	httpReq, err := c.BuildHttpRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, &Error{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Method:     httpReq.Method,
			URL:        request.URL,
			Body:       body,
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}, nil
}

// DoStream executes the request and returns a decoder over the SSE body.
func (c *HttpClient) DoStream(ctx context.Context, request *Request) (StreamDecoder, error) {
	httpReq, err := c.BuildHttpRequest(ctx, request)
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")

	// Streaming requests must not be bounded by the client timeout.
	streamClient := *c.client
	streamClient.Timeout = 0

	httpResp, err := streamClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		body, readErr := io.ReadAll(httpResp.Body)
		err = &Error{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Method:     httpReq.Method,
			URL:        request.URL,
			Body:       body,
		}

		return nil, multierr.Combine(err, readErr, httpResp.Body.Close())
	}

	contentType := httpResp.Header.Get("Content-Type")

	factory, ok := GetDecoder(contentType)
	if !ok {
		factory, ok = GetDecoder(normalizeContentType(contentType))
	}

	if !ok {
		_ = httpResp.Body.Close()
		return nil, fmt.Errorf("no stream decoder registered for content type %q", contentType)
	}

	return factory(ctx, httpResp.Body), nil
}

// BuildHttpRequest converts a Request into an http.Request.
func (c *HttpClient) BuildHttpRequest(ctx context.Context, request *Request) (*http.Request, error) {
	return BuildHttpRequest(ctx, request)
}

// BuildHttpRequest converts a Request into an http.Request, applying
// query parameters and authentication headers.
func BuildHttpRequest(ctx context.Context, request *Request) (*http.Request, error) {
	var body io.Reader
	if len(request.Body) > 0 {
		body = bytes.NewReader(request.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, request.Method, request.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build http request: %w", err)
	}

	if len(request.Query) > 0 {
		query := httpReq.URL.Query()
		for key, values := range request.Query {
			for _, value := range values {
				query.Add(key, value)
			}
		}

		httpReq.URL.RawQuery = query.Encode()
	}

	for key, values := range request.Headers {
		for _, value := range values {
			httpReq.Header.Add(key, value)
		}
	}

	if err := applyAuth(httpReq.Header, request.Auth); err != nil {
		return nil, err
	}

	return httpReq, nil
}

// applyAuth writes the auth config into the headers.
func applyAuth(headers http.Header, auth *AuthConfig) error {
	if auth == nil {
		return nil
	}

	switch auth.Type {
	case AuthTypeBearer:
		if auth.APIKey == "" {
			return fmt.Errorf("bearer token is required")
		}

		headers.Set("Authorization", "Bearer "+auth.APIKey)
	case AuthTypeAPIKey:
		if auth.HeaderKey == "" {
			return fmt.Errorf("header key is required for api_key auth")
		}

		if auth.APIKey == "" {
			return fmt.Errorf("api key is required")
		}

		headers.Set(auth.HeaderKey, auth.APIKey)
	default:
		return fmt.Errorf("unsupported auth type: %s", auth.Type)
	}

	return nil
}

func normalizeContentType(contentType string) string {
	if mediaType, _, ok := strings.Cut(contentType, ";"); ok {
		return strings.TrimSpace(mediaType)
	}

	return contentType
}
