package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/emberlink/chatstream/llm"
	"github.com/emberlink/chatstream/llm/httpclient"
)

// Config holds the connection settings for the Responses API.
type Config struct {
	// BaseURL is the versioned API root, e.g. "https://api.openai.com/v1".
	BaseURL string `json:"base_url"`

	// APIKey is the bearer credential.
	APIKey string `json:"-"`
}

// OutboundTransformer converts unified requests into Responses API wire
// requests and server error bodies into readable errors.
type OutboundTransformer struct {
	config *Config
}

func NewOutboundTransformer(baseURL, apiKey string) (*OutboundTransformer, error) {
	if baseURL == "" || apiKey == "" {
		return nil, fmt.Errorf("baseURL or apiKey is empty")
	}

	return &OutboundTransformer{
		config: &Config{
			BaseURL: strings.TrimSuffix(baseURL, "/"),
			APIKey:  apiKey,
		},
	}, nil
}

// TransformRequest builds the HTTP request for one streaming turn. The
// session's PreviousResponseID, when set, takes precedence over the one on
// the request so multi-turn continuity follows the session.
func (t *OutboundTransformer) TransformRequest(
	ctx context.Context,
	request *llm.Request,
	session *Session,
) (*httpclient.Request, error) {
	if request == nil {
		return nil, fmt.Errorf("request is nil")
	}

	if request.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	payload := Request{
		Model:              request.Model,
		Instructions:       request.Instructions,
		Input:              ConvertInputFromMessages(request.Messages),
		Temperature:        request.Temperature,
		MaxOutputTokens:    request.MaxOutputTokens,
		PreviousResponseID: request.PreviousResponseID,
		Stream:             request.Stream,
	}

	if session != nil && session.PreviousResponseID != nil {
		payload.PreviousResponseID = session.PreviousResponseID
	}

	if payload.Stream == nil {
		payload.Stream = lo.ToPtr(true)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responses api request: %w", err)
	}

	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")

	return &httpclient.Request{
		Method:  http.MethodPost,
		URL:     t.config.BaseURL + "/responses",
		Headers: headers,
		Body:    body,
		Auth: &httpclient.AuthConfig{
			Type:   httpclient.AuthTypeBearer,
			APIKey: t.config.APIKey,
		},
	}, nil
}

// TransformError extracts the server-side error message from a non-2xx
// response body, falling back to the raw status line.
func (t *OutboundTransformer) TransformError(ctx context.Context, rawErr *httpclient.Error) error {
	if rawErr == nil {
		return fmt.Errorf("request failed")
	}

	if message := gjson.GetBytes(rawErr.Body, "error.message"); message.Exists() && message.String() != "" {
		return fmt.Errorf("%s: %w", message.String(), rawErr)
	}

	return rawErr
}
