package httpclient

import (
	"fmt"
	"net/http"
)

// Error represents a non-2xx HTTP response from the generation API.
type Error struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Method     string `json:"method"`
	URL        string `json:"url"`
	Body       []byte `json:"body,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s - %s with status %s", e.Method, e.URL, e.Status)
}

// IsHTTPStatusCodeRetryable checks if an HTTP status code is retryable.
// 4xx status codes are generally not retryable except for 429.
func IsHTTPStatusCodeRetryable(statusCode int) bool {
	if statusCode == http.StatusTooManyRequests {
		return true
	}

	if statusCode >= 400 && statusCode < 500 {
		return false
	}

	return statusCode >= 500
}
