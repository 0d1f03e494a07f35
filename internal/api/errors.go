package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/text/message"

	"github.com/rockrashit19/Duslar/internal/i18n"
)

// maxErrorBody bounds how much of an error response is read for its detail.
const maxErrorBody = 64 << 10

// APIError is a non-2xx response that the retry policy did not recover.
type APIError struct {
	Status int
	// Detail is the server-supplied message from a {"detail": "..."} body.
	// Empty when the body had another shape.
	Detail string
	Method string
	Path   string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, http.StatusText(e.Status), e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, http.StatusText(e.Status))
}

// NetworkError means the request never produced a response.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// errorBody is the error shape used by every endpoint.
type errorBody struct {
	Detail any `json:"detail"`
}

// NewAPIError builds an APIError from resp, consuming its body.
func NewAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Status: resp.StatusCode}
	if resp.Request != nil {
		apiErr.Method = resp.Request.Method
		apiErr.Path = resp.Request.URL.Path
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return apiErr
	}
	apiErr.Detail = parseDetail(data)
	return apiErr
}

// parseDetail extracts a string detail. Validation errors carry a list of
// objects instead; those fall back to the generic message.
func parseDetail(data []byte) string {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	detail, _ := body.Detail.(string)
	return detail
}

// IsNetwork reports whether err means the server could not be reached.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Message renders err for a human. Server-supplied detail wins; otherwise a
// localized generic message keyed by fallback is used. Network failures get
// the generic message too.
func Message(err error, p *message.Printer, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return i18n.Text(p, fallback)
}
