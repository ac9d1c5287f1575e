package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// HTTPError is returned for any response with status >= 400.
type HTTPError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: status %d", e.Status)
}

// NetworkError is returned when no response was received at all.
type NetworkError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("api: %s: %v", e.Op, e.Err)
}

// Unwrap returns the transport error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusOf extracts the HTTP status from err, or 0 when err carries none.
func StatusOf(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// IsNetwork reports whether err is a connectivity failure.
func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsUnauthorized reports whether the server rejected the credentials.
func IsUnauthorized(err error) bool {
	return StatusOf(err) == http.StatusUnauthorized
}

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = resp.Body.Close()

	out := &HTTPError{Status: resp.StatusCode}
	type errorPayload struct {
		Error   string          `json:"error"`
		Code    string          `json:"code"`
		Message json.RawMessage `json:"message"`
	}
	var payload errorPayload
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		out.Code = strings.TrimSpace(payload.Code)
		if out.Code == "" {
			out.Code = strings.TrimSpace(payload.Error)
		}
		out.Message = decodeMessage(payload.Message)
		return out
	}
	if len(body) > 0 {
		out.Message = strings.TrimSpace(string(body))
	}
	return out
}

// The API reports either a single message or a list of field messages.
func decodeMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return strings.Join(many, "; ")
	}
	return ""
}
