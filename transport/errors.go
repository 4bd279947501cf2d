package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// RequestError reports a non-2xx backend response. Body carries the
// backend's structured error payload verbatim so callers can branch on
// business-rule codes.
type RequestError struct {
	Status  int
	Code    string
	Message string
	Body    json.RawMessage
}

// Error returns the server-supplied message, falling back to "HTTP <status>".
func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP %d", e.Status)
}

// TimeoutError reports that the intrinsic timeout or the caller's
// cancellation fired before a response arrived. Its HTTP status is 0.
type TimeoutError struct {
	cause error
}

// Error describes the timeout; the wrapped cause distinguishes deadline
// expiry from external cancellation.
func (e *TimeoutError) Error() string { return "request timed out or was cancelled" }

// Unwrap exposes the underlying context error.
func (e *TimeoutError) Unwrap() error { return e.cause }

// NetworkError reports a transport-level failure (offline, DNS, connection
// refused). Its HTTP status is 0. It is never auto-retried.
type NetworkError struct {
	cause error
}

// Error describes the transport failure.
func (e *NetworkError) Error() string {
	if e.cause != nil {
		return "network error: " + e.cause.Error()
	}
	return "network error"
}

// Unwrap exposes the underlying transport error.
func (e *NetworkError) Unwrap() error { return e.cause }

// StatusOf extracts the HTTP status carried by err: the response status for
// a [*RequestError], 0 for timeout, network, and unrecognized errors.
func StatusOf(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

// classify maps a failed round trip onto the closed error set. Both the
// intrinsic deadline and an externally cancelled context surface as a
// timeout so callers never see a silent hang or a raw context error.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TimeoutError{cause: err}
	}
	return &NetworkError{cause: err}
}

// errorEnvelope mirrors the two error payload shapes the backend emits.
type errorEnvelope struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func newRequestError(status int, body json.RawMessage) *RequestError {
	re := &RequestError{Status: status, Body: body}
	if len(body) == 0 {
		return re
	}
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return re
	}
	if env.Error != nil {
		re.Code = env.Error.Code
		re.Message = env.Error.Message
	}
	if re.Code == "" {
		re.Code = env.Code
	}
	if re.Message == "" {
		re.Message = env.Message
	}
	return re
}
