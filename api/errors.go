package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
)

// ErrDecode wraps a 2xx response whose body does not match the expected shape.
var ErrDecode = errors.New("unexpected response body")

// APIError is returned for every non-2xx response. Callers decide what the
// status means for them.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
	Body       []byte
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	return &APIError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Detail:     parseDetail(body),
		Body:       body,
	}
}

// parseDetail extracts FastAPI's "detail" which is either a string or a list
// of validation errors.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(payload.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return string(payload.Detail)
}

// ErrorKind is the coarse failure class a view reacts to.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindNetwork
	KindUnauthorized
	KindNotImplemented
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "server"
	}
}

// Classify maps an error from this package onto an ErrorKind.
// An unreadable body is a server fault; anything else that is not an
// *APIError is a transport failure.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	if errors.Is(err, ErrDecode) {
		return KindServer
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return KindNetwork
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return KindNotImplemented
	default:
		return KindServer
	}
}

// IsTransport reports whether err came from the network rather than from a
// backend response.
func IsTransport(err error) bool {
	var urlErr *url.Error
	var netErr net.Error
	return errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

// UserMessage is the text shown next to the action that failed.
func UserMessage(err error) string {
	switch Classify(err) {
	case KindNone:
		return ""
	case KindNetwork:
		return "Backend unreachable. Check your connection and try again."
	case KindUnauthorized:
		return "Wrong password. Please try again."
	case KindNotImplemented:
		return "Backend endpoint is not available yet."
	}
	return "Something went wrong. Please try again."
}

// Detail returns the backend's own message when there is one, else UserMessage.
// Login and registration forms show this.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return UserMessage(err)
}
