// Package apperr classifies client-side failures into the small set of
// categories the CLI reports to the user.
package apperr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"syscall"
)

// Kind is the category of a failure
type Kind string

const (
	KindValidation Kind = "VALIDATION_ERROR"
	KindNetwork    Kind = "NETWORK_ERROR"
	KindAuth       Kind = "AUTH_ERROR"
	KindFile       Kind = "FILE_ERROR"
	KindServer     Kind = "SERVER_ERROR"
	KindTimeout    Kind = "TIMEOUT_ERROR"
	KindUnknown    Kind = "UNKNOWN_ERROR"
)

// GenericMessage is shown for failures that could not be classified.
const GenericMessage = "Something went wrong. Please try again."

var defaultMessages = map[Kind]string{
	KindValidation: "Please check your input and try again.",
	KindNetwork:    "Unable to reach the server. Check your connection and try again.",
	KindAuth:       "Your session has expired. Please log in again.",
	KindFile:       "There was a problem with your file. Please try a different one.",
	KindServer:     "The server ran into a problem. Please try again later.",
	KindTimeout:    "Processing is taking longer than expected. Please try again.",
}

// Error is a classified failure. Message is safe to show to the user.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New returns an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap returns an Error of the given kind that wraps err.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// FromStatus classifies a non-2xx HTTP response. detail is the message the
// server sent, if any.
func FromStatus(code int, detail string) *Error {
	kind := KindValidation
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		kind = KindAuth
	case code == http.StatusRequestEntityTooLarge || code == http.StatusUnsupportedMediaType:
		kind = KindFile
	case code == http.StatusRequestTimeout || code == http.StatusGatewayTimeout:
		kind = KindTimeout
	case code >= 500:
		kind = KindServer
	}

	message := detail
	if message == "" || kind == KindServer {
		// 5xx bodies tend to carry stack traces or driver errors
		message = defaultMessages[kind]
	}
	return &Error{Kind: kind, Message: message, StatusCode: code}
}

// KindOf reports the category of err, looking through wrapped errors.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return KindNetwork
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindNetwork
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return KindNetwork
	}
	return KindUnknown
}

// Classify returns err as an *Error, wrapping unclassified errors with the
// kind KindOf reports for them.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	kind := KindOf(err)
	message, ok := defaultMessages[kind]
	if !ok {
		message = GenericMessage
	}
	return Wrap(kind, message, err)
}

// UserMessage returns text suitable for the terminal. Unclassified errors
// get a generic message so transport internals never reach the user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	if message, ok := defaultMessages[KindOf(err)]; ok {
		return message
	}
	return GenericMessage
}

// Retryable reports whether retrying the same action may succeed.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindNetwork, KindServer, KindTimeout:
		return true
	}
	return false
}
