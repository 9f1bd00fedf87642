package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		detail  string
		kind    Kind
		message string
	}{
		{"unauthorized", http.StatusUnauthorized, "Invalid credentials", KindAuth, "Invalid credentials"},
		{"forbidden without detail", http.StatusForbidden, "", KindAuth, defaultMessages[KindAuth]},
		{"payload too large", http.StatusRequestEntityTooLarge, "File too large", KindFile, "File too large"},
		{"unsupported media", http.StatusUnsupportedMediaType, "", KindFile, defaultMessages[KindFile]},
		{"gateway timeout", http.StatusGatewayTimeout, "", KindTimeout, defaultMessages[KindTimeout]},
		{"server error hides detail", http.StatusInternalServerError, "psycopg2.OperationalError", KindServer, defaultMessages[KindServer]},
		{"bad request", http.StatusBadRequest, "Email already registered", KindValidation, "Email already registered"},
		{"unprocessable", http.StatusUnprocessableEntity, "field required", KindValidation, "field required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FromStatus(tt.code, tt.detail)
			assert.Equal(t, tt.kind, err.Kind)
			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.code, err.StatusCode)
		})
	}
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"classified", New(KindFile, "bad file"), KindFile},
		{"wrapped classified", fmt.Errorf("upload: %w", New(KindAuth, "expired")), KindAuth},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"connection refused", &url.Error{Op: "Get", URL: "http://x", Err: syscall.ECONNREFUSED}, KindNetwork},
		{"url error", &url.Error{Op: "Get", URL: "http://x", Err: errors.New("no such host")}, KindNetwork},
		{"plain", errors.New("boom"), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Equal(t, "bad file", UserMessage(New(KindFile, "bad file")))
	assert.Equal(t, GenericMessage, UserMessage(errors.New("sql: connection is already closed")))
	assert.Equal(t, defaultMessages[KindNetwork], UserMessage(&url.Error{Op: "Post", URL: "http://x", Err: syscall.ECONNRESET}))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil))

	original := New(KindAuth, "expired")
	assert.Same(t, original, Classify(fmt.Errorf("profile: %w", original)))

	cause := errors.New("boom")
	classified := Classify(cause)
	require.NotNil(t, classified)
	assert.Equal(t, KindUnknown, classified.Kind)
	assert.Equal(t, GenericMessage, classified.Message)
	assert.ErrorIs(t, classified, cause)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(New(KindNetwork, "")))
	assert.True(t, Retryable(New(KindTimeout, "")))
	assert.True(t, Retryable(New(KindServer, "")))
	assert.False(t, Retryable(New(KindValidation, "")))
	assert.False(t, Retryable(New(KindAuth, "")))
}
