package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentForKnownStatuses(t *testing.T) {
	for _, status := range Statuses {
		t.Run(string(status), func(t *testing.T) {
			content := ContentFor(status)
			assert.NotEmpty(t, content.Title)
			assert.NotEmpty(t, content.Description)
			assert.Equal(t, content, ContentFor(status), "ContentFor must be deterministic")
		})
	}
}

func TestContentForUnknownStatus(t *testing.T) {
	for _, status := range []Status{"", "queued", "COMPLETED", "unknown"} {
		assert.Equal(t, Content{}, ContentFor(status), "status %q", status)
	}
}

func TestContentShowProgress(t *testing.T) {
	inFlight := []Status{StatusChecking, StatusProcessing, StatusParsing, StatusMatching, StatusFinalizing}
	for _, status := range inFlight {
		assert.True(t, ContentFor(status).ShowProgress, "status %q", status)
	}

	settled := []Status{StatusNotUploaded, StatusCompleted, StatusFailed, StatusNotFound, StatusError}
	for _, status := range settled {
		assert.False(t, ContentFor(status).ShowProgress, "status %q", status)
	}
}

func TestIsTerminal(t *testing.T) {
	tests := []struct {
		status Status
		want   bool
	}{
		{StatusCompleted, true},
		{StatusFailed, true},
		{StatusNotFound, true},
		{StatusError, true},
		{StatusNotUploaded, false},
		{StatusChecking, false},
		{StatusProcessing, false},
		{StatusParsing, false},
		{StatusMatching, false},
		{StatusFinalizing, false},
		{"queued", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, IsTerminal(tt.status))
		})
	}
}

func TestIsKnown(t *testing.T) {
	assert.True(t, IsKnown(StatusMatching))
	assert.False(t, IsKnown("queued"))
}
