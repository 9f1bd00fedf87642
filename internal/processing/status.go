// Package processing follows the backend's resume pipeline: it polls the
// processing-status endpoint and maps each reported status to the banner
// shown to the user.
package processing

// Status is a stage of the resume pipeline as reported by the backend.
// Values outside the constants below are passed through unchanged.
type Status string

const (
	StatusNotUploaded Status = "not_uploaded"
	StatusProcessing  Status = "processing"
	StatusParsing     Status = "parsing"
	StatusMatching    Status = "matching"
	StatusFinalizing  Status = "finalizing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusNotFound    Status = "not_found"
	StatusChecking    Status = "checking"

	// StatusError is never sent by the backend; the client enters it when
	// polling fails or runs out of attempts.
	StatusError Status = "error"
)

// Statuses lists every known status in pipeline order.
var Statuses = []Status{
	StatusNotUploaded,
	StatusChecking,
	StatusProcessing,
	StatusParsing,
	StatusMatching,
	StatusFinalizing,
	StatusCompleted,
	StatusFailed,
	StatusNotFound,
	StatusError,
}

// Content is the banner text for a status
type Content struct {
	Title        string
	Description  string
	ShowProgress bool
}

var contents = map[Status]Content{
	StatusNotUploaded: {
		Title:       "Upload your resume",
		Description: "Upload a PDF or Word document to get matched with jobs that fit your skills.",
	},
	StatusChecking: {
		Title:        "Checking status",
		Description:  "Looking up the latest progress on your resume.",
		ShowProgress: true,
	},
	StatusProcessing: {
		Title:        "Processing your resume",
		Description:  "Your resume was received and is queued for analysis.",
		ShowProgress: true,
	},
	StatusParsing: {
		Title:        "Reading your resume",
		Description:  "Extracting your skills, education and work experience.",
		ShowProgress: true,
	},
	StatusMatching: {
		Title:        "Finding job matches",
		Description:  "Comparing your profile against open positions.",
		ShowProgress: true,
	},
	StatusFinalizing: {
		Title:        "Almost done",
		Description:  "Ranking your matches and preparing your dashboard.",
		ShowProgress: true,
	},
	StatusCompleted: {
		Title:       "Your matches are ready",
		Description: "Processing finished. Your job matches are available on your dashboard.",
	},
	StatusFailed: {
		Title:       "Processing failed",
		Description: "We could not analyze this resume. Please check the file and upload it again.",
	},
	StatusNotFound: {
		Title:       "No resume found",
		Description: "We could not find an uploaded resume for your account. Please upload one to continue.",
	},
	StatusError: {
		Title:       "Something went wrong",
		Description: "We lost track of your resume's progress. Please try again.",
	},
}

// ContentFor returns the banner for status. Unknown statuses get the zero Content.
func ContentFor(status Status) Content {
	return contents[status]
}

// IsTerminal reports whether polling should stop at status.
func IsTerminal(status Status) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusNotFound, StatusError:
		return true
	}
	return false
}

// IsKnown reports whether status is one of the constants above.
func IsKnown(status Status) bool {
	_, ok := contents[status]
	return ok
}
