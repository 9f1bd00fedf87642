package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Polqt/aica-bot-sub001/internal/apperr"
	"github.com/Polqt/aica-bot-sub001/internal/matcher"
	"github.com/Polqt/aica-bot-sub001/internal/processing"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

func savedJob(title string, score float64, confidence string, missing ...string) models.SavedJob {
	return models.SavedJob{
		ID: title,
		JobMatch: models.JobMatch{
			JobID:         title,
			JobTitle:      title,
			Company:       "Acme",
			MatchScore:    score,
			Confidence:    confidence,
			MissingSkills: missing,
		},
	}
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "Cancelled.", errorText(fmt.Errorf("poll: %w", context.Canceled)))
	assert.Equal(t, "Password is required.", errorText(apperr.New(apperr.KindValidation, "Password is required.")))
	assert.Equal(t, `invalid tier "x"`, errorText(usagef(`invalid tier %q`, "x")))

	timeout := errorText(fmt.Errorf("get: %w", context.DeadlineExceeded))
	assert.NotContains(t, timeout, "deadline")

	internal := fmt.Errorf("failed to initialize app: %w",
		fmt.Errorf("failed to run migrations: %w", errors.New("sqlite3: database disk image is malformed")))
	assert.Equal(t, apperr.GenericMessage, errorText(internal))
}

func TestErrorTextShowsUsageMistakes(t *testing.T) {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"job", "list", "--nope"}, "unknown flag: --nope"},
		{[]string{"bogus"}, `unknown command "bogus" for "aica"`},
		{[]string{"resume", "upload"}, "accepts 1 arg(s), received 0"},
	}
	for _, tt := range tests {
		rootCmd.SetArgs(tt.args)
		_, err := rootCmd.ExecuteC()
		require.Error(t, err, tt.args)
		assert.Equal(t, tt.want, errorText(err), tt.args)
	}
}

func TestJobTier(t *testing.T) {
	assert.Equal(t, matcher.ConfidenceHigh, jobTier(savedJob("a", 0.5, "HIGH").JobMatch))
	assert.Equal(t, matcher.ConfidenceMedium, jobTier(savedJob("b", 0.65, "").JobMatch))
	assert.Equal(t, matcher.ConfidenceLow, jobTier(savedJob("c", 0.9, "low").JobMatch))
	assert.Equal(t, matcher.ConfidenceHigh, jobTier(savedJob("d", 0.8, "unsure").JobMatch))
}

func TestFilterJobs(t *testing.T) {
	jobs := []models.SavedJob{
		savedJob("mid", 0.7, ""),
		savedJob("top", 0.95, ""),
		savedJob("low", 0.3, ""),
		savedJob("high-conf", 0.75, "high"),
	}

	all := filterJobs(jobs, "", 0)
	require.Len(t, all, 4)
	assert.Equal(t, "top", all[0].JobTitle)
	assert.Equal(t, "low", all[3].JobTitle)

	high := filterJobs(jobs, matcher.ConfidenceHigh, 0)
	require.Len(t, high, 2)
	assert.Equal(t, "top", high[0].JobTitle)
	assert.Equal(t, "high-conf", high[1].JobTitle)

	assert.Len(t, filterJobs(jobs, "", 0.72), 2)
	assert.NotNil(t, filterJobs(nil, "", 0))
}

func TestNormalizeSetting(t *testing.T) {
	v, err := normalizeSetting("upload.max_file_size", "5MiB")
	require.NoError(t, err)
	assert.Equal(t, "5242880", v)

	v, err = normalizeSetting("polling.interval", "3s")
	require.NoError(t, err)
	assert.Equal(t, "3s", v)

	for key, bad := range map[string]string{
		"api_url":              "localhost",
		"log_level":            "loud",
		"http_timeout":         "-1s",
		"polling.interval":     "soon",
		"polling.max_polls":    "0",
		"upload.max_file_size": "big",
	} {
		_, err := normalizeSetting(key, bad)
		assert.Error(t, err, key)
	}
}

func TestCalculateMatchStats(t *testing.T) {
	stats := calculateMatchStats([]models.SavedJob{
		savedJob("a", 0.9, "", "Kubernetes", "Go"),
		savedJob("b", 0.7, "", "Kubernetes"),
		savedJob("c", 0.2, "", "Rust"),
	})

	assert.Equal(t, 3, stats.Total)
	assert.InDelta(t, 0.6, stats.AverageScore, 1e-9)
	assert.Equal(t, 1, stats.ByTier[matcher.ConfidenceHigh])
	assert.Equal(t, 1, stats.ByTier[matcher.ConfidenceMedium])
	assert.Equal(t, 1, stats.ByTier[matcher.ConfidenceLow])
	require.Len(t, stats.TopMissing, 3)
	assert.Equal(t, SkillCount{Skill: "Kubernetes", Count: 2}, stats.TopMissing[0])
	assert.Equal(t, "Go", stats.TopMissing[1].Skill)

	assert.Zero(t, calculateMatchStats(nil).AverageScore)
}

func TestCalculateUploadStats(t *testing.T) {
	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	done := func(d time.Duration) *time.Time {
		ts := start.Add(d)
		return &ts
	}
	stats := calculateUploadStats([]*models.Upload{
		{Status: "completed", StartedAt: start, FinishedAt: done(10 * time.Second)},
		{Status: "error", StartedAt: start, FinishedAt: done(20 * time.Second)},
		{Status: "processing", StartedAt: start},
	})

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 15*time.Second, stats.AverageDuration)
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	printBanner(&buf, processing.StatusMatching, &models.ProcessingStatusResponse{Status: "matching", Step: "scoring jobs"})
	assert.Contains(t, buf.String(), processing.ContentFor(processing.StatusMatching).Title)
	assert.Contains(t, buf.String(), "scoring jobs")

	buf.Reset()
	printBanner(&buf, processing.Status("queued_for_review"), nil)
	assert.Contains(t, buf.String(), "queued_for_review")
}

func TestRunBrowser(t *testing.T) {
	jobs := []models.SavedJob{savedJob("Backend Engineer", 0.85, "high")}
	jobs[0].Description = "Build APIs in Go."

	var out bytes.Buffer
	runBrowser(strings.NewReader("7\n1\nb\n1\nq\n"), &out, jobs)

	text := out.String()
	assert.Contains(t, text, "Invalid selection")
	assert.Contains(t, text, "Build APIs in Go.")
	assert.Equal(t, 2, strings.Count(text, "Build APIs in Go."))
}

func TestRunBrowserStopsAtEOF(t *testing.T) {
	var out bytes.Buffer
	runBrowser(strings.NewReader(""), &out, []models.SavedJob{savedJob("a", 0.5, "")})
	assert.Contains(t, out.String(), "Job Browser")
}
