package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/app"
	"github.com/Polqt/aica-bot-sub001/internal/apperr"
	"github.com/Polqt/aica-bot-sub001/internal/processing"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View resume processing status",
	Long:  "Show where your resume is in the processing pipeline",
	Example: `  aica status
  aica status --watch`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		uploadID := ""
		if pending, err := a.Store.LatestPendingUpload(); err != nil {
			a.Log.WithError(err).Warn("failed to read upload history")
		} else if pending != nil {
			uploadID = pending.ID
		}

		if watch {
			return watchProcessing(cmd, a, uploadID)
		}

		resp, err := a.API.ProcessingStatus(cmd.Context())
		if err != nil {
			return a.CheckSession(err)
		}
		status := processing.Status(resp.Status)
		printBanner(cmd.OutOrStdout(), status, resp)
		if uploadID != "" && processing.IsTerminal(status) {
			finishUpload(a, uploadID, resp.Status, 1, resp.Message)
		}
		return nil
	},
}

// watchProcessing polls until the pipeline settles, printing a banner each
// time the status changes. uploadID, when set, is the history entry that
// receives the outcome.
func watchProcessing(cmd *cobra.Command, a *app.App, uploadID string) error {
	out := cmd.OutOrStdout()
	last := processing.StatusProcessing

	poller := processing.NewPoller(a.API, a.Config.Polling,
		processing.WithLogger(a.Log),
		processing.WithOnUpdate(func(u processing.Update) {
			if u.Err != nil {
				return
			}
			if u.Status != last {
				printBanner(out, u.Status, u.Response)
				last = u.Status
			}
			if uploadID != "" && !processing.IsTerminal(u.Status) {
				if err := a.Store.SetUploadStatus(uploadID, string(u.Status)); err != nil {
					a.Log.WithError(err).Debug("failed to record upload status")
				}
			}
		}),
	)

	result, err := poller.Run(cmd.Context())
	if err != nil {
		if cmd.Context().Err() != nil {
			// interrupted; the upload stays pending for a later 'aica status'
			return err
		}
		if uploadID != "" {
			finishUpload(a, uploadID, string(processing.StatusError), result.Attempts, errorText(err))
		}
		printBanner(out, processing.StatusError, nil)
		printRetryHint(out, err, "aica status --watch")
		return a.CheckSession(err)
	}

	message := ""
	if result.Last != nil {
		message = result.Last.Message
	}
	if uploadID != "" {
		finishUpload(a, uploadID, string(result.Status), result.Attempts, message)
	}

	switch result.Status {
	case processing.StatusCompleted:
		if result.Last != nil && result.Last.MatchesFound > 0 {
			fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Matches Found:"), result.Last.MatchesFound)
		}
		fmt.Fprintln(out, "See your matches with 'aica job list' or 'aica dashboard'.")
		return nil
	case processing.StatusFailed:
		return apperr.New(apperr.KindServer, orDefault(message, processing.ContentFor(processing.StatusFailed).Description))
	case processing.StatusNotFound:
		return apperr.New(apperr.KindValidation, processing.ContentFor(processing.StatusNotFound).Description)
	}
	return nil
}

// statusStyle colours a pipeline status by how it ended.
func statusStyle(status processing.Status) lipgloss.Style {
	switch status {
	case processing.StatusCompleted:
		return successStyle
	case processing.StatusFailed, processing.StatusError, processing.StatusNotFound:
		return errorStyle
	}
	if processing.ContentFor(status).ShowProgress {
		return lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	}
	return valueStyle
}

func printBanner(w io.Writer, status processing.Status, resp *models.ProcessingStatusResponse) {
	if !processing.IsKnown(status) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Status:"), valueStyle.Render(string(status)))
		return
	}

	content := processing.ContentFor(status)
	prefix := "•"
	if content.ShowProgress {
		prefix = "⟳"
	}
	fmt.Fprintf(w, "%s %s\n", statusStyle(status).Render(prefix+" "+content.Title), mutedStyle.Render(content.Description))
	if resp != nil && resp.Step != "" && content.ShowProgress {
		fmt.Fprintf(w, "  %s %s\n", labelStyle.Render("Step:"), resp.Step)
	}
}

// printRetryHint names the command to run again when err is worth retrying.
func printRetryHint(w io.Writer, err error, command string) {
	if apperr.Retryable(err) {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Run '%s' to try again.", command)))
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolP("watch", "w", false, "Keep checking until processing finishes")
}
