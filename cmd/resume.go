package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/app"
	"github.com/Polqt/aica-bot-sub001/internal/processing"
	"github.com/Polqt/aica-bot-sub001/internal/resume"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

// uploadStatusPending marks a history entry whose upload request has not
// been answered yet.
const uploadStatusPending = "uploading"

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Upload and inspect resumes",
	Long:  "Upload your resume for matching, check files before uploading, and review past uploads",
}

var uploadResumeCmd = &cobra.Command{
	Use:   "upload <file-path>",
	Short: "Upload a resume and wait for it to be processed",
	Args:  usageArgs(cobra.ExactArgs(1)),
	Example: `  aica resume upload ~/Documents/resume.pdf
  aica resume upload ./cv.docx --no-wait`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noWait, _ := cmd.Flags().GetBool("no-wait")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		file, err := resume.Load(args[0])
		if err != nil {
			return err
		}
		if err := a.UploadRules().ValidateFile(file); err != nil {
			return err
		}

		src, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open resume: %w", err)
		}
		defer src.Close()

		record := &models.Upload{
			Filename:    file.Name,
			ContentType: file.Type,
			Size:        file.Size,
			Status:      uploadStatusPending,
		}
		if err := a.Store.CreateUpload(record); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Uploading %s (%s)...\n", file.Name, humanize.IBytes(uint64(file.Size)))

		resp, err := a.API.UploadResume(cmd.Context(), file.Name, file.Type, src)
		if err != nil {
			finishUpload(a, record.ID, string(processing.StatusError), 0, errorText(err))
			printRetryHint(out, err, "aica resume upload "+args[0])
			return a.CheckSession(err)
		}
		fmt.Fprintln(out, successStyle.Render("✓ "+orDefault(resp.Message, "Resume uploaded")))

		if noWait {
			if err := a.Store.SetUploadStatus(record.ID, string(processing.StatusProcessing)); err != nil {
				a.Log.WithError(err).Warn("failed to record upload status")
			}
			fmt.Fprintln(out, "Processing continues in the background. Check on it with 'aica status'.")
			return nil
		}

		printBanner(out, processing.StatusProcessing, nil)
		return watchProcessing(cmd, a, record.ID)
	},
}

var inspectResumeCmd = &cobra.Command{
	Use:   "inspect <file-path>",
	Short: "Check a resume file without uploading it",
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		file, err := resume.Load(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(file.Name))
		field(out, "Type", file.Type)
		field(out, "Size", humanize.IBytes(uint64(file.Size)))

		if err := a.UploadRules().ValidateFile(file); err != nil {
			fmt.Fprintf(out, "%s %s\n", errorStyle.Render("✗"), errorText(err))
		} else {
			fmt.Fprintln(out, successStyle.Render("✓ Ready to upload"))
		}

		if file.Type != resume.TypePDF || file.Size == 0 {
			return nil
		}
		text, err := resume.ExtractText(args[0])
		if err != nil {
			fmt.Fprintf(out, "%s %s\n", mutedStyle.Render("Text:"), errorText(err))
			return nil
		}
		field(out, "Pages", fmt.Sprintf("%d", text.Pages))
		field(out, "Words", humanize.Comma(int64(text.Words())))
		if preview := text.Preview(280); preview != "" {
			fmt.Fprintf(out, "\n%s\n%s\n", labelStyle.Render("Preview:"), mutedStyle.Render(preview))
		}
		return nil
	},
}

var historyResumeCmd = &cobra.Command{
	Use:   "history",
	Short: "List past uploads from this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		uploads, err := a.Store.ListUploads(limit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(uploads) == 0 {
			fmt.Fprintln(out, "No uploads yet. Upload a resume with 'aica resume upload <file>'")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render("Upload History"))
		for i, u := range uploads {
			fmt.Fprintf(out, "%d. %s %s\n", i+1, u.Filename, mutedStyle.Render(humanize.IBytes(uint64(u.Size))))
			fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Status:"), statusStyle(processing.Status(u.Status)).Render(u.Status))
			fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Started:"), u.StartedAt.Local().Format("Jan 2, 2006 15:04"))
			if u.Finished() {
				fmt.Fprintf(out, "   %s %s after %d checks\n", labelStyle.Render("Took:"),
					u.FinishedAt.Sub(u.StartedAt).Round(time.Second), u.Attempts)
			}
			if u.Message != "" {
				fmt.Fprintf(out, "   %s\n", mutedStyle.Render(u.Message))
			}
		}
		return nil
	},
}

// finishUpload records the outcome; failing to write history never fails
// the command.
func finishUpload(a *app.App, id, status string, attempts int, message string) {
	if err := a.Store.FinishUpload(id, status, attempts, message); err != nil {
		a.Log.WithError(err).Warn("failed to record upload result")
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(uploadResumeCmd)
	resumeCmd.AddCommand(inspectResumeCmd)
	resumeCmd.AddCommand(historyResumeCmd)

	uploadResumeCmd.Flags().Bool("no-wait", false, "Return after the upload without waiting for processing")
	historyResumeCmd.Flags().Int("limit", 10, "Number of uploads to show (0 for all)")
}
