package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/matcher"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse saved jobs interactively",
	Long:  "Page through your saved job matches and open their details",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		jobs, err := a.API.SavedJobs(cmd.Context())
		if err != nil {
			return a.CheckSession(err)
		}
		if len(jobs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No saved jobs yet. Save matches from the dashboard to see them here.")
			return nil
		}

		runBrowser(cmd.InOrStdin(), cmd.OutOrStdout(), filterJobs(jobs, "", 0))
		return nil
	},
}

func runBrowser(in io.Reader, out io.Writer, jobs []models.SavedJob) {
	reader := bufio.NewReader(in)

	for {
		// Display job list
		fmt.Fprintln(out, titleStyle.Render("Job Browser"))
		fmt.Fprintln(out, "Press 'q' to quit, or enter a job number to view details")
		fmt.Fprintln(out)

		for i, job := range jobs {
			fmt.Fprintf(out, "%2d. %s %s at %s\n", i+1,
				scoreStyle(job.MatchScore).Render(fmt.Sprintf("%4s", matcher.FormatScore(job.MatchScore))),
				job.JobTitle, job.Company)
		}

		fmt.Fprint(out, "\n> ")
		input, err := reader.ReadString('\n')
		input = strings.TrimSpace(input)
		if input == "q" || input == "Q" || (err != nil && input == "") {
			return
		}

		jobNum, convErr := strconv.Atoi(input)
		if convErr != nil || jobNum < 1 || jobNum > len(jobs) {
			fmt.Fprintln(out, "Invalid selection")
			continue
		}

		if !displayJobDetails(out, jobs[jobNum-1], reader) {
			return
		}
	}
}

// displayJobDetails returns false when the user asked to quit.
func displayJobDetails(out io.Writer, job models.SavedJob, reader *bufio.Reader) bool {
	for {
		fmt.Fprintln(out, "\n"+strings.Repeat("=", 60))
		fmt.Fprintln(out, titleStyle.Render(job.JobTitle))
		printJob(out, job, true)

		if job.Description != "" {
			fmt.Fprintln(out, labelStyle.Render("Description:"))
			fmt.Fprintln(out, job.Description)
		}

		fmt.Fprintln(out, "\nOptions:")
		fmt.Fprintln(out, "  [b] Back to list")
		fmt.Fprintln(out, "  [q] Quit")
		fmt.Fprint(out, "\n> ")

		choice, err := reader.ReadString('\n')
		choice = strings.TrimSpace(strings.ToLower(choice))

		switch {
		case choice == "b":
			return true
		case choice == "q" || (err != nil && choice == ""):
			return false
		default:
			fmt.Fprintln(out, "Invalid choice")
		}
	}
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
