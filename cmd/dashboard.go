package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Polqt/aica-bot-sub001/internal/processing"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show profile, skills and saved jobs at once",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("jobs")

		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		var (
			status  *models.ProcessingStatusResponse
			profile *models.UserProfile
			skills  *models.SkillSet
			jobs    []models.SavedJob
		)
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			status, err = a.API.ProcessingStatus(ctx)
			return err
		})
		g.Go(func() (err error) {
			profile, err = a.API.Profile(ctx)
			return err
		})
		g.Go(func() (err error) {
			skills, err = a.API.Skills(ctx)
			return err
		})
		g.Go(func() (err error) {
			jobs, err = a.API.SavedJobs(ctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return a.CheckSession(err)
		}

		out := cmd.OutOrStdout()
		printBanner(out, processing.Status(status.Status), status)
		printProfile(out, profile)
		fmt.Fprintln(out)
		printSkills(out, skills, false)

		fmt.Fprintln(out, titleStyle.Render("Top Matches"))
		top := filterJobs(jobs, "", 0)
		if len(top) == 0 {
			fmt.Fprintln(out, "No saved jobs yet.")
			return nil
		}
		if limit > 0 && len(top) > limit {
			top = top[:limit]
		}
		for _, job := range top {
			printJob(out, job, false)
		}
		if len(jobs) > len(top) {
			fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("%d more with 'aica job list'", len(jobs)-len(top))))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().Int("jobs", 5, "Number of top matches to show")
}
