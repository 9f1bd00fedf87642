package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/matcher"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "View job matches",
	Long:  "List the jobs you saved from your matches",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved jobs with their match scores",
	Example: `  aica job list
  aica job list --tier high
  aica job list --min-score 0.7 --details`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tierFlag, _ := cmd.Flags().GetString("tier")
		minScore, _ := cmd.Flags().GetFloat64("min-score")
		details, _ := cmd.Flags().GetBool("details")

		var tier matcher.Confidence
		if tierFlag != "" {
			t, ok := matcher.ParseConfidence(tierFlag)
			if !ok {
				return usagef("invalid tier %q, must be one of: high, medium, low", tierFlag)
			}
			tier = t
		}

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

		filtered := filterJobs(jobs, tier, minScore)
		out := cmd.OutOrStdout()
		if len(jobs) == 0 {
			fmt.Fprintln(out, "No saved jobs yet. Save matches from the dashboard to see them here.")
			return nil
		}
		if len(filtered) == 0 {
			fmt.Fprintln(out, "No saved jobs match those filters.")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render("Saved Jobs"))
		for _, job := range filtered {
			printJob(out, job, details)
		}
		fmt.Fprintf(out, "%s %d\n", labelStyle.Render("Total Jobs:"), len(filtered))
		return nil
	},
}

// jobTier is the backend's confidence when it sent a known one, otherwise
// the tier of the score.
func jobTier(job models.JobMatch) matcher.Confidence {
	if c, ok := matcher.ParseConfidence(job.Confidence); ok {
		return c
	}
	return matcher.ScoreTier(job.MatchScore)
}

func filterJobs(jobs []models.SavedJob, tier matcher.Confidence, minScore float64) []models.SavedJob {
	out := []models.SavedJob{}
	for _, job := range jobs {
		if tier != "" && jobTier(job.JobMatch) != tier {
			continue
		}
		if job.MatchScore < minScore {
			continue
		}
		out = append(out, job)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

func scoreStyle(score float64) lipgloss.Style {
	badge := matcher.BadgeFor(matcher.ScoreTier(score))
	return lipgloss.NewStyle().Foreground(lipgloss.Color(badge.TermColor)).Bold(true)
}

func printJob(w io.Writer, job models.SavedJob, details bool) {
	badge := matcher.BadgeFor(jobTier(job.JobMatch))
	badgeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(badge.TermColor))

	fmt.Fprintf(w, "%s %s at %s\n",
		scoreStyle(job.MatchScore).Render(fmt.Sprintf("%4s", matcher.FormatScore(job.MatchScore))),
		job.JobTitle, job.Company)
	meta := nonEmpty(job.Location, badgeStyle.Render(badge.Glyph+" "+badge.Label))
	fmt.Fprintf(w, "     %s\n", strings.Join(meta, " | "))

	if len(job.MatchedSkills)+len(job.MissingSkills) > 0 {
		coverage := matcher.SkillCoverage(job.MatchedSkills, job.MissingSkills)
		fmt.Fprintf(w, "     %s %s of listed skills\n", labelStyle.Render("Skills:"), matcher.FormatScore(coverage))
	}
	if details {
		if len(job.MatchedSkills) > 0 {
			fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Matched:"), strings.Join(job.MatchedSkills, ", "))
		}
		if len(job.MissingSkills) > 0 {
			fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Missing:"), strings.Join(job.MissingSkills, ", "))
		}
		if job.Reasoning != "" {
			fmt.Fprintf(w, "     %s %s\n", labelStyle.Render("Why:"), valueStyle.Render(job.Reasoning))
		}
	}
	if job.JobURL != "" {
		fmt.Fprintf(w, "     %s\n", mutedStyle.Render(job.JobURL))
	}
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(jobCmd)
	jobCmd.AddCommand(listJobsCmd)

	listJobsCmd.Flags().String("tier", "", "Only show one confidence tier (high, medium, low)")
	listJobsCmd.Flags().Float64("min-score", 0, "Only show jobs scoring at least this much (0-1)")
	listJobsCmd.Flags().Bool("details", false, "Show matched and missing skills")
}
