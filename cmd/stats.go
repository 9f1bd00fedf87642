package cmd

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/matcher"
	"github.com/Polqt/aica-bot-sub001/internal/processing"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "View match and upload statistics",
	Long:  "Summarize your saved job matches by tier and your upload history",
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
		uploads, err := a.Store.ListUploads(0)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Statistics"))
		printMatchStats(out, calculateMatchStats(jobs))
		printUploadStats(out, calculateUploadStats(uploads))
		return nil
	},
}

// MatchStats summarizes saved jobs
type MatchStats struct {
	Total        int
	ByTier       map[matcher.Confidence]int
	AverageScore float64
	TopMissing   []SkillCount
}

// SkillCount is a skill and how many jobs list it
type SkillCount struct {
	Skill string
	Count int
}

// UploadStats summarizes the local upload history
type UploadStats struct {
	Total           int
	Completed       int
	Failed          int
	Pending         int
	AverageDuration time.Duration
}

func calculateMatchStats(jobs []models.SavedJob) MatchStats {
	stats := MatchStats{
		Total:  len(jobs),
		ByTier: map[matcher.Confidence]int{},
	}
	if len(jobs) == 0 {
		return stats
	}

	missing := map[string]int{}
	sum := 0.0
	for _, job := range jobs {
		stats.ByTier[jobTier(job.JobMatch)]++
		sum += job.MatchScore
		for _, skill := range job.MissingSkills {
			missing[skill]++
		}
	}
	stats.AverageScore = sum / float64(len(jobs))

	for skill, n := range missing {
		stats.TopMissing = append(stats.TopMissing, SkillCount{Skill: skill, Count: n})
	}
	sort.Slice(stats.TopMissing, func(i, j int) bool {
		if stats.TopMissing[i].Count != stats.TopMissing[j].Count {
			return stats.TopMissing[i].Count > stats.TopMissing[j].Count
		}
		return stats.TopMissing[i].Skill < stats.TopMissing[j].Skill
	})
	if len(stats.TopMissing) > 5 {
		stats.TopMissing = stats.TopMissing[:5]
	}
	return stats
}

func calculateUploadStats(uploads []*models.Upload) UploadStats {
	stats := UploadStats{Total: len(uploads)}
	var total time.Duration
	finished := 0
	for _, u := range uploads {
		switch processing.Status(u.Status) {
		case processing.StatusCompleted:
			stats.Completed++
		case processing.StatusFailed, processing.StatusError, processing.StatusNotFound:
			stats.Failed++
		}
		if !u.Finished() {
			stats.Pending++
			continue
		}
		total += u.FinishedAt.Sub(u.StartedAt)
		finished++
	}
	if finished > 0 {
		stats.AverageDuration = total / time.Duration(finished)
	}
	return stats
}

func printMatchStats(w io.Writer, stats MatchStats) {
	fmt.Fprintf(w, "%s\n", labelStyle.Render("Saved Jobs"))
	if stats.Total == 0 {
		fmt.Fprintln(w, "  No saved jobs yet.")
		return
	}
	fmt.Fprintf(w, "  Total: %d\n", stats.Total)
	fmt.Fprintf(w, "  Average Score: %s\n", scoreStyle(stats.AverageScore).Render(matcher.FormatScore(stats.AverageScore)))
	for _, tier := range []matcher.Confidence{matcher.ConfidenceHigh, matcher.ConfidenceMedium, matcher.ConfidenceLow} {
		badge := matcher.BadgeFor(tier)
		fmt.Fprintf(w, "  %s: %d\n", badge.Label, stats.ByTier[tier])
	}
	if len(stats.TopMissing) > 0 {
		fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Skills To Learn"))
		for _, s := range stats.TopMissing {
			fmt.Fprintf(w, "  %s (%d jobs)\n", s.Skill, s.Count)
		}
	}
}

func printUploadStats(w io.Writer, stats UploadStats) {
	fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Uploads"))
	if stats.Total == 0 {
		fmt.Fprintln(w, "  No uploads from this machine yet.")
		return
	}
	fmt.Fprintf(w, "  Total: %d\n", stats.Total)
	fmt.Fprintf(w, "  Completed: %d\n", stats.Completed)
	fmt.Fprintf(w, "  Failed: %d\n", stats.Failed)
	if stats.Pending > 0 {
		fmt.Fprintf(w, "  Pending: %d\n", stats.Pending)
	}
	if stats.AverageDuration > 0 {
		fmt.Fprintf(w, "  Average Processing Time: %s\n", stats.AverageDuration.Round(time.Second))
	}
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
