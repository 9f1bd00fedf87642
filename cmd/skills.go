package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "View extracted skills",
	Long:  "List the skills the service extracted from your resume",
}

var listSkillsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your skills grouped by type",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		skills, err := a.API.Skills(cmd.Context())
		if err != nil {
			return a.CheckSession(err)
		}
		showConfidence, _ := cmd.Flags().GetBool("confidence")
		printSkills(cmd.OutOrStdout(), skills, showConfidence)
		return nil
	},
}

func printSkills(w io.Writer, set *models.SkillSet, showConfidence bool) {
	fmt.Fprintln(w, titleStyle.Render("Your Skills"))
	if set.Total == 0 {
		fmt.Fprintln(w, "No skills yet. Upload a resume with 'aica resume upload <file>'.")
		return
	}

	groups := []struct {
		name   string
		skills []models.UserSkill
	}{
		{"technical", set.Technical},
		{"soft", set.Soft},
		{"other", set.Other},
	}
	for _, g := range groups {
		if len(g.skills) == 0 {
			continue
		}
		fmt.Fprintf(w, "%s (%d)\n", labelStyle.Render(titleCase.String(g.name)), len(g.skills))
		for _, s := range sortedSkills(g.skills) {
			if showConfidence && s.ConfidenceScore > 0 {
				fmt.Fprintf(w, "  • %s %s\n", s.SkillName, mutedStyle.Render(fmt.Sprintf("%.0f%%", s.ConfidenceScore*100)))
				continue
			}
			fmt.Fprintf(w, "  • %s\n", s.SkillName)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%s %d\n", labelStyle.Render("Total Skills:"), set.Total)
}

// sortedSkills orders by confidence, then name.
func sortedSkills(skills []models.UserSkill) []models.UserSkill {
	out := append([]models.UserSkill(nil), skills...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ConfidenceScore != out[j].ConfidenceScore {
			return out[i].ConfidenceScore > out[j].ConfidenceScore
		}
		return out[i].SkillName < out[j].SkillName
	})
	return out
}

func init() {
	rootCmd.AddCommand(skillsCmd)
	skillsCmd.AddCommand(listSkillsCmd)

	listSkillsCmd.Flags().Bool("confidence", false, "Show extraction confidence")
}
