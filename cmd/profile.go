package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))
)

var titleCase = cases.Title(language.English)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View your profile",
	Long:  "Show the profile the service built from your uploaded resume",
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your profile information",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		profile, err := a.API.Profile(cmd.Context())
		if err != nil {
			return a.CheckSession(err)
		}
		printProfile(cmd.OutOrStdout(), profile)
		return nil
	},
}

func field(w io.Writer, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func printProfile(w io.Writer, p *models.UserProfile) {
	fmt.Fprintln(w, titleStyle.Render("Your Profile"))
	field(w, "Name", p.FullName)
	field(w, "Email", p.Email)
	field(w, "Phone", p.Phone)
	field(w, "Location", p.Location)
	if p.ExperienceYears > 0 {
		field(w, "Experience", fmt.Sprintf("%d years", p.ExperienceYears))
	}
	field(w, "Education", titleCase.String(p.EducationLevel))
	field(w, "LinkedIn", p.LinkedInURL)
	field(w, "GitHub", p.GitHubURL)
	field(w, "Resume", p.ResumeFilename)

	if p.Summary != "" {
		fmt.Fprintf(w, "\n%s\n%s\n", labelStyle.Render("Summary:"), valueStyle.Render(p.Summary))
	}

	if len(p.Experience) > 0 {
		fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Experience:"))
		for _, exp := range p.Experience {
			fmt.Fprintf(w, "  • %s at %s %s\n", exp.Title, exp.Company, mutedStyle.Render(dateRange(exp.StartDate, exp.EndDate, exp.IsCurrent)))
		}
	}

	if len(p.Education) > 0 {
		fmt.Fprintf(w, "\n%s\n", labelStyle.Render("Education:"))
		for _, edu := range p.Education {
			degree := strings.TrimSpace(strings.Join(nonEmpty(edu.Degree, edu.FieldOfStudy), ", "))
			if degree == "" {
				fmt.Fprintf(w, "  • %s %s\n", edu.Institution, mutedStyle.Render(dateRange(edu.StartDate, edu.EndDate, edu.IsCurrent)))
				continue
			}
			fmt.Fprintf(w, "  • %s, %s %s\n", degree, edu.Institution, mutedStyle.Render(dateRange(edu.StartDate, edu.EndDate, edu.IsCurrent)))
		}
	}
}

func dateRange(start, end string, current bool) string {
	switch {
	case start == "" && end == "" && !current:
		return ""
	case current || end == "":
		return fmt.Sprintf("(%s – present)", start)
	default:
		return fmt.Sprintf("(%s – %s)", start, end)
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(showProfileCmd)
}
