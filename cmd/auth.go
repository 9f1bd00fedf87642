package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/validation"
	"github.com/Polqt/aica-bot-sub001/pkg/models"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign up, log in and out",
	Long:  "Manage your account session. The access token is kept in ~/.aica/aica.db",
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Short:   "Create an account",
	Example: `  aica auth signup --email jane@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		creds, err := readCredentials(cmd)
		if err != nil {
			return err
		}

		resp, err := a.API.Signup(cmd.Context(), models.Credentials{Email: creds.Email, Password: creds.Password})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if resp.AccessToken == "" || resp.EmailConfirmationRequired {
			fmt.Fprintln(out, titleStyle.Render("✓ Account created"))
			msg := resp.Message
			if msg == "" {
				msg = "Check your inbox to confirm your email, then run 'aica auth login'."
			}
			fmt.Fprintln(out, msg)
			return nil
		}

		if err := a.SaveLogin(creds.Email, resp); err != nil {
			return err
		}
		fmt.Fprintln(out, titleStyle.Render("✓ Account created and logged in"))
		fmt.Fprintln(out, "Next: upload your resume with 'aica resume upload <file>'")
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:     "login",
	Short:   "Log in to your account",
	Example: `  aica auth login --email jane@example.com`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		creds, err := readCredentials(cmd)
		if err != nil {
			return err
		}

		resp, err := a.API.Login(cmd.Context(), models.Credentials{Email: creds.Email, Password: creds.Password})
		if err != nil {
			return err
		}
		if err := a.SaveLogin(creds.Email, resp); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Logged in as "+creds.Email))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and forget the saved session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if !a.API.HasToken() {
			fmt.Fprintln(cmd.OutOrStdout(), "You are not logged in.")
			return nil
		}
		if err := a.Logout(cmd.Context()); err != nil {
			// the local session is gone either way
			a.Log.WithError(err).Warn("backend logout failed")
		}
		fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("✓ Logged out"))
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.RequireLogin(); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("Session"))
		email := a.Session.Email
		if a.Token != nil && a.Token.Email != "" {
			email = a.Token.Email
		}
		field(out, "Email", email)
		field(out, "Backend", a.API.BaseURL())
		field(out, "Logged in", humanize.Time(a.Session.CreatedAt))
		if a.Token != nil {
			field(out, "User ID", a.Token.Subject)
			if !a.Token.ExpiresAt.IsZero() {
				field(out, "Expires", humanize.Time(a.Token.ExpiresAt))
			}
		}
		return nil
	},
}

// readCredentials takes email and password from flags, prompting for what
// is missing, and validates them before any request is made.
func readCredentials(cmd *cobra.Command) (validation.Credentials, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")

	reader := bufio.NewReader(cmd.InOrStdin())
	out := cmd.ErrOrStderr()
	if email == "" {
		fmt.Fprint(out, labelStyle.Render("Email: "))
		line, _ := reader.ReadString('\n')
		email = strings.TrimSpace(line)
	}
	if password == "" {
		fmt.Fprint(out, labelStyle.Render("Password: "))
		password = readPassword(cmd.InOrStdin(), reader)
		fmt.Fprintln(out)
	}

	creds := validation.Credentials{Email: email, Password: password}
	if err := creds.Validate(); err != nil {
		return validation.Credentials{}, err
	}
	return creds.Normalized(), nil
}

// readPassword reads without echo when stdin is a terminal.
func readPassword(in io.Reader, fallback *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(f.Fd()) {
		if b, err := term.ReadPassword(f.Fd()); err == nil {
			return string(b)
		}
	}
	line, _ := fallback.ReadString('\n')
	return strings.TrimRight(line, "\r\n")
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(signupCmd)
	authCmd.AddCommand(loginCmd)
	authCmd.AddCommand(logoutCmd)
	authCmd.AddCommand(whoamiCmd)

	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().String("email", "", "Account email")
		c.Flags().String("password", "", "Account password (prompted when omitted)")
	}
}
