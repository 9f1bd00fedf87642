package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Polqt/aica-bot-sub001/internal/app"
	"github.com/Polqt/aica-bot-sub001/internal/apperr"
)

var rootOpts app.Options

var rootCmd = &cobra.Command{
	Use:   "aica",
	Short: "Career matching from the command line",
	Long: `aica uploads your resume to the career-matching service, follows its
processing pipeline and shows the profile, skills and job matches it produces.`,
	Version:       "0.1.0",
	SilenceErrors: true,
	SilenceUsage:  true,
	Args:          usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize app with all dependencies
		application, err := app.NewApp(cmd.Context(), rootOpts)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store app in command context
		cmd.SetContext(app.WithApp(cmd.Context(), application))
		return nil
	},
}

// Execute runs the root command
func Execute() {
	// a missing .env is normal
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd, err := rootCmd.ExecuteContextC(ctx)

	// Cleanup: close app resources
	if cmd != nil && cmd.Context() != nil {
		if appInstance, aerr := app.FromContext(cmd.Context()); aerr == nil {
			appInstance.Close()
		}
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), errorText(err))
		if rootOpts.Verbose {
			fmt.Fprintln(os.Stderr, mutedStyle.Render(err.Error()))
		}
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

// usageError is a mistake in how a command was invoked. Its text comes from
// cobra and is safe to show.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// usageArgs marks argument validation failures as usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// errorText picks what the user sees for err. Usage errors show as is;
// everything else goes through apperr so internal detail stays behind
// --verbose.
func errorText(err error) string {
	if errors.Is(err, context.Canceled) {
		return "Cancelled."
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return usage.Error()
	}
	return apperr.UserMessage(err)
}

// appFrom returns the App created in PersistentPreRunE.
func appFrom(cmd *cobra.Command) (*app.App, error) {
	return app.FromContext(cmd.Context())
}

func init() {
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.PersistentFlags().StringVar(&rootOpts.ConfigPath, "config", "", "config file (default ~/.aica/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.DBPath, "db", "", "local database (default ~/.aica/aica.db)")
	rootCmd.PersistentFlags().StringVar(&rootOpts.APIURL, "api-url", "", "backend base URL, overrides config and environment")
	rootCmd.PersistentFlags().BoolVarP(&rootOpts.Verbose, "verbose", "v", false, "debug logging")
}
