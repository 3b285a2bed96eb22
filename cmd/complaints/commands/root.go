// Package commands is the command line front end of the complaint client.
// Every invocation restores the persisted session, runs one action through
// the view router and prints the resulting view.
package commands

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	apiURL   string
	stateDir string
	verbose  bool
	noColor  bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "complaints",
		Short:         "Submit and track campus complaints",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api", "", "backend base URL (API_BASE_URL)")
	flags.StringVar(&opts.stateDir, "state-dir", "", "directory holding the session and preferences (CLIENT_STATE_DIR)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log requests to stderr")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newLoginCommand(opts),
		newRegisterCommand(opts),
		newLogoutCommand(opts),
		newWhoamiCommand(opts),
		newSubmitCommand(opts),
		newListCommand(opts),
		newResolveCommand(opts),
		newStatsCommand(opts),
		newExportCommand(opts),
		newThemeCommand(opts),
	)

	return rootCmd
}
