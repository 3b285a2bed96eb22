package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newThemeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Toggle or set the color theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: run(opts, func(_ context.Context, rt *runtime, args []string) error {
			var (
				dark bool
				err  error
			)
			if len(args) == 0 {
				dark, err = rt.prefs.ToggleDarkMode()
			} else {
				dark = args[0] == "dark"
				err = rt.prefs.SetDarkMode(dark)
			}
			if err != nil {
				return err
			}

			state := "off"
			if dark {
				state = "on"
			}
			_, err = fmt.Fprintf(rt.out, "Dark mode %s\n", state)
			return err
		}),
	}
}
