package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amonks/ticklist/theme"
)

var themeCmd = &cobra.Command{
	Use:   "theme [light|dark|auto]",
	Short: "Show or set the color theme",
	Long: `Show or set the color theme used for detailed output.

With no argument, prints the stored preference and whether it resolves
to a dark background. "auto" follows the terminal background.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(theme.Light), string(theme.Dark), string(theme.Auto)},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, a *app) error {
		if len(args) == 0 {
			fmt.Fprintf(a.out, "%s (%s)\n", a.theme.Current(), darkLabel(a.theme.IsDark()))
			return nil
		}

		t, err := theme.Parse(args[0])
		if err != nil {
			a.env.Notifier.Error(err.Error())
			return errOperationFailed
		}
		if err := a.theme.Set(ctx, t); err != nil {
			a.env.Notifier.Error(fmt.Sprintf("Failed to save theme: %v", err))
			return errOperationFailed
		}
		a.env.Notifier.Success(fmt.Sprintf("Theme set to %s", t))
		return nil
	})
}

func darkLabel(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
