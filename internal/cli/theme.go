package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitfolio/gitfolio/internal/config"
	"github.com/gitfolio/gitfolio/internal/present"
)

func newThemeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme [name]",
		Short: "Show or set the card theme",
		Long: "With no arguments, print the active theme. With a name (auto, light,\n" +
			"or dark), switch to it and persist the choice.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", app.Prefs.Theme)
				return nil
			}

			theme, err := present.ThemeByName(args[0])
			if err != nil {
				return err
			}

			app.Prefs.Theme = theme.Name
			if app.Store == nil {
				return fmt.Errorf("cannot persist theme: store unavailable")
			}
			if !config.SavePreferences(cmd.Context(), app.Store, app.Prefs) {
				return fmt.Errorf("failed to save preferences")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Theme set to %s.\n", theme.Name)
			return nil
		},
	}

	var animations bool
	toggle := &cobra.Command{
		Use:   "animations <on|off>",
		Short: "Enable or disable interactive animations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "on":
				animations = true
			case "off":
				animations = false
			default:
				return fmt.Errorf("expected on or off, got %q", args[0])
			}

			app.Prefs.Animations = animations
			if app.Store == nil {
				return fmt.Errorf("cannot persist preference: store unavailable")
			}
			if !config.SavePreferences(cmd.Context(), app.Store, app.Prefs) {
				return fmt.Errorf("failed to save preferences")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Animations %s.\n", args[0])
			return nil
		},
	}
	cmd.AddCommand(toggle)

	return cmd
}
