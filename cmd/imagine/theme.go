package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"imagination/internal/domain"
	"imagination/internal/preferences"
)

func newThemeCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the stored theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{string(domain.ThemeLight), string(domain.ThemeDark), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			themes, err := preferences.LoadThemes(cmd.Context(), store)
			if err != nil {
				return err
			}

			// Terminals send no color-scheme hint, so an unset theme reads as light.
			const hint = ""

			switch {
			case len(args) == 0:
			case args[0] == "toggle":
				if _, err := themes.Toggle(cmd.Context(), hint); err != nil {
					return err
				}
			default:
				theme, err := domain.ParseTheme(args[0])
				if err != nil {
					return err
				}
				if err := themes.Set(cmd.Context(), theme); err != nil {
					return err
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), themes.Resolve(hint))
			return nil
		},
	}
}
