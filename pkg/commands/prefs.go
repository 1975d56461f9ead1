package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/prefs"
	runner "tableflip.dev/anchor/pkg/runner/prefs"
)

func addPrefs(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the theme and language.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addTheme(cmd)
	addLanguage(cmd)

	topLevel.AddCommand(cmd)
}

func addTheme(parent *cobra.Command) {
	resolve := false

	themes := make([]string, 0, len(prefs.Themes()))
	for _, t := range prefs.Themes() {
		themes = append(themes, string(t))
	}

	cmd := &cobra.Command{
		Use:   "theme [theme]",
		Short: "Show the theme, or set it to one of: " + strings.Join(themes, ", "),
		Example: `
anchor prefs theme
anchor prefs theme dark
anchor prefs theme --resolve
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: themes,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			t := runner.Theme{Service: svc, Printer: output.Printer(false), Resolve: resolve}
			if len(args) == 1 {
				t.Set = args[0]
			}
			return output.HandleError(t.Do(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&resolve, "resolve", false, "Show what auto resolves to in this terminal.")

	parent.AddCommand(cmd)
}

func addLanguage(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "language [code]",
		Short: "Show the language, or set it.",
		Example: `
anchor prefs language
anchor prefs language es
`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: prefs.SupportedLanguages(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			l := runner.Language{Service: svc, Printer: output.Printer(false)}
			if len(args) == 1 {
				l.Set = args[0]
			}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}

	parent.AddCommand(cmd)
}
