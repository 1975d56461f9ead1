package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/commands/options"
	"tableflip.dev/anchor/pkg/runner/phrases"
)

func addPhrases(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "phrases",
		Short: "List and edit the phrases shown for a mode.",
		Example: `
anchor phrases list -m sadness
anchor phrases add -m panic -p confrontation "Feet on the floor"
anchor phrases hide -m sadness sadness-2
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addPhrasesList(cmd)
	addPhrasesAdd(cmd)
	addPhrasesMutate(cmd, "remove", "Remove one of your own phrases.", phrases.Remove)
	addPhrasesMutate(cmd, "hide", "Hide a built-in phrase.", phrases.Hide)
	addPhrasesMutate(cmd, "unhide", "Show a hidden built-in phrase again.", phrases.Unhide)

	topLevel.AddCommand(cmd)
}

func scopeFrom(so *options.ScopeOptions) (phrases.Scope, error) {
	p, err := so.ParsedPhase()
	if err != nil {
		return phrases.Scope{}, err
	}
	return phrases.Scope{Mode: so.Mode, Language: so.Language, Phase: p}, nil
}

func addPhrasesList(parent *cobra.Command) {
	so := &options.ScopeOptions{}
	io := &options.IDOptions{}
	overlay := false

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the active phrases of a mode.",
		Example: `
anchor phrases list -m panic
anchor phrases list -m panic -p reinforcement -l es
anchor phrases list -m sadness --mine
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			scope, err := scopeFrom(so)
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			l := phrases.List{
				Service: svc,
				Printer: output.Printer(io.ShowID),
				Scope:   scope,
				Overlay: overlay,
			}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddScopeArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	cmd.Flags().BoolVar(&overlay, "mine", false, "Only list phrases you added.")
	registerModeCompletion(cmd)

	parent.AddCommand(cmd)
}

func addPhrasesAdd(parent *cobra.Command) {
	so := &options.ScopeOptions{}
	sub := ""

	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Add your own phrase to a mode.",
		Example: `
anchor phrases add -m sadness "Call a friend"
anchor phrases add -m panic -p preparation "It will pass" --sub "it always has"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			scope, err := scopeFrom(so)
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			a := phrases.Add{
				Service:   svc,
				Printer:   output.Printer(false),
				Scope:     scope,
				Text:      args[0],
				Subphrase: sub,
			}
			return output.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddScopeArgs(cmd, so)
	cmd.Flags().StringVarP(&sub, "sub", "s", "", "Smaller line shown under the phrase.")
	registerModeCompletion(cmd)

	parent.AddCommand(cmd)
}

func addPhrasesMutate(parent *cobra.Command, use, short string, action phrases.Action) {
	so := &options.ScopeOptions{}

	cmd := &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			scope, err := scopeFrom(so)
			if err != nil {
				return output.HandleError(err)
			}
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			m := phrases.Mutate{
				Service: svc,
				Printer: output.Printer(false),
				Scope:   scope,
				Action:  action,
				ID:      args[0],
			}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}

	options.AddScopeArgs(cmd, so)
	registerModeCompletion(cmd)

	parent.AddCommand(cmd)
}
