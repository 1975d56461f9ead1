package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/phrase"
)

// ScopeOptions selects the overlay bucket a phrase command works on.
type ScopeOptions struct {
	Mode     string
	Language string
	Phase    string
}

func AddScopeArgs(cmd *cobra.Command, o *ScopeOptions) {
	cmd.Flags().StringVarP(&o.Mode, "mode", "m", "",
		"Mode id, built-in or custom.")
	cmd.Flags().StringVarP(&o.Language, "lang", "l", "",
		"Language code. Defaults to the stored language preference.")
	cmd.Flags().StringVarP(&o.Phase, "phase", "p", "",
		"Phase of phased content: preparation, confrontation or reinforcement.")
	_ = cmd.MarkFlagRequired("mode")
	_ = cmd.RegisterFlagCompletionFunc("phase", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		phases := make([]string, 0, 3)
		for _, p := range phrase.Phases() {
			phases = append(phases, string(p))
		}
		return phases, cobra.ShellCompDirectiveNoFileComp
	})
}

// ParsedPhase returns the selected phase, or "" for flat content.
func (o *ScopeOptions) ParsedPhase() (phrase.Phase, error) {
	if o.Phase == "" {
		return "", nil
	}
	return phrase.ParsePhase(o.Phase)
}
