package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(anchor completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(anchor completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletionV2(os.Stdout, true)
		},
	}

	topLevel.AddCommand(cmd)
}

// modeIDs lists mode ids for shell completion. Completion runs without the
// root pre-run, so config is loaded here.
func modeIDs(all bool) []string {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil
	}
	svc, err := app.Open(cfg, nil)
	if err != nil {
		return nil
	}
	defer svc.Close()

	ctx := context.Background()
	modes := svc.Modes.VisibleAll(ctx)
	if all {
		modes = svc.Modes.AllModes(ctx)
	}
	ids := make([]string, 0, len(modes))
	for _, m := range modes {
		ids = append(ids, m.ID())
	}
	return ids
}

func completeModes(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return modeIDs(true), cobra.ShellCompDirectiveNoFileComp
}

func completeCustomModes(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	svc, err := app.Open(cfg, nil)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer svc.Close()

	custom := svc.Modes.CustomModes(context.Background())
	ids := make([]string, 0, len(custom))
	for _, c := range custom {
		ids = append(ids, c.ID+"\t"+c.Name)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func registerModeCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return modeIDs(false), cobra.ShellCompDirectiveNoFileComp
	})
}
