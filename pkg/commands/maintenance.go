package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/commands/options"
	"tableflip.dev/anchor/pkg/runner/maintenance"
)

func addReset(topLevel *cobra.Command) {
	co := &options.ConfirmOptions{}

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the built-in content. Theme and language are kept.",
		Example: `
anchor reset
anchor reset --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			co.In, co.Out = cmd.InOrStdin(), cmd.ErrOrStderr()
			r := maintenance.Reset{Service: svc, Printer: output.Printer(false), Confirm: co.Confirm}
			return output.HandleError(r.Do(cmd.Context()))
		},
	}

	options.AddConfirmArgs(cmd, co)

	topLevel.AddCommand(cmd)
}

func addHint(topLevel *cobra.Command) {
	mark := false

	cmd := &cobra.Command{
		Use:   "hint",
		Short: "Show whether the navigation hint was seen.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			h := maintenance.Hint{Service: svc, Printer: output.Printer(false), Mark: mark}
			return output.HandleError(h.Do(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&mark, "mark", false, "Record the hint as seen.")

	topLevel.AddCommand(cmd)
}
