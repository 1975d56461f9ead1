package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/commands/options"
	"tableflip.dev/anchor/pkg/runner/modes"
)

func addModes(topLevel *cobra.Command) {
	all := false

	cmd := &cobra.Command{
		Use:   "modes",
		Short: "List, create and hide modes.",
		Example: `
anchor modes
anchor modes --all
anchor modes add --name "Before exams" --method phased
anchor modes hide anger
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			l := modes.List{Service: svc, Printer: output.Printer(false), All: all}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include hidden modes.")

	addModesAdd(cmd)
	addModesUpdate(cmd)
	addModesDelete(cmd)
	addModesVisibility(cmd, "hide", "Hide a mode from the mode list.", true)
	addModesVisibility(cmd, "unhide", "Show a hidden mode again.", false)

	topLevel.AddCommand(cmd)
}

func addModesAdd(parent *cobra.Command) {
	mo := &options.ModeOptions{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a custom mode.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			a := modes.Add{Service: svc, Printer: output.Printer(false), Name: mo.Name, Method: mo.Method}
			return output.HandleError(a.Do(cmd.Context()))
		},
	}

	options.AddModeArgs(cmd, mo)
	_ = cmd.MarkFlagRequired("name")

	parent.AddCommand(cmd)
}

func addModesUpdate(parent *cobra.Command) {
	mo := &options.ModeOptions{}

	cmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Rename a custom mode or change its method.",
		Example: `
anchor modes update 0190a6f2-7c1e-7d4b-9a3e-4f5c6d7e8f90 --name "Commute"
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			u := modes.Update{Service: svc, Printer: output.Printer(false), ID: args[0]}
			if cmd.Flags().Changed("name") {
				u.Name = &mo.Name
			}
			if cmd.Flags().Changed("method") {
				u.Method = &mo.Method
			}
			return output.HandleError(u.Do(cmd.Context()))
		},
		ValidArgsFunction: completeCustomModes,
	}

	options.AddModeArgs(cmd, mo)

	parent.AddCommand(cmd)
}

func addModesDelete(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a custom mode. Its phrases stay in storage.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			d := modes.Delete{Service: svc, Printer: output.Printer(false), ID: args[0]}
			return output.HandleError(d.Do(cmd.Context()))
		},
		ValidArgsFunction: completeCustomModes,
	}

	parent.AddCommand(cmd)
}

func addModesVisibility(parent *cobra.Command, use, short string, hide bool) {
	cmd := &cobra.Command{
		Use:   use + " [id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			v := modes.Visibility{Service: svc, Printer: output.Printer(false), ID: args[0], Hide: hide}
			return output.HandleError(v.Do(cmd.Context()))
		},
		ValidArgsFunction: completeModes,
	}

	parent.AddCommand(cmd)
}
