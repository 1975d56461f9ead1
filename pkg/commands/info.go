package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	configOnly := false

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Where data is stored and a summary of your changes.",
		Example: `
anchor info
anchor info --config
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s := info.Info{
				Config:     config,
				Printer:    output.Printer(false),
				ConfigOnly: configOnly,
			}
			if !configOnly {
				svc, err := open()
				if err != nil {
					return output.HandleError(err)
				}
				defer svc.Close()
				s.Service = svc
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}
	cmd.Flags().BoolVar(&configOnly, "config", false, "Only print the configuration.")

	topLevel.AddCommand(cmd)
}
