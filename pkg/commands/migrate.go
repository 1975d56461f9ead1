package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/runner/migrate"
	"tableflip.dev/anchor/pkg/store"
)

func addMigrate(topLevel *cobra.Command) {
	to := ""
	replace := false

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy all stored data into another backend.",
		Long: `Copy all stored data into another backend.

Switch to the new backend afterwards by setting "backend" in .anchor.yaml or
ANCHOR_BACKEND.`,
		Example: `
anchor migrate --to sqlite
anchor migrate --to diskv --replace
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			m := migrate.Migrate{
				Service: svc,
				Printer: output.Printer(false),
				Config:  config,
				To:      to,
				Replace: replace,
			}
			return output.HandleError(m.Do(cmd.Context()))
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Target backend: diskv or sqlite.")
	cmd.Flags().BoolVar(&replace, "replace", false, "Clear the target before copying.")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.RegisterFlagCompletionFunc("to", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{store.BackendDiskv, store.BackendSQLite}, cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}
