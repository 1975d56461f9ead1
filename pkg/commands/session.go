package commands

import (
	"github.com/spf13/cobra"

	teaui "tableflip.dev/anchor/pkg/runner/tea"
)

func addSession(topLevel *cobra.Command) {
	var (
		lang    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "session [mode]",
		Short: "Open a mode and step through its phrases one at a time.",
		Example: `
anchor session panic
anchor session sadness -l es
`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeModes,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := open()
			if err != nil {
				return err
			}
			defer svc.Close()

			s := teaui.Session{
				Service:  svc,
				Mode:     args[0],
				Language: lang,
				Watch:    !noWatch,
			}
			return s.Do(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language code. Defaults to the stored language preference.")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when storage changes.")

	topLevel.AddCommand(cmd)
}
