package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/runner/watch"
)

func addWatch(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print storage changes as they happen. Needs the diskv backend.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			svc, err := open()
			if err != nil {
				return output.HandleError(err)
			}
			defer svc.Close()

			w := watch.Watch{Service: svc, Printer: output.Printer(false)}
			return output.HandleError(w.Do(ctx))
		},
	}

	topLevel.AddCommand(cmd)
}
