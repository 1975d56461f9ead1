package options

import (
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/mode"
)

// ModeOptions carries the fields of a custom mode.
type ModeOptions struct {
	Name   string
	Method string
}

func AddModeArgs(cmd *cobra.Command, o *ModeOptions) {
	cmd.Flags().StringVarP(&o.Name, "name", "n", "",
		"Name of the custom mode.")
	cmd.Flags().StringVar(&o.Method, "method", string(mode.DefaultMethod),
		"How phrases are shown: sit or phased.")
}
