package options

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tableflip.dev/anchor/pkg/printers"
)

// OutputOptions
type OutputOptions struct {
	JSON bool

	// Out receives results. Nil means color.Output.
	Out io.Writer
}

func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.PersistentFlags().BoolVar(&po.JSON, "json", false,
		"Output as JSON.")
}

// Printer returns the printer selected by the flags.
func (o *OutputOptions) Printer(showID bool) printers.Printer {
	return printers.New(o.out(), o.JSON, showID)
}

func (o *OutputOptions) out() io.Writer {
	if o.Out == nil {
		return color.Output
	}
	return o.Out
}

func (o *OutputOptions) HandleError(err error) error {
	if o.JSON && err != nil {
		out := map[string]string{
			"error": err.Error(),
		}
		b, err := json.Marshal(out)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(o.out(), string(b))
		return nil
	}
	return err
}
