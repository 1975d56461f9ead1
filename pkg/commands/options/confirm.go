package options

import (
	"errors"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// ErrNotInteractive is returned when confirmation is needed but stdin is not
// a terminal.
var ErrNotInteractive = errors.New("confirmation required: pass --yes when not running in a terminal")

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool

	// In and Out replace the terminal for the prompt when set.
	In  io.Reader
	Out io.Writer
	// IsTerminal reports whether In is interactive. Nil checks os.Stdin.
	IsTerminal func() bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Do not ask for confirmation.")
}

// Confirm asks label as a y/N question.
func (o *ConfirmOptions) Confirm(label string) (bool, error) {
	if o.Yes {
		return true, nil
	}
	tty := o.IsTerminal
	if tty == nil {
		tty = func() bool {
			fd := os.Stdin.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		}
	}
	if !tty() {
		return false, ErrNotInteractive
	}

	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	if o.In != nil {
		prompt.Stdin = io.NopCloser(o.In)
	}
	if o.Out != nil {
		prompt.Stdout = nopWriteCloser{o.Out}
	}
	return confirmed(prompt.Run())
}

// confirmed reads the result of a confirm prompt. promptui reports any
// answer other than y as ErrAbort.
func confirmed(_ string, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort), errors.Is(err, promptui.ErrEOF):
		return false, nil
	default:
		return false, err
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
