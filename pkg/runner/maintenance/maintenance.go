// Package maintenance holds the reset and hint runners.
package maintenance

import (
	"context"
	"strconv"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/printers"
)

// Reset clears every user change after Confirm agrees.
type Reset struct {
	Service *app.Service
	Printer printers.Printer
	Confirm func(prompt string) (bool, error)
}

func (r *Reset) Do(ctx context.Context) error {
	if r.Confirm != nil {
		ok, err := r.Confirm("Remove all added phrases, hidden phrases, hidden modes and custom modes?")
		if err != nil {
			return err
		}
		if !ok {
			r.Printer.Value("reset", "aborted")
			return nil
		}
	}
	if err := r.Service.Maintenance.ResetAllToDefaults(ctx); err != nil {
		return err
	}
	r.Printer.Value("reset", "done")
	return nil
}

// Hint reports the navigation hint flag, marking it seen first with Mark.
type Hint struct {
	Service *app.Service
	Printer printers.Printer
	Mark    bool
}

func (h *Hint) Do(ctx context.Context) error {
	if h.Mark {
		if err := h.Service.Maintenance.MarkNavigationHintSeen(ctx); err != nil {
			return err
		}
	}
	h.Printer.Value("navigationHintSeen", strconv.FormatBool(h.Service.Maintenance.HasSeenNavigationHint(ctx)))
	return nil
}
