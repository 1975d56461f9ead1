// Package watch streams storage changes to the terminal.
package watch

import (
	"context"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/printers"
)

// Watch prints change events until ctx is cancelled.
type Watch struct {
	Service *app.Service
	Printer printers.Printer
}

func (w *Watch) Do(ctx context.Context) error {
	events, err := w.Service.Watch(ctx)
	if err != nil {
		return err
	}
	for ev := range events {
		w.Printer.Event(ev)
	}
	return nil
}
