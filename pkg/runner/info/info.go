package info

import (
	"context"
	"errors"
	"os"
	"strconv"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/printers"
	"tableflip.dev/anchor/pkg/store"
)

// Info prints where data is stored and a summary of the user's changes.
type Info struct {
	Config  store.Config
	Service *app.Service
	Printer printers.Printer
	// ConfigOnly skips the storage report.
	ConfigOnly bool
}

func (n *Info) Do(ctx context.Context) error {
	if override := os.Getenv("ANCHOR_CONFIG_PATH"); override != "" {
		n.Printer.Value("ANCHOR_CONFIG_PATH", override)
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	n.Printer.Value("path", n.Config.BasePath())
	n.Printer.Value("backend", n.Config.Backend())
	n.Printer.Value("cache", strconv.FormatUint(n.Config.CacheSize(), 10))
	n.Printer.Value("log.level", n.Config.LogLevel())
	if n.ConfigOnly {
		return nil
	}

	if n.Service == nil {
		return errors.New("failed to open storage")
	}
	report, err := n.Service.Report(ctx)
	if err != nil {
		return err
	}
	n.Printer.Report(report)
	return nil
}
