// Package modes holds the runners behind the modes command.
package modes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/printers"
	"tableflip.dev/anchor/pkg/registry"
)

// List prints the visible modes, or every mode with All.
type List struct {
	Service *app.Service
	Printer printers.Printer
	All     bool
}

func (l *List) Do(ctx context.Context) error {
	modes := l.Service.Modes.VisibleAll(ctx)
	if l.All {
		modes = l.Service.Modes.AllModes(ctx)
	}
	hidden := l.Service.Modes.HiddenModes(ctx)

	rows := make([]printers.ModeRow, 0, len(modes))
	for _, m := range modes {
		rows = append(rows, printers.ModeRow{Mode: m, Hidden: slices.Contains(hidden, m.ID())})
	}
	l.Printer.Modes(rows)
	return nil
}

// Add creates a custom mode and prints its id.
type Add struct {
	Service *app.Service
	Printer printers.Printer
	Name    string
	Method  string
}

func (a *Add) Do(ctx context.Context) error {
	name := strings.TrimSpace(a.Name)
	if name == "" {
		return errors.New("mode name is required")
	}
	method, err := mode.ParseMethod(a.Method)
	if err != nil {
		return err
	}
	c, err := a.Service.Modes.AddCustomMode(ctx, name, method)
	if err != nil {
		return err
	}
	a.Printer.Value("id", c.ID)
	return nil
}

// Update changes the name or method of a custom mode. Nil fields are kept.
type Update struct {
	Service *app.Service
	Printer printers.Printer
	ID      string
	Name    *string
	Method  *string
}

func (u *Update) Do(ctx context.Context) error {
	var patch registry.Patch
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if name == "" {
			return errors.New("mode name is required")
		}
		patch.Name = &name
	}
	if u.Method != nil {
		method, err := mode.ParseMethod(*u.Method)
		if err != nil {
			return err
		}
		patch.Method = &method
	}
	if patch.Name == nil && patch.Method == nil {
		return errors.New("nothing to update: set --name or --method")
	}
	c, err := u.Service.Modes.UpdateCustomMode(ctx, u.ID, patch)
	if err != nil {
		return err
	}
	u.Printer.Modes([]printers.ModeRow{{
		Mode:   mode.FromCustom(c),
		Hidden: slices.Contains(u.Service.Modes.HiddenModes(ctx), c.ID),
	}})
	return nil
}

// Delete removes a custom mode.
type Delete struct {
	Service *app.Service
	Printer printers.Printer
	ID      string
}

func (d *Delete) Do(ctx context.Context) error {
	if _, ok := mode.ParseBuiltIn(d.ID); ok {
		return fmt.Errorf("%q is a built-in mode; hide it instead", d.ID)
	}
	if err := d.Service.Modes.DeleteCustomMode(ctx, d.ID); err != nil {
		return err
	}
	d.Printer.Value("deleted", d.ID)
	return nil
}

// Visibility hides or unhides a built-in or custom mode.
type Visibility struct {
	Service *app.Service
	Printer printers.Printer
	ID      string
	Hide    bool
}

func (v *Visibility) Do(ctx context.Context) error {
	if _, ok := mode.ParseBuiltIn(v.ID); !ok {
		if _, ok := v.Service.Modes.CustomMode(ctx, v.ID); !ok {
			return fmt.Errorf("unknown mode %q", v.ID)
		}
	}
	if v.Hide {
		if err := v.Service.Modes.HideMode(ctx, v.ID); err != nil {
			return err
		}
		v.Printer.Value("hidden", v.ID)
		return nil
	}
	if err := v.Service.Modes.UnhideMode(ctx, v.ID); err != nil {
		return err
	}
	v.Printer.Value("unhidden", v.ID)
	return nil
}
