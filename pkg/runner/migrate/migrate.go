// Package migrate copies user data between storage backends.
package migrate

import (
	"context"
	"fmt"
	"strconv"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/printers"
	"tableflip.dev/anchor/pkg/store"
)

// Migrate copies everything from the configured backend into To.
type Migrate struct {
	Service *app.Service
	Printer printers.Printer
	Config  store.Config
	To      string
	Replace bool
}

func (m *Migrate) Do(ctx context.Context) error {
	if m.To == m.Config.Backend() {
		return fmt.Errorf("already using the %s backend", m.To)
	}
	dst, err := store.Load(backendConfig{Config: m.Config, backend: m.To})
	if err != nil {
		return err
	}
	defer dst.Close()

	n, err := m.Service.MigrateTo(ctx, dst, m.Replace)
	if err != nil {
		return err
	}
	m.Printer.Value("migrated", strconv.Itoa(n))
	return nil
}

type backendConfig struct {
	store.Config
	backend string
}

func (b backendConfig) Backend() string {
	return b.backend
}
