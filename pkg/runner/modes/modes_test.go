package modes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/anchor/pkg/app"
	"tableflip.dev/anchor/pkg/idgen"
	"tableflip.dev/anchor/pkg/mode"
	"tableflip.dev/anchor/pkg/printers"
	"tableflip.dev/anchor/pkg/registry"
	"tableflip.dev/anchor/pkg/store"
)

type row struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Kind   string `json:"kind"`
	Method string `json:"method"`
	Hidden bool   `json:"hidden"`
}

func rowIDs(rows []row) []string {
	out := []string{}
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestModeLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := app.New(store.NewMemory(nil), nil, app.WithGenerator(idgen.NewSequence("m")))
	var buf bytes.Buffer
	p := printers.NewJSON(&buf)

	if err := (&Add{Service: svc, Printer: p, Name: "Commute", Method: "Phased"}).Do(ctx); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := (&Visibility{Service: svc, Printer: p, ID: "anger", Hide: true}).Do(ctx); err != nil {
		t.Fatalf("hide: %v", err)
	}

	buf.Reset()
	if err := (&List{Service: svc, Printer: p}).Do(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	var visible []row
	if err := json.Unmarshal(buf.Bytes(), &visible); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff([]string{"panic", "anxiety", "sadness", "grounding", "m-1"}, rowIDs(visible)); diff != "" {
		t.Fatalf("visible (-want +got):\n%s", diff)
	}
	if last := visible[len(visible)-1]; last.Kind != "custom" || last.Method != "phased" {
		t.Fatalf("unexpected custom row %+v", last)
	}

	buf.Reset()
	if err := (&List{Service: svc, Printer: p, All: true}).Do(ctx); err != nil {
		t.Fatalf("list all: %v", err)
	}
	var all []row
	_ = json.Unmarshal(buf.Bytes(), &all)
	if len(all) != 6 || !all[3].Hidden || all[3].ID != "anger" {
		t.Fatalf("unexpected full list %+v", all)
	}

	name := "Train"
	if err := (&Update{Service: svc, Printer: p, ID: "m-1", Name: &name}).Do(ctx); err != nil {
		t.Fatalf("update: %v", err)
	}
	if c, _ := svc.Modes.CustomMode(ctx, "m-1"); c.Name != "Train" || c.Method != mode.MethodPhased {
		t.Fatalf("update not applied: %+v", c)
	}
	if err := (&Update{Service: svc, Printer: p, ID: "nope", Name: &name}).Do(ctx); !errors.Is(err, registry.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := (&Update{Service: svc, Printer: p, ID: "m-1"}).Do(ctx); err == nil {
		t.Fatalf("empty update should fail")
	}

	if err := (&Delete{Service: svc, Printer: p, ID: "m-1"}).Do(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := svc.Modes.CustomModes(ctx); len(got) != 0 {
		t.Fatalf("mode not deleted: %v", got)
	}
}

func TestRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	svc := app.New(store.NewMemory(nil), nil)
	p := printers.NewJSON(&bytes.Buffer{})

	if err := (&Add{Service: svc, Printer: p, Name: "x", Method: "dance"}).Do(ctx); !errors.Is(err, mode.ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
	if err := (&Add{Service: svc, Printer: p, Name: " ", Method: "sit"}).Do(ctx); err == nil {
		t.Fatalf("blank name should fail")
	}
	if err := (&Delete{Service: svc, Printer: p, ID: "panic"}).Do(ctx); err == nil {
		t.Fatalf("deleting a built-in should fail")
	}
	if err := (&Visibility{Service: svc, Printer: p, ID: "ghost", Hide: true}).Do(ctx); err == nil {
		t.Fatalf("hiding an unknown mode should fail")
	}
}
