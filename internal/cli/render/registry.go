package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jpegd/jdeploy/internal/usecase"
)

// RegistryRenderer renders the address registry
type RegistryRenderer struct {
	out io.Writer
}

// NewRegistryRenderer creates a new registry renderer
func NewRegistryRenderer(out io.Writer) *RegistryRenderer {
	return &RegistryRenderer{out: out}
}

// RenderRegistry prints one row per registry key
func (r *RegistryRenderer) RenderRegistry(result *usecase.ListRegistryResult) error {
	if len(result.Entries) == 0 {
		fmt.Fprintf(r.out, "No addresses recorded for %s\n", result.Network)
		return nil
	}

	keyColor.Fprintf(r.out, "%s", result.Network)
	faintColor.Fprintf(r.out, " (chain %d)\n\n", result.ChainID)

	t := newTable(r.out)
	t.AppendHeader(table.Row{"Key", "Address", "Step", "Phase"})
	for _, e := range result.Entries {
		step := e.Step
		if step == "" {
			step = "-"
		}
		t.AppendRow(table.Row{e.Key, e.Address, step, formatPhase(e.Phase)})
	}
	t.Render()
	return nil
}
