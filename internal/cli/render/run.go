package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/samber/lo"
)

// RunRenderer renders the outcome of deploying a step
type RunRenderer struct {
	out io.Writer
}

// NewRunRenderer creates a new run renderer
func NewRunRenderer(out io.Writer) *RunRenderer {
	return &RunRenderer{out: out}
}

// RenderStepResult prints what the step did and where it ended up
func (r *RunRenderer) RenderStepResult(result *usecase.RunStepResult) error {
	step, entry := result.Step, result.Entry

	fmt.Fprintln(r.out)
	keyColor.Fprintf(r.out, "%s", step.Name)
	fmt.Fprintf(r.out, " (%s, %s)\n", step.Contract, step.EffectiveKind())

	if result.Resumed {
		faintColor.Fprintf(r.out, "  resumed from journal, deployment skipped\n")
	}
	fmt.Fprintf(r.out, "  Address:         %s\n", entry.Address)
	if entry.Implementation != "" {
		fmt.Fprintf(r.out, "  Implementation:  %s\n", entry.Implementation)
	}
	if entry.DeployTx != "" && !result.Resumed {
		fmt.Fprintf(r.out, "  Transaction:     %s\n", entry.DeployTx)
	}

	switch {
	case result.OwnershipTx != nil:
		fmt.Fprintf(r.out, "  Owner:           %s (tx %s)\n", entry.Owner, result.OwnershipTx.TxHash.Hex())
	case result.OwnerAlreadySet:
		fmt.Fprintf(r.out, "  Owner:           %s (already set)\n", entry.Owner)
	case entry.Owner != "":
		fmt.Fprintf(r.out, "  Owner:           %s\n", entry.Owner)
	}

	if entry.VerificationURL != "" {
		fmt.Fprintf(r.out, "  Verified:        %s\n", entry.VerificationURL)
	}

	if len(result.RegistryUpdates) > 0 {
		fmt.Fprintln(r.out, "  Registry:")
		for _, key := range sortedKeys(result.RegistryUpdates) {
			fmt.Fprintf(r.out, "    %-20s %s\n", key, result.RegistryUpdates[key])
		}
	}

	fmt.Fprintf(r.out, "  Phase:           %s\n", formatPhase(entry.Phase))
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Step %s completed", step.Name)))
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := lo.Keys(m)
	slices.Sort(keys)
	return keys
}
