package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jpegd/jdeploy/internal/usecase"
)

// ComposeRenderer handles rendering of compose runs
type ComposeRenderer struct {
	out io.Writer
}

// NewComposeRenderer creates a new compose renderer
func NewComposeRenderer(out io.Writer) *ComposeRenderer {
	return &ComposeRenderer{out: out}
}

// RenderPlan displays the execution order and which steps will resume
func (r *ComposeRenderer) RenderPlan(result *usecase.ComposeResult) {
	fmt.Fprintf(r.out, "\n📋 Execution plan for %s: %d steps\n", result.Network, len(result.Plan))
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))

	for i, planned := range result.Plan {
		step := planned.Step
		fmt.Fprintf(r.out, "%d. ", i+1)
		keyColor.Fprintf(r.out, "%s", step.Name)
		fmt.Fprintf(r.out, " → ")
		color.New(color.FgGreen).Fprintf(r.out, "%s", step.Contract)

		if len(step.Deps) > 0 {
			faintColor.Fprintf(r.out, " (depends on: %s)", strings.Join(step.Deps, ", "))
		}
		switch {
		case planned.Resumable:
			fmt.Fprintf(r.out, " [%s at %s]", formatPhase(planned.Entry.Phase), planned.Entry.Address)
		case planned.Entry != nil:
			faintColor.Fprintf(r.out, " [stale journal entry, will redeploy]")
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 50))
}

// RenderComposeResult renders the summary of a compose run
func (r *ComposeRenderer) RenderComposeResult(result *usecase.ComposeResult) error {
	fmt.Fprintln(r.out)
	for _, executed := range result.Executed {
		icon := "✓"
		if result.FailedStep != nil && executed.Step.Name == result.FailedStep.Name {
			icon = errorColor.Sprint("✗")
		} else {
			icon = successColor.Sprint(icon)
		}
		address := ""
		if executed.Entry != nil {
			address = executed.Entry.Address
		}
		fmt.Fprintf(r.out, "  %s %-24s %s", icon, executed.Step.Name, address)
		if executed.Resumed {
			faintColor.Fprintf(r.out, " (resumed)")
		}
		fmt.Fprintln(r.out)
	}
	fmt.Fprintln(r.out)

	if result.Success() {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("All %d steps completed on %s", len(result.Executed), result.Network)))
		return nil
	}

	remaining := len(result.Plan) - len(result.Executed)
	fmt.Fprintln(r.out, FormatError(fmt.Sprintf("step %s failed: %v", result.FailedStep.Name, result.Error)))
	if remaining > 0 {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d steps not started; re-run compose to resume", remaining)))
	}
	return nil
}
