package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/jpegd/jdeploy/internal/usecase"
)

// SpinnerProgressReporter renders step progress with a spinner on a terminal
// and as plain lines otherwise
type SpinnerProgressReporter struct {
	out         io.Writer
	interactive bool

	mu      sync.Mutex
	spinner *spinner.Spinner
	step    string
	stages  []stageInfo
}

type stageInfo struct {
	Stage     usecase.ExecutionStage
	StartTime time.Time
	EndTime   time.Time
	Status    string
}

// NewSpinnerProgressReporter creates a new spinner-based progress reporter
func NewSpinnerProgressReporter(out io.Writer, interactive bool) *SpinnerProgressReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	s.HideCursor = false
	_ = s.Color("cyan", "bold")

	return &SpinnerProgressReporter{
		out:         out,
		interactive: interactive,
		spinner:     s,
	}
}

// OnProgress handles progress events
func (r *SpinnerProgressReporter) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Step != "" && event.Step != r.step {
		r.startStep(event)
	}
	if event.Stage != "" {
		r.enterStage(event.Stage)
	}

	if !r.interactive {
		if event.Message != "" {
			fmt.Fprintln(r.out, event.Message)
		}
		return
	}

	if event.Spinner && event.Stage != usecase.StageCompleted {
		r.spinner.Suffix = " " + r.display(event.Message)
		if !r.spinner.Active() {
			r.spinner.Start()
		}
	} else if r.spinner.Active() {
		r.spinner.Stop()
	}
}

// Info prints an info message
func (r *SpinnerProgressReporter) Info(message string) {
	r.print(color.New(color.FgCyan), message)
}

// Error prints an error message
func (r *SpinnerProgressReporter) Error(message string) {
	r.print(color.New(color.FgRed), message)
}

// Stop halts the spinner, if running
func (r *SpinnerProgressReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.spinner.Active() {
		r.spinner.Stop()
	}
}

func (r *SpinnerProgressReporter) print(c *color.Color, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	wasActive := r.spinner.Active()
	if wasActive {
		r.spinner.Stop()
	}
	c.Fprintln(r.out, message)
	if wasActive {
		r.spinner.Start()
	}
}

func (r *SpinnerProgressReporter) startStep(event usecase.ProgressEvent) {
	if r.spinner.Active() {
		r.spinner.Stop()
	}
	r.step = event.Step
	r.stages = nil

	header := event.Step
	if event.Total > 0 {
		header = fmt.Sprintf("[%d/%d] %s", event.Current, event.Total, event.Step)
	}
	color.New(color.Bold).Fprintln(r.out, header)
}

func (r *SpinnerProgressReporter) enterStage(stage usecase.ExecutionStage) {
	now := time.Now()
	if n := len(r.stages); n > 0 {
		last := &r.stages[n-1]
		if last.Stage == stage {
			return
		}
		if last.EndTime.IsZero() {
			last.EndTime = now
			last.Status = "completed"
		}
	}
	if stage == usecase.StageCompleted {
		return
	}
	status := "running"
	if stage == usecase.StageSkipped {
		status = "skipped"
	}
	r.stages = append(r.stages, stageInfo{Stage: stage, StartTime: now, Status: status})
}

// display renders the stage chain, e.g. "✓ deploying (1.2s) → ● transferring (3s)"
func (r *SpinnerProgressReporter) display(message string) string {
	parts := make([]string, 0, len(r.stages))
	for _, stage := range r.stages {
		var icon string
		var stageColor *color.Color
		switch stage.Status {
		case "completed":
			icon, stageColor = "✓", color.New(color.FgGreen)
		case "running":
			icon, stageColor = "●", color.New(color.FgYellow)
		case "skipped":
			icon, stageColor = "⊘", color.New(color.FgWhite, color.Faint)
		default:
			icon, stageColor = "○", color.New(color.FgWhite)
		}

		duration := ""
		if !stage.EndTime.IsZero() {
			duration = fmt.Sprintf(" (%s)", stage.EndTime.Sub(stage.StartTime).Round(time.Millisecond))
		} else if stage.Status == "running" {
			duration = fmt.Sprintf(" (%s)", time.Since(stage.StartTime).Round(time.Second))
		}
		parts = append(parts, fmt.Sprintf("%s %s%s", icon, stageColor.Sprint(string(stage.Stage)), duration))
	}

	display := strings.Join(parts, " → ")
	if message != "" {
		if display != "" {
			display += "  "
		}
		display += message
	}
	return display
}

// Ensure SpinnerProgressReporter implements ProgressSink
var _ usecase.ProgressSink = (*SpinnerProgressReporter)(nil)
