package render

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jpegd/jdeploy/internal/domain"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed)
	keyColor     = color.New(color.FgCyan, color.Bold)
	faintColor   = color.New(color.FgHiBlack)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnColor.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Extract just the error message part (after the last colon if it's an error chain)
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	// Capitalize first letter
	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return errorColor.Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return successColor.Sprintf("✅ %s", message)
}

// formatPhase colors a journal phase by how far it got
func formatPhase(phase domain.Phase) string {
	switch phase {
	case domain.PhaseVerified:
		return successColor.Sprint(phase)
	case domain.PhaseOwned:
		return color.New(color.FgBlue).Sprint(phase)
	case domain.PhaseDeployed:
		return warnColor.Sprint(phase)
	case "":
		return faintColor.Sprint("-")
	default:
		return faintColor.Sprint(phase)
	}
}

// newTable returns a borderless table writer in the house style
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	return t
}
