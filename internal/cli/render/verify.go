package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// RenderVerifyResult renders the result of verifying one step
func (r *VerifyRenderer) RenderVerifyResult(result *usecase.VerifyResult) error {
	entry := result.Entry
	fmt.Fprintf(r.out, "%s %s (%s)\n", r.statusIcon(result), entry.Step, entry.Contract)

	switch {
	case result.Skipped != "":
		faintColor.Fprintf(r.out, "    skipped: %s\n", result.Skipped)
	case result.Error != nil:
		errorColor.Fprintf(r.out, "    ✗ %v\n", result.Error)
	}
	if result.Verification != nil {
		r.renderVerifiers(result.Verification)
	}
	return nil
}

// RenderVerifyAllResult renders the result of verifying every journaled step
func (r *VerifyRenderer) RenderVerifyAllResult(result *usecase.VerifyAllResult, options usecase.VerifyOptions) error {
	if len(result.Results) == 0 {
		warnColor.Fprintln(r.out, "No deployed steps found in the journal.")
		return nil
	}

	for _, res := range result.Results {
		if err := r.RenderVerifyResult(res); err != nil {
			return err
		}
	}

	skipped := lo.CountBy(result.Results, func(res *usecase.VerifyResult) bool { return res.Skipped != "" })
	failed := len(result.Results) - skipped - result.SuccessCount

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "Verified %d, skipped %d, failed %d\n", result.SuccessCount, skipped, failed)
	if skipped > 0 && !options.Force {
		faintColor.Fprintln(r.out, "Use --force to re-verify steps already marked verified.")
	}
	return nil
}

func (r *VerifyRenderer) statusIcon(result *usecase.VerifyResult) string {
	switch {
	case result.Skipped != "":
		return faintColor.Sprint("⏭️ ")
	case result.Error != nil:
		return errorColor.Sprint("❌")
	case result.Verification != nil && result.Verification.Status == models.VerificationStatusPartial:
		return warnColor.Sprint("⚠️ ")
	default:
		return successColor.Sprint("✅")
	}
}

func (r *VerifyRenderer) renderVerifiers(v *models.VerificationResult) {
	names := lo.Keys(v.Verifiers)
	slices.Sort(names)
	for _, name := range names {
		status := v.Verifiers[name]
		title := cases.Title(language.English).String(name)
		switch status.Status {
		case "verified":
			successColor.Fprintf(r.out, "    ✓ %s: %s\n", title, status.URL)
		case "failed":
			errorColor.Fprintf(r.out, "    ✗ %s: %s\n", title, status.Reason)
		default:
			faintColor.Fprintf(r.out, "    - %s: %s\n", title, status.Status)
		}
	}
}
