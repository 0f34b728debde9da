package usecase

import (
	"context"
	"fmt"

	"github.com/jpegd/jdeploy/internal/domain"
)

// ComposePlan runs every plan step in dependency order
type ComposePlan struct {
	runStep *RunStep
}

// NewComposePlan creates a new compose use case
func NewComposePlan(runStep *RunStep) *ComposePlan {
	return &ComposePlan{runStep: runStep}
}

// ComposeParams contains parameters for a compose run
type ComposeParams struct {
	SkipVerify bool
	Yes        bool
	// DryRun only reports the order and which steps would resume
	DryRun bool
}

// PlannedStep is a step in execution order with its journal state
type PlannedStep struct {
	Step      *domain.Step
	Entry     *domain.JournalEntry
	Resumable bool
}

// ComposeResult contains the result of a compose run
type ComposeResult struct {
	Network  string
	Plan     []*PlannedStep
	Executed []*RunStepResult
	// FailedStep is the step that stopped the run, nil on success
	FailedStep *domain.Step
	Error      error
}

// Success reports whether every step completed
func (r *ComposeResult) Success() bool {
	return r.FailedStep == nil
}

// Run executes the plan, stopping at the first failing step. The returned
// error is the failing step's error; the partial result is always returned.
func (uc *ComposePlan) Run(ctx context.Context, params ComposeParams) (*ComposeResult, error) {
	if params.DryRun {
		return uc.preview(ctx)
	}

	s, err := uc.runStep.openSession(ctx)
	if err != nil {
		return nil, err
	}
	order, err := s.plan.Order()
	if err != nil {
		return nil, err
	}

	result := &ComposeResult{Network: s.network.Name, Plan: planned(order, s)}
	s.total = len(order)
	for i, step := range order {
		s.current = i + 1
		stepResult, err := uc.runStep.execute(ctx, s, step, RunStepParams{
			Step:       step.Name,
			SkipVerify: params.SkipVerify,
			Yes:        params.Yes,
		})
		if stepResult != nil {
			result.Executed = append(result.Executed, stepResult)
		}
		if err != nil {
			result.FailedStep = step
			result.Error = err
			return result, fmt.Errorf("step %s failed: %w", step.Name, err)
		}
	}
	return result, nil
}

// preview loads the plan and journal without resolving a signer
func (uc *ComposePlan) preview(ctx context.Context) (*ComposeResult, error) {
	network := uc.runStep.cfg.Network
	if network == nil {
		return nil, domain.ErrNoNetwork
	}
	plan, err := uc.runStep.plans.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment plan: %w", err)
	}
	order, err := plan.Order()
	if err != nil {
		return nil, err
	}
	registry, err := uc.runStep.registry.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load address registry: %w", err)
	}
	journal, err := uc.runStep.journal.Load(ctx, network.Name, network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}

	s := &session{network: network, plan: plan, registry: registry, journal: journal}
	return &ComposeResult{Network: network.Name, Plan: planned(order, s)}, nil
}

func planned(order []*domain.Step, s *session) []*PlannedStep {
	out := make([]*PlannedStep, len(order))
	for i, step := range order {
		entry, resumable := s.journal.ResumePoint(step.Name, s.registry)
		if entry == nil {
			entry = s.journal.Entry(step.Name)
		}
		out[i] = &PlannedStep{Step: step, Entry: entry, Resumable: resumable}
	}
	return out
}
