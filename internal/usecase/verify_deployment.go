package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/samber/lo"
)

// VerifyDeployment re-submits source verification for journaled steps
type VerifyDeployment struct {
	cfg       *config.RuntimeConfig
	plans     PlanLoader
	journal   JournalStore
	artifacts ArtifactRepository
	verifier  ContractVerifier
	progress  ProgressSink
	now       func() time.Time
}

// NewVerifyDeployment creates a new verify deployment use case
func NewVerifyDeployment(
	cfg *config.RuntimeConfig,
	plans PlanLoader,
	journal JournalStore,
	artifacts ArtifactRepository,
	verifier ContractVerifier,
	progress ProgressSink,
) *VerifyDeployment {
	return &VerifyDeployment{
		cfg:       cfg,
		plans:     plans,
		journal:   journal,
		artifacts: artifacts,
		verifier:  verifier,
		progress:  progress,
		now:       time.Now,
	}
}

// VerifyOptions contains options for verification
type VerifyOptions struct {
	// Force re-verifies steps already marked verified
	Force bool
}

// VerifyResult contains the result of verifying one step
type VerifyResult struct {
	Entry        *domain.JournalEntry
	Verification *models.VerificationResult
	Skipped      string
	Error        error
}

// VerifyAllResult contains the results of verifying every journaled step
type VerifyAllResult struct {
	Results      []*VerifyResult
	SuccessCount int
}

// VerifySpecific verifies the step named step
func (uc *VerifyDeployment) VerifySpecific(ctx context.Context, step string, options VerifyOptions) (*VerifyResult, error) {
	journal, plan, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	entry := journal.Entry(step)
	if entry == nil {
		return nil, &domain.UnknownStepError{Name: step, Suggestions: suggest(step, lo.Keys(journal.Steps))}
	}
	if !entry.Phase.AtLeast(domain.PhaseDeployed) {
		return nil, fmt.Errorf("step %s has not been deployed yet", step)
	}

	result := uc.verifyEntry(ctx, journal, plan, entry, options)
	if saveErr := uc.journal.Save(ctx, journal); saveErr != nil {
		return result, fmt.Errorf("failed to save journal: %w", saveErr)
	}
	return result, result.Error
}

// VerifyAll verifies every deployed step that is not verified yet
func (uc *VerifyDeployment) VerifyAll(ctx context.Context, options VerifyOptions) (*VerifyAllResult, error) {
	journal, plan, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}

	names := lo.Keys(journal.Steps)
	names = lo.Filter(names, func(name string, _ int) bool {
		return journal.Steps[name].Phase.AtLeast(domain.PhaseDeployed)
	})
	// deterministic output
	names = sortedStrings(names)

	all := &VerifyAllResult{}
	for i, name := range names {
		uc.progress.OnProgress(ctx, ProgressEvent{Step: name, Current: i + 1, Total: len(names), Stage: StageVerifying})
		result := uc.verifyEntry(ctx, journal, plan, journal.Steps[name], options)
		all.Results = append(all.Results, result)
		if result.Error == nil && result.Skipped == "" {
			all.SuccessCount++
		}
	}

	if err := uc.journal.Save(ctx, journal); err != nil {
		return all, fmt.Errorf("failed to save journal: %w", err)
	}
	return all, nil
}

func (uc *VerifyDeployment) load(ctx context.Context) (*domain.Journal, *domain.Plan, error) {
	network := uc.cfg.Network
	if network == nil {
		return nil, nil, domain.ErrNoNetwork
	}
	journal, err := uc.journal.Load(ctx, network.Name, network.ChainID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load journal: %w", err)
	}
	// The plan only decides whether a step still owes an ownership transfer
	plan, err := uc.plans.Load(ctx)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("failed to load deployment plan: %w", err)
	}
	return journal, plan, nil
}

func (uc *VerifyDeployment) verifyEntry(ctx context.Context, journal *domain.Journal, plan *domain.Plan, entry *domain.JournalEntry, options VerifyOptions) *VerifyResult {
	result := &VerifyResult{Entry: entry}
	if entry.Phase.AtLeast(domain.PhaseVerified) && !options.Force {
		result.Skipped = "already verified"
		return result
	}
	if uc.cfg.Network.ChainID == localChainID {
		result.Skipped = "local chain"
		return result
	}

	artifact, err := uc.artifacts.Get(ctx, entry.Contract)
	if err != nil {
		result.Error = err
		return result
	}
	req, err := verificationRequest(artifact, entry)
	if err != nil {
		result.Error = err
		return result
	}

	uc.progress.OnProgress(ctx, ProgressEvent{
		Step:    entry.Step,
		Stage:   StageVerifying,
		Message: fmt.Sprintf("Verifying %s at %s", entry.Contract, req.Address.Hex()),
		Spinner: true,
	})
	result.Verification, result.Error = uc.verifier.Verify(ctx, req, uc.cfg.Network)
	if result.Error != nil {
		return result
	}

	entry.VerificationURL = result.Verification.URL
	if uc.ownershipSettled(plan, entry) {
		_ = journal.Advance(entry.Step, domain.PhaseVerified, uc.now())
	}
	return result
}

// ownershipSettled reports whether marking the entry verified would skip a
// pending ownership transfer
func (uc *VerifyDeployment) ownershipSettled(plan *domain.Plan, entry *domain.JournalEntry) bool {
	if entry.Phase.AtLeast(domain.PhaseOwned) {
		return true
	}
	if plan == nil {
		return false
	}
	step, ok := plan.Step(entry.Step)
	return ok && !step.TransferOwnership
}
