package domain

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Phase is how far a step has progressed on-chain. Phases only move forward.
type Phase string

const (
	PhasePending  Phase = "pending"
	PhaseDeployed Phase = "deployed"
	PhaseOwned    Phase = "owned"
	PhaseVerified Phase = "verified"
)

var phaseRank = map[Phase]int{
	PhasePending:  0,
	PhaseDeployed: 1,
	PhaseOwned:    2,
	PhaseVerified: 3,
}

// AtLeast reports whether p has reached other
func (p Phase) AtLeast(other Phase) bool {
	return phaseRank[p] >= phaseRank[other]
}

// ParsePhase validates a phase name read from disk
func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if _, ok := phaseRank[p]; !ok {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

// Journal records per-step progress for one network so an interrupted run can
// resume after the deployment phase instead of deploying twice.
type Journal struct {
	Network string                   `json:"network"`
	ChainID uint64                   `json:"chainId"`
	Steps   map[string]*JournalEntry `json:"steps"`
}

// JournalEntry is the recorded state of a single step
type JournalEntry struct {
	Step             string    `json:"step"`
	Contract         string    `json:"contract"`
	Kind             StepKind  `json:"kind"`
	Phase            Phase     `json:"phase"`
	RegistryKey      string    `json:"registryKey"`
	Address          string    `json:"address,omitempty"`
	Implementation   string    `json:"implementation,omitempty"`
	ConstructorArgs  string    `json:"constructorArgs,omitempty"`
	DeployTx         string    `json:"deployTx,omitempty"`
	OwnershipTx      string    `json:"ownershipTx,omitempty"`
	Owner            string    `json:"owner,omitempty"`
	VerificationURL  string    `json:"verificationUrl,omitempty"`
	ImplementationTx string    `json:"implementationTx,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// NewJournal returns an empty journal for a network
func NewJournal(network string, chainID uint64) *Journal {
	return &Journal{
		Network: network,
		ChainID: chainID,
		Steps:   make(map[string]*JournalEntry),
	}
}

// Entry returns the entry for step, or nil
func (j *Journal) Entry(step string) *JournalEntry {
	if j == nil || j.Steps == nil {
		return nil
	}
	return j.Steps[step]
}

// Record stores an entry. Re-recording the same deployment never moves it
// back to an earlier phase; a new address or implementation starts over.
func (j *Journal) Record(entry *JournalEntry, now time.Time) {
	if j.Steps == nil {
		j.Steps = make(map[string]*JournalEntry)
	}
	if prev, ok := j.Steps[entry.Step]; ok && prev.Phase.AtLeast(entry.Phase) &&
		prev.Address == entry.Address && prev.Implementation == entry.Implementation {
		entry.Phase = prev.Phase
	}
	entry.UpdatedAt = now.UTC()
	j.Steps[entry.Step] = entry
}

// Advance moves an existing entry forward to phase
func (j *Journal) Advance(step string, phase Phase, now time.Time) error {
	entry := j.Entry(step)
	if entry == nil {
		return fmt.Errorf("journal has no entry for step %q: %w", step, ErrNotFound)
	}
	if !entry.Phase.AtLeast(phase) {
		entry.Phase = phase
	}
	entry.UpdatedAt = now.UTC()
	return nil
}

// ResumePoint reports whether a step may skip deployment: it must have been
// deployed and its address must still be present in the registry.
func (j *Journal) ResumePoint(step string, registry AddressRegistry) (*JournalEntry, bool) {
	entry := j.Entry(step)
	if entry == nil || !entry.Phase.AtLeast(PhaseDeployed) {
		return nil, false
	}
	if !sameAddress(registry[entry.RegistryKey], entry.Address) {
		return nil, false
	}
	return entry, true
}

// sameAddress compares two hex addresses ignoring checksum casing
func sameAddress(a, b string) bool {
	if !common.IsHexAddress(a) || !common.IsHexAddress(b) {
		return false
	}
	return common.HexToAddress(a) == common.HexToAddress(b)
}
