package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
)

// localChainID is anvil/hardhat; explorers never index it
const localChainID = 31337

// ListRegistry shows the address registry of the active network
type ListRegistry struct {
	cfg      *config.RuntimeConfig
	registry RegistryStore
	journal  JournalStore
}

// NewListRegistry creates a new ListRegistry use case
func NewListRegistry(cfg *config.RuntimeConfig, registry RegistryStore, journal JournalStore) *ListRegistry {
	return &ListRegistry{cfg: cfg, registry: registry, journal: journal}
}

// ListRegistryParams filters the listing to one key when Key is set
type ListRegistryParams struct {
	Key string
}

// RegistryEntry is one registry key with the journal entry that wrote it, if any
type RegistryEntry struct {
	Key     string
	Address string
	Step    string
	Phase   domain.Phase
}

// ListRegistryResult contains the registry listing
type ListRegistryResult struct {
	Network string
	ChainID uint64
	Entries []RegistryEntry
}

// Run executes the use case
func (uc *ListRegistry) Run(ctx context.Context, params ListRegistryParams) (*ListRegistryResult, error) {
	network := uc.cfg.Network
	if network == nil {
		return nil, domain.ErrNoNetwork
	}

	registry, err := uc.registry.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load address registry: %w", err)
	}
	journal, err := uc.journal.Load(ctx, network.Name, network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}

	keys := registry.Keys()
	if params.Key != "" {
		if _, err := registry.Require(params.Key); err != nil {
			return nil, err
		}
		keys = []string{params.Key}
	}

	// registry key -> journal entry
	byKey := make(map[string]*domain.JournalEntry, len(journal.Steps))
	for _, entry := range journal.Steps {
		if entry.RegistryKey != "" {
			byKey[entry.RegistryKey] = entry
		}
	}

	result := &ListRegistryResult{Network: network.Name, ChainID: network.ChainID}
	for _, key := range keys {
		row := RegistryEntry{Key: key, Address: registry[key]}
		if entry, ok := byKey[key]; ok && entry.Address == row.Address {
			row.Step = entry.Step
			row.Phase = entry.Phase
		}
		result.Entries = append(result.Entries, row)
	}
	return result, nil
}

func sortedStrings(s []string) []string {
	sort.Strings(s)
	return s
}
