package fs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/afero"
)

// JournalFileName is the journal file inside deployments/<network>/
const JournalFileName = "journal.json"

// JournalStoreAdapter keeps the step journal next to the address registry
type JournalStoreAdapter struct {
	fs      afero.Fs
	baseDir string
}

// NewJournalStoreAdapter creates a journal store rooted at the project's deployments dir
func NewJournalStoreAdapter(fsys afero.Fs, cfg *config.RuntimeConfig) *JournalStoreAdapter {
	return &JournalStoreAdapter{
		fs:      fsys,
		baseDir: filepath.Join(cfg.ProjectRoot, cfg.Project.Paths.Deployments),
	}
}

func (j *JournalStoreAdapter) path(network string) string {
	return filepath.Join(j.baseDir, network, JournalFileName)
}

// Load reads the journal for a network, starting a fresh one when absent.
// A journal recorded for a different chain is rejected.
func (j *JournalStoreAdapter) Load(ctx context.Context, network string, chainID uint64) (*domain.Journal, error) {
	journal := domain.NewJournal(network, chainID)
	found, err := readJSON(j.fs, j.path(network), journal)
	if err != nil {
		return nil, err
	}
	if !found {
		return journal, nil
	}

	if chainID != 0 && journal.ChainID != 0 && journal.ChainID != chainID {
		return nil, fmt.Errorf("%w: journal %s was recorded for chain %d, network is chain %d",
			domain.ErrNetworkMismatch, j.path(network), journal.ChainID, chainID)
	}
	for name, entry := range journal.Steps {
		if _, err := domain.ParsePhase(string(entry.Phase)); err != nil {
			return nil, fmt.Errorf("journal entry %s: %w", name, err)
		}
		entry.Step = name
	}
	journal.Network = network
	if journal.ChainID == 0 {
		journal.ChainID = chainID
	}
	return journal, nil
}

// Save atomically rewrites the journal
func (j *JournalStoreAdapter) Save(ctx context.Context, journal *domain.Journal) error {
	return writeJSONAtomic(j.fs, j.path(journal.Network), journal)
}

// Ensure the adapter implements the interface
var _ usecase.JournalStore = (*JournalStoreAdapter)(nil)
