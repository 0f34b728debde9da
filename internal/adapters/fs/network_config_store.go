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

// NetworkConfigStoreAdapter reads config/<network>.json
type NetworkConfigStoreAdapter struct {
	fs          afero.Fs
	projectRoot string
	configDir   string
}

// NewNetworkConfigStoreAdapter creates a network config reader
func NewNetworkConfigStoreAdapter(fsys afero.Fs, cfg *config.RuntimeConfig) *NetworkConfigStoreAdapter {
	return &NetworkConfigStoreAdapter{
		fs:          fsys,
		projectRoot: cfg.ProjectRoot,
		configDir:   cfg.Project.Paths.Config,
	}
}

// Load reads the role file of a network. It is never cached.
func (n *NetworkConfigStoreAdapter) Load(ctx context.Context, network string) (*domain.NetworkConfig, error) {
	rel := filepath.Join(n.configDir, network+".json")
	values := make(map[string]any)
	found, err := readJSON(n.fs, filepath.Join(n.projectRoot, rel), &values)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("network config %s: %w", rel, domain.ErrNotFound)
	}
	return domain.NewNetworkConfig(rel, values), nil
}

// Ensure the adapter implements the interface
var _ usecase.NetworkConfigStore = (*NetworkConfigStoreAdapter)(nil)
