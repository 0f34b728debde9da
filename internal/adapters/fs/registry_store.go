package fs

import (
	"context"
	"path/filepath"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/afero"
)

// RegistryFileName is the registry file inside deployments/<network>/
const RegistryFileName = "addresses.json"

// RegistryStoreAdapter keeps the address registry in deployments/<network>/addresses.json
type RegistryStoreAdapter struct {
	fs      afero.Fs
	baseDir string
}

// NewRegistryStoreAdapter creates a registry store rooted at the project's deployments dir
func NewRegistryStoreAdapter(fsys afero.Fs, cfg *config.RuntimeConfig) *RegistryStoreAdapter {
	return &RegistryStoreAdapter{
		fs:      fsys,
		baseDir: filepath.Join(cfg.ProjectRoot, cfg.Project.Paths.Deployments),
	}
}

// Path returns the registry file for a network
func (r *RegistryStoreAdapter) Path(network string) string {
	return filepath.Join(r.baseDir, network, RegistryFileName)
}

// Load reads the registry. A network without a registry file yields an empty registry.
func (r *RegistryStoreAdapter) Load(ctx context.Context, network string) (domain.AddressRegistry, error) {
	reg := domain.NewAddressRegistry()
	if _, err := readJSON(r.fs, r.Path(network), &reg); err != nil {
		return nil, err
	}
	if reg == nil {
		reg = domain.NewAddressRegistry()
	}
	return reg, nil
}

// Save atomically rewrites the whole registry file
func (r *RegistryStoreAdapter) Save(ctx context.Context, network string, registry domain.AddressRegistry) error {
	if registry == nil {
		registry = domain.NewAddressRegistry()
	}
	return writeJSONAtomic(r.fs, r.Path(network), registry)
}

// Ensure the adapter implements the interface
var _ usecase.RegistryStore = (*RegistryStoreAdapter)(nil)
