package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// PlanLoaderAdapter reads the YAML deployment plan
type PlanLoaderAdapter struct {
	fs   afero.Fs
	path string
}

// NewPlanLoaderAdapter creates a plan loader for the configured plan path
func NewPlanLoaderAdapter(fsys afero.Fs, cfg *config.RuntimeConfig) *PlanLoaderAdapter {
	return &PlanLoaderAdapter{
		fs:   fsys,
		path: filepath.Join(cfg.ProjectRoot, cfg.Project.Paths.Plan),
	}
}

// Load parses and validates the plan
func (p *PlanLoaderAdapter) Load(ctx context.Context) (*domain.Plan, error) {
	data, err := afero.ReadFile(p.fs, p.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("deployment plan %s: %w", p.path, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read deployment plan: %w", err)
	}

	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse deployment plan %s: %w", p.path, err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Ensure the adapter implements the interface
var _ usecase.PlanLoader = (*PlanLoaderAdapter)(nil)
