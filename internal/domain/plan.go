package domain

import (
	"fmt"
	"maps"
	"slices"
	"sort"
)

// StepKind selects how a step instantiates its contract
type StepKind string

const (
	StepDeploy  StepKind = "deploy"
	StepProxy   StepKind = "proxy"
	StepUpgrade StepKind = "upgrade"
)

// Plan is the declarative list of deployment steps loaded from deploy/steps.yaml
type Plan struct {
	Steps map[string]*Step `yaml:"steps"`
}

// Step describes a single contract deployment
type Step struct {
	Name              string   `yaml:"-"`
	Contract          string   `yaml:"contract"`
	Kind              StepKind `yaml:"kind,omitempty"`
	Args              []string `yaml:"args,omitempty"`
	Initializer       string   `yaml:"initializer,omitempty"`
	InitializerArgs   []string `yaml:"initializer_args,omitempty"`
	Registry          string   `yaml:"registry"`
	ImplementationKey string   `yaml:"implementation_key,omitempty"`
	TransferOwnership bool     `yaml:"transfer_ownership,omitempty"`
	Owner             string   `yaml:"owner,omitempty"`
	Verify            *bool    `yaml:"verify,omitempty"`
	Deps              []string `yaml:"deps,omitempty"`
}

// EffectiveKind defaults an empty kind to a direct deploy
func (s *Step) EffectiveKind() StepKind {
	if s.Kind == "" {
		return StepDeploy
	}
	return s.Kind
}

// ShouldVerify combines the project-wide verify flag with the step override
func (s *Step) ShouldVerify(projectDefault bool) bool {
	if s.Verify != nil {
		return *s.Verify && projectDefault
	}
	return projectDefault
}

// Names returns all step names in lexical order
func (p *Plan) Names() []string {
	return slices.Sorted(maps.Keys(p.Steps))
}

// Step looks up a step by name
func (p *Plan) Step(name string) (*Step, bool) {
	s, ok := p.Steps[name]
	return s, ok
}

// Validate checks the plan for structural errors
func (p *Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: at least one step is required", ErrInvalidPlan)
	}

	for _, name := range p.Names() {
		step := p.Steps[name]
		if step == nil {
			return fmt.Errorf("%w: step '%s' is empty", ErrInvalidPlan, name)
		}
		step.Name = name

		if step.Contract == "" {
			return fmt.Errorf("%w: step '%s' must specify a contract", ErrInvalidPlan, name)
		}
		if step.Registry == "" {
			return fmt.Errorf("%w: step '%s' must specify a registry key", ErrInvalidPlan, name)
		}

		switch step.EffectiveKind() {
		case StepDeploy:
			if step.Initializer != "" {
				return fmt.Errorf("%w: step '%s' sets an initializer but is not a proxy", ErrInvalidPlan, name)
			}
		case StepProxy, StepUpgrade:
		default:
			return fmt.Errorf("%w: step '%s' has unknown kind '%s'", ErrInvalidPlan, name, step.Kind)
		}

		for _, dep := range step.Deps {
			if dep == name {
				return fmt.Errorf("%w: step '%s' cannot depend on itself", ErrInvalidPlan, name)
			}
			if _, exists := p.Steps[dep]; !exists {
				return fmt.Errorf("%w: step '%s' depends on non-existent step '%s'", ErrInvalidPlan, name, dep)
			}
		}
	}

	return nil
}

// Order returns the steps in execution order: dependencies first, ties broken
// lexically so the order is stable between runs.
func (p *Plan) Order() ([]*Step, error) {
	inDegree := make(map[string]int, len(p.Steps))
	dependents := make(map[string][]string)
	for name, step := range p.Steps {
		inDegree[name] += 0
		for _, dep := range step.Deps {
			if _, exists := p.Steps[dep]; !exists {
				return nil, fmt.Errorf("%w: step '%s' depends on non-existent step '%s'", ErrInvalidPlan, name, dep)
			}
			inDegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	result := make([]*Step, 0, len(p.Steps))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		result = append(result, p.Steps[current])

		next := dependents[current]
		sort.Strings(next)
		for _, dependent := range next {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(p.Steps) {
		var cycle []string
		for name, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, fmt.Errorf("%w: circular dependency detected involving steps: %v", ErrInvalidPlan, cycle)
	}

	return result, nil
}
