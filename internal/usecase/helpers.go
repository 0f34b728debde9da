package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
)

// ErrCancelled is returned when the user declines a confirmation prompt
var ErrCancelled = errors.New("cancelled by user")

const maxSuggestions = 3

// suggest returns up to three candidates resembling name
func suggest(name string, candidates []string) []string {
	lower := strings.ToLower(name)
	prefixed := lo.Filter(candidates, func(c string, _ int) bool {
		lc := strings.ToLower(c)
		return strings.HasPrefix(lc, lower) || strings.HasPrefix(lower, lc)
	})

	fuzzyMatches := lo.Map(fuzzy.Find(name, candidates), func(m fuzzy.Match, _ int) string {
		return m.Str
	})

	out := lo.Uniq(append(prefixed, fuzzyMatches...))
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}

// lookupStep finds a plan step or returns an UnknownStepError with suggestions
func lookupStep(plan *domain.Plan, name string) (*domain.Step, error) {
	step, ok := plan.Step(name)
	if !ok {
		return nil, &domain.UnknownStepError{Name: name, Suggestions: suggest(name, plan.Names())}
	}
	return step, nil
}

// resolveAddress turns a literal address, a network config role or a registry
// key into an address, in that order
func resolveAddress(ref string, cfg *domain.NetworkConfig, registry domain.AddressRegistry) (common.Address, error) {
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	if cfg != nil {
		if _, ok := cfg.Values[ref]; ok {
			return cfg.Address(ref)
		}
	}
	if registry.Has(ref) {
		return registry.Require(ref)
	}

	source := "network config"
	if cfg != nil {
		source = cfg.Source
	}
	return common.Address{}, &domain.MissingKeyError{Source: source, Key: ref}
}

// loadNetworkConfig reads config/<network>.json, treating a missing file as empty
func loadNetworkConfig(ctx context.Context, store NetworkConfigStore, network string) (*domain.NetworkConfig, error) {
	cfg, err := store.Load(ctx, network)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNetworkConfig(fmt.Sprintf("config/%s.json", network), nil), nil
	}
	return cfg, err
}

// confirm asks unless the caller pre-approved or prompts are disabled
func confirm(ctx context.Context, confirmer Confirmer, skip bool, prompt string) error {
	if skip {
		return nil
	}
	ok, err := confirmer.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
