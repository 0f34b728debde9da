package config

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/sahilm/fuzzy"
)

// ChainIDFetcher asks an RPC endpoint for its chain ID
type ChainIDFetcher func(ctx context.Context, rpcURL string) (uint64, error)

func fetchChainID(ctx context.Context, rpcURL string) (uint64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return 0, fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch chain ID: %w", err)
	}
	return chainID.Uint64(), nil
}

// NetworkResolver resolves network names declared in jdeploy.toml
type NetworkResolver struct {
	project *config.ProjectConfig
	fetch   ChainIDFetcher
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *config.ProjectConfig) *NetworkResolver {
	return &NetworkResolver{project: project, fetch: fetchChainID}
}

// WithChainIDFetcher replaces the RPC chain ID lookup
func (r *NetworkResolver) WithChainIDFetcher(fetch ChainIDFetcher) *NetworkResolver {
	r.fetch = fetch
	return r
}

// GetNetworks returns all configured network names, sorted
func (r *NetworkResolver) GetNetworks() []string {
	names := make([]string, 0, len(r.project.Networks))
	for name := range r.project.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration. The chain ID is taken
// from jdeploy.toml when set and fetched from the RPC otherwise.
func (r *NetworkResolver) Resolve(ctx context.Context, name string) (*config.Network, error) {
	entry, ok := r.project.Networks[name]
	if !ok {
		err := fmt.Errorf("%w: network '%s' not found in %s [networks]", domain.ErrNotFound, name, ProjectFileName)
		if matches := fuzzy.Find(name, r.GetNetworks()); len(matches) > 0 {
			err = fmt.Errorf("%w, did you mean '%s'?", err, matches[0].Str)
		}
		return nil, err
	}
	if entry.RPCURL == "" {
		return nil, &domain.MissingKeyError{Source: fmt.Sprintf("%s [networks.%s]", ProjectFileName, name), Key: "rpc_url"}
	}

	chainID := entry.ChainID
	if chainID == 0 {
		fetched, err := r.fetch(ctx, entry.RPCURL)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", name, err)
		}
		chainID = fetched
	}

	sender := entry.Sender
	if sender == "" {
		sender = config.DefaultSender
	}

	return &config.Network{
		Name:        name,
		ChainID:     chainID,
		RPCURL:      entry.RPCURL,
		Sender:      sender,
		ExplorerURL: r.explorerURL(name, chainID),
	}, nil
}

// explorerURL returns the explorer API used for verification
func (r *NetworkResolver) explorerURL(name string, chainID uint64) string {
	if explorer, ok := r.project.Explorer[name]; ok && explorer.URL != "" {
		return explorer.URL
	}

	switch chainID {
	case 1:
		return "https://api.etherscan.io/api"
	case 11155111:
		return "https://api-sepolia.etherscan.io/api"
	case 10:
		return "https://api-optimistic.etherscan.io/api"
	case 137:
		return "https://api.polygonscan.com/api"
	case 8453:
		return "https://api.basescan.org/api"
	case 42161:
		return "https://api.arbiscan.io/api"
	default:
		return ""
	}
}
