package verification

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strconv"
	"strings"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
)

const (
	VerifierEtherscan = "etherscan"
	VerifierSourcify  = "sourcify"

	statusVerified = "verified"
	statusFailed   = "failed"
)

// CommandRunner executes forge with the given arguments and returns its combined output
type CommandRunner func(ctx context.Context, dir string, args ...string) ([]byte, error)

func runForge(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// ForgeVerifier verifies contracts on Etherscan and Sourcify through forge verify-contract
type ForgeVerifier struct {
	cfg *config.RuntimeConfig
	log *slog.Logger
	run CommandRunner
}

// NewForgeVerifier creates a verifier that shells out to forge
func NewForgeVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeVerifier {
	return NewForgeVerifierWithRunner(cfg, log, runForge)
}

// NewForgeVerifierWithRunner creates a verifier with a custom command runner
func NewForgeVerifierWithRunner(cfg *config.RuntimeConfig, log *slog.Logger, run CommandRunner) *ForgeVerifier {
	return &ForgeVerifier{
		cfg: cfg,
		log: log.With("component", "verifier"),
		run: run,
	}
}

// Verify submits the contract to every explorer. It only fails when no
// explorer accepted the source.
func (v *ForgeVerifier) Verify(ctx context.Context, req models.VerificationRequest, network *config.Network) (*models.VerificationResult, error) {
	if network == nil {
		return nil, domain.ErrNoNetwork
	}
	if req.Artifact == nil {
		return nil, fmt.Errorf("verification of %s: no artifact", req.Address.Hex())
	}

	result := &models.VerificationResult{Verifiers: make(map[string]models.VerifierStatus)}

	verifiers := []struct {
		name string
		args []string
		url  string
	}{
		{VerifierEtherscan, v.etherscanArgs(req, network), v.etherscanURL(network, req)},
		{VerifierSourcify, v.sourcifyArgs(req, network), sourcifyURL(network, req)},
	}

	for _, verifier := range verifiers {
		v.log.Debug("verifying contract", "verifier", verifier.name, "contract", req.Artifact.Name, "address", req.Address.Hex())
		if err := v.execute(ctx, verifier.args); err != nil {
			v.log.Debug("verification failed", "verifier", verifier.name, "error", err)
			result.Verifiers[verifier.name] = models.VerifierStatus{Status: statusFailed, Reason: err.Error()}
			continue
		}
		result.Verifiers[verifier.name] = models.VerifierStatus{Status: statusVerified, URL: verifier.url}
	}

	updateOverallStatus(result)
	if result.Status == models.VerificationStatusFailed {
		return result, fmt.Errorf("%w: %s", domain.ErrVerificationFailed, result.Reason)
	}
	return result, nil
}

// Commands returns the forge invocations Verify would run
func (v *ForgeVerifier) Commands(req models.VerificationRequest, network *config.Network) []string {
	return []string{
		"forge " + strings.Join(v.etherscanArgs(req, network), " "),
		"forge " + strings.Join(v.sourcifyArgs(req, network), " "),
	}
}

func (v *ForgeVerifier) baseArgs(req models.VerificationRequest, network *config.Network) []string {
	args := []string{
		"verify-contract",
		req.Address.Hex(),
		req.Artifact.VerifyTarget(),
		"--chain-id", strconv.FormatUint(network.ChainID, 10),
		"--watch",
	}
	if req.Artifact.CompilerVersion != "" {
		args = append(args, "--compiler-version", req.Artifact.CompilerVersion)
	}
	if len(req.ConstructorArgs) > 0 {
		args = append(args, "--constructor-args", hex.EncodeToString(req.ConstructorArgs))
	}
	return args
}

func (v *ForgeVerifier) etherscanArgs(req models.VerificationRequest, network *config.Network) []string {
	args := v.baseArgs(req, network)
	explorer := v.explorer(network)
	if explorer.URL != "" {
		args = append(args, "--verifier-url", explorer.URL)
	}
	if explorer.APIKey != "" {
		args = append(args, "--etherscan-api-key", explorer.APIKey)
	}
	return args
}

func (v *ForgeVerifier) sourcifyArgs(req models.VerificationRequest, network *config.Network) []string {
	return append(v.baseArgs(req, network), "--verifier", "sourcify")
}

// explorer merges the [explorer.<network>] table with the resolved network and environment
func (v *ForgeVerifier) explorer(network *config.Network) config.ExplorerConfig {
	var explorer config.ExplorerConfig
	if v.cfg.Project != nil {
		explorer = v.cfg.Project.Explorer[network.Name]
	}
	if explorer.URL == "" {
		explorer.URL = network.ExplorerURL
	}
	if explorer.APIKey == "" {
		explorer.APIKey = os.Getenv("ETHERSCAN_API_KEY")
	}
	return explorer
}

func (v *ForgeVerifier) execute(ctx context.Context, args []string) error {
	output, err := v.run(ctx, v.cfg.ProjectRoot, args...)
	out := strings.TrimSpace(string(output))
	if alreadyVerified(out) {
		return nil
	}
	if err != nil {
		if out == "" {
			return fmt.Errorf("verification failed: %w", err)
		}
		return fmt.Errorf("verification failed: %s", out)
	}
	if strings.Contains(out, "Contract successfully verified") || strings.Contains(out, "Pass - Verified") {
		return nil
	}
	return fmt.Errorf("verification status unclear: %s", out)
}

func alreadyVerified(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "already verified")
}

func (v *ForgeVerifier) etherscanURL(network *config.Network, req models.VerificationRequest) string {
	base := v.explorer(network).URL
	if base == "" {
		return ""
	}
	// API endpoints are configured as https://api.etherscan.io/api; the
	// browsable site drops the api subdomain and path
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/api")
	base = strings.Replace(base, "://api.", "://", 1)
	base = strings.Replace(base, "://api-", "://", 1)
	return fmt.Sprintf("%s/address/%s#code", base, req.Address.Hex())
}

func sourcifyURL(network *config.Network, req models.VerificationRequest) string {
	return fmt.Sprintf("https://repo.sourcify.dev/contracts/full_match/%d/%s/", network.ChainID, req.Address.Hex())
}

// updateOverallStatus derives the aggregate status from the individual verifiers
func updateOverallStatus(result *models.VerificationResult) {
	if len(result.Verifiers) == 0 {
		result.Status = models.VerificationStatusUnverified
		return
	}

	names := make([]string, 0, len(result.Verifiers))
	for name := range result.Verifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	verified, failed := 0, 0
	var reasons []string
	for _, name := range names {
		status := result.Verifiers[name]
		switch status.Status {
		case statusVerified:
			verified++
			if result.URL == "" {
				result.URL = status.URL
			}
		case statusFailed:
			failed++
			if status.Reason != "" {
				reasons = append(reasons, fmt.Sprintf("%s: %s", name, status.Reason))
			}
		}
	}

	switch {
	case verified == len(names):
		result.Status = models.VerificationStatusVerified
	case verified > 0:
		result.Status = models.VerificationStatusPartial
		result.Reason = strings.Join(reasons, "; ")
	case failed == len(names):
		result.Status = models.VerificationStatusFailed
		result.Reason = strings.Join(reasons, "; ")
	default:
		result.Status = models.VerificationStatusUnverified
	}
}

var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)
