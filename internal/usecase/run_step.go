package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
)

// RunStep deploys a single plan step: deploy, record, hand ownership to the
// DAO, verify. Each phase is journaled so a failed run resumes where it stopped.
type RunStep struct {
	cfg       *config.RuntimeConfig
	plans     PlanLoader
	registry  RegistryStore
	journal   JournalStore
	netConfig NetworkConfigStore
	artifacts ArtifactRepository
	signers   SignerResolver
	deployer  ContractDeployer
	ownership OwnershipManager
	verifier  ContractVerifier
	confirmer Confirmer
	progress  ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewRunStep creates a new RunStep use case
func NewRunStep(
	cfg *config.RuntimeConfig,
	plans PlanLoader,
	registry RegistryStore,
	journal JournalStore,
	netConfig NetworkConfigStore,
	artifacts ArtifactRepository,
	signers SignerResolver,
	deployer ContractDeployer,
	ownership OwnershipManager,
	verifier ContractVerifier,
	confirmer Confirmer,
	progress ProgressSink,
	log *slog.Logger,
) *RunStep {
	return &RunStep{
		cfg:       cfg,
		plans:     plans,
		registry:  registry,
		journal:   journal,
		netConfig: netConfig,
		artifacts: artifacts,
		signers:   signers,
		deployer:  deployer,
		ownership: ownership,
		verifier:  verifier,
		confirmer: confirmer,
		progress:  progress,
		log:       log.With("usecase", "run"),
		now:       time.Now,
	}
}

// RunStepParams contains parameters for running a step
type RunStepParams struct {
	Step string
	// Force redeploys even when the journal has a resume point
	Force      bool
	SkipVerify bool
	// Yes skips the ownership transfer confirmation
	Yes bool
}

// RunStepResult describes what happened to a step
type RunStepResult struct {
	Step  *domain.Step
	Entry *domain.JournalEntry
	// Resumed is set when deployment was skipped because the journal showed it done
	Resumed bool
	// RegistryUpdates are the keys written to the address registry by this run
	RegistryUpdates map[string]string
	// OwnershipTx is set when transferOwnership was sent in this run
	OwnershipTx *models.TxResult
	// OwnerAlreadySet is set when the contract was already owned by the target
	OwnerAlreadySet bool
	Verification    *models.VerificationResult
}

// session is the state shared by all steps of one invocation
type session struct {
	network  *config.Network
	plan     *domain.Plan
	registry domain.AddressRegistry
	journal  *domain.Journal
	config   *domain.NetworkConfig
	signer   *models.Signer
	// position of the step within a compose run, zero otherwise
	current, total int
}

// Run executes the step named in params
func (uc *RunStep) Run(ctx context.Context, params RunStepParams) (*RunStepResult, error) {
	s, err := uc.openSession(ctx)
	if err != nil {
		return nil, err
	}
	step, err := lookupStep(s.plan, params.Step)
	if err != nil {
		return nil, err
	}
	return uc.execute(ctx, s, step, params)
}

// Steps lists the plan's step names in execution order
func (uc *RunStep) Steps(ctx context.Context) ([]string, error) {
	plan, err := uc.plans.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment plan: %w", err)
	}
	order, err := plan.Order()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(order))
	for i, step := range order {
		names[i] = step.Name
	}
	return names, nil
}

func (uc *RunStep) openSession(ctx context.Context) (*session, error) {
	network := uc.cfg.Network
	if network == nil {
		return nil, domain.ErrNoNetwork
	}

	plan, err := uc.plans.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load deployment plan: %w", err)
	}
	registry, err := uc.registry.Load(ctx, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load address registry: %w", err)
	}
	journal, err := uc.journal.Load(ctx, network.Name, network.ChainID)
	if err != nil {
		return nil, fmt.Errorf("failed to load journal: %w", err)
	}
	netConfig, err := loadNetworkConfig(ctx, uc.netConfig, network.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load network config: %w", err)
	}
	signer, err := uc.signers.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	return &session{
		network:  network,
		plan:     plan,
		registry: registry,
		journal:  journal,
		config:   netConfig,
		signer:   signer,
	}, nil
}

func (uc *RunStep) execute(ctx context.Context, s *session, step *domain.Step, params RunStepParams) (*RunStepResult, error) {
	log := uc.log.With("step", step.Name, "network", s.network.Name)
	result := &RunStepResult{Step: step, RegistryUpdates: make(map[string]string)}

	artifact, err := uc.artifacts.Get(ctx, step.Contract)
	if err != nil {
		return nil, err
	}

	entry, resumed := s.journal.ResumePoint(step.Name, s.registry)
	if resumed && !params.Force {
		log.Debug("resuming after deployment", "address", entry.Address, "phase", entry.Phase)
		uc.report(ctx, s, step, StageSkipped, fmt.Sprintf("%s already deployed at %s (%s)", step.Contract, entry.Address, entry.Phase), false)
		result.Resumed = true
	} else {
		entry, err = uc.deploy(ctx, s, step, artifact, result)
		if err != nil {
			return nil, err
		}
	}
	result.Entry = entry

	if step.TransferOwnership && !entry.Phase.AtLeast(domain.PhaseOwned) {
		if err := uc.transferOwnership(ctx, s, step, entry, params, result); err != nil {
			return result, err
		}
	}

	if step.ShouldVerify(uc.cfg.Project.Params.Verify) && !params.SkipVerify && !entry.Phase.AtLeast(domain.PhaseVerified) {
		if err := uc.verify(ctx, s, step, artifact, entry, result); err != nil {
			return result, err
		}
	}

	uc.report(ctx, s, step, StageCompleted, "", false)
	return result, nil
}

// deploy instantiates the contract, then records it in the registry and journal
func (uc *RunStep) deploy(ctx context.Context, s *session, step *domain.Step, artifact *models.Artifact, result *RunStepResult) (*domain.JournalEntry, error) {
	sources := &domain.ArgSources{
		Registry: s.registry,
		Config:   s.config,
		Params:   &uc.cfg.Project.Params,
		Signer:   s.signer.Address,
	}

	entry := &domain.JournalEntry{
		Step:        step.Name,
		Contract:    step.Contract,
		Kind:        step.EffectiveKind(),
		Phase:       domain.PhaseDeployed,
		RegistryKey: step.Registry,
	}
	set := func(key string, addr common.Address) {
		s.registry.Set(key, addr)
		result.RegistryUpdates[key] = addr.Hex()
	}

	switch step.EffectiveKind() {
	case domain.StepDeploy:
		args, err := sources.ConvertArgs(artifact.ABI.Constructor.Inputs, step.Args)
		if err != nil {
			return nil, fmt.Errorf("step %s: %w", step.Name, err)
		}
		uc.report(ctx, s, step, StageDeploying, fmt.Sprintf("Deploying %s", step.Contract), true)
		deployed, err := uc.deployer.Deploy(ctx, s.signer, artifact, args...)
		if err != nil {
			return nil, err
		}
		set(step.Registry, deployed.Address)
		entry.Address = deployed.Address.Hex()
		entry.DeployTx = deployed.TxHash.Hex()
		entry.ConstructorArgs = encodeArgs(deployed.ConstructorArgs)

	case domain.StepProxy:
		req, err := uc.proxyRequest(ctx, s, step, artifact, sources)
		if err != nil {
			return nil, err
		}
		uc.report(ctx, s, step, StageDeploying, fmt.Sprintf("Deploying %s behind %s", step.Contract, req.Proxy.Name), true)
		deployed, err := uc.deployer.DeployProxy(ctx, s.signer, req)
		if err != nil {
			return nil, err
		}
		set(step.Registry, deployed.Proxy.Address)
		if step.ImplementationKey != "" {
			set(step.ImplementationKey, deployed.Implementation.Address)
		}
		if deployed.Admin != nil {
			set(uc.cfg.Project.Proxy.AdminKey, deployed.Admin.Address)
		}
		entry.Address = deployed.Proxy.Address.Hex()
		entry.DeployTx = deployed.Proxy.TxHash.Hex()
		entry.Implementation = deployed.Implementation.Address.Hex()
		entry.ImplementationTx = deployed.Implementation.TxHash.Hex()
		entry.ConstructorArgs = encodeArgs(deployed.Implementation.ConstructorArgs)

	case domain.StepUpgrade:
		req, err := uc.upgradeRequest(ctx, s, step, artifact, sources)
		if err != nil {
			return nil, err
		}
		uc.report(ctx, s, step, StageDeploying, fmt.Sprintf("Upgrading %s to a new %s", step.Registry, step.Contract), true)
		upgraded, err := uc.deployer.Upgrade(ctx, s.signer, req)
		if err != nil {
			return nil, err
		}
		if step.ImplementationKey != "" {
			set(step.ImplementationKey, upgraded.Implementation.Address)
		}
		entry.Address = upgraded.Proxy.Address.Hex()
		entry.DeployTx = upgraded.Proxy.TxHash.Hex()
		entry.Implementation = upgraded.Implementation.Address.Hex()
		entry.ImplementationTx = upgraded.Implementation.TxHash.Hex()
		entry.ConstructorArgs = encodeArgs(upgraded.Implementation.ConstructorArgs)

	default:
		return nil, fmt.Errorf("%w: step %s has unknown kind %q", domain.ErrInvalidPlan, step.Name, step.Kind)
	}

	// Registry first: it is what downstream steps and tooling read
	if err := uc.registry.Save(ctx, s.network.Name, s.registry); err != nil {
		return nil, fmt.Errorf("deployed %s at %s but failed to save registry: %w", step.Contract, entry.Address, err)
	}
	s.journal.Record(entry, uc.now())
	if err := uc.journal.Save(ctx, s.journal); err != nil {
		return nil, fmt.Errorf("deployed %s at %s but failed to save journal: %w", step.Contract, entry.Address, err)
	}

	uc.log.Info("deployed", "step", step.Name, "contract", step.Contract, "address", entry.Address, "tx", entry.DeployTx)
	return s.journal.Entry(step.Name), nil
}

func (uc *RunStep) proxyRequest(ctx context.Context, s *session, step *domain.Step, impl *models.Artifact, sources *domain.ArgSources) (ProxyRequest, error) {
	proxyCfg := uc.cfg.Project.Proxy

	implArgs, err := sources.ConvertArgs(impl.ABI.Constructor.Inputs, step.Args)
	if err != nil {
		return ProxyRequest{}, fmt.Errorf("step %s: %w", step.Name, err)
	}
	initData, err := initializerCall(step, impl, sources)
	if err != nil {
		return ProxyRequest{}, err
	}
	proxy, err := uc.artifacts.Get(ctx, proxyCfg.ProxyArtifact)
	if err != nil {
		return ProxyRequest{}, err
	}
	admin, err := uc.artifacts.Get(ctx, proxyCfg.AdminArtifact)
	if err != nil {
		return ProxyRequest{}, err
	}

	req := ProxyRequest{
		Implementation:     impl,
		ImplementationArgs: implArgs,
		Proxy:              proxy,
		Admin:              admin,
		InitData:           initData,
	}
	if s.registry.Has(proxyCfg.AdminKey) {
		req.ExistingAdmin, err = s.registry.Require(proxyCfg.AdminKey)
		if err != nil {
			return ProxyRequest{}, err
		}
	}
	return req, nil
}

func (uc *RunStep) upgradeRequest(ctx context.Context, s *session, step *domain.Step, impl *models.Artifact, sources *domain.ArgSources) (UpgradeRequest, error) {
	proxy, err := s.registry.Require(step.Registry)
	if err != nil {
		return UpgradeRequest{}, fmt.Errorf("step %s upgrades a proxy that was never deployed: %w", step.Name, err)
	}
	adminAddr, err := s.registry.Require(uc.cfg.Project.Proxy.AdminKey)
	if err != nil {
		return UpgradeRequest{}, err
	}
	implArgs, err := sources.ConvertArgs(impl.ABI.Constructor.Inputs, step.Args)
	if err != nil {
		return UpgradeRequest{}, fmt.Errorf("step %s: %w", step.Name, err)
	}
	callData, err := initializerCall(step, impl, sources)
	if err != nil {
		return UpgradeRequest{}, err
	}
	admin, err := uc.artifacts.Get(ctx, uc.cfg.Project.Proxy.AdminArtifact)
	if err != nil {
		return UpgradeRequest{}, err
	}

	return UpgradeRequest{
		Implementation:     impl,
		ImplementationArgs: implArgs,
		Admin:              admin,
		AdminAddress:       adminAddr,
		Proxy:              proxy,
		CallData:           callData,
	}, nil
}

// initializerCall encodes the step's initializer, nil when it has none
func initializerCall(step *domain.Step, impl *models.Artifact, sources *domain.ArgSources) ([]byte, error) {
	if step.Initializer == "" {
		return nil, nil
	}
	method, ok := impl.ABI.Methods[step.Initializer]
	if !ok {
		return nil, fmt.Errorf("step %s: %s has no initializer %q", step.Name, step.Contract, step.Initializer)
	}
	args, err := sources.ConvertArgs(method.Inputs, step.InitializerArgs)
	if err != nil {
		return nil, fmt.Errorf("step %s initializer: %w", step.Name, err)
	}
	data, err := impl.ABI.Pack(step.Initializer, args...)
	if err != nil {
		return nil, fmt.Errorf("step %s: failed to encode initializer: %w", step.Name, err)
	}
	return data, nil
}

// targetOwner is the step's owner role when set, else the DAO from params or the network config
func (uc *RunStep) targetOwner(s *session, step *domain.Step) (common.Address, error) {
	if step.Owner != "" {
		return resolveAddress(step.Owner, s.config, s.registry)
	}
	if dao := uc.cfg.Project.Params.DAO; dao != "" {
		if !common.IsHexAddress(dao) {
			return common.Address{}, fmt.Errorf("params.dao: %w: %s", domain.ErrInvalidAddress, dao)
		}
		return common.HexToAddress(dao), nil
	}
	return s.config.Address(domain.DAOKey)
}

func (uc *RunStep) transferOwnership(ctx context.Context, s *session, step *domain.Step, entry *domain.JournalEntry, params RunStepParams, result *RunStepResult) error {
	owner, err := uc.targetOwner(s, step)
	if err != nil {
		return fmt.Errorf("step %s: %w", step.Name, err)
	}
	contract := common.HexToAddress(entry.Address)

	uc.report(ctx, s, step, StageTransferring, fmt.Sprintf("Checking owner of %s", step.Registry), true)
	current, err := uc.ownership.Owner(ctx, contract)
	if err != nil {
		return fmt.Errorf("failed to read owner of %s: %w", step.Registry, err)
	}

	if current == owner {
		result.OwnerAlreadySet = true
	} else {
		if current != s.signer.Address {
			return fmt.Errorf("%w: %s is owned by %s, signer is %s", domain.ErrNotOwner, step.Registry, current.Hex(), s.signer.Address.Hex())
		}

		prompt := fmt.Sprintf("Transfer ownership of %s (%s) to %s", step.Registry, contract.Hex(), owner.Hex())
		if err := confirm(ctx, uc.confirmer, params.Yes || uc.cfg.NonInteractive, prompt); err != nil {
			return fmt.Errorf("ownership of %s not transferred: %w", step.Registry, err)
		}

		uc.report(ctx, s, step, StageTransferring, fmt.Sprintf("Transferring ownership of %s to %s", step.Registry, owner.Hex()), true)
		tx, err := uc.ownership.TransferOwnership(ctx, s.signer, contract, owner)
		if err != nil {
			return err
		}
		result.OwnershipTx = tx
		entry.OwnershipTx = tx.TxHash.Hex()
	}

	entry.Owner = owner.Hex()
	if err := s.journal.Advance(step.Name, domain.PhaseOwned, uc.now()); err != nil {
		return err
	}
	if err := uc.journal.Save(ctx, s.journal); err != nil {
		return fmt.Errorf("ownership of %s transferred but failed to save journal: %w", step.Registry, err)
	}
	return nil
}

// verify submits the address this step produced: the implementation for
// proxies and upgrades, the contract itself otherwise
func (uc *RunStep) verify(ctx context.Context, s *session, step *domain.Step, artifact *models.Artifact, entry *domain.JournalEntry, result *RunStepResult) error {
	req, err := verificationRequest(artifact, entry)
	if err != nil {
		return err
	}

	uc.report(ctx, s, step, StageVerifying, fmt.Sprintf("Verifying %s at %s", step.Contract, req.Address.Hex()), true)
	verification, err := uc.verifier.Verify(ctx, req, s.network)
	result.Verification = verification
	if err != nil {
		return err
	}

	entry.VerificationURL = verification.URL
	if err := s.journal.Advance(step.Name, domain.PhaseVerified, uc.now()); err != nil {
		return err
	}
	return uc.journal.Save(ctx, s.journal)
}

func verificationRequest(artifact *models.Artifact, entry *domain.JournalEntry) (models.VerificationRequest, error) {
	target := entry.Address
	if entry.Implementation != "" {
		target = entry.Implementation
	}
	var args []byte
	if entry.ConstructorArgs != "" {
		decoded, err := hexutil.Decode(entry.ConstructorArgs)
		if err != nil {
			return models.VerificationRequest{}, fmt.Errorf("journal entry %s has malformed constructor args: %w", entry.Step, err)
		}
		args = decoded
	}
	return models.VerificationRequest{
		Artifact:        artifact,
		Address:         common.HexToAddress(target),
		ConstructorArgs: args,
	}, nil
}

func (uc *RunStep) report(ctx context.Context, s *session, step *domain.Step, stage ExecutionStage, message string, spin bool) {
	uc.progress.OnProgress(ctx, ProgressEvent{
		Step:    step.Name,
		Stage:   stage,
		Current: s.current,
		Total:   s.total,
		Message: message,
		Spinner: spin,
	})
}

func encodeArgs(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return hexutil.Encode(b)
}
