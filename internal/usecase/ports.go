package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
)

// RegistryStore persists the per-network address registry
type RegistryStore interface {
	// Load returns the registry for a network, empty when none was written yet
	Load(ctx context.Context, network string) (domain.AddressRegistry, error)
	// Save atomically replaces the registry file
	Save(ctx context.Context, network string, registry domain.AddressRegistry) error
}

// JournalStore persists the per-network step journal
type JournalStore interface {
	Load(ctx context.Context, network string, chainID uint64) (*domain.Journal, error)
	Save(ctx context.Context, journal *domain.Journal) error
}

// NetworkConfigStore reads config/<network>.json role files
type NetworkConfigStore interface {
	Load(ctx context.Context, network string) (*domain.NetworkConfig, error)
}

// PlanLoader reads the declarative deployment plan
type PlanLoader interface {
	Load(ctx context.Context) (*domain.Plan, error)
}

// ArtifactRepository provides compiled contract artifacts
type ArtifactRepository interface {
	Get(ctx context.Context, name string) (*models.Artifact, error)
}

// NetworkResolver resolves network names to connection details
type NetworkResolver interface {
	GetNetworks(ctx context.Context) []string
	ResolveNetwork(ctx context.Context, name string) (*config.Network, error)
}

// SignerResolver resolves the sender configured for the active network
type SignerResolver interface {
	Resolve(ctx context.Context) (*models.Signer, error)
}

// ProxyRequest describes an upgradeable deployment
type ProxyRequest struct {
	Implementation     *models.Artifact
	ImplementationArgs []any
	Proxy              *models.Artifact
	Admin              *models.Artifact
	// ExistingAdmin is reused when non-zero; otherwise a new admin is deployed
	ExistingAdmin common.Address
	InitData      []byte
}

// UpgradeRequest points an existing proxy at a new implementation
type UpgradeRequest struct {
	Implementation     *models.Artifact
	ImplementationArgs []any
	Admin              *models.Artifact
	AdminAddress       common.Address
	Proxy              common.Address
	CallData           []byte
}

// ContractDeployer creates contracts on-chain and waits for them to be mined
type ContractDeployer interface {
	Deploy(ctx context.Context, signer *models.Signer, artifact *models.Artifact, args ...any) (*models.DeployedContract, error)
	DeployProxy(ctx context.Context, signer *models.Signer, req ProxyRequest) (*models.ProxyDeployment, error)
	Upgrade(ctx context.Context, signer *models.Signer, req UpgradeRequest) (*models.ProxyDeployment, error)
}

// OwnershipManager reads and transfers Ownable ownership
type OwnershipManager interface {
	Owner(ctx context.Context, contract common.Address) (common.Address, error)
	TransferOwnership(ctx context.Context, signer *models.Signer, contract, newOwner common.Address) (*models.TxResult, error)
}

// GuardClient talks to contracts protected by the contract-caller guard
type GuardClient interface {
	HasCode(ctx context.Context, addr common.Address) (bool, error)
	IsWhitelisted(ctx context.Context, guard, account common.Address) (bool, error)
	SetWhitelisted(ctx context.Context, signer *models.Signer, guard, account common.Address, allowed bool) (*models.TxResult, error)
}

// ContractVerifier submits source verification to block explorers
type ContractVerifier interface {
	Verify(ctx context.Context, req models.VerificationRequest, network *config.Network) (*models.VerificationResult, error)
}

// Confirmer asks the user before an irreversible action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// StepSelector lets the user pick a plan step interactively
type StepSelector interface {
	SelectStep(ctx context.Context, steps []string, prompt string) (string, error)
}

// Progress tracking interfaces

// ExecutionStage is the phase a plan step is currently in
type ExecutionStage string

const (
	StageDeploying    ExecutionStage = "deploying"
	StageTransferring ExecutionStage = "transferring"
	StageVerifying    ExecutionStage = "verifying"
	StageSkipped      ExecutionStage = "skipped"
	StageCompleted    ExecutionStage = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Step    string
	Stage   ExecutionStage
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
