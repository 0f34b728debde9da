package adapters

import (
	"github.com/google/wire"
	"github.com/jpegd/jdeploy/internal/adapters/artifacts"
	"github.com/jpegd/jdeploy/internal/adapters/blockchain"
	internalconfig "github.com/jpegd/jdeploy/internal/adapters/config"
	"github.com/jpegd/jdeploy/internal/adapters/fs"
	"github.com/jpegd/jdeploy/internal/adapters/interactive"
	"github.com/jpegd/jdeploy/internal/adapters/signer"
	"github.com/jpegd/jdeploy/internal/adapters/verification"
	"github.com/jpegd/jdeploy/internal/config"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/afero"
)

// ProvideFs provides the OS filesystem
func ProvideFs() afero.Fs {
	return afero.NewOsFs()
}

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	ProvideFs,

	fs.NewRegistryStoreAdapter,
	wire.Bind(new(usecase.RegistryStore), new(*fs.RegistryStoreAdapter)),

	fs.NewJournalStoreAdapter,
	wire.Bind(new(usecase.JournalStore), new(*fs.JournalStoreAdapter)),

	fs.NewNetworkConfigStoreAdapter,
	wire.Bind(new(usecase.NetworkConfigStore), new(*fs.NetworkConfigStoreAdapter)),

	fs.NewPlanLoaderAdapter,
	wire.Bind(new(usecase.PlanLoader), new(*fs.PlanLoaderAdapter)),
)

// ArtifactSet provides compiled artifact lookup
var ArtifactSet = wire.NewSet(
	artifacts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*artifacts.Repository)),
)

// BlockchainSet provides the RPC client; one client serves every chain-facing port
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Client)),
	wire.Bind(new(usecase.OwnershipManager), new(*blockchain.Client)),
	wire.Bind(new(usecase.GuardClient), new(*blockchain.Client)),
)

// SignerSet provides sender resolution
var SignerSet = wire.NewSet(
	signer.NewResolver,
	wire.Bind(new(usecase.SignerResolver), new(*signer.Resolver)),
)

// VerificationSet provides forge-based source verification
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.StepSelector), new(*interactive.SelectorAdapter)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	internalconfig.NewNetworkResolverAdapter,
	wire.Bind(new(usecase.NetworkResolver), new(*internalconfig.NetworkResolverAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	ArtifactSet,
	BlockchainSet,
	SignerSet,
	VerificationSet,
	InteractiveSet,
	ConfigSet,
)
