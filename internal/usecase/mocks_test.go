package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/stretchr/testify/require"
)

var (
	signerAddr = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	daoAddr    = common.HexToAddress("0x51Ad7d2a6D6D30Fa1F9eA1d9A2FaE7A0fE0e2B4A")
	usdcAddr   = common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	fixedNow   = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
)

type memRegistry struct {
	data  map[string]domain.AddressRegistry
	saves int
	err   error
}

func newMemRegistry() *memRegistry {
	return &memRegistry{data: make(map[string]domain.AddressRegistry)}
}

func (m *memRegistry) Load(ctx context.Context, network string) (domain.AddressRegistry, error) {
	if reg, ok := m.data[network]; ok {
		return reg.Clone(), nil
	}
	return domain.NewAddressRegistry(), nil
}

func (m *memRegistry) Save(ctx context.Context, network string, registry domain.AddressRegistry) error {
	if m.err != nil {
		return m.err
	}
	m.saves++
	m.data[network] = registry.Clone()
	return nil
}

type memJournal struct {
	data  map[string]*domain.Journal
	saves int
}

func newMemJournal() *memJournal {
	return &memJournal{data: make(map[string]*domain.Journal)}
}

// Load hands out a copy so each run sees only what was saved
func (m *memJournal) Load(ctx context.Context, network string, chainID uint64) (*domain.Journal, error) {
	stored, ok := m.data[network]
	if !ok {
		return domain.NewJournal(network, chainID), nil
	}
	j := domain.NewJournal(stored.Network, stored.ChainID)
	for name, entry := range stored.Steps {
		e := *entry
		j.Steps[name] = &e
	}
	return j, nil
}

func (m *memJournal) Save(ctx context.Context, journal *domain.Journal) error {
	m.saves++
	j := domain.NewJournal(journal.Network, journal.ChainID)
	for name, entry := range journal.Steps {
		e := *entry
		j.Steps[name] = &e
	}
	m.data[journal.Network] = j
	return nil
}

type fakeNetConfig struct {
	configs map[string]*domain.NetworkConfig
}

func (f *fakeNetConfig) Load(ctx context.Context, network string) (*domain.NetworkConfig, error) {
	cfg, ok := f.configs[network]
	if !ok {
		return nil, fmt.Errorf("config/%s.json: %w", network, domain.ErrNotFound)
	}
	return cfg, nil
}

type fakePlans struct {
	plan *domain.Plan
	err  error
}

func (f *fakePlans) Load(ctx context.Context) (*domain.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	if err := f.plan.Validate(); err != nil {
		return nil, err
	}
	return f.plan, nil
}

type fakeArtifacts map[string]*models.Artifact

func (f fakeArtifacts) Get(ctx context.Context, name string) (*models.Artifact, error) {
	a, ok := f[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrContractNotFound, name)
	}
	return a, nil
}

type fakeSigners struct {
	signer *models.Signer
	err    error
}

func (f *fakeSigners) Resolve(ctx context.Context) (*models.Signer, error) {
	return f.signer, f.err
}

// fakeChain is an in-memory chain: deployed contracts have code and are owned by their deployer
type fakeChain struct {
	next        int64
	code        map[common.Address]bool
	owners      map[common.Address]common.Address
	whitelisted map[common.Address]map[common.Address]bool

	deploys   []string
	proxies   []ProxyRequest
	upgrades  []UpgradeRequest
	transfers []common.Address
	ownerCall int
	setCalls  int

	transferErr error
	deployErr   error
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		next:        0x1000,
		code:        make(map[common.Address]bool),
		owners:      make(map[common.Address]common.Address),
		whitelisted: make(map[common.Address]map[common.Address]bool),
	}
}

func (c *fakeChain) create(signer *models.Signer, args []byte) models.DeployedContract {
	c.next++
	addr := common.BigToAddress(big.NewInt(c.next))
	c.code[addr] = true
	c.owners[addr] = signer.Address
	return models.DeployedContract{Address: addr, TxHash: common.BigToHash(big.NewInt(c.next)), ConstructorArgs: args}
}

func (c *fakeChain) Deploy(ctx context.Context, signer *models.Signer, artifact *models.Artifact, args ...any) (*models.DeployedContract, error) {
	if c.deployErr != nil {
		return nil, c.deployErr
	}
	packed, err := artifact.ABI.Pack("", args...)
	if err != nil {
		return nil, err
	}
	c.deploys = append(c.deploys, artifact.Name)
	d := c.create(signer, packed)
	return &d, nil
}

func (c *fakeChain) DeployProxy(ctx context.Context, signer *models.Signer, req ProxyRequest) (*models.ProxyDeployment, error) {
	c.proxies = append(c.proxies, req)
	packed, err := req.Implementation.ABI.Pack("", req.ImplementationArgs...)
	if err != nil {
		return nil, err
	}
	out := &models.ProxyDeployment{Implementation: c.create(signer, packed)}
	out.AdminAddress = req.ExistingAdmin
	if req.ExistingAdmin == (common.Address{}) {
		admin := c.create(signer, nil)
		out.Admin = &admin
		out.AdminAddress = admin.Address
	}
	out.Proxy = c.create(signer, nil)
	return out, nil
}

func (c *fakeChain) Upgrade(ctx context.Context, signer *models.Signer, req UpgradeRequest) (*models.ProxyDeployment, error) {
	c.upgrades = append(c.upgrades, req)
	impl := c.create(signer, nil)
	c.next++
	return &models.ProxyDeployment{
		Proxy:          models.DeployedContract{Address: req.Proxy, TxHash: common.BigToHash(big.NewInt(c.next))},
		Implementation: impl,
		AdminAddress:   req.AdminAddress,
	}, nil
}

func (c *fakeChain) Owner(ctx context.Context, contract common.Address) (common.Address, error) {
	c.ownerCall++
	if !c.code[contract] {
		return common.Address{}, domain.ErrNotAContract
	}
	return c.owners[contract], nil
}

func (c *fakeChain) TransferOwnership(ctx context.Context, signer *models.Signer, contract, newOwner common.Address) (*models.TxResult, error) {
	c.transfers = append(c.transfers, contract)
	if c.transferErr != nil {
		return nil, c.transferErr
	}
	if c.owners[contract] != signer.Address {
		return nil, &domain.RevertError{Reason: "Ownable: caller is not the owner"}
	}
	c.owners[contract] = newOwner
	c.next++
	return &models.TxResult{TxHash: common.BigToHash(big.NewInt(c.next)), BlockNumber: uint64(c.next)}, nil
}

func (c *fakeChain) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	return c.code[addr], nil
}

func (c *fakeChain) IsWhitelisted(ctx context.Context, guard, account common.Address) (bool, error) {
	return c.whitelisted[guard][account], nil
}

func (c *fakeChain) SetWhitelisted(ctx context.Context, signer *models.Signer, guard, account common.Address, allowed bool) (*models.TxResult, error) {
	c.setCalls++
	if c.owners[guard] != signer.Address {
		return nil, &domain.RevertError{}
	}
	if c.whitelisted[guard] == nil {
		c.whitelisted[guard] = make(map[common.Address]bool)
	}
	c.whitelisted[guard][account] = allowed
	return &models.TxResult{BlockNumber: 1}, nil
}

type fakeVerifier struct {
	requests []models.VerificationRequest
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, req models.VerificationRequest, network *config.Network) (*models.VerificationResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return &models.VerificationResult{Status: models.VerificationStatusFailed}, f.err
	}
	return &models.VerificationResult{
		Status: models.VerificationStatusVerified,
		URL:    "https://etherscan.io/address/" + req.Address.Hex() + "#code",
	}, nil
}

type fakeConfirmer struct {
	answer  bool
	err     error
	prompts []string
}

func (f *fakeConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	f.prompts = append(f.prompts, prompt)
	return f.answer, f.err
}

type recordingSink struct {
	events []ProgressEvent
}

func (r *recordingSink) OnProgress(ctx context.Context, event ProgressEvent) {
	r.events = append(r.events, event)
}
func (r *recordingSink) Info(string)  {}
func (r *recordingSink) Error(string) {}

func testArtifact(t *testing.T, name, abiJSON string) *models.Artifact {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)
	return &models.Artifact{Name: name, ABI: parsed, Bytecode: []byte{0x60, 0x00}, Source: "src/" + name + ".sol"}
}

const (
	jpegABI = `[
  {"type":"constructor","inputs":[{"name":"dao","type":"address"},{"name":"supply","type":"uint256"}]},
  {"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
]`
	saleABI = `[
  {"type":"constructor","inputs":[{"name":"jpeg","type":"address"},{"name":"usdc","type":"address"}]}
]`
	vaultABI = `[
  {"type":"function","name":"initialize","inputs":[{"name":"jpeg","type":"address"},{"name":"fee","type":"uint16"}],"outputs":[],"stateMutability":"nonpayable"}
]`
	emptyABI = `[]`
)

type testEnv struct {
	cfg       *config.RuntimeConfig
	plan      *domain.Plan
	registry  *memRegistry
	journal   *memJournal
	netConfig *fakeNetConfig
	artifacts fakeArtifacts
	signers   *fakeSigners
	chain     *fakeChain
	verifier  *fakeVerifier
	confirmer *fakeConfirmer
	sink      *recordingSink
}

func boolPtr(b bool) *bool { return &b }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	project := &config.ProjectConfig{
		Params: config.DeployParams{
			Verify: true,
			DAO:    daoAddr.Hex(),
			Tokens: map[string]string{"usdc": usdcAddr.Hex()},
			Values: map[string]string{"supply": "1000000"},
		},
	}
	project.Defaults()

	return &testEnv{
		cfg: &config.RuntimeConfig{
			ProjectRoot:    "/project",
			Network:        &config.Network{Name: "sepolia", ChainID: 11155111, Sender: "deployer"},
			NonInteractive: true,
			Project:        project,
		},
		plan: &domain.Plan{Steps: map[string]*domain.Step{
			"jpeg": {
				Contract:          "JPEG",
				Args:              []string{"${params.dao}", "${params.values.supply}"},
				Registry:          "jpeg",
				TransferOwnership: true,
			},
			"tokenSale": {
				Contract: "TokenSale",
				Args:     []string{"${registry.jpeg}", "${params.tokens.usdc}"},
				Registry: "tokenSale",
				Verify:   boolPtr(false),
				Deps:     []string{"jpeg"},
			},
		}},
		registry: newMemRegistry(),
		journal:  newMemJournal(),
		netConfig: &fakeNetConfig{configs: map[string]*domain.NetworkConfig{
			"sepolia": domain.NewNetworkConfig("config/sepolia.json", map[string]any{
				"dao":         daoAddr.Hex(),
				"punksHelper": "0x00000000000000000000000000000000000000aa",
			}),
		}},
		artifacts: fakeArtifacts{
			"JPEG":                        testArtifact(t, "JPEG", jpegABI),
			"TokenSale":                   testArtifact(t, "TokenSale", saleABI),
			"NFTVault":                    testArtifact(t, "NFTVault", vaultABI),
			"ProxyAdmin":                  testArtifact(t, "ProxyAdmin", emptyABI),
			"TransparentUpgradeableProxy": testArtifact(t, "TransparentUpgradeableProxy", emptyABI),
		},
		signers:   &fakeSigners{signer: &models.Signer{Name: "deployer", Address: signerAddr}},
		chain:     newFakeChain(),
		verifier:  &fakeVerifier{},
		confirmer: &fakeConfirmer{answer: true},
		sink:      &recordingSink{},
	}
}

func (e *testEnv) runStep() *RunStep {
	uc := NewRunStep(
		e.cfg,
		&fakePlans{plan: e.plan},
		e.registry,
		e.journal,
		e.netConfig,
		e.artifacts,
		e.signers,
		e.chain,
		e.chain,
		e.verifier,
		e.confirmer,
		e.sink,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func (e *testEnv) savedRegistry() domain.AddressRegistry {
	return e.registry.data[e.cfg.Network.Name]
}

func (e *testEnv) savedEntry(step string) *domain.JournalEntry {
	return e.journal.data[e.cfg.Network.Name].Entry(step)
}
