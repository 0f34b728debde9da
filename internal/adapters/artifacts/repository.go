package artifacts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/jpegd/jdeploy/internal/domain/models"
	"github.com/jpegd/jdeploy/internal/usecase"
	"github.com/spf13/afero"
)

// rawArtifact covers both Foundry (bytecode.object) and Hardhat (bytecode string) layouts
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	Metadata     *solcMetadata   `json:"metadata"`
}

// solcMetadata is the subset of the solc metadata Foundry embeds in artifacts
type solcMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

type foundryBytecode struct {
	Object string `json:"object"`
}

// Repository finds compiled contract artifacts under the artifacts directory
type Repository struct {
	fs    afero.Fs
	root  string
	log   *slog.Logger
	mu    sync.Mutex
	index map[string][]string // contract name -> artifact paths
	cache map[string]*models.Artifact
}

// NewRepository creates an artifact repository for the configured artifacts path
func NewRepository(fsys afero.Fs, cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		fs:    fsys,
		root:  filepath.Join(cfg.ProjectRoot, cfg.Project.Paths.Artifacts),
		log:   log.With("component", "artifacts"),
		cache: make(map[string]*models.Artifact),
	}
}

// Get loads the artifact for a contract name. A name may be qualified with its
// source file ("TokenSale.sol:TokenSale") when several contracts share a name.
func (r *Repository) Get(ctx context.Context, name string) (*models.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.cache[name]; ok {
		return a, nil
	}
	if err := r.buildIndex(); err != nil {
		return nil, err
	}

	source, contract, qualified := strings.Cut(name, ":")
	if !qualified {
		contract, source = name, ""
	}

	candidates := r.index[contract]
	if source != "" {
		var filtered []string
		for _, p := range candidates {
			if filepath.Base(filepath.Dir(p)) == source {
				filtered = append(filtered, p)
			}
		}
		candidates = filtered
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("%w: no artifact for %s under %s", domain.ErrContractNotFound, name, r.root)
	case 1:
	default:
		return nil, fmt.Errorf("multiple artifacts match %s, qualify it with the source file: %s",
			name, strings.Join(candidates, ", "))
	}

	artifact, err := r.load(candidates[0], contract)
	if err != nil {
		return nil, err
	}
	r.cache[name] = artifact
	return artifact, nil
}

func (r *Repository) buildIndex() error {
	if r.index != nil {
		return nil
	}
	if _, err := r.fs.Stat(r.root); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("artifacts directory %s not found, compile the contracts first", r.root)
		}
		return err
	}

	index := make(map[string][]string)
	err := afero.Walk(r.fs, r.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".json" || strings.HasSuffix(path, ".dbg.json") {
			return nil
		}
		name := strings.TrimSuffix(info.Name(), ".json")
		index[name] = append(index[name], path)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to index artifacts: %w", err)
	}

	for name := range index {
		sort.Strings(index[name])
	}
	r.log.Debug("indexed artifacts", "root", r.root, "contracts", len(index))
	r.index = index
	return nil
}

func (r *Repository) load(path, name string) (*models.Artifact, error) {
	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}
	return ParseArtifact(name, path, data)
}

// ParseArtifact decodes a Foundry or Hardhat artifact
func ParseArtifact(name, path string, data []byte) (*models.Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if len(raw.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no abi", path)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi of %s: %w", path, err)
	}

	artifact := &models.Artifact{Name: name, Path: path, ABI: parsed, Source: raw.SourceName}
	if raw.Metadata != nil {
		artifact.CompilerVersion = raw.Metadata.Compiler.Version
		for source := range raw.Metadata.Settings.CompilationTarget {
			artifact.Source = source
		}
	}

	var code string
	var hardhat string
	var foundry foundryBytecode
	switch {
	case json.Unmarshal(raw.Bytecode, &hardhat) == nil:
		code, artifact.Format = hardhat, "hardhat"
	case json.Unmarshal(raw.Bytecode, &foundry) == nil:
		code, artifact.Format = foundry.Object, "foundry"
	default:
		return nil, fmt.Errorf("artifact %s has an unrecognised bytecode field", path)
	}

	if strings.Contains(code, "__$") {
		return nil, fmt.Errorf("artifact %s has unlinked library references", path)
	}
	if code == "" || code == "0x" {
		return nil, fmt.Errorf("artifact %s has no bytecode (abstract contract or interface?)", path)
	}
	if !strings.HasPrefix(code, "0x") {
		code = "0x" + code
	}
	artifact.Bytecode, err = hexutil.Decode(code)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}
	return artifact, nil
}

// Ensure the repository implements the interface
var _ usecase.ArtifactRepository = (*Repository)(nil)
