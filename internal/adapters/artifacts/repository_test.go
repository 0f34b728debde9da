package artifacts

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/jpegd/jdeploy/internal/domain"
	"github.com/jpegd/jdeploy/internal/domain/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownableABI = `[{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}]`

func newTestRepository(t *testing.T, files map[string]string) *Repository {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fsys, path, []byte(content), 0644))
	}
	project := &config.ProjectConfig{}
	project.Defaults()
	cfg := &config.RuntimeConfig{ProjectRoot: "/project", Project: project}
	return NewRepository(fsys, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRepository_Get(t *testing.T) {
	repo := newTestRepository(t, map[string]string{
		"/project/out/JPEG.sol/JPEG.json":               `{"abi":` + ownableABI + `,"bytecode":{"object":"0x6001"}}`,
		"/project/out/TokenSale.sol/TokenSale.json":     `{"abi":` + ownableABI + `,"bytecode":"0x6002"}`,
		"/project/out/TokenSale.sol/TokenSale.dbg.json": `{"buildInfo":"x"}`,
		"/project/out/build-info/abc.json":              `{"id":"abc"}`,
		"/project/out/IStaking.sol/IStaking.json":       `{"abi":[],"bytecode":{"object":"0x"}}`,
		"/project/out/Vault.sol/Helper.json":            `{"abi":[],"bytecode":{"object":"0x6003"}}`,
		"/project/out/Helpers.sol/Helper.json":          `{"abi":[],"bytecode":{"object":"0x6004"}}`,
		"/project/out/Linked.sol/Linked.json":           `{"abi":[],"bytecode":{"object":"0x73__$abc$__"}}`,
	})
	ctx := context.Background()

	t.Run("foundry layout", func(t *testing.T) {
		a, err := repo.Get(ctx, "JPEG")
		require.NoError(t, err)
		assert.Equal(t, "foundry", a.Format)
		assert.Equal(t, []byte{0x60, 0x01}, a.Bytecode)
		assert.True(t, a.HasMethod("owner"))
		assert.False(t, a.HasMethod("transferOwnership"))
	})

	t.Run("hardhat layout", func(t *testing.T) {
		a, err := repo.Get(ctx, "TokenSale")
		require.NoError(t, err)
		assert.Equal(t, "hardhat", a.Format)
		assert.Equal(t, []byte{0x60, 0x02}, a.Bytecode)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Get(ctx, "Staking")
		assert.ErrorIs(t, err, domain.ErrContractNotFound)
	})

	t.Run("interface without bytecode", func(t *testing.T) {
		_, err := repo.Get(ctx, "IStaking")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no bytecode")
	})

	t.Run("ambiguous name", func(t *testing.T) {
		_, err := repo.Get(ctx, "Helper")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "multiple artifacts match Helper")
	})

	t.Run("qualified name", func(t *testing.T) {
		a, err := repo.Get(ctx, "Vault.sol:Helper")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x03}, a.Bytecode)
	})

	t.Run("unlinked libraries", func(t *testing.T) {
		_, err := repo.Get(ctx, "Linked")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unlinked library")
	})
}

func TestRepository_MissingDirectory(t *testing.T) {
	repo := newTestRepository(t, nil)
	_, err := repo.Get(context.Background(), "JPEG")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile the contracts first")
}

func TestParseArtifact_SourceMetadata(t *testing.T) {
	t.Run("foundry compilation target", func(t *testing.T) {
		data := `{"abi":[],"bytecode":{"object":"0x6001"},"metadata":{"compiler":{"version":"0.8.20+commit.a1b79de6"},"settings":{"compilationTarget":{"src/tokens/JPEG.sol":"JPEG"}}}}`
		a, err := ParseArtifact("JPEG", "out/JPEG.sol/JPEG.json", []byte(data))
		require.NoError(t, err)
		assert.Equal(t, "src/tokens/JPEG.sol", a.Source)
		assert.Equal(t, "0.8.20+commit.a1b79de6", a.CompilerVersion)
		assert.Equal(t, "src/tokens/JPEG.sol:JPEG", a.VerifyTarget())
	})

	t.Run("hardhat source name", func(t *testing.T) {
		data := `{"contractName":"JPEG","sourceName":"contracts/tokens/JPEG.sol","abi":[],"bytecode":"0x6001"}`
		a, err := ParseArtifact("JPEG", "artifacts/JPEG.json", []byte(data))
		require.NoError(t, err)
		assert.Equal(t, "contracts/tokens/JPEG.sol:JPEG", a.VerifyTarget())
		assert.Empty(t, a.CompilerVersion)
	})

	t.Run("no source", func(t *testing.T) {
		a, err := ParseArtifact("JPEG", "out/JPEG.sol/JPEG.json", []byte(`{"abi":[],"bytecode":{"object":"0x6001"}}`))
		require.NoError(t, err)
		assert.Equal(t, "JPEG", a.VerifyTarget())
	})
}
