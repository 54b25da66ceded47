package nftlabs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArtifact(t *testing.T) {
	t.Run("hardhat", func(t *testing.T) {
		artifact, err := ParseArtifact([]byte(`{"contractName":"ERC721Mintable","bytecode":"0x6080604052"}`))
		require.NoError(t, err)
		assert.Equal(t, "ERC721Mintable", artifact.ContractName)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, artifact.Bytecode)
	})

	t.Run("foundry", func(t *testing.T) {
		artifact, err := ParseArtifact([]byte(`{"bytecode":{"object":"0x6080","sourceMap":""}}`))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80}, artifact.Bytecode)
	})

	t.Run("without prefix", func(t *testing.T) {
		artifact, err := ParseArtifact([]byte(`{"bytecode":"6080"}`))
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80}, artifact.Bytecode)
	})

	t.Run("empty bytecode", func(t *testing.T) {
		_, err := ParseArtifact([]byte(`{"bytecode":"0x"}`))
		assert.True(t, errors.Is(err, errs.InvalidArgument))
	})

	t.Run("invalid hex", func(t *testing.T) {
		_, err := ParseArtifact([]byte(`{"bytecode":"0xzz"}`))
		assert.True(t, errors.Is(err, errs.InvalidArgument))
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := ParseArtifact([]byte(`{`))
		var unmarshalErr *UnmarshalError
		assert.ErrorAs(t, err, &unmarshalErr)
	})
}

func TestLoadArtifact(t *testing.T) {
	_, err := LoadArtifact("")
	assert.True(t, errors.Is(err, errs.MissingConfig))

	_, err = LoadArtifact(filepath.Join(t.TempDir(), "out", "ERC721Mintable.json"))
	assert.True(t, errors.Is(err, errs.MissingConfig), "got %v", err)

	path := filepath.Join(t.TempDir(), "ERC721Mintable.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bytecode":"0x60"}`), 0o600))
	artifact, err := LoadArtifact(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60}, artifact.Bytecode)
}

func TestDeployParamsValidate(t *testing.T) {
	assert.NoError(t, DeployParams{Name: "1507Contract", Symbol: "EM", ContractURI: "ipfs://c"}.validate())
	assert.Error(t, DeployParams{Symbol: "EM", ContractURI: "ipfs://c"}.validate())
	assert.Error(t, DeployParams{Name: "1507Contract", ContractURI: "ipfs://c"}.validate())
	assert.Error(t, DeployParams{Name: "1507Contract", Symbol: "EM"}.validate())
}
