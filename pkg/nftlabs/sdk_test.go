package nftlabs

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	testAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
)

// memoryStorage records uploads and serves them back by uri.
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	names   []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Upload(ctx context.Context, data []byte, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uri := "ipfs://mem" + common.Bytes2Hex([]byte{byte(len(m.objects))})
	m.objects[uri] = data
	m.names = append(m.names, name)
	return uri, nil
}

func (m *memoryStorage) UploadBatch(ctx context.Context, data [][]byte) ([]string, error) {
	return uploadBatch(ctx, m, data)
}

func (m *memoryStorage) Get(ctx context.Context, uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[uri]
	if !ok {
		return nil, errors.Wrap(errs.NotFound, uri)
	}
	return data, nil
}

func newTestSdk(t *testing.T, client *fakeClient, rpcUri string) *Sdk {
	t.Helper()
	sdk, err := NewSdk(context.Background(), client, &SdkOptions{
		PrivateKey: testPrivateKey,
		RpcUri:     rpcUri,
		ChainID:    new(big.Int).Set(client.chainID),
	})
	require.NoError(t, err)
	return sdk
}

func TestProcessPrivateKey(t *testing.T) {
	for _, key := range []string{testPrivateKey, "0x" + testPrivateKey, " " + testPrivateKey + "\n"} {
		_, address, err := processPrivateKey(key)
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress(testAddress), address)
	}

	_, _, err := processPrivateKey("not-a-key")
	assert.True(t, errors.Is(err, errs.InvalidArgument))
}

func TestNewSdkChainID(t *testing.T) {
	ctx := context.Background()

	t.Run("adopts remote chain id", func(t *testing.T) {
		sdk, err := NewSdk(ctx, newFakeClient(31337), &SdkOptions{RpcUri: "http://adopt.test"})
		require.NoError(t, err)
		assert.Equal(t, int64(31337), sdk.getOptions().ChainID.Int64())
		assert.Equal(t, common.Address{}, sdk.SignerAddress())
	})

	t.Run("rejects mismatch", func(t *testing.T) {
		_, err := NewSdk(ctx, newFakeClient(1), &SdkOptions{RpcUri: "http://mismatch.test", ChainID: big.NewInt(5)})
		var mismatch *ChainMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, int64(5), mismatch.Configured.Int64())
		assert.Equal(t, int64(1), mismatch.Remote.Int64())
	})

	t.Run("caches remote chain id per endpoint", func(t *testing.T) {
		_, err := NewSdk(ctx, newFakeClient(10), &SdkOptions{RpcUri: "http://cached.test"})
		require.NoError(t, err)

		// a second client on the same endpoint is not asked again
		sdk, err := NewSdk(ctx, newFakeClient(99), &SdkOptions{RpcUri: "http://cached.test"})
		require.NoError(t, err)
		assert.Equal(t, int64(10), sdk.getOptions().ChainID.Int64())
	})

	t.Run("sets signer", func(t *testing.T) {
		sdk := newTestSdk(t, newFakeClient(31337), "http://signer.test")
		assert.Equal(t, common.HexToAddress(testAddress), sdk.SignerAddress())
	})
}

func TestGetTransactOpts(t *testing.T) {
	ctx := context.Background()

	t.Run("eip1559 caps", func(t *testing.T) {
		client := newFakeClient(31337)
		client.baseFee = big.NewInt(10_000_000_000)
		client.nonce = 7
		sdk := newTestSdk(t, client, "http://opts-1559.test")

		opts, err := sdk.getTransactOpts(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, "2500000000", opts.GasTipCap.String())
		assert.Equal(t, "22500000000", opts.GasFeeCap.String())
		assert.Nil(t, opts.GasPrice)
		assert.Equal(t, uint64(7), opts.Nonce.Uint64())
		assert.False(t, opts.NoSend)
		assert.Equal(t, common.HexToAddress(testAddress), opts.From)
	})

	t.Run("gas price in gwei", func(t *testing.T) {
		sdk := newTestSdk(t, newFakeClient(31337), "http://opts-legacy.test")
		sdk.SetGasPrice(big.NewInt(30))

		opts, err := sdk.getTransactOpts(ctx, false)
		require.NoError(t, err)
		assert.Equal(t, "30000000000", opts.GasPrice.String())
		assert.Nil(t, opts.Nonce)
		assert.True(t, opts.NoSend)
	})
}

func TestNonceCache(t *testing.T) {
	client := newFakeClient(31337)
	client.nonce = 3
	sdk := newTestSdk(t, client, "http://nonce.test")
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		nonce, err := sdk.nextNonce(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(3+i), nonce.Uint64())
	}
	assert.Equal(t, 1, client.nonceCalls)

	// the eleventh transaction refetches from the node
	client.nonce = 42
	nonce, err := sdk.nextNonce(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), nonce.Uint64())
	assert.Equal(t, 2, client.nonceCalls)
}

func TestStoreMetadata(t *testing.T) {
	sdk := newTestSdk(t, newFakeClient(31337), "http://store-metadata.test")
	storage := newMemoryStorage()
	sdk.SetStorage(storage)

	metadata, err := OpenSeaTokenLevelStandard(TokenMetadata{Name: "Kandy Jane", Image: "ipfs://image"})
	require.NoError(t, err)

	uri, err := sdk.StoreMetadata(context.Background(), metadata)
	require.NoError(t, err)

	var stored map[string]interface{}
	require.NoError(t, json.Unmarshal(storage.objects[uri], &stored))
	assert.Equal(t, "Kandy Jane", stored["name"])
	assert.Equal(t, "ipfs://image", stored["image"])
	assert.Equal(t, []interface{}{}, stored["attributes"])
}

func TestStoreFile(t *testing.T) {
	ctx := context.Background()
	sdk := newTestSdk(t, newFakeClient(31337), "http://store-file.test")
	storage := newMemoryStorage()
	sdk.SetStorage(storage)

	t.Run("local path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "demo.jpg")
		require.NoError(t, os.WriteFile(path, []byte("local image"), 0o600))

		uri, err := sdk.StoreFile(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []byte("local image"), storage.objects[uri])
		assert.Equal(t, "demo.jpg", storage.names[len(storage.names)-1])
	})

	t.Run("remote url", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/image/upload/demo.jpg", r.URL.Path)
			_, _ = w.Write([]byte("remote image"))
		}))
		defer srv.Close()

		uri, err := sdk.StoreFile(ctx, srv.URL+"/image/upload/demo.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("remote image"), storage.objects[uri])
		assert.Equal(t, "demo.jpg", storage.names[len(storage.names)-1])
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := sdk.StoreFile(ctx, filepath.Join(t.TempDir(), "absent.jpg"))
		assert.Error(t, err)
	})
}

func TestDeployRequiresSigner(t *testing.T) {
	sdk, err := NewSdk(context.Background(), newFakeClient(31337), &SdkOptions{RpcUri: "http://no-signer.test"})
	require.NoError(t, err)

	_, err = sdk.Deploy(context.Background(), TemplateERC721Mintable, DeployParams{Name: "n", Symbol: "s", ContractURI: "ipfs://c"})
	var noSigner *NoSignerError
	assert.ErrorAs(t, err, &noSigner)
}

func TestDeployValidatesBeforeSending(t *testing.T) {
	sdk := newTestSdk(t, newFakeClient(31337), "http://deploy-validate.test")
	ctx := context.Background()

	_, err := sdk.Deploy(ctx, Template("ERC1155"), DeployParams{Name: "n", Symbol: "s", ContractURI: "ipfs://c"})
	assert.True(t, errors.Is(err, errs.Unsupported))

	_, err = sdk.Deploy(ctx, TemplateERC721Mintable, DeployParams{Name: "n", Symbol: "s"})
	assert.True(t, errors.Is(err, errs.InvalidArgument))

	// no artifact configured
	_, err = sdk.Deploy(ctx, TemplateERC721Mintable, DeployParams{Name: "n", Symbol: "s", ContractURI: "ipfs://c"})
	assert.True(t, errors.Is(err, errs.MissingConfig))
}

func TestCloseReleasesClient(t *testing.T) {
	client := newFakeClient(31337)
	sdk := newTestSdk(t, client, "http://close.test")

	sdk.Close()
	assert.Equal(t, 1, client.closed)
}

func TestRedactEndpoint(t *testing.T) {
	assert.Equal(t, "https://goerli.infura.io/v3/***", redactEndpoint("https://goerli.infura.io/v3/abc123"))
	assert.Equal(t, "http://localhost:8545", redactEndpoint("http://localhost:8545"))
}
