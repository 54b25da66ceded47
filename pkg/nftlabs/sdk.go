package nftlabs

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/kpango/fastime"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/nftlabs/mintflow/internal/abi"
	"github.com/nftlabs/mintflow/pkg/httpclient"
	"github.com/nftlabs/mintflow/pkg/logger"
	"github.com/nftlabs/mintflow/pkg/logger/slogx"
)

type ISdk interface {
	StoreFile(ctx context.Context, source string) (string, error)
	StoreMetadata(ctx context.Context, metadata interface{}) (string, error)
	Deploy(ctx context.Context, template Template, params DeployParams) (*MintableContract, error)
	GetMintableContract(address string) (*MintableContract, error)
	GetStorage() (Storage, error)
	Balance(ctx context.Context) (CurrencyValue, error)

	SetStorage(gateway Storage)
	SetGasPrice(gasprice *big.Int)

	getSignerAddress() common.Address
	getOptions() *SdkOptions
	getGateway() Storage
	getTransactOpts(ctx context.Context, send bool) (*bind.TransactOpts, error)
}

type Sdk struct {
	client IClient
	opt    *SdkOptions

	privateKey    *ecdsa.PrivateKey
	signerAddress common.Address
	Noncer        struct {
		WaitNonce *sync.Mutex
		Nonce     uint64
		Used      uint64
		LastFetch int64
	}
	gateway Storage
}

const (
	// nonces are refetched from the node every nonceRefetchEvery transactions or
	// after nonceMaxAge seconds.
	nonceRefetchEvery = 10
	nonceMaxAge       = 300
)

var chainCache, _ = lru.New[string, *big.Int](64)

// Dial connects to the rpc endpoint described by opt and builds an Sdk with the
// configured storage backend.
func Dial(ctx context.Context, opt *SdkOptions) (*Sdk, error) {
	endpoint, err := opt.rpcEndpoint()
	if err != nil {
		return nil, err
	}

	var dialOpts []rpc.ClientOption
	if opt.RpcUri == "" && opt.ProviderSecret != "" {
		secret := opt.ProviderSecret
		dialOpts = append(dialOpts, rpc.WithHTTPAuth(func(h http.Header) error {
			h.Set("Authorization", httpclient.BasicAuth("", secret))
			return nil
		}))
	}

	rpcClient, err := rpc.DialOptions(ctx, endpoint, dialOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "can't dial rpc endpoint %q", redactEndpoint(endpoint))
	}
	client := ethclient.NewClient(rpcClient)

	sdk, err := NewSdk(ctx, client, opt)
	if err != nil {
		client.Close()
		return nil, err
	}

	if opt.S3 != nil {
		storage, err := NewS3Storage(ctx, *opt.S3, opt.gatewayUrl())
		if err != nil {
			client.Close()
			return nil, err
		}
		sdk.SetStorage(storage)
	}

	return sdk, nil
}

func NewSdk(ctx context.Context, client IClient, opt *SdkOptions) (*Sdk, error) {
	if opt == nil {
		opt = &SdkOptions{}
	}

	defaultGateway, err := newIpfsStorage(opt.Ipfs, opt.ipfsApiUrl(), opt.gatewayUrl())
	if err != nil {
		return nil, err
	}
	sdk := &Sdk{
		client:  client,
		opt:     opt,
		gateway: defaultGateway,
	}

	if opt.PrivateKey != "" {
		if err := sdk.setPrivateKey(opt.PrivateKey); err != nil {
			return nil, err
		}
	}

	remote, err := sdk.remoteChainID(ctx)
	if err != nil {
		return nil, err
	}
	if sdk.opt.ChainID == nil {
		sdk.opt.ChainID = remote
	} else if sdk.opt.ChainID.Cmp(remote) != 0 {
		return nil, &ChainMismatchError{Configured: sdk.opt.ChainID, Remote: remote}
	}

	sdk.Noncer.WaitNonce = new(sync.Mutex)
	return sdk, nil
}

func (sdk *Sdk) remoteChainID(ctx context.Context) (*big.Int, error) {
	key := sdk.opt.RpcUri
	if key == "" {
		key, _ = sdk.opt.rpcEndpoint()
	}
	if v, ok := chainCache.Get(key); ok && key != "" {
		return v, nil
	}

	chainId, err := sdk.client.ChainID(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "can't get chain id")
	}
	if key != "" {
		chainCache.Add(key, chainId)
	}
	return chainId, nil
}

// Close releases the rpc connection of clients that hold one, such as the one opened by Dial.
func (sdk *Sdk) Close() {
	if closer, ok := sdk.client.(interface{ Close() }); ok {
		closer.Close()
	}
}

func (sdk *Sdk) GetMintableContract(address string) (*MintableContract, error) {
	if !common.IsHexAddress(address) {
		return nil, errors.Wrapf(errs.InvalidArgument, "contract address %q", address)
	}
	return newMintableContract(sdk.client, common.HexToAddress(address), TemplateERC721Mintable, DeployParams{}, sdk)
}

func (sdk *Sdk) GetStorage() (Storage, error) {
	if sdk.gateway != nil {
		return sdk.gateway, nil
	}

	module, err := newIpfsStorage(sdk.opt.Ipfs, sdk.opt.ipfsApiUrl(), sdk.opt.gatewayUrl())
	if err != nil {
		return nil, err
	}

	sdk.gateway = module
	return module, nil
}

// StoreFile uploads the file found at source to the storage gateway and returns its uri.
// source is either an http(s) url, downloaded first, or a local file path.
func (sdk *Sdk) StoreFile(ctx context.Context, source string) (string, error) {
	storage, err := sdk.GetStorage()
	if err != nil {
		return "", err
	}

	var (
		content []byte
		name    string
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		content, err = fetch(ctx, source)
		if err != nil {
			return "", errors.Wrapf(err, "can't download %q", source)
		}
		name = fileNameFromURL(source)
	} else {
		content, err = os.ReadFile(source)
		if err != nil {
			return "", errors.Wrapf(err, "can't read %q", source)
		}
		name = filepath.Base(source)
	}

	uri, err := storage.Upload(ctx, content, name)
	if err != nil {
		return "", err
	}
	logger.DebugContext(ctx, "Stored file", slogx.String("source", source), slogx.String("uri", uri), slogx.Int("size", len(content)))
	return uri, nil
}

// StoreMetadata JSON encodes metadata, uploads it and returns its uri.
func (sdk *Sdk) StoreMetadata(ctx context.Context, metadata interface{}) (string, error) {
	storage, err := sdk.GetStorage()
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(metadata)
	if err != nil {
		return "", errors.Wrap(err, "can't encode metadata")
	}

	uri, err := storage.Upload(ctx, body, "metadata.json")
	if err != nil {
		return "", err
	}
	logger.DebugContext(ctx, "Stored metadata", slogx.String("uri", uri), slogx.Int("size", len(body)))
	return uri, nil
}

// Deploy sends the deployment transaction of template and waits until it is mined.
func (sdk *Sdk) Deploy(ctx context.Context, template Template, params DeployParams) (*MintableContract, error) {
	if sdk.getSignerAddress() == common.HexToAddress("0") {
		return nil, &NoSignerError{typeName: string(template)}
	}
	if template != TemplateERC721Mintable {
		return nil, errors.Wrapf(errs.Unsupported, "contract template %q", template)
	}
	if err := params.validate(); err != nil {
		return nil, err
	}

	artifact, err := LoadArtifact(sdk.opt.ArtifactPath(template))
	if err != nil {
		return nil, errors.Wrapf(err, "can't load %v artifact", template)
	}

	opts, err := sdk.getTransactOpts(ctx, true)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := abi.DeployERC721Mintable(opts, sdk.client, artifact.Bytecode, params.Name, params.Symbol, params.ContractURI)
	if err != nil {
		return nil, errors.Wrap(err, "can't send deployment transaction")
	}
	logger.InfoContext(ctx, "Deployment transaction sent", slogx.String("tx", tx.Hash().Hex()), slogx.String("address", address.Hex()))

	receipt, err := waitForTx(ctx, sdk.client, tx, txWaitTimeout)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &TxRevertedError{TxHash: tx.Hash(), BlockNumber: receipt.BlockNumber, GasUsed: receipt.GasUsed}
	}
	if receipt.ContractAddress != (common.Address{}) {
		address = receipt.ContractAddress
	}

	return newMintableContract(sdk.client, address, template, params, sdk)
}

func (sdk *Sdk) setPrivateKey(privateKey string) error {
	pKey, publicAddress, err := processPrivateKey(privateKey)
	if err != nil {
		return err
	}
	sdk.privateKey = pKey
	sdk.signerAddress = publicAddress
	return nil
}

func processPrivateKey(privateKey string) (*ecdsa.PrivateKey, common.Address, error) {
	pKey, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(privateKey), "0x"))
	if err != nil {
		return nil, common.Address{}, errors.Wrap(errs.InvalidArgument, "can't parse private key")
	}
	return pKey, crypto.PubkeyToAddress(pKey.PublicKey), nil
}

func (sdk *Sdk) getSigner() bind.SignerFn {
	return func(address common.Address, transaction *types.Transaction) (*types.Transaction, error) {
		return types.SignTx(transaction, types.LatestSignerForChainID(sdk.opt.ChainID), sdk.privateKey)
	}
}

// SignerAddress returns the address of the configured wallet, the zero address without one.
func (sdk *Sdk) SignerAddress() common.Address {
	return sdk.signerAddress
}

func (sdk *Sdk) getSignerAddress() common.Address {
	return sdk.signerAddress
}

func (sdk *Sdk) getOptions() *SdkOptions {
	return sdk.opt
}

func (sdk *Sdk) SetStorage(gateway Storage) {
	sdk.gateway = gateway
}

func (sdk *Sdk) getGateway() Storage {
	return sdk.gateway
}

func (sdk *Sdk) nextNonce(ctx context.Context) (*big.Int, error) {
	sdk.Noncer.WaitNonce.Lock()
	defer sdk.Noncer.WaitNonce.Unlock()

	if sdk.Noncer.Nonce == 0 || sdk.Noncer.Used%nonceRefetchEvery == 0 || sdk.Noncer.LastFetch+nonceMaxAge < fastime.UnixNow() {
		nonce, err := sdk.client.PendingNonceAt(ctx, sdk.getSignerAddress())
		if err != nil {
			return nil, errors.Wrap(err, "can't get pending nonce")
		}
		sdk.Noncer.Nonce = nonce
		sdk.Noncer.LastFetch = fastime.UnixNow()
	} else {
		sdk.Noncer.Nonce++
	}
	sdk.Noncer.Used++
	return new(big.Int).SetUint64(sdk.Noncer.Nonce), nil
}

func (sdk *Sdk) getTransactOpts(ctx context.Context, send bool) (*bind.TransactOpts, error) {
	var nNonce *big.Int
	if send {
		nonce, err := sdk.nextNonce(ctx)
		if err != nil {
			return nil, err
		}
		nNonce = nonce
	}

	if sdk.opt.GasPrice != nil {
		toGweiFactor := big.NewInt(1).Exp(big.NewInt(10), big.NewInt(9), nil)
		finalGasPrice := new(big.Int).Mul(sdk.opt.GasPrice, toGweiFactor)
		return &bind.TransactOpts{
			NoSend:   !send,
			From:     sdk.getSignerAddress(),
			Signer:   sdk.getSigner(),
			GasPrice: finalGasPrice,
			Nonce:    nNonce,
			Context:  ctx,
		}, nil
	}

	var tipCap, feeCap *big.Int
	header, err := sdk.client.HeaderByNumber(ctx, nil)
	if err == nil && header.BaseFee != nil {
		tipCap, _ = big.NewInt(0).SetString("2500000000", 10)
		baseFee := big.NewInt(0).Mul(header.BaseFee, big.NewInt(2))
		feeCap = big.NewInt(0).Add(baseFee, tipCap)
	}

	return &bind.TransactOpts{
		NoSend:    !send,
		From:      sdk.getSignerAddress(),
		Signer:    sdk.getSigner(),
		GasTipCap: tipCap,
		GasFeeCap: feeCap,
		Nonce:     nNonce,
		Context:   ctx,
	}, nil
}

func (sdk *Sdk) SetGasPrice(gasPrice *big.Int) {
	sdk.opt.GasPrice = gasPrice
}

// redactEndpoint hides the project id embedded in provider urls.
func redactEndpoint(endpoint string) string {
	if i := strings.Index(endpoint, "/v3/"); i >= 0 {
		return endpoint[:i+len("/v3/")] + "***"
	}
	return endpoint
}
