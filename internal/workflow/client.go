package workflow

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nftlabs/mintflow/pkg/nftlabs"
)

// Client is the part of the sdk a run drives.
type Client interface {
	StoreFile(ctx context.Context, source string) (string, error)
	StoreMetadata(ctx context.Context, metadata interface{}) (string, error)
	Deploy(ctx context.Context, template nftlabs.Template, params nftlabs.DeployParams) (Contract, error)
}

type Contract interface {
	Address() common.Address
	Mint(ctx context.Context, to string, tokenURI string) (PendingMint, error)
}

type PendingMint interface {
	Hash() common.Hash
	Wait(ctx context.Context) (*nftlabs.MintResult, error)
}

// Dialer builds a Client from validated options.
type Dialer func(ctx context.Context, opt *nftlabs.SdkOptions) (Client, error)

// DialSdk is the Dialer backed by a real rpc connection.
func DialSdk(ctx context.Context, opt *nftlabs.SdkOptions) (Client, error) {
	sdk, err := nftlabs.Dial(ctx, opt)
	if err != nil {
		return nil, err
	}
	return NewClient(sdk), nil
}

// NewClient adapts sdk to Client. The returned client also has a Close method that
// releases the sdk connection.
func NewClient(sdk *nftlabs.Sdk) Client {
	return &sdkClient{sdk: sdk}
}

type sdkClient struct {
	sdk *nftlabs.Sdk
}

func (c *sdkClient) Close() {
	c.sdk.Close()
}

func (c *sdkClient) StoreFile(ctx context.Context, source string) (string, error) {
	return c.sdk.StoreFile(ctx, source)
}

func (c *sdkClient) StoreMetadata(ctx context.Context, metadata interface{}) (string, error) {
	return c.sdk.StoreMetadata(ctx, metadata)
}

func (c *sdkClient) Deploy(ctx context.Context, template nftlabs.Template, params nftlabs.DeployParams) (Contract, error) {
	contract, err := c.sdk.Deploy(ctx, template, params)
	if err != nil {
		return nil, err
	}
	return &sdkContract{contract: contract}, nil
}

type sdkContract struct {
	contract *nftlabs.MintableContract
}

func (c *sdkContract) Address() common.Address {
	return c.contract.Address()
}

func (c *sdkContract) Mint(ctx context.Context, to string, tokenURI string) (PendingMint, error) {
	pending, err := c.contract.Mint(ctx, to, tokenURI)
	if err != nil {
		return nil, err
	}
	return pending, nil
}
