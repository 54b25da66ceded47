package nftlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/nftlabs/mintflow/common/errs"
	"github.com/nftlabs/mintflow/internal/abi"
	"github.com/nftlabs/mintflow/pkg/logger"
	"github.com/nftlabs/mintflow/pkg/logger/slogx"
)

// MintableContract is a deployed instance of a mintable template.
type MintableContract struct {
	Client   IClient
	address  common.Address
	template Template
	params   DeployParams
	module   *abi.ERC721Mintable

	main ISdk
}

func newMintableContract(client IClient, address common.Address, template Template, params DeployParams, main ISdk) (*MintableContract, error) {
	module, err := abi.NewERC721Mintable(address, client)
	if err != nil {
		return nil, errors.Wrapf(err, "can't bind contract %v", address.Hex())
	}
	return &MintableContract{
		Client:   client,
		address:  address,
		template: template,
		params:   params,
		module:   module,
		main:     main,
	}, nil
}

func (c *MintableContract) Address() common.Address {
	return c.address
}

func (c *MintableContract) Template() Template {
	return c.template
}

// Params returns the parameters the contract was deployed with, empty for contracts
// obtained by address.
func (c *MintableContract) Params() DeployParams {
	return c.params
}

// Mint sends a mintWithTokenURI transaction. The token exists once the returned
// PendingMint is confirmed.
func (c *MintableContract) Mint(ctx context.Context, to string, tokenURI string) (*PendingMint, error) {
	if c.main.getSignerAddress() == common.HexToAddress("0") {
		return nil, &NoSignerError{typeName: string(c.template)}
	}
	if !common.IsHexAddress(to) {
		return nil, errors.Wrapf(errs.InvalidArgument, "recipient %q is not an address", to)
	}
	if tokenURI == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "token uri is required")
	}

	opts, err := c.main.getTransactOpts(ctx, true)
	if err != nil {
		return nil, err
	}
	recipient := common.HexToAddress(to)
	tx, err := c.module.MintWithTokenURI(opts, recipient, tokenURI)
	if err != nil {
		return nil, errors.Wrapf(err, "can't send mint transaction to %v", c.address.Hex())
	}
	logger.InfoContext(ctx, "Mint transaction sent", slogx.String("tx", tx.Hash().Hex()), slogx.String("to", recipient.Hex()))

	return &PendingMint{
		contract: c,
		tx:       tx,
		to:       recipient,
		tokenURI: tokenURI,
	}, nil
}

// Get reads the token uri of tokenId and resolves its metadata through the storage gateway.
func (c *MintableContract) Get(ctx context.Context, tokenId *big.Int) (NftMetadata, error) {
	uri, err := c.TokenURI(ctx, tokenId)
	if err != nil {
		return NftMetadata{}, err
	}

	storage, err := c.main.GetStorage()
	if err != nil {
		return NftMetadata{}, err
	}
	body, err := storage.Get(ctx, uri)
	if err != nil {
		return NftMetadata{}, err
	}

	metadata := NftMetadata{Id: tokenId, Uri: uri}
	if err := json.Unmarshal(body, &metadata.TokenMetadata); err != nil {
		return NftMetadata{}, &UnmarshalError{body: string(body), typeName: "TokenMetadata", UnderlyingError: err}
	}
	return metadata, nil
}

func (c *MintableContract) TokenURI(ctx context.Context, tokenId *big.Int) (string, error) {
	uri, err := c.module.TokenURI(&bind.CallOpts{Context: ctx}, tokenId)
	if err != nil {
		return "", errors.Wrapf(err, "can't read token uri of %v", tokenId)
	}
	return uri, nil
}

func (c *MintableContract) ContractURI(ctx context.Context) (string, error) {
	uri, err := c.module.ContractURI(&bind.CallOpts{Context: ctx})
	if err != nil {
		return "", errors.Wrap(err, "can't read contract uri")
	}
	return uri, nil
}

func (c *MintableContract) TotalSupply(ctx context.Context) (*big.Int, error) {
	supply, err := c.module.TotalSupply(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, errors.Wrap(err, "can't read total supply")
	}
	return supply, nil
}

// getNewMintedNft returns the id carried by the first Transfer from the zero address to to.
func (c *MintableContract) getNewMintedNft(logs []*types.Log, to common.Address) (*big.Int, error) {
	var tokenId *big.Int
	for _, l := range logs {
		if l == nil || l.Address != c.address {
			continue
		}
		event, err := c.module.ParseTransfer(*l)
		if err != nil {
			continue
		}

		if event.From == (common.Address{}) && event.To == to && event.TokenId != nil {
			tokenId = event.TokenId
			break
		}
	}

	if tokenId == nil {
		return nil, errors.Wrap(errs.NotFound, "could not find mint Transfer event for transaction")
	}
	return tokenId, nil
}

// PendingMint is a submitted mint transaction.
type PendingMint struct {
	contract *MintableContract
	tx       *types.Transaction
	to       common.Address
	tokenURI string
}

func (p *PendingMint) Hash() common.Hash {
	return p.tx.Hash()
}

// Wait blocks until the mint transaction is mined and returns the minted token.
func (p *PendingMint) Wait(ctx context.Context) (*MintResult, error) {
	receipt, err := waitForTx(ctx, p.contract.Client, p.tx, txWaitTimeout)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &TxRevertedError{TxHash: p.tx.Hash(), BlockNumber: receipt.BlockNumber, GasUsed: receipt.GasUsed}
	}

	tokenId, err := p.contract.getNewMintedNft(receipt.Logs, p.to)
	if err != nil {
		return nil, err
	}

	return &MintResult{
		TokenId:     tokenId,
		TxHash:      p.tx.Hash(),
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
		Contract:    p.contract.address,
		To:          p.to,
		TokenURI:    p.tokenURI,
	}, nil
}

// MintResult describes a confirmed mint.
type MintResult struct {
	TokenId     *big.Int       `json:"tokenId"`
	TxHash      common.Hash    `json:"transactionHash"`
	BlockNumber *big.Int       `json:"blockNumber"`
	GasUsed     uint64         `json:"gasUsed"`
	Contract    common.Address `json:"contract"`
	To          common.Address `json:"to"`
	TokenURI    string         `json:"tokenURI"`
}

func (r *MintResult) String() string {
	return fmt.Sprintf("{tokenId: %v, to: %v, tokenURI: %v, transactionHash: %v, blockNumber: %v, gasUsed: %d}",
		r.TokenId, r.To.Hex(), r.TokenURI, r.TxHash.Hex(), r.BlockNumber, r.GasUsed)
}
