package nftlabs

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// fakeClient answers the few chain calls the sdk makes. Calls it does not override panic
// through the nil embedded interface.
type fakeClient struct {
	IClient

	mu          sync.Mutex
	chainID     *big.Int
	baseFee     *big.Int
	nonce       uint64
	nonceCalls  int
	balance     *big.Int
	receipts    map[common.Hash]*types.Receipt
	notFoundFor int
	// call answers eth_call with the abi encoded output of the called method.
	call func(input []byte) ([]byte, error)

	closed   int
	sent     []*types.Transaction
	deployed map[common.Address]bool
	// mine builds the receipt of a sent transaction. Contract creations get a
	// successful receipt with the created address when it is nil.
	mine func(tx *types.Transaction, from common.Address) *types.Receipt
}

func newFakeClient(chainID int64) *fakeClient {
	return &fakeClient{
		chainID:  big.NewInt(chainID),
		receipts: map[common.Hash]*types.Receipt{},
		deployed: map[common.Address]bool{},
	}
}

func (c *fakeClient) ChainID(ctx context.Context) (*big.Int, error) {
	return new(big.Int).Set(c.chainID), nil
}

func (c *fakeClient) HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error) {
	return &types.Header{BaseFee: c.baseFee}, nil
}

func (c *fakeClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nonceCalls++
	return c.nonce, nil
}

func (c *fakeClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	return c.balance, nil
}

func (c *fakeClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notFoundFor > 0 {
		c.notFoundFor--
		return nil, ethereum.NotFound
	}
	receipt, ok := c.receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (c *fakeClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	return c.call(msg.Data)
}

func (c *fakeClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (c *fakeClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (c *fakeClient) EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error) {
	return 3_000_000, nil
}

func (c *fakeClient) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deployed[account] {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

func (c *fakeClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	from, err := types.Sender(types.LatestSignerForChainID(c.chainID), tx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, tx)

	var receipt *types.Receipt
	if c.mine != nil {
		receipt = c.mine(tx, from)
	}
	if receipt == nil {
		receipt = &types.Receipt{Status: types.ReceiptStatusSuccessful, GasUsed: 21000}
		if tx.To() == nil {
			receipt.ContractAddress = crypto.CreateAddress(from, tx.Nonce())
		}
	}
	if receipt.ContractAddress != (common.Address{}) {
		c.deployed[receipt.ContractAddress] = true
	}
	receipt.TxHash = tx.Hash()
	if receipt.BlockNumber == nil {
		receipt.BlockNumber = big.NewInt(int64(len(c.sent)))
	}
	c.receipts[tx.Hash()] = receipt
	return nil
}

func (c *fakeClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed++
}
