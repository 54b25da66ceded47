package nftlabs

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

var txWaitTimeout = 5 * time.Minute

// waitForTx blocks until tx is mined, the context ends or timeout elapses.
func waitForTx(ctx context.Context, client IClient, tx *types.Transaction, timeout time.Duration) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	receipt, err := bind.WaitMined(waitCtx, client, tx)
	if err != nil {
		if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
			return nil, errors.Wrapf(err, "transaction %v not mined after %v", tx.Hash().Hex(), timeout)
		}
		return nil, errors.Wrapf(err, "waiting for %v", tx.Hash().Hex())
	}
	return receipt, nil
}
