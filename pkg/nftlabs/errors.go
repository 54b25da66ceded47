package nftlabs

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

type NoSignerError struct {
	typeName string
}

func (e *NoSignerError) Error() string {
	return fmt.Sprintf("No signer found, please add a private key to the sdk options to use %v module", e.typeName)
}

type UnmarshalError struct {
	body            string
	typeName        string
	UnderlyingError error
}

func (e *UnmarshalError) Error() string {
	return fmt.Sprintf("Failed to unmarshal %v with body %v, underlying error = %v", e.typeName, e.body, e.UnderlyingError)
}

func (e *UnmarshalError) Unwrap() error {
	return e.UnderlyingError
}

// TxRevertedError is returned when a transaction was mined with a failed status.
type TxRevertedError struct {
	TxHash      common.Hash
	BlockNumber *big.Int
	GasUsed     uint64
}

func (e *TxRevertedError) Error() string {
	return fmt.Sprintf("transaction %v reverted in block %v (gas used %d)", e.TxHash.Hex(), e.BlockNumber, e.GasUsed)
}

// ChainMismatchError is returned when the configured chain id differs from the one reported by the rpc endpoint.
type ChainMismatchError struct {
	Configured *big.Int
	Remote     *big.Int
}

func (e *ChainMismatchError) Error() string {
	return fmt.Sprintf("configured chain id %v does not match rpc chain id %v", e.Configured, e.Remote)
}
