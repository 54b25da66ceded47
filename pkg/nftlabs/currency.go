package nftlabs

import (
	"context"
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/nftlabs/mintflow/common/errs"
)

type CurrencyMetadata struct {
	Name     string
	Symbol   string
	Decimals uint8
}

type CurrencyValue struct {
	CurrencyMetadata
	Value        *big.Int
	DisplayValue string
}

func (v CurrencyValue) String() string {
	return v.DisplayValue + " " + v.Symbol
}

var nativeCurrencies = map[int64]CurrencyMetadata{
	1:        {Name: "Ether", Symbol: "ETH", Decimals: 18},
	5:        {Name: "Goerli Ether", Symbol: "GOR", Decimals: 18},
	11155111: {Name: "Sepolia Ether", Symbol: "SEP", Decimals: 18},
	137:      {Name: "Matic", Symbol: "MATIC", Decimals: 18},
	80001:    {Name: "Matic", Symbol: "MATIC", Decimals: 18},
	10:       {Name: "Ether", Symbol: "ETH", Decimals: 18},
	42161:    {Name: "Ether", Symbol: "ETH", Decimals: 18},
}

func nativeCurrency(chainID *big.Int) CurrencyMetadata {
	if chainID != nil && chainID.IsInt64() {
		if c, ok := nativeCurrencies[chainID.Int64()]; ok {
			return c
		}
	}
	return CurrencyMetadata{Name: "Ether", Symbol: "ETH", Decimals: 18}
}

// formatUnits renders value scaled down by 10^decimals without losing precision.
func formatUnits(value *big.Int, decimals uint8) string {
	if value == nil || value.Sign() == 0 {
		return "0"
	}

	abs := new(big.Int).Abs(value)
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, unit, new(big.Int))

	out := whole.String()
	if frac.Sign() != 0 {
		fracStr := frac.String()
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
		out += "." + strings.TrimRight(fracStr, "0")
	}
	if value.Sign() < 0 {
		out = "-" + out
	}
	return out
}

func (sdk *Sdk) getValue(value *big.Int) CurrencyValue {
	metadata := nativeCurrency(sdk.opt.ChainID)
	return CurrencyValue{
		CurrencyMetadata: metadata,
		Value:            value,
		DisplayValue:     formatUnits(value, metadata.Decimals),
	}
}

// Balance returns the native balance of the signer.
func (sdk *Sdk) Balance(ctx context.Context) (CurrencyValue, error) {
	if sdk.getSignerAddress() == common.HexToAddress("0") {
		return CurrencyValue{}, &NoSignerError{typeName: "currency"}
	}
	return sdk.BalanceOf(ctx, sdk.getSignerAddress().Hex())
}

func (sdk *Sdk) BalanceOf(ctx context.Context, address string) (CurrencyValue, error) {
	if !common.IsHexAddress(address) {
		return CurrencyValue{}, errors.Wrapf(errs.InvalidArgument, "address %q", address)
	}
	balance, err := sdk.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return CurrencyValue{}, errors.Wrapf(err, "can't get balance of %v", address)
	}
	return sdk.getValue(balance), nil
}
