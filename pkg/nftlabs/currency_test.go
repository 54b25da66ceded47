package nftlabs

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	oneAndHalf, _ := new(big.Int).SetString("1500000000000000000", 10)
	two, _ := new(big.Int).SetString("2000000000000000000", 10)

	testCases := []struct {
		name     string
		value    *big.Int
		decimals uint8
		expected string
	}{
		{"fraction", oneAndHalf, 18, "1.5"},
		{"zero", big.NewInt(0), 18, "0"},
		{"nil", nil, 18, "0"},
		{"one wei", big.NewInt(1), 18, "0.000000000000000001"},
		{"whole", two, 18, "2"},
		{"negative", big.NewInt(-250), 2, "-2.5"},
		{"no decimals", big.NewInt(42), 0, "42"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, formatUnits(tc.value, tc.decimals))
		})
	}
}

func TestBalance(t *testing.T) {
	client := newFakeClient(5)
	client.balance, _ = new(big.Int).SetString("1500000000000000000", 10)
	sdk := newTestSdk(t, client, "http://balance.test")

	balance, err := sdk.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.5", balance.DisplayValue)
	assert.Equal(t, "GOR", balance.Symbol)
	assert.Equal(t, "1.5 GOR", balance.String())

	_, err = sdk.BalanceOf(context.Background(), "nope")
	assert.Error(t, err)
}

func TestBalanceWithoutSigner(t *testing.T) {
	sdk, err := NewSdk(context.Background(), newFakeClient(5), &SdkOptions{RpcUri: "http://balance-no-signer.test"})
	require.NoError(t, err)

	_, err = sdk.Balance(context.Background())
	var noSigner *NoSignerError
	assert.ErrorAs(t, err, &noSigner)
}
