package leverage

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestValueInUSDBothFeeds(t *testing.T) {
	token0 := common.HexToAddress("0x10")
	token1 := common.HexToAddress("0x11")
	oracle := &fakeOracle{prices: map[common.Address]*big.Int{
		token0: e18(2),
		token1: e18(3),
	}}
	// 5 of token0 at $2 plus 7 of token1 at $3.
	value := ValueInUSD(oracle, token0, token1, e18(5), e18(7), new(big.Int).Set(twapScale))
	require.Zero(t, value.Cmp(e18(31)))
}

func TestValueInUSDMissingToken1Feed(t *testing.T) {
	token0 := common.HexToAddress("0x10")
	token1 := common.HexToAddress("0x11")
	oracle := &fakeOracle{prices: map[common.Address]*big.Int{
		token0: e18(2),
	}}
	// TWAP of 4e30: one token0 buys four token1, so 8 of token1 converts
	// into 2 of token0. (10 + 2) at $2.
	twap := new(big.Int).Mul(big.NewInt(4), twapScale)
	value := ValueInUSD(oracle, token0, token1, e18(10), e18(8), twap)
	require.Zero(t, value.Cmp(e18(24)))
}

func TestValueInUSDMissingToken0Feed(t *testing.T) {
	token0 := common.HexToAddress("0x10")
	token1 := common.HexToAddress("0x11")
	oracle := &fakeOracle{prices: map[common.Address]*big.Int{
		token1: e18(3),
	}}
	// 10 of token0 converts into 40 of token1 at the same TWAP. (40 + 8)
	// at $3.
	twap := new(big.Int).Mul(big.NewInt(4), twapScale)
	value := ValueInUSD(oracle, token0, token1, e18(10), e18(8), twap)
	require.Zero(t, value.Cmp(e18(144)))
}

func TestValueInUSDNoFeedsIsZero(t *testing.T) {
	token0 := common.HexToAddress("0x10")
	token1 := common.HexToAddress("0x11")
	oracle := &fakeOracle{prices: map[common.Address]*big.Int{}}
	value := ValueInUSD(oracle, token0, token1, e18(10), e18(8), new(big.Int).Set(twapScale))
	require.Zero(t, value.Sign())
}
