package leverage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ValueInUSD prices a token0/token1 pair of amounts in 1e18 USD. Each token
// with an oracle feed is priced directly. When exactly one of the two lacks a
// feed, its amount is converted into the other token at twapPrice (token1 per
// token0, 1e30 scale) and priced through that token's feed. When neither has
// a feed the value is silently zero; configuring at least one feed per market
// is the caller's responsibility.
func ValueInUSD(oracle Oracle, token0, token1 common.Address, amount0, amount1, twapPrice *big.Int) *big.Int {
	amount0 = cloneInt(amount0)
	amount1 = cloneInt(amount1)
	has0 := oracle.HasPriceFeed(token0)
	has1 := oracle.HasPriceFeed(token1)

	switch {
	case has0 && has1:
		price0, err := oracle.GetPrice(token0)
		if err != nil {
			return big.NewInt(0)
		}
		price1, err := oracle.GetPrice(token1)
		if err != nil {
			return big.NewInt(0)
		}
		value := wadMul(amount0, price0)
		return value.Add(value, wadMul(amount1, price1))
	case has0:
		price0, err := oracle.GetPrice(token0)
		if err != nil {
			return big.NewInt(0)
		}
		equivalent0 := mulDiv(amount1, twapScale, twapPrice)
		total := new(big.Int).Add(amount0, equivalent0)
		return wadMul(total, price0)
	case has1:
		price1, err := oracle.GetPrice(token1)
		if err != nil {
			return big.NewInt(0)
		}
		equivalent1 := mulDiv(amount0, twapPrice, twapScale)
		total := new(big.Int).Add(amount1, equivalent1)
		return wadMul(total, price1)
	default:
		return big.NewInt(0)
	}
}
