package leverage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"leverfarm/native/lending"
)

// Collaborators the engine calls out to. The concentrated-liquidity market,
// the price oracle and the swap router live outside the protocol core; the
// engine consumes them through these narrow interfaces.

// Path is a multi-hop swap route. The engine validates only the endpoints;
// hop selection belongs to the router.
type Path struct {
	Tokens []common.Address
}

func (p Path) Empty() bool { return len(p.Tokens) == 0 }

func (p Path) First() common.Address {
	if len(p.Tokens) == 0 {
		return common.Address{}
	}
	return p.Tokens[0]
}

func (p Path) Last() common.Address {
	if len(p.Tokens) == 0 {
		return common.Address{}
	}
	return p.Tokens[len(p.Tokens)-1]
}

// Market is the external concentrated-liquidity position manager. Tick
// placement, fee collection and TWAP computation are its responsibility.
type Market interface {
	Token0() common.Address
	Token1() common.Address
	// Deposit places up to want0/want1 from depositor into the market.
	// Used amounts may come back lower than requested due to ratio
	// rounding; outputs below min0/min1 must fail inside the market.
	Deposit(depositor common.Address, want0, want1, min0, min1 *big.Int) (shares, used0, used1 *big.Int, err error)
	// Withdraw redeems shares to recipient, failing below min0/min1.
	Withdraw(recipient common.Address, shares, min0, min1 *big.Int) (amount0, amount1 *big.Int, err error)
	// TwapPrice returns token1 units per one token0 unit at 1e30 scale.
	TwapPrice() (*big.Int, error)
	// CheckPoolActivity reports whether the TWAP is safe to act on.
	CheckPoolActivity() bool
	TotalSupply() *big.Int
	Balances() (*big.Int, *big.Int)
	// CollectFees forces fee collection so valuations include accrued fees.
	CollectFees() error
}

// Oracle is the external USD price feed.
type Oracle interface {
	// GetPrice returns the USD price of one asset unit at 1e18 scale.
	GetPrice(asset common.Address) (*big.Int, error)
	HasPriceFeed(asset common.Address) bool
}

// SwapRouter executes swaps against external liquidity on behalf of trader.
type SwapRouter interface {
	// SwapExactInput spends amountIn of the path's first token held by
	// trader and returns the amount of the last token received.
	SwapExactInput(trader common.Address, path Path, amountIn, minAmountOut *big.Int) (*big.Int, error)
	// SwapExactOutput acquires exactly amountOut of the path's last token
	// for trader, spending at most maxAmountIn of the first. Returns the
	// amount spent.
	SwapExactOutput(trader common.Address, path Path, amountOut, maxAmountIn *big.Int) (*big.Int, error)
}

// LendingPool is the authorized-borrower surface of the lending pool the
// engine consumes.
type LendingPool interface {
	Borrow(caller, asset common.Address, amount *big.Int) error
	Repay(caller, asset common.Address, amount *big.Int) (*big.Int, error)
	PullFunds(caller, asset common.Address, amount *big.Int) error
	PushFunds(caller, asset common.Address, amount *big.Int) error
	BorrowIndexOf(asset common.Address) (*big.Int, error)
	LeverageParamsOf(asset common.Address) (lending.LeverageParams, error)
	Address() common.Address
}
