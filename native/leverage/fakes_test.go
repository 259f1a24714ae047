package leverage

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"leverfarm/bank"
)

// fakeOracle serves fixed USD prices, 1e18-scaled.
type fakeOracle struct {
	prices map[common.Address]*big.Int
}

func (o *fakeOracle) GetPrice(asset common.Address) (*big.Int, error) {
	price, ok := o.prices[asset]
	if !ok {
		return nil, errors.New("fake oracle: no feed")
	}
	return new(big.Int).Set(price), nil
}

func (o *fakeOracle) HasPriceFeed(asset common.Address) bool {
	_, ok := o.prices[asset]
	return ok
}

// fakeMarket is a two-token liquidity market over the bank. Deposits take
// exactly the requested amounts and mint used0+used1 shares; withdrawals pay
// out pro-rata from held balances. skimBps diverts that share of token1 to a
// sink right after deposit, modelling a manipulated market whose holdings
// fall short of what it reported.
type fakeMarket struct {
	bank   *bank.Bank
	addr   common.Address
	token0 common.Address
	token1 common.Address
	twap   *big.Int
	active bool
	supply *big.Int

	skimBps   uint64
	skimSink  common.Address
	onDeposit func() error
}

func (m *fakeMarket) Token0() common.Address { return m.token0 }
func (m *fakeMarket) Token1() common.Address { return m.token1 }

func (m *fakeMarket) Deposit(depositor common.Address, want0, want1, min0, min1 *big.Int) (*big.Int, *big.Int, *big.Int, error) {
	if m.onDeposit != nil {
		if err := m.onDeposit(); err != nil {
			return nil, nil, nil, err
		}
	}
	used0 := new(big.Int).Set(want0)
	used1 := new(big.Int).Set(want1)
	if min0 != nil && used0.Cmp(min0) < 0 {
		return nil, nil, nil, errors.New("fake market: used0 below minimum")
	}
	if min1 != nil && used1.Cmp(min1) < 0 {
		return nil, nil, nil, errors.New("fake market: used1 below minimum")
	}
	if used0.Sign() > 0 {
		if err := m.bank.Transfer(m.token0, depositor, m.addr, used0); err != nil {
			return nil, nil, nil, err
		}
	}
	if used1.Sign() > 0 {
		if err := m.bank.Transfer(m.token1, depositor, m.addr, used1); err != nil {
			return nil, nil, nil, err
		}
	}
	if m.skimBps > 0 {
		skim := new(big.Int).SetUint64(m.skimBps)
		skim.Mul(skim, used1)
		skim.Quo(skim, big.NewInt(10_000))
		if skim.Sign() > 0 {
			if err := m.bank.Transfer(m.token1, m.addr, m.skimSink, skim); err != nil {
				return nil, nil, nil, err
			}
		}
	}
	shares := new(big.Int).Add(used0, used1)
	m.supply.Add(m.supply, shares)
	return shares, used0, used1, nil
}

func (m *fakeMarket) Withdraw(recipient common.Address, shares, min0, min1 *big.Int) (*big.Int, *big.Int, error) {
	if m.supply.Sign() == 0 || shares.Cmp(m.supply) > 0 {
		return nil, nil, errors.New("fake market: shares exceed supply")
	}
	bal0, bal1 := m.Balances()
	amount0 := new(big.Int).Mul(bal0, shares)
	amount0.Quo(amount0, m.supply)
	amount1 := new(big.Int).Mul(bal1, shares)
	amount1.Quo(amount1, m.supply)
	if min0 != nil && amount0.Cmp(min0) < 0 {
		return nil, nil, errors.New("fake market: amount0 below minimum")
	}
	if min1 != nil && amount1.Cmp(min1) < 0 {
		return nil, nil, errors.New("fake market: amount1 below minimum")
	}
	if amount0.Sign() > 0 {
		if err := m.bank.Transfer(m.token0, m.addr, recipient, amount0); err != nil {
			return nil, nil, err
		}
	}
	if amount1.Sign() > 0 {
		if err := m.bank.Transfer(m.token1, m.addr, recipient, amount1); err != nil {
			return nil, nil, err
		}
	}
	m.supply.Sub(m.supply, shares)
	return amount0, amount1, nil
}

func (m *fakeMarket) TwapPrice() (*big.Int, error) { return new(big.Int).Set(m.twap), nil }
func (m *fakeMarket) CheckPoolActivity() bool      { return m.active }
func (m *fakeMarket) TotalSupply() *big.Int        { return new(big.Int).Set(m.supply) }
func (m *fakeMarket) CollectFees() error           { return nil }

func (m *fakeMarket) Balances() (*big.Int, *big.Int) {
	return m.bank.BalanceOf(m.token0, m.addr), m.bank.BalanceOf(m.token1, m.addr)
}

// fakeRouter swaps at the oracle's USD prices with no slippage, settling
// against its own inventory in the bank.
type fakeRouter struct {
	bank   *bank.Bank
	addr   common.Address
	oracle *fakeOracle
}

func (r *fakeRouter) SwapExactInput(trader common.Address, path Path, amountIn, minAmountOut *big.Int) (*big.Int, error) {
	priceIn, err := r.oracle.GetPrice(path.First())
	if err != nil {
		return nil, err
	}
	priceOut, err := r.oracle.GetPrice(path.Last())
	if err != nil {
		return nil, err
	}
	amountOut := new(big.Int).Mul(amountIn, priceIn)
	amountOut.Quo(amountOut, priceOut)
	if minAmountOut != nil && amountOut.Cmp(minAmountOut) < 0 {
		return nil, errors.New("fake router: output below minimum")
	}
	if err := r.bank.Transfer(path.First(), trader, r.addr, amountIn); err != nil {
		return nil, err
	}
	if err := r.bank.Transfer(path.Last(), r.addr, trader, amountOut); err != nil {
		return nil, err
	}
	return amountOut, nil
}

func (r *fakeRouter) SwapExactOutput(trader common.Address, path Path, amountOut, maxAmountIn *big.Int) (*big.Int, error) {
	priceIn, err := r.oracle.GetPrice(path.First())
	if err != nil {
		return nil, err
	}
	priceOut, err := r.oracle.GetPrice(path.Last())
	if err != nil {
		return nil, err
	}
	amountIn := new(big.Int).Mul(amountOut, priceOut)
	amountIn.Quo(amountIn, priceIn)
	if maxAmountIn != nil && amountIn.Cmp(maxAmountIn) > 0 {
		return nil, errors.New("fake router: input above maximum")
	}
	if err := r.bank.Transfer(path.First(), trader, r.addr, amountIn); err != nil {
		return nil, err
	}
	if err := r.bank.Transfer(path.Last(), r.addr, trader, amountOut); err != nil {
		return nil, err
	}
	return amountIn, nil
}
