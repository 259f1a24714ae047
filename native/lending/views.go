package lending

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Read-only surface. Debt reads always go through the lazily compounded
// index; stored totals are never exposed raw.

// BorrowIndexOf returns the borrow index compounded to the pool's current
// timestamp without persisting it.
func (p *Pool) BorrowIndexOf(asset common.Address) (*big.Int, error) {
	reserve, err := p.state.GetReserve(asset)
	if err != nil {
		return nil, err
	}
	return reserve.latestIndex(p.timestamp), nil
}

// ReserveOf returns a copy of the reserve with debt brought to the current
// timestamp.
func (p *Pool) ReserveOf(asset common.Address) (*Reserve, error) {
	reserve, err := p.state.GetReserve(asset)
	if err != nil {
		return nil, err
	}
	reserve.TotalBorrows = reserve.borrowedLiquidity(p.timestamp)
	reserve.BorrowIndex = reserve.latestIndex(p.timestamp)
	return reserve, nil
}

// LeverageParamsOf returns the per-asset leverage caps.
func (p *Pool) LeverageParamsOf(asset common.Address) (LeverageParams, error) {
	reserve, err := p.state.GetReserve(asset)
	if err != nil {
		return LeverageParams{}, err
	}
	return reserve.Leverage.Clone(), nil
}

// AvailableLiquidity returns the liquid balance of the reserve.
func (p *Pool) AvailableLiquidity(asset common.Address) (*big.Int, error) {
	reserve, err := p.state.GetReserve(asset)
	if err != nil {
		return nil, err
	}
	return cloneInt(reserve.UnderlyingBalance), nil
}

// SupplyRate derives the annualized lender rate: borrow rate times
// utilization.
func (p *Pool) SupplyRate(asset common.Address) (*big.Int, error) {
	reserve, err := p.state.GetReserve(asset)
	if err != nil {
		return nil, err
	}
	borrowed := reserve.borrowedLiquidity(p.timestamp)
	utilization := Utilization(reserve.UnderlyingBalance, borrowed)
	return rayMul(reserve.Rates.BorrowRate(utilization), utilization), nil
}
