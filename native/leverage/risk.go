package leverage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"leverfarm/native/lending"
)

// checkOpenLimits enforces every open-time cap at once; a single violation
// rejects the whole open. Zero-valued caps are uncapped.
func (e *Engine) checkOpenLimits(vaultParams VaultParams, asset lending.LeverageParams, borrowed, borrowedUSD, depositValue, collateralValue *big.Int) error {
	if borrowedUSD.Cmp(e.cfg.MinBorrowWad()) < 0 {
		return errBorrowTooSmall
	}
	// Leverage multiple: total exposure over collateral, 1e18-scaled, >= 1.
	leverage := wadDiv(depositValue, collateralValue)
	maxLeverage := cloneInt(vaultParams.MaxTimesLeverage)
	if asset.MaxLeverage != nil && asset.MaxLeverage.Sign() > 0 {
		if maxLeverage.Sign() == 0 || asset.MaxLeverage.Cmp(maxLeverage) < 0 {
			maxLeverage = cloneInt(asset.MaxLeverage)
		}
	}
	if maxLeverage.Sign() > 0 && leverage.Cmp(maxLeverage) > 0 {
		return errLeverageTooHigh
	}
	if vaultParams.MaxUSDLeverage.Sign() > 0 && borrowedUSD.Cmp(vaultParams.MaxUSDLeverage) > 0 {
		return errUSDCapExceeded
	}
	if asset.MaxIndividualBorrow != nil && asset.MaxIndividualBorrow.Sign() > 0 && borrowed.Cmp(asset.MaxIndividualBorrow) > 0 {
		return errIndividualBorrowCap
	}
	if vaultParams.MaxCumulativeBorrowedUSD.Sign() > 0 && vaultParams.CurrBorrowedUSD.Cmp(vaultParams.MaxCumulativeBorrowedUSD) > 0 {
		return errCumulativeCapExceeded
	}
	return nil
}

// liquidateable values the position's pro-rata share of the market at TWAP
// and compares equity against the floor-collateral threshold. The floor is
// the collateral the position would need had it been opened at the market's
// maximum leverage with its current debt, so a pure spot-price swap cannot
// force liquidation absent real debt growth or an oracle move. Assumes fees
// are already collected.
func (e *Engine) liquidateable(position *Position, vaultParams VaultParams, market Market) (bool, error) {
	twap, err := market.TwapPrice()
	if err != nil {
		return false, err
	}
	supply := market.TotalSupply()
	amount0 := big.NewInt(0)
	amount1 := big.NewInt(0)
	if supply != nil && supply.Sign() > 0 {
		balance0, balance1 := market.Balances()
		amount0 = mulDiv(balance0, position.Shares, supply)
		amount1 = mulDiv(balance1, position.Shares, supply)
	}
	price, err := e.denomPrice(position.Denomination)
	if err != nil {
		return false, err
	}
	valueUSD := ValueInUSD(e.oracle, position.Token0, position.Token1, amount0, amount1, twap)
	value := mulDiv(valueUSD, wad, price)

	index, err := e.pool.BorrowIndexOf(position.Denomination)
	if err != nil {
		return false, err
	}
	owed := position.owedDebt(index)
	if owed.Cmp(value) > 0 {
		return true, nil
	}

	floor := cloneInt(position.InitCollateralValue)
	if vaultParams.MaxTimesLeverage.Cmp(wad) > 0 {
		denominator := new(big.Int).Sub(vaultParams.MaxTimesLeverage, wad)
		alternative := mulDiv(owed, wad, denominator)
		if alternative.Cmp(floor) < 0 {
			floor = alternative
		}
	}
	threshold := wadMul(vaultParams.MinCollateralPct, floor)
	equity := new(big.Int).Sub(value, owed)
	return equity.Cmp(threshold) < 0, nil
}

// IsLiquidateable reports whether position id can currently be liquidated.
// It does not force fee collection; LiquidatePosition does.
func (e *Engine) IsLiquidateable(id uint64) (bool, error) {
	position, err := e.state.GetPosition(id)
	if err != nil {
		return false, err
	}
	vaultParams, err := e.state.GetVaultParams(position.Vault)
	if err != nil {
		return false, err
	}
	market, err := e.market(position.Vault)
	if err != nil {
		return false, err
	}
	return e.liquidateable(position, vaultParams, market)
}

// PositionOf returns a copy of position id.
func (e *Engine) PositionOf(id uint64) (*Position, error) {
	return e.state.GetPosition(id)
}

// VaultParamsOf returns the configured params for vault.
func (e *Engine) VaultParamsOf(vault common.Address) (VaultParams, error) {
	return e.state.GetVaultParams(vault)
}

// OwnerOf returns the current owner of position id.
func (e *Engine) OwnerOf(id uint64) (common.Address, error) {
	return e.registry.OwnerOf(id)
}
