package leverage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Position unwinding: partial/full withdraw by the owner and permissionless
// liquidation. Both net debt against withdrawn denomination funds first, then
// run the caller-supplied swap legs, then pull any residual shortfall from
// the caller before repaying the pool.

// Withdraw redeems pctBps (basis points, above 1% and at most 100%) of the
// position's shares, repays the pro-rata debt and returns the remainder to
// caller. At 100% the position is deleted and its ownership token burned; a
// partial withdraw shrinks every position field proportionally and must leave
// the remaining borrowed value above the global minimum.
func (e *Engine) Withdraw(caller common.Address, id uint64, pctBps uint64, params UnwindParams) error {
	return e.run(func() error {
		if err := e.guard(); err != nil {
			return err
		}
		if pctBps <= 100 || pctBps > 10_000 {
			return errInvalidPercentage
		}
		position, err := e.state.GetPosition(id)
		if err != nil {
			return err
		}
		if !e.registry.IsAuthorized(caller, id) {
			return errNotPositionOwner
		}
		vaultParams, err := e.state.GetVaultParams(position.Vault)
		if err != nil {
			return err
		}
		market, err := e.market(position.Vault)
		if err != nil {
			return err
		}

		pct := new(big.Int).SetUint64(pctBps)
		sharesOut := mulDiv(position.Shares, pct, basisPoints)
		if pctBps == 10_000 {
			sharesOut = cloneInt(position.Shares)
		}
		if _, _, err := market.Withdraw(e.addr, sharesOut, params.MinAmount0, params.MinAmount1); err != nil {
			return err
		}

		index, err := e.pool.BorrowIndexOf(position.Denomination)
		if err != nil {
			return err
		}
		owedTotal := position.owedDebt(index)
		owed := mulDiv(owedTotal, pct, basisPoints)
		if pctBps == 10_000 {
			owed = cloneInt(owedTotal)
		}

		if err := e.raiseDenomination(position, owed, caller, params); err != nil {
			return err
		}
		if owed.Sign() > 0 {
			if _, err := e.pool.Repay(e.addr, position.Denomination, owed); err != nil {
				return err
			}
		}

		if pctBps == 10_000 {
			vaultParams.CurrBorrowedUSD = subFloorZero(vaultParams.CurrBorrowedUSD, position.InitBorrowedUSD)
			e.state.DeletePosition(id)
			if err := e.registry.Burn(id); err != nil {
				return err
			}
		} else {
			remaining := new(big.Int).Sub(basisPoints, pct)
			newBorrowedUSD := mulDiv(position.InitBorrowedUSD, remaining, basisPoints)
			if newBorrowedUSD.Cmp(e.cfg.MinBorrowWad()) <= 0 {
				return errPositionTooSmall
			}
			reduced := new(big.Int).Sub(position.InitBorrowedUSD, newBorrowedUSD)
			vaultParams.CurrBorrowedUSD = subFloorZero(vaultParams.CurrBorrowedUSD, reduced)

			position.Shares = new(big.Int).Sub(position.Shares, sharesOut)
			// Re-base the debt snapshot at the live index so the shrunken
			// principal keeps compounding from here.
			position.BorrowedAmount = new(big.Int).Sub(owedTotal, owed)
			position.BorrowedIndex = index
			position.InitBorrowedUSD = newBorrowedUSD
			position.InitCollateralUSD = mulDiv(position.InitCollateralUSD, remaining, basisPoints)
			position.InitCollateralValue = mulDiv(position.InitCollateralValue, remaining, basisPoints)
			if err := e.state.PutPosition(position); err != nil {
				return err
			}
		}
		if err := e.state.PutVaultParams(position.Vault, vaultParams); err != nil {
			return err
		}
		if err := e.sweepPositionTokens(position.Token0, position.Token1, position.Denomination, caller); err != nil {
			return err
		}
		e.logger.Info("position withdrawn",
			"id", id,
			"pctBps", pctBps,
			"repaid", owed.String(),
		)
		return nil
	})
}

// LiquidatePosition unwinds an under-collateralized position in full. It is
// permissionless and all-or-nothing; there is no partial liquidation. Fees
// are collected on the market first so the valuation includes them. When the
// withdrawn value exceeds the debt, a protocol fee proportional to the profit
// fraction is skimmed to the fee collector before repayment.
func (e *Engine) LiquidatePosition(caller common.Address, id uint64, params UnwindParams) error {
	return e.run(func() error {
		if err := e.guard(); err != nil {
			return err
		}
		position, err := e.state.GetPosition(id)
		if err != nil {
			return err
		}
		vaultParams, err := e.state.GetVaultParams(position.Vault)
		if err != nil {
			return err
		}
		market, err := e.market(position.Vault)
		if err != nil {
			return err
		}
		if err := market.CollectFees(); err != nil {
			return err
		}
		liquidateable, err := e.liquidateable(position, vaultParams, market)
		if err != nil {
			return err
		}
		if !liquidateable {
			return errNotLiquidateable
		}

		twap, err := market.TwapPrice()
		if err != nil {
			return err
		}
		amount0, amount1, err := market.Withdraw(e.addr, position.Shares, params.MinAmount0, params.MinAmount1)
		if err != nil {
			return err
		}
		index, err := e.pool.BorrowIndexOf(position.Denomination)
		if err != nil {
			return err
		}
		owed := position.owedDebt(index)
		price, err := e.denomPrice(position.Denomination)
		if err != nil {
			return err
		}
		valueUSD := ValueInUSD(e.oracle, position.Token0, position.Token1, amount0, amount1, twap)
		value := mulDiv(valueUSD, wad, price)

		if value.Cmp(owed) > 0 && e.cfg.LiquidationFeeBps > 0 && e.feeCollector != (common.Address{}) {
			profit := new(big.Int).Sub(value, owed)
			feeBps := new(big.Int).SetUint64(e.cfg.LiquidationFeeBps)
			skim0 := mulDiv(mulDiv(amount0, profit, value), feeBps, basisPoints)
			skim1 := mulDiv(mulDiv(amount1, profit, value), feeBps, basisPoints)
			if skim0.Sign() > 0 {
				if err := e.ledger.Transfer(position.Token0, e.addr, e.feeCollector, skim0); err != nil {
					return err
				}
			}
			if skim1.Sign() > 0 {
				if err := e.ledger.Transfer(position.Token1, e.addr, e.feeCollector, skim1); err != nil {
					return err
				}
			}
		}

		if err := e.raiseDenomination(position, owed, caller, params); err != nil {
			return err
		}
		if owed.Sign() > 0 {
			if _, err := e.pool.Repay(e.addr, position.Denomination, owed); err != nil {
				return err
			}
		}

		vaultParams.CurrBorrowedUSD = subFloorZero(vaultParams.CurrBorrowedUSD, position.InitBorrowedUSD)
		if err := e.state.PutVaultParams(position.Vault, vaultParams); err != nil {
			return err
		}
		e.state.DeletePosition(id)
		if err := e.registry.Burn(id); err != nil {
			return err
		}
		if err := e.sweepPositionTokens(position.Token0, position.Token1, position.Denomination, caller); err != nil {
			return err
		}
		e.logger.Info("position liquidated",
			"id", id,
			"liquidator", caller.Hex(),
			"owed", owed.String(),
			"value", value.String(),
		)
		return nil
	})
}

// raiseDenomination assembles owed units of the denomination asset at the
// engine address: withdrawn denomination funds count first, then the optional
// swap legs, then a shortfall pull from payer.
func (e *Engine) raiseDenomination(position *Position, owed *big.Int, payer common.Address, params UnwindParams) error {
	if err := e.unwindSwapLeg(position.Token0, position.Denomination, params.Swap0, params.SwapPath0, params.MinSwapOut0); err != nil {
		return err
	}
	if err := e.unwindSwapLeg(position.Token1, position.Denomination, params.Swap1, params.SwapPath1, params.MinSwapOut1); err != nil {
		return err
	}
	if owed.Sign() == 0 {
		return nil
	}
	held := e.ledger.BalanceOf(position.Denomination, e.addr)
	if held.Cmp(owed) >= 0 {
		return nil
	}
	shortfall := new(big.Int).Sub(owed, held)
	return e.ledger.Transfer(position.Denomination, payer, e.addr, shortfall)
}

// unwindSwapLeg converts up to amount of asset held by the engine into the
// denomination via an exact-input swap. The path must start at the named
// position token, never at an arbitrary approved token.
func (e *Engine) unwindSwapLeg(asset, denom common.Address, amount *big.Int, path Path, minOut *big.Int) error {
	if amount == nil || amount.Sign() <= 0 || asset == denom {
		return nil
	}
	if path.Empty() || path.First() != asset {
		return errSwapPathSource
	}
	if path.Last() != denom {
		return errSwapPathTarget
	}
	spend := cloneInt(amount)
	if held := e.ledger.BalanceOf(asset, e.addr); held.Cmp(spend) < 0 {
		spend = held
	}
	if spend.Sign() == 0 {
		return nil
	}
	_, err := e.router.SwapExactInput(e.addr, path, spend, minOut)
	return err
}

func subFloorZero(a, b *big.Int) *big.Int {
	out := new(big.Int).Sub(a, b)
	if out.Sign() < 0 {
		out.SetInt64(0)
	}
	return out
}
