package leverage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Position is one leveraged liquidity position. Ownership lives in the
// position registry; ids start at 1 and only grow.
type Position struct {
	ID           uint64
	Vault        common.Address
	Token0       common.Address
	Token1       common.Address
	Denomination common.Address

	// Shares is the claim on the underlying market position.
	Shares *big.Int
	// BorrowedAmount and BorrowedIndex together reconstruct live debt as
	// borrowedAmount * currentIndex / borrowedIndex.
	BorrowedAmount *big.Int
	BorrowedIndex  *big.Int

	// Valuations frozen at open or size-change time, used only for limit
	// checks, never marked to market.
	InitCollateralUSD   *big.Int
	InitCollateralValue *big.Int
	InitBorrowedUSD     *big.Int
}

func (p *Position) normalize() {
	if p.Shares == nil {
		p.Shares = big.NewInt(0)
	}
	if p.BorrowedAmount == nil {
		p.BorrowedAmount = big.NewInt(0)
	}
	if p.BorrowedIndex == nil || p.BorrowedIndex.Sign() == 0 {
		p.BorrowedIndex = mustBigInt("1000000000000000000000000000")
	}
	if p.InitCollateralUSD == nil {
		p.InitCollateralUSD = big.NewInt(0)
	}
	if p.InitCollateralValue == nil {
		p.InitCollateralValue = big.NewInt(0)
	}
	if p.InitBorrowedUSD == nil {
		p.InitBorrowedUSD = big.NewInt(0)
	}
}

// owedDebt returns the live debt at currentIndex.
func (p *Position) owedDebt(currentIndex *big.Int) *big.Int {
	if p.BorrowedAmount.Sign() == 0 {
		return big.NewInt(0)
	}
	return mulDiv(p.BorrowedAmount, currentIndex, p.BorrowedIndex)
}

// VaultParams configures one liquidity market the engine supports. USD
// quantities are 1e18-scaled; zero caps mean uncapped.
type VaultParams struct {
	LeverageEnabled bool
	// MaxUSDLeverage caps a single position's borrowed USD value at open.
	MaxUSDLeverage *big.Int
	// MaxTimesLeverage caps the position leverage multiple, 1e18-scaled.
	MaxTimesLeverage *big.Int
	// MinCollateralPct is the liquidation threshold fraction, 1e18-scaled.
	MinCollateralPct *big.Int
	// MaxCumulativeBorrowedUSD caps the running borrowed total below.
	MaxCumulativeBorrowedUSD *big.Int
	// CurrBorrowedUSD sums initBorrowedUsd over open positions, valued at
	// open time. Best effort, never re-valued.
	CurrBorrowedUSD *big.Int
}

func (v VaultParams) Clone() VaultParams {
	return VaultParams{
		LeverageEnabled:          v.LeverageEnabled,
		MaxUSDLeverage:           cloneInt(v.MaxUSDLeverage),
		MaxTimesLeverage:         cloneInt(v.MaxTimesLeverage),
		MinCollateralPct:         cloneInt(v.MinCollateralPct),
		MaxCumulativeBorrowedUSD: cloneInt(v.MaxCumulativeBorrowedUSD),
		CurrBorrowedUSD:          cloneInt(v.CurrBorrowedUSD),
	}
}

func (v *VaultParams) normalize() {
	if v.MaxUSDLeverage == nil {
		v.MaxUSDLeverage = big.NewInt(0)
	}
	if v.MaxTimesLeverage == nil {
		v.MaxTimesLeverage = big.NewInt(0)
	}
	if v.MinCollateralPct == nil {
		v.MinCollateralPct = big.NewInt(0)
	}
	if v.MaxCumulativeBorrowedUSD == nil {
		v.MaxCumulativeBorrowedUSD = big.NewInt(0)
	}
	if v.CurrBorrowedUSD == nil {
		v.CurrBorrowedUSD = big.NewInt(0)
	}
}

// OpenParams describes one position open. Deposit0/Deposit1 are the desired
// market deposit amounts; the gap above Amount0In/Amount1In is drawn from the
// pool as same-transaction flash liquidity.
type OpenParams struct {
	Vault        common.Address
	Denomination common.Address

	Amount0In *big.Int
	Amount1In *big.Int
	Deposit0  *big.Int
	Deposit1  *big.Int
	MinUsed0  *big.Int
	MinUsed1  *big.Int

	// MaxBorrow is the denomination amount drawn from the pool; unused
	// balance is repaid before the position is recorded.
	MaxBorrow *big.Int

	// Exact-output routes from the denomination into token0/token1,
	// consulted only when the flash draw cannot be restored from leftovers.
	SwapPath0 Path
	SwapPath1 Path
}

// UnwindParams describes the optional swap legs of a withdraw or liquidation.
// Swap0/Swap1 are exact-input amounts of token0/token1 converted into the
// denomination; legs with a zero amount are skipped.
type UnwindParams struct {
	MinAmount0 *big.Int
	MinAmount1 *big.Int

	Swap0       *big.Int
	SwapPath0   Path
	MinSwapOut0 *big.Int

	Swap1       *big.Int
	SwapPath1   Path
	MinSwapOut1 *big.Int
}
