package lending

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Reserve captures the accounting state for a single underlying asset. Amount
// values are base units expressed as big integers to match on-chain precision.
type Reserve struct {
	// BorrowIndex is the cumulative compounding factor applied to debt,
	// in ray. It never decreases.
	BorrowIndex *big.Int
	// CurrentBorrowRate is the annualized borrow rate in ray, recomputed
	// after every state-changing operation.
	CurrentBorrowRate *big.Int
	// TotalBorrows is the outstanding debt expressed at BorrowIndex.
	TotalBorrows *big.Int
	// UnderlyingBalance is the liquid, not-borrowed-out balance held
	// against the claim token.
	UnderlyingBalance *big.Int
	// Capacity caps available plus borrowed liquidity. Zero means uncapped.
	Capacity *big.Int
	// ClaimToken is the address of the token representing lender claims.
	ClaimToken common.Address
	// LastUpdateTimestamp records when the index was last advanced.
	LastUpdateTimestamp uint64

	Active           bool
	Frozen           bool
	BorrowingEnabled bool

	Rates    RateConfig
	Leverage LeverageParams
}

// LeverageParams are the per-asset caps consumed only by the leverage engine.
type LeverageParams struct {
	// MaxIndividualBorrow caps the denomination amount a single position
	// may borrow. Zero means uncapped.
	MaxIndividualBorrow *big.Int
	// MaxLeverage caps the position leverage multiple, 1e18-scaled.
	MaxLeverage *big.Int
}

// Clone returns a deep copy of the leverage params.
func (p LeverageParams) Clone() LeverageParams {
	return LeverageParams{
		MaxIndividualBorrow: cloneInt(p.MaxIndividualBorrow),
		MaxLeverage:         cloneInt(p.MaxLeverage),
	}
}

// normalize populates nil fields so persisted reserves are safe to use.
func (r *Reserve) normalize() {
	if r.BorrowIndex == nil || r.BorrowIndex.Sign() == 0 {
		r.BorrowIndex = Ray()
	}
	if r.CurrentBorrowRate == nil {
		r.CurrentBorrowRate = big.NewInt(0)
	}
	if r.TotalBorrows == nil {
		r.TotalBorrows = big.NewInt(0)
	}
	if r.UnderlyingBalance == nil {
		r.UnderlyingBalance = big.NewInt(0)
	}
	if r.Capacity == nil {
		r.Capacity = big.NewInt(0)
	}
	r.Rates = r.Rates.Clone()
	r.Leverage = r.Leverage.Clone()
}

// latestIndex returns the compounded borrow index at now. Within the same
// instant the stored index is returned unchanged.
func (r *Reserve) latestIndex(now uint64) *big.Int {
	if now <= r.LastUpdateTimestamp {
		return cloneInt(r.BorrowIndex)
	}
	factor := CompoundedInterest(r.CurrentBorrowRate, now-r.LastUpdateTimestamp)
	return rayMul(r.BorrowIndex, factor)
}

// borrowedLiquidity recomputes outstanding debt lazily at now; stored totals
// are never read directly for debt so they cannot go stale.
func (r *Reserve) borrowedLiquidity(now uint64) *big.Int {
	if r.TotalBorrows.Sign() == 0 {
		return big.NewInt(0)
	}
	return mulDiv(r.TotalBorrows, r.latestIndex(now), r.BorrowIndex)
}

func (r *Reserve) totalLiquidity(now uint64) *big.Int {
	return new(big.Int).Add(r.UnderlyingBalance, r.borrowedLiquidity(now))
}

// updateState advances the index to now, scaling TotalBorrows along with it.
// The new index must fit in 256 bits or the whole operation is rejected. A
// stale or regressed clock is a no-op so accrued intervals never re-compound.
func (r *Reserve) updateState(now uint64) error {
	if now <= r.LastUpdateTimestamp {
		return nil
	}
	if r.TotalBorrows.Sign() > 0 {
		newIndex := r.latestIndex(now)
		if _, overflow := uint256.FromBig(newIndex); overflow {
			return errIndexOverflow
		}
		r.TotalBorrows = mulDiv(r.TotalBorrows, newIndex, r.BorrowIndex)
		r.BorrowIndex = newIndex
	}
	r.LastUpdateTimestamp = now
	return nil
}

// updateInterestRates recomputes the current borrow rate from utilization.
// It must run after every mutation touching TotalBorrows or
// UnderlyingBalance, immediately after updateState.
func (r *Reserve) updateInterestRates() {
	utilization := Utilization(r.UnderlyingBalance, r.TotalBorrows)
	r.CurrentBorrowRate = r.Rates.BorrowRate(utilization)
}

// checkCapacity rejects growth beyond the configured cap.
func (r *Reserve) checkCapacity(amount *big.Int, now uint64) error {
	if r.Capacity.Sign() == 0 {
		return nil
	}
	projected := new(big.Int).Add(r.totalLiquidity(now), amount)
	if projected.Cmp(r.Capacity) > 0 {
		return errCapacityExceeded
	}
	return nil
}
