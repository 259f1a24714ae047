package lending

import "math/big"

// RateConfig shapes the piecewise-linear borrow rate curve. All anchors are
// expressed in ray so utilization and rate share one precision. The curve runs
// through (0, 0) → (UtilizationA, RateA) → (UtilizationB, RateB) → (1, MaxRate).
type RateConfig struct {
	UtilizationA *big.Int
	RateA        *big.Int
	UtilizationB *big.Int
	RateB        *big.Int
	MaxRate      *big.Int
}

// Clone returns a deep copy of the rate configuration.
func (c RateConfig) Clone() RateConfig {
	return RateConfig{
		UtilizationA: cloneInt(c.UtilizationA),
		RateA:        cloneInt(c.RateA),
		UtilizationB: cloneInt(c.UtilizationB),
		RateB:        cloneInt(c.RateB),
		MaxRate:      cloneInt(c.MaxRate),
	}
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// Utilization computes borrowed / (available + borrowed) in ray. An empty
// reserve has zero utilization.
func Utilization(available, borrowed *big.Int) *big.Int {
	if borrowed == nil || borrowed.Sign() == 0 {
		return big.NewInt(0)
	}
	total := new(big.Int).Set(borrowed)
	if available != nil {
		total.Add(total, available)
	}
	return rayDiv(borrowed, total)
}

// BorrowRate evaluates the curve at the given utilization. Zero-width segments
// short-circuit to the segment's rate so a degenerate configuration never
// divides by zero.
func (c RateConfig) BorrowRate(utilization *big.Int) *big.Int {
	u := cloneInt(utilization)
	utilA := cloneInt(c.UtilizationA)
	utilB := cloneInt(c.UtilizationB)

	if u.Cmp(utilA) <= 0 {
		if utilA.Sign() == 0 {
			return cloneInt(c.RateA)
		}
		return mulDiv(u, cloneInt(c.RateA), utilA)
	}
	if u.Cmp(utilB) <= 0 {
		width := new(big.Int).Sub(utilB, utilA)
		if width.Sign() == 0 {
			return cloneInt(c.RateB)
		}
		rise := new(big.Int).Sub(cloneInt(c.RateB), cloneInt(c.RateA))
		step := mulDiv(new(big.Int).Sub(u, utilA), rise, width)
		return step.Add(step, cloneInt(c.RateA))
	}
	width := new(big.Int).Sub(ray, utilB)
	if width.Sign() <= 0 {
		return cloneInt(c.MaxRate)
	}
	rise := new(big.Int).Sub(cloneInt(c.MaxRate), cloneInt(c.RateB))
	step := mulDiv(new(big.Int).Sub(u, utilB), rise, width)
	return step.Add(step, cloneInt(c.RateB))
}

// CompoundedInterest approximates (1 + rate/secondsPerYear)^elapsed in ray
// using the first three binomial terms. The truncation slightly under-charges
// borrowers in exchange for bounded computation; zero elapsed time yields the
// identity factor.
func CompoundedInterest(annualRate *big.Int, elapsed uint64) *big.Int {
	if annualRate == nil || annualRate.Sign() == 0 || elapsed == 0 {
		return Ray()
	}

	exp := new(big.Int).SetUint64(elapsed)
	expMinusOne := new(big.Int).SetUint64(elapsed - 1)
	expMinusTwo := big.NewInt(0)
	if elapsed > 2 {
		expMinusTwo.SetUint64(elapsed - 2)
	}

	perSecond := new(big.Int).Quo(annualRate, big.NewInt(secondsPerYear))
	powerTwo := rayMul(perSecond, perSecond)
	powerThree := rayMul(powerTwo, perSecond)

	first := new(big.Int).Mul(perSecond, exp)

	second := new(big.Int).Mul(exp, expMinusOne)
	second.Mul(second, powerTwo)
	second.Quo(second, two)

	third := new(big.Int).Mul(exp, expMinusOne)
	third.Mul(third, expMinusTwo)
	third.Mul(third, powerThree)
	third.Quo(third, six)

	factor := Ray()
	factor.Add(factor, first)
	factor.Add(factor, second)
	factor.Add(factor, third)
	return factor
}
