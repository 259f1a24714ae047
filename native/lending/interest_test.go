package lending

import (
	"math/big"
	"testing"
)

func defaultCurve() RateConfig {
	var cfg Config
	cfg.EnsureDefaults()
	return cfg.DefaultRateConfig()
}

func TestUtilization(t *testing.T) {
	if u := Utilization(big.NewInt(0), big.NewInt(0)); u.Sign() != 0 {
		t.Fatalf("empty reserve should have zero utilization, got %s", u)
	}
	// 6e7 borrowed against 9.4e8 available: 6% of total liquidity.
	u := Utilization(big.NewInt(940_000_000), big.NewInt(60_000_000))
	if u.Cmp(BpsToRay(600)) != 0 {
		t.Fatalf("unexpected utilization: got %s want %s", u, BpsToRay(600))
	}
}

func TestBorrowRateSegmentA(t *testing.T) {
	curve := defaultCurve()
	// Linear interpolation from (0,0) to (80%, 20%): 6% utilization => 1.5%.
	rate := curve.BorrowRate(BpsToRay(600))
	if rate.Cmp(BpsToRay(150)) != 0 {
		t.Fatalf("unexpected rate: got %s want %s", rate, BpsToRay(150))
	}
	// The anchor itself resolves on the first segment.
	if got := curve.BorrowRate(BpsToRay(8000)); got.Cmp(BpsToRay(2000)) != 0 {
		t.Fatalf("unexpected rate at anchor A: %s", got)
	}
}

func TestBorrowRateSegmentB(t *testing.T) {
	curve := defaultCurve()
	// Halfway between (80%,20%) and (90%,50%).
	rate := curve.BorrowRate(BpsToRay(8500))
	if rate.Cmp(BpsToRay(3500)) != 0 {
		t.Fatalf("unexpected rate: got %s want %s", rate, BpsToRay(3500))
	}
}

func TestBorrowRateSegmentC(t *testing.T) {
	curve := defaultCurve()
	// Halfway between (90%,50%) and (100%,150%).
	rate := curve.BorrowRate(BpsToRay(9500))
	if rate.Cmp(BpsToRay(10000)) != 0 {
		t.Fatalf("unexpected rate: got %s want %s", rate, BpsToRay(10000))
	}
	if rate := curve.BorrowRate(Ray()); rate.Cmp(BpsToRay(15000)) != 0 {
		t.Fatalf("unexpected max rate: %s", rate)
	}
}

func TestBorrowRateDegenerateSegments(t *testing.T) {
	curve := RateConfig{
		UtilizationA: big.NewInt(0),
		RateA:        BpsToRay(100),
		UtilizationB: big.NewInt(0),
		RateB:        BpsToRay(200),
		MaxRate:      BpsToRay(300),
	}
	// Zero-width first segment returns its rate instead of dividing by zero.
	if got := curve.BorrowRate(big.NewInt(0)); got.Cmp(BpsToRay(100)) != 0 {
		t.Fatalf("unexpected degenerate rate: %s", got)
	}

	curve = defaultCurve()
	curve.UtilizationB = cloneInt(curve.UtilizationA)
	curve.RateB = BpsToRay(4000)
	if got := curve.BorrowRate(BpsToRay(8000)); got.Cmp(BpsToRay(2000)) != 0 {
		t.Fatalf("anchor A should stay on segment A: %s", got)
	}
}

func TestCompoundedInterestIdentity(t *testing.T) {
	if got := CompoundedInterest(BpsToRay(500), 0); got.Cmp(ray) != 0 {
		t.Fatalf("zero elapsed must be identity, got %s", got)
	}
	if got := CompoundedInterest(big.NewInt(0), 1000); got.Cmp(ray) != 0 {
		t.Fatalf("zero rate must be identity, got %s", got)
	}
}

func TestCompoundedInterestSingleSecond(t *testing.T) {
	rate := Ray() // 100% annualized
	perSecond := new(big.Int).Quo(rate, big.NewInt(secondsPerYear))
	want := new(big.Int).Add(Ray(), perSecond)
	if got := CompoundedInterest(rate, 1); got.Cmp(want) != 0 {
		t.Fatalf("unexpected one-second factor: got %s want %s", got, want)
	}
}

func TestCompoundedInterestMonotonic(t *testing.T) {
	rate := BpsToRay(1500)
	prev := CompoundedInterest(rate, 0)
	for _, elapsed := range []uint64{1, 2, 10, 3600, 86_400, secondsPerYear} {
		next := CompoundedInterest(rate, elapsed)
		if next.Cmp(prev) <= 0 {
			t.Fatalf("factor not increasing at %d seconds: %s <= %s", elapsed, next, prev)
		}
		prev = next
	}
	// The 3-term expansion never exceeds a coarse exponential bound.
	year := CompoundedInterest(rate, secondsPerYear)
	bound := new(big.Int).Mul(ray, big.NewInt(117))
	bound.Quo(bound, big.NewInt(100))
	if year.Cmp(bound) >= 0 {
		t.Fatalf("one-year factor at 15%% suspiciously large: %s", year)
	}
}
