package leverage

import "math/big"

var (
	basisPoints = big.NewInt(10_000)
	wad         = mustBigInt("1000000000000000000")                 // 1e18
	twapScale   = mustBigInt("1000000000000000000000000000000")     // 1e30
)

func mustBigInt(value string) *big.Int {
	v, ok := new(big.Int).SetString(value, 10)
	if !ok {
		panic("invalid big integer constant")
	}
	return v
}

// Wad returns the 1e18 fixed-point unit.
func Wad() *big.Int { return new(big.Int).Set(wad) }

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func mulDiv(a, b, den *big.Int) *big.Int {
	if a == nil || b == nil || den == nil || den.Sign() == 0 {
		return big.NewInt(0)
	}
	product := new(big.Int).Mul(a, b)
	return product.Quo(product, den)
}

func wadMul(a, b *big.Int) *big.Int { return mulDiv(a, b, wad) }

func wadDiv(a, b *big.Int) *big.Int {
	if b == nil || b.Sign() == 0 {
		return big.NewInt(0)
	}
	return mulDiv(a, wad, b)
}
