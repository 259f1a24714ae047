package leverage

import "math/big"

// Config carries the engine knobs loaded from the node configuration file.
type Config struct {
	// MinBorrowUSD is the global floor on a position's borrowed USD value,
	// in whole dollars.
	MinBorrowUSD uint64 `toml:"MinBorrowUSD"`
	// LiquidationFeeBps is the protocol fee taken from the profit fraction
	// of a liquidated position.
	LiquidationFeeBps uint64 `toml:"LiquidationFeeBps"`
}

func (c *Config) EnsureDefaults() {
	if c.MinBorrowUSD == 0 {
		c.MinBorrowUSD = 10
	}
	if c.LiquidationFeeBps == 0 {
		c.LiquidationFeeBps = 500
	}
	if c.LiquidationFeeBps > 10_000 {
		c.LiquidationFeeBps = 10_000
	}
}

// MinBorrowWad returns the minimum borrow in 1e18 USD.
func (c Config) MinBorrowWad() *big.Int {
	v := new(big.Int).SetUint64(c.MinBorrowUSD)
	return v.Mul(v, wad)
}
