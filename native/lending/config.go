package lending

// Config captures the runtime configuration for the lending pool.
type Config struct {
	// DustAmount is both the claim amount seeded to the dead address on the
	// first deposit into a reserve and the minimum claim a deposit must mint.
	DustAmount uint64 `toml:"DustAmount"`

	// Default rate curve anchors applied by InitReserve, in basis points.
	UtilizationABps uint64 `toml:"UtilizationABps"`
	RateABps        uint64 `toml:"RateABps"`
	UtilizationBBps uint64 `toml:"UtilizationBBps"`
	RateBBps        uint64 `toml:"RateBBps"`
	MaxRateBps      uint64 `toml:"MaxRateBps"`
}

// EnsureDefaults populates unset fields with the protocol defaults:
// dust of 1000 base units and the (80%→20%, 90%→50%, 100%→150%) curve.
func (c *Config) EnsureDefaults() {
	if c.DustAmount == 0 {
		c.DustAmount = 1000
	}
	if c.UtilizationABps == 0 && c.RateABps == 0 {
		c.UtilizationABps = 8000
		c.RateABps = 2000
	}
	if c.UtilizationBBps == 0 && c.RateBBps == 0 {
		c.UtilizationBBps = 9000
		c.RateBBps = 5000
	}
	if c.MaxRateBps == 0 {
		c.MaxRateBps = 15000
	}
}

// DefaultRateConfig converts the configured basis-point anchors to ray.
func (c Config) DefaultRateConfig() RateConfig {
	return RateConfig{
		UtilizationA: BpsToRay(c.UtilizationABps),
		RateA:        BpsToRay(c.RateABps),
		UtilizationB: BpsToRay(c.UtilizationBBps),
		RateB:        BpsToRay(c.RateBBps),
		MaxRate:      BpsToRay(c.MaxRateBps),
	}
}
