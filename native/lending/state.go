package lending

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"leverfarm/storage"
)

var reservePrefix = []byte("lending/reserve/")

// storedReserve is the RLP wire form of a Reserve. RLP cannot express nested
// optionality, so the struct is flattened and re-normalized on load.
type storedReserve struct {
	BorrowIndex         *big.Int
	CurrentBorrowRate   *big.Int
	TotalBorrows        *big.Int
	UnderlyingBalance   *big.Int
	Capacity            *big.Int
	ClaimToken          common.Address
	LastUpdateTimestamp uint64
	Active              bool
	Frozen              bool
	BorrowingEnabled    bool
	UtilizationA        *big.Int
	RateA               *big.Int
	UtilizationB        *big.Int
	RateB               *big.Int
	MaxRate             *big.Int
	MaxIndividualBorrow *big.Int
	MaxLeverage         *big.Int
}

// State persists reserves in the shared journaled store so pool mutations
// revert together with fund movements.
type State struct {
	store *storage.Store
}

func NewState(store *storage.Store) *State {
	return &State{store: store}
}

func reserveKey(asset common.Address) []byte {
	return append(append([]byte(nil), reservePrefix...), asset.Bytes()...)
}

func (s *State) HasReserve(asset common.Address) bool {
	return s.store.Has(reserveKey(asset))
}

func (s *State) GetReserve(asset common.Address) (*Reserve, error) {
	raw := s.store.Get(reserveKey(asset))
	if len(raw) == 0 {
		return nil, errReserveNotFound
	}
	var stored storedReserve
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, err
	}
	reserve := &Reserve{
		BorrowIndex:         stored.BorrowIndex,
		CurrentBorrowRate:   stored.CurrentBorrowRate,
		TotalBorrows:        stored.TotalBorrows,
		UnderlyingBalance:   stored.UnderlyingBalance,
		Capacity:            stored.Capacity,
		ClaimToken:          stored.ClaimToken,
		LastUpdateTimestamp: stored.LastUpdateTimestamp,
		Active:              stored.Active,
		Frozen:              stored.Frozen,
		BorrowingEnabled:    stored.BorrowingEnabled,
		Rates: RateConfig{
			UtilizationA: stored.UtilizationA,
			RateA:        stored.RateA,
			UtilizationB: stored.UtilizationB,
			RateB:        stored.RateB,
			MaxRate:      stored.MaxRate,
		},
		Leverage: LeverageParams{
			MaxIndividualBorrow: stored.MaxIndividualBorrow,
			MaxLeverage:         stored.MaxLeverage,
		},
	}
	reserve.normalize()
	return reserve, nil
}

func (s *State) PutReserve(asset common.Address, r *Reserve) error {
	r.normalize()
	stored := storedReserve{
		BorrowIndex:         r.BorrowIndex,
		CurrentBorrowRate:   r.CurrentBorrowRate,
		TotalBorrows:        r.TotalBorrows,
		UnderlyingBalance:   r.UnderlyingBalance,
		Capacity:            r.Capacity,
		ClaimToken:          r.ClaimToken,
		LastUpdateTimestamp: r.LastUpdateTimestamp,
		Active:              r.Active,
		Frozen:              r.Frozen,
		BorrowingEnabled:    r.BorrowingEnabled,
		UtilizationA:        r.Rates.UtilizationA,
		RateA:               r.Rates.RateA,
		UtilizationB:        r.Rates.UtilizationB,
		RateB:               r.Rates.RateB,
		MaxRate:             r.Rates.MaxRate,
		MaxIndividualBorrow: r.Leverage.MaxIndividualBorrow,
		MaxLeverage:         r.Leverage.MaxLeverage,
	}
	raw, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return err
	}
	s.store.Set(reserveKey(asset), raw)
	return nil
}
