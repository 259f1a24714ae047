package leverage

import (
	"encoding/binary"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"leverfarm/storage"
)

var (
	positionPrefix = []byte("leverage/position/")
	vaultPrefix    = []byte("leverage/vault/")
	nextIDKey      = []byte("leverage/nextid")
)

// storedPosition is the RLP wire form of a Position.
type storedPosition struct {
	ID                  uint64
	Vault               common.Address
	Token0              common.Address
	Token1              common.Address
	Denomination        common.Address
	Shares              *big.Int
	BorrowedAmount      *big.Int
	BorrowedIndex       *big.Int
	InitCollateralUSD   *big.Int
	InitCollateralValue *big.Int
	InitBorrowedUSD     *big.Int
}

type storedVaultParams struct {
	LeverageEnabled          bool
	MaxUSDLeverage           *big.Int
	MaxTimesLeverage         *big.Int
	MinCollateralPct         *big.Int
	MaxCumulativeBorrowedUSD *big.Int
	CurrBorrowedUSD          *big.Int
}

// State persists positions and vault params in the shared journaled store so
// engine mutations revert together with fund movements.
type State struct {
	store *storage.Store
}

func NewState(store *storage.Store) *State {
	return &State{store: store}
}

func positionKey(id uint64) []byte {
	key := append([]byte(nil), positionPrefix...)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return append(key, buf[:]...)
}

func vaultKey(vault common.Address) []byte {
	return append(append([]byte(nil), vaultPrefix...), vault.Bytes()...)
}

// NextPositionID allocates the next id. Ids start at 1 and only grow; burned
// ids are never reused.
func (s *State) NextPositionID() uint64 {
	id := uint64(1)
	if raw := s.store.Get(nextIDKey); len(raw) == 8 {
		id = binary.BigEndian.Uint64(raw)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id+1)
	s.store.Set(nextIDKey, buf[:])
	return id
}

func (s *State) HasPosition(id uint64) bool {
	return s.store.Has(positionKey(id))
}

func (s *State) GetPosition(id uint64) (*Position, error) {
	raw := s.store.Get(positionKey(id))
	if len(raw) == 0 {
		return nil, errPositionNotFound
	}
	var stored storedPosition
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return nil, err
	}
	position := &Position{
		ID:                  stored.ID,
		Vault:               stored.Vault,
		Token0:              stored.Token0,
		Token1:              stored.Token1,
		Denomination:        stored.Denomination,
		Shares:              stored.Shares,
		BorrowedAmount:      stored.BorrowedAmount,
		BorrowedIndex:       stored.BorrowedIndex,
		InitCollateralUSD:   stored.InitCollateralUSD,
		InitCollateralValue: stored.InitCollateralValue,
		InitBorrowedUSD:     stored.InitBorrowedUSD,
	}
	position.normalize()
	return position, nil
}

func (s *State) PutPosition(p *Position) error {
	p.normalize()
	stored := storedPosition{
		ID:                  p.ID,
		Vault:               p.Vault,
		Token0:              p.Token0,
		Token1:              p.Token1,
		Denomination:        p.Denomination,
		Shares:              p.Shares,
		BorrowedAmount:      p.BorrowedAmount,
		BorrowedIndex:       p.BorrowedIndex,
		InitCollateralUSD:   p.InitCollateralUSD,
		InitCollateralValue: p.InitCollateralValue,
		InitBorrowedUSD:     p.InitBorrowedUSD,
	}
	raw, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return err
	}
	s.store.Set(positionKey(p.ID), raw)
	return nil
}

func (s *State) DeletePosition(id uint64) {
	s.store.Delete(positionKey(id))
}

func (s *State) HasVaultParams(vault common.Address) bool {
	return s.store.Has(vaultKey(vault))
}

func (s *State) GetVaultParams(vault common.Address) (VaultParams, error) {
	raw := s.store.Get(vaultKey(vault))
	if len(raw) == 0 {
		return VaultParams{}, errVaultNotConfigured
	}
	var stored storedVaultParams
	if err := rlp.DecodeBytes(raw, &stored); err != nil {
		return VaultParams{}, err
	}
	params := VaultParams{
		LeverageEnabled:          stored.LeverageEnabled,
		MaxUSDLeverage:           stored.MaxUSDLeverage,
		MaxTimesLeverage:         stored.MaxTimesLeverage,
		MinCollateralPct:         stored.MinCollateralPct,
		MaxCumulativeBorrowedUSD: stored.MaxCumulativeBorrowedUSD,
		CurrBorrowedUSD:          stored.CurrBorrowedUSD,
	}
	params.normalize()
	return params, nil
}

func (s *State) PutVaultParams(vault common.Address, params VaultParams) error {
	params.normalize()
	stored := storedVaultParams{
		LeverageEnabled:          params.LeverageEnabled,
		MaxUSDLeverage:           params.MaxUSDLeverage,
		MaxTimesLeverage:         params.MaxTimesLeverage,
		MinCollateralPct:         params.MinCollateralPct,
		MaxCumulativeBorrowedUSD: params.MaxCumulativeBorrowedUSD,
		CurrBorrowedUSD:          params.CurrBorrowedUSD,
	}
	raw, err := rlp.EncodeToBytes(&stored)
	if err != nil {
		return err
	}
	s.store.Set(vaultKey(vault), raw)
	return nil
}
