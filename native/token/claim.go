package token

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"leverfarm/storage"
)

var (
	ErrInvalidAmount       = errors.New("claim token: amount must be positive")
	ErrInsufficientBalance = errors.New("claim token: insufficient balance")
)

// DeadAddress receives the bootstrap dust mint that defends fresh reserves
// against share-inflation attacks.
var DeadAddress = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

var (
	claimBalancePrefix = []byte("claim/bal/")
	claimSupplyPrefix  = []byte("claim/sup/")
)

// ClaimLedger tracks fungible claim-token balances for every claim token
// deployed by the lending pool. One ledger serves all reserves; balances are
// keyed by the claim token's address.
type ClaimLedger struct {
	store *storage.Store
}

func NewClaimLedger(store *storage.Store) *ClaimLedger {
	return &ClaimLedger{store: store}
}

func claimBalanceKey(tokenAddr, holder common.Address) []byte {
	key := append([]byte(nil), claimBalancePrefix...)
	key = append(key, tokenAddr.Bytes()...)
	key = append(key, holder.Bytes()...)
	return key
}

func claimSupplyKey(tokenAddr common.Address) []byte {
	return append(append([]byte(nil), claimSupplyPrefix...), tokenAddr.Bytes()...)
}

func (l *ClaimLedger) BalanceOf(tokenAddr, holder common.Address) *big.Int {
	raw := l.store.Get(claimBalanceKey(tokenAddr, holder))
	if len(raw) == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).SetBytes(raw)
}

func (l *ClaimLedger) TotalSupply(tokenAddr common.Address) *big.Int {
	raw := l.store.Get(claimSupplyKey(tokenAddr))
	if len(raw) == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).SetBytes(raw)
}

func (l *ClaimLedger) setBalance(tokenAddr, holder common.Address, amount *big.Int) {
	key := claimBalanceKey(tokenAddr, holder)
	if amount.Sign() == 0 {
		l.store.Delete(key)
		return
	}
	l.store.Set(key, amount.Bytes())
}

func (l *ClaimLedger) Mint(tokenAddr, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	l.setBalance(tokenAddr, to, new(big.Int).Add(l.BalanceOf(tokenAddr, to), amount))
	l.store.Set(claimSupplyKey(tokenAddr), new(big.Int).Add(l.TotalSupply(tokenAddr), amount).Bytes())
	return nil
}

func (l *ClaimLedger) Burn(tokenAddr, from common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	bal := l.BalanceOf(tokenAddr, from)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.setBalance(tokenAddr, from, new(big.Int).Sub(bal, amount))
	l.store.Set(claimSupplyKey(tokenAddr), new(big.Int).Sub(l.TotalSupply(tokenAddr), amount).Bytes())
	return nil
}

func (l *ClaimLedger) Transfer(tokenAddr, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBal := l.BalanceOf(tokenAddr, from)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	l.setBalance(tokenAddr, from, new(big.Int).Sub(fromBal, amount))
	l.setBalance(tokenAddr, to, new(big.Int).Add(l.BalanceOf(tokenAddr, to), amount))
	return nil
}
