package bank

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"leverfarm/storage"
)

var (
	ErrInvalidAmount       = errors.New("bank: amount must be positive")
	ErrInsufficientBalance = errors.New("bank: insufficient balance")
)

var balancePrefix = []byte("bank/bal/")

// Bank is the reference implementation of the underlying-asset ledger. Token
// bookkeeping proper is an external collaborator of the protocol; this version
// keeps balances in the shared journaled store so that a reverted operation
// also reverts its transfers.
type Bank struct {
	store *storage.Store
}

func New(store *storage.Store) *Bank {
	return &Bank{store: store}
}

func balanceKey(asset, holder common.Address) []byte {
	key := append([]byte(nil), balancePrefix...)
	key = append(key, asset.Bytes()...)
	key = append(key, holder.Bytes()...)
	return key
}

func (b *Bank) BalanceOf(asset, holder common.Address) *big.Int {
	raw := b.store.Get(balanceKey(asset, holder))
	if len(raw) == 0 {
		return big.NewInt(0)
	}
	return new(big.Int).SetBytes(raw)
}

func (b *Bank) setBalance(asset, holder common.Address, amount *big.Int) {
	key := balanceKey(asset, holder)
	if amount.Sign() == 0 {
		b.store.Delete(key)
		return
	}
	b.store.Set(key, amount.Bytes())
}

// Transfer moves amount of asset between holders.
func (b *Bank) Transfer(asset, from, to common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if amount.Sign() == 0 || from == to {
		return nil
	}
	fromBal := b.BalanceOf(asset, from)
	if fromBal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.setBalance(asset, from, new(big.Int).Sub(fromBal, amount))
	b.setBalance(asset, to, new(big.Int).Add(b.BalanceOf(asset, to), amount))
	return nil
}

// Mint credits freshly issued units to holder. Used by genesis wiring and tests.
func (b *Bank) Mint(asset, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	b.setBalance(asset, holder, new(big.Int).Add(b.BalanceOf(asset, holder), amount))
	return nil
}

// Burn destroys units held by holder.
func (b *Bank) Burn(asset, holder common.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	bal := b.BalanceOf(asset, holder)
	if bal.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.setBalance(asset, holder, new(big.Int).Sub(bal, amount))
	return nil
}
