package token

import (
	"encoding/binary"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"leverfarm/storage"
)

var (
	ErrTokenExists   = errors.New("position token: id already minted")
	ErrTokenNotFound = errors.New("position token: unknown id")
	ErrNotOwner      = errors.New("position token: caller is not the owner")
)

var (
	posOwnerPrefix    = []byte("postoken/owner/")
	posApprovalPrefix = []byte("postoken/appr/")
	posOperatorPrefix = []byte("postoken/op/")
)

// PositionRegistry implements the non-fungible ownership semantics gating
// leveraged positions: one owner per id, a single approved operator per id and
// blanket operator approvals per owner.
type PositionRegistry struct {
	store *storage.Store
}

func NewPositionRegistry(store *storage.Store) *PositionRegistry {
	return &PositionRegistry{store: store}
}

func idKey(prefix []byte, id uint64) []byte {
	key := append([]byte(nil), prefix...)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], id)
	return append(key, buf[:]...)
}

func operatorKey(owner, operator common.Address) []byte {
	key := append([]byte(nil), posOperatorPrefix...)
	key = append(key, owner.Bytes()...)
	key = append(key, operator.Bytes()...)
	return key
}

func (r *PositionRegistry) Mint(to common.Address, id uint64) error {
	key := idKey(posOwnerPrefix, id)
	if r.store.Has(key) {
		return ErrTokenExists
	}
	r.store.Set(key, to.Bytes())
	return nil
}

func (r *PositionRegistry) Burn(id uint64) error {
	key := idKey(posOwnerPrefix, id)
	if !r.store.Has(key) {
		return ErrTokenNotFound
	}
	r.store.Delete(key)
	r.store.Delete(idKey(posApprovalPrefix, id))
	return nil
}

func (r *PositionRegistry) OwnerOf(id uint64) (common.Address, error) {
	raw := r.store.Get(idKey(posOwnerPrefix, id))
	if len(raw) == 0 {
		return common.Address{}, ErrTokenNotFound
	}
	return common.BytesToAddress(raw), nil
}

// Approve grants operator control over a single id. Only the owner may grant.
func (r *PositionRegistry) Approve(caller, operator common.Address, id uint64) error {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return err
	}
	if owner != caller {
		return ErrNotOwner
	}
	key := idKey(posApprovalPrefix, id)
	if operator == (common.Address{}) {
		r.store.Delete(key)
		return nil
	}
	r.store.Set(key, operator.Bytes())
	return nil
}

func (r *PositionRegistry) GetApproved(id uint64) common.Address {
	raw := r.store.Get(idKey(posApprovalPrefix, id))
	if len(raw) == 0 {
		return common.Address{}
	}
	return common.BytesToAddress(raw)
}

func (r *PositionRegistry) SetApprovalForAll(owner, operator common.Address, approved bool) {
	key := operatorKey(owner, operator)
	if approved {
		r.store.Set(key, []byte{1})
		return
	}
	r.store.Delete(key)
}

func (r *PositionRegistry) IsApprovedForAll(owner, operator common.Address) bool {
	return r.store.Has(operatorKey(owner, operator))
}

// IsAuthorized reports whether caller is the owner of id or an approved
// operator for it.
func (r *PositionRegistry) IsAuthorized(caller common.Address, id uint64) bool {
	owner, err := r.OwnerOf(id)
	if err != nil {
		return false
	}
	if owner == caller {
		return true
	}
	if r.GetApproved(id) == caller {
		return true
	}
	return r.IsApprovedForAll(owner, caller)
}
