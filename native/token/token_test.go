package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	"leverfarm/storage"
)

var (
	claimAddr = common.HexToAddress("0xC0")
	alice     = common.HexToAddress("0xA1")
	bob       = common.HexToAddress("0xB1")
	carol     = common.HexToAddress("0xC1")
)

func TestClaimMintBurnSupply(t *testing.T) {
	l := NewClaimLedger(storage.NewStore())

	require.NoError(t, l.Mint(claimAddr, alice, big.NewInt(100)))
	require.NoError(t, l.Mint(claimAddr, bob, big.NewInt(50)))
	require.Equal(t, int64(150), l.TotalSupply(claimAddr).Int64())

	require.NoError(t, l.Burn(claimAddr, alice, big.NewInt(30)))
	require.Equal(t, int64(70), l.BalanceOf(claimAddr, alice).Int64())
	require.Equal(t, int64(120), l.TotalSupply(claimAddr).Int64())

	require.ErrorIs(t, l.Burn(claimAddr, bob, big.NewInt(51)), ErrInsufficientBalance)
}

func TestClaimTransfer(t *testing.T) {
	l := NewClaimLedger(storage.NewStore())
	require.NoError(t, l.Mint(claimAddr, alice, big.NewInt(10)))

	require.NoError(t, l.Transfer(claimAddr, alice, bob, big.NewInt(4)))
	require.Equal(t, int64(6), l.BalanceOf(claimAddr, alice).Int64())
	require.Equal(t, int64(4), l.BalanceOf(claimAddr, bob).Int64())
	require.Equal(t, int64(10), l.TotalSupply(claimAddr).Int64())
}

func TestPositionOwnershipLifecycle(t *testing.T) {
	r := NewPositionRegistry(storage.NewStore())

	require.NoError(t, r.Mint(alice, 1))
	require.ErrorIs(t, r.Mint(bob, 1), ErrTokenExists)

	owner, err := r.OwnerOf(1)
	require.NoError(t, err)
	require.Equal(t, alice, owner)

	require.NoError(t, r.Burn(1))
	_, err = r.OwnerOf(1)
	require.ErrorIs(t, err, ErrTokenNotFound)
	require.ErrorIs(t, r.Burn(1), ErrTokenNotFound)
}

func TestPositionAuthorization(t *testing.T) {
	r := NewPositionRegistry(storage.NewStore())
	require.NoError(t, r.Mint(alice, 7))

	require.True(t, r.IsAuthorized(alice, 7))
	require.False(t, r.IsAuthorized(bob, 7))

	require.ErrorIs(t, r.Approve(bob, carol, 7), ErrNotOwner)
	require.NoError(t, r.Approve(alice, bob, 7))
	require.True(t, r.IsAuthorized(bob, 7))

	r.SetApprovalForAll(alice, carol, true)
	require.True(t, r.IsAuthorized(carol, 7))
	r.SetApprovalForAll(alice, carol, false)
	require.False(t, r.IsAuthorized(carol, 7))

	// Burn clears the single-id approval.
	require.NoError(t, r.Burn(7))
	require.NoError(t, r.Mint(alice, 7))
	require.False(t, r.IsAuthorized(bob, 7))
}
