package lending

import "errors"

var (
	errNotOwner              = errors.New("lending pool: caller is not the owner")
	errNotAuthorizedBorrower = errors.New("lending pool: caller is not the authorized borrower")
	errBorrowerAlreadySet    = errors.New("lending pool: authorized borrower already set")
	errReentrantCall         = errors.New("lending pool: reentrant call")
	errReserveExists         = errors.New("lending pool: reserve already initialized")
	errReserveNotFound       = errors.New("lending pool: reserve not initialized")
	errReserveInactive       = errors.New("lending pool: reserve inactive")
	errReserveFrozen         = errors.New("lending pool: reserve frozen")
	errBorrowingDisabled     = errors.New("lending pool: borrowing disabled")
	errInvalidAmount         = errors.New("lending pool: amount must be positive")
	errCapacityExceeded      = errors.New("lending pool: reserve capacity exceeded")
	errDustDeposit           = errors.New("lending pool: deposit below minimum claim amount")
	errInsufficientLiquidity = errors.New("lending pool: insufficient available liquidity")
	errInsufficientClaims    = errors.New("lending pool: insufficient claim balance")
	errIndexOverflow         = errors.New("lending pool: borrow index overflow")
)

// Exported aliases for callers that match on failure classes.
var (
	ErrNotAuthorizedBorrower = errNotAuthorizedBorrower
	ErrReserveFrozen         = errReserveFrozen
	ErrCapacityExceeded      = errCapacityExceeded
	ErrInsufficientLiquidity = errInsufficientLiquidity
	ErrDustDeposit           = errDustDeposit
	ErrReentrantCall         = errReentrantCall
)
