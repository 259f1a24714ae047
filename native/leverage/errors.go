package leverage

import "errors"

var (
	errNotOwner               = errors.New("leverage engine: caller is not the owner")
	errReentrantCall          = errors.New("leverage engine: reentrant call")
	errVaultNotConfigured     = errors.New("leverage engine: vault not configured")
	errMarketNotRegistered    = errors.New("leverage engine: market not registered")
	errLeverageDisabled       = errors.New("leverage engine: leverage disabled for market")
	errMarketActivity         = errors.New("leverage engine: market activity check failed")
	errInvalidAmount          = errors.New("leverage engine: invalid amount")
	errInvalidPercentage      = errors.New("leverage engine: withdraw percentage out of range")
	errNotPositionOwner       = errors.New("leverage engine: caller is not owner or approved")
	errPositionNotFound       = errors.New("leverage engine: position not found")
	errSwapPathSource         = errors.New("leverage engine: swap path source token mismatch")
	errSwapPathTarget         = errors.New("leverage engine: swap path target token mismatch")
	errNoPriceFeed            = errors.New("leverage engine: denomination asset has no price feed")
	errInsufficientCollateral = errors.New("leverage engine: borrow exceeds deposited value")
	errBorrowTooSmall         = errors.New("leverage engine: borrowed value below minimum")
	errLeverageTooHigh        = errors.New("leverage engine: leverage above maximum")
	errUSDCapExceeded         = errors.New("leverage engine: borrow exceeds market USD cap")
	errIndividualBorrowCap    = errors.New("leverage engine: borrow exceeds per-asset cap")
	errCumulativeCapExceeded  = errors.New("leverage engine: market cumulative borrow cap exceeded")
	errPositionTooSmall       = errors.New("leverage engine: remaining position below minimum borrow")
	errOpenLiquidateable      = errors.New("leverage engine: position liquidateable at open")
	errNotLiquidateable       = errors.New("leverage engine: position is not liquidateable")
	errFlashNotRepaid         = errors.New("leverage engine: flash liquidity not restored")
)

// Exported aliases for callers that branch on specific failures.
var (
	ErrLeverageDisabled  = errLeverageDisabled
	ErrPositionNotFound  = errPositionNotFound
	ErrLeverageTooHigh   = errLeverageTooHigh
	ErrPositionTooSmall  = errPositionTooSmall
	ErrOpenLiquidateable = errOpenLiquidateable
	ErrNotLiquidateable  = errNotLiquidateable
	ErrReentrantCall     = errReentrantCall
)
