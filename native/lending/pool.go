package lending

import (
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	nativecommon "leverfarm/native/common"
	"leverfarm/native/token"
	"leverfarm/storage"
)

const moduleName = "lending"

// Ledger is the external token-bookkeeping collaborator moving underlying
// assets between participants and the pool.
type Ledger interface {
	BalanceOf(asset, holder common.Address) *big.Int
	Transfer(asset, from, to common.Address, amount *big.Int) error
}

// Pool holds one interest-accruing reserve per underlying asset. Lenders
// deposit against a claim token; a single authorized borrower (the leverage
// engine) draws and repays debt. Every mutating entry point is guarded by a
// non-blocking lock and runs all-or-nothing against the journaled store.
type Pool struct {
	mu     sync.Mutex
	store  *storage.Store
	state  *State
	ledger Ledger
	claims *token.ClaimLedger
	logger *slog.Logger
	pauses nativecommon.PauseView

	owner    common.Address
	poolAddr common.Address

	borrower    common.Address
	borrowerSet bool
	paused      bool
	timestamp   uint64

	cfg Config
}

// NewPool constructs a pool holding funds at poolAddr, administered by owner.
func NewPool(store *storage.Store, ledger Ledger, owner, poolAddr common.Address, cfg Config) *Pool {
	cfg.EnsureDefaults()
	return &Pool{
		store:    store,
		state:    NewState(store),
		ledger:   ledger,
		claims:   token.NewClaimLedger(store),
		logger:   slog.Default(),
		owner:    owner,
		poolAddr: poolAddr,
		cfg:      cfg,
	}
}

func (p *Pool) SetPauses(v nativecommon.PauseView) {
	if p == nil {
		return
	}
	p.pauses = v
}

func (p *Pool) SetLogger(l *slog.Logger) {
	if p == nil || l == nil {
		return
	}
	p.logger = l
}

// SetTimestamp records the wall-clock second used by subsequent operations.
func (p *Pool) SetTimestamp(ts uint64) {
	if p == nil {
		return
	}
	p.timestamp = ts
}

func (p *Pool) Timestamp() uint64 { return p.timestamp }

// Address returns the account holding pooled funds.
func (p *Pool) Address() common.Address { return p.poolAddr }

// Claims exposes the claim-token ledger for balance queries.
func (p *Pool) Claims() *token.ClaimLedger { return p.claims }

func (p *Pool) guard() error {
	if p.paused {
		return nativecommon.ErrModulePaused
	}
	return nativecommon.Guard(p.pauses, moduleName)
}

// run executes fn under the reentrancy lock with all-or-nothing semantics.
// A call arriving while the lock is held fails immediately rather than queue.
func (p *Pool) run(fn func() error) error {
	if !p.mu.TryLock() {
		return errReentrantCall
	}
	defer p.mu.Unlock()
	mark := p.store.Snapshot()
	if err := fn(); err != nil {
		p.store.RevertToSnapshot(mark)
		return err
	}
	return nil
}

// ClaimTokenAddress derives the deterministic claim-token address for asset.
func ClaimTokenAddress(asset common.Address) common.Address {
	hash := ethcrypto.Keccak256([]byte("leverfarm/claim"), asset.Bytes())
	return common.BytesToAddress(hash[12:])
}

// InitReserve creates the reserve for asset with the default rate curve and
// deploys its claim token. One-time per asset.
func (p *Pool) InitReserve(caller, asset common.Address) error {
	return p.run(func() error {
		if caller != p.owner {
			return errNotOwner
		}
		if p.state.HasReserve(asset) {
			return errReserveExists
		}
		reserve := &Reserve{
			BorrowIndex:         Ray(),
			CurrentBorrowRate:   big.NewInt(0),
			TotalBorrows:        big.NewInt(0),
			UnderlyingBalance:   big.NewInt(0),
			Capacity:            big.NewInt(0),
			ClaimToken:          ClaimTokenAddress(asset),
			LastUpdateTimestamp: p.timestamp,
			Active:              true,
			BorrowingEnabled:    true,
			Rates:               p.cfg.DefaultRateConfig(),
		}
		if err := p.state.PutReserve(asset, reserve); err != nil {
			return err
		}
		p.logger.Info("reserve initialized", "asset", asset.Hex(), "claimToken", reserve.ClaimToken.Hex())
		return nil
	})
}

func reserveToClaimRate(claimSupply, totalLiquidity *big.Int) *big.Int {
	if claimSupply.Sign() > 0 && totalLiquidity.Sign() > 0 {
		return rayDiv(claimSupply, totalLiquidity)
	}
	return Ray()
}

func claimToReserveRate(claimSupply, totalLiquidity *big.Int) *big.Int {
	if claimSupply.Sign() > 0 && totalLiquidity.Sign() > 0 {
		return rayDiv(totalLiquidity, claimSupply)
	}
	return Ray()
}

// Deposit pulls amount of asset from caller and mints claim tokens to
// beneficiary at the current exchange rate. The first deposit into a reserve
// seeds a fixed dust claim to the dead address so the exchange rate cannot be
// inflated by a donation attack; the dust is subtracted from the minted
// amount.
func (p *Pool) Deposit(caller, asset common.Address, amount *big.Int, beneficiary common.Address) (*big.Int, error) {
	minted := new(big.Int)
	err := p.run(func() error {
		if err := p.guard(); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return errInvalidAmount
		}
		reserve, err := p.state.GetReserve(asset)
		if err != nil {
			return err
		}
		if !reserve.Active {
			return errReserveInactive
		}
		if reserve.Frozen {
			return errReserveFrozen
		}
		if err := reserve.updateState(p.timestamp); err != nil {
			return err
		}
		if err := reserve.checkCapacity(amount, p.timestamp); err != nil {
			return err
		}

		supply := p.claims.TotalSupply(reserve.ClaimToken)
		total := reserve.totalLiquidity(p.timestamp)
		minted.Set(rayMul(amount, reserveToClaimRate(supply, total)))

		dust := new(big.Int).SetUint64(p.cfg.DustAmount)
		if supply.Sign() == 0 {
			if minted.Cmp(dust) <= 0 {
				return errDustDeposit
			}
			if err := p.claims.Mint(reserve.ClaimToken, token.DeadAddress, dust); err != nil {
				return err
			}
			minted.Sub(minted, dust)
		}
		if minted.Cmp(dust) <= 0 {
			return errDustDeposit
		}

		if err := p.ledger.Transfer(asset, caller, p.poolAddr, amount); err != nil {
			return err
		}
		if err := p.claims.Mint(reserve.ClaimToken, beneficiary, minted); err != nil {
			return err
		}
		reserve.UnderlyingBalance = new(big.Int).Add(reserve.UnderlyingBalance, amount)
		reserve.updateInterestRates()
		return p.state.PutReserve(asset, reserve)
	})
	if err != nil {
		return nil, err
	}
	return minted, nil
}

// Redeem burns claim tokens from caller and releases the underlying to
// recipient. Passing MaxClaim redeems the caller's full balance. Redemption
// stays open while a reserve is frozen.
func (p *Pool) Redeem(caller, asset common.Address, claimAmount *big.Int, recipient common.Address) (*big.Int, error) {
	redeemed := new(big.Int)
	err := p.run(func() error {
		if err := p.guard(); err != nil {
			return err
		}
		if claimAmount == nil || claimAmount.Sign() <= 0 {
			return errInvalidAmount
		}
		reserve, err := p.state.GetReserve(asset)
		if err != nil {
			return err
		}
		if !reserve.Active {
			return errReserveInactive
		}
		if err := reserve.updateState(p.timestamp); err != nil {
			return err
		}

		claims := new(big.Int).Set(claimAmount)
		balance := p.claims.BalanceOf(reserve.ClaimToken, caller)
		if claims.Cmp(MaxClaim) == 0 {
			claims.Set(balance)
		}
		if claims.Sign() <= 0 || claims.Cmp(balance) > 0 {
			return errInsufficientClaims
		}

		supply := p.claims.TotalSupply(reserve.ClaimToken)
		total := reserve.totalLiquidity(p.timestamp)
		redeemed.Set(rayMul(claims, claimToReserveRate(supply, total)))
		if redeemed.Cmp(reserve.UnderlyingBalance) > 0 {
			return errInsufficientLiquidity
		}

		if err := p.claims.Burn(reserve.ClaimToken, caller, claims); err != nil {
			return err
		}
		if err := p.ledger.Transfer(asset, p.poolAddr, recipient, redeemed); err != nil {
			return err
		}
		reserve.UnderlyingBalance = new(big.Int).Sub(reserve.UnderlyingBalance, redeemed)
		reserve.updateInterestRates()
		return p.state.PutReserve(asset, reserve)
	})
	if err != nil {
		return nil, err
	}
	return redeemed, nil
}

func (p *Pool) requireBorrower(caller common.Address) error {
	if !p.borrowerSet || caller != p.borrower {
		return errNotAuthorizedBorrower
	}
	return nil
}

// Borrow transfers amount of asset to the authorized borrower and books it as
// debt at the current index.
func (p *Pool) Borrow(caller, asset common.Address, amount *big.Int) error {
	return p.run(func() error {
		if err := p.guard(); err != nil {
			return err
		}
		if err := p.requireBorrower(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return errInvalidAmount
		}
		reserve, err := p.state.GetReserve(asset)
		if err != nil {
			return err
		}
		if !reserve.Active {
			return errReserveInactive
		}
		if reserve.Frozen {
			return errReserveFrozen
		}
		if !reserve.BorrowingEnabled {
			return errBorrowingDisabled
		}
		if err := reserve.updateState(p.timestamp); err != nil {
			return err
		}
		if amount.Cmp(reserve.UnderlyingBalance) > 0 {
			return errInsufficientLiquidity
		}

		if err := p.ledger.Transfer(asset, p.poolAddr, caller, amount); err != nil {
			return err
		}
		reserve.TotalBorrows = new(big.Int).Add(reserve.TotalBorrows, amount)
		reserve.UnderlyingBalance = new(big.Int).Sub(reserve.UnderlyingBalance, amount)
		reserve.updateInterestRates()
		return p.state.PutReserve(asset, reserve)
	})
}

// Repay books a repayment from the authorized borrower, capping the applied
// amount at the outstanding debt. Over-repayment never fails; the applied
// amount is returned. Repayment stays open while a reserve is frozen.
func (p *Pool) Repay(caller, asset common.Address, amount *big.Int) (*big.Int, error) {
	applied := new(big.Int)
	err := p.run(func() error {
		if err := p.guard(); err != nil {
			return err
		}
		if err := p.requireBorrower(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return errInvalidAmount
		}
		reserve, err := p.state.GetReserve(asset)
		if err != nil {
			return err
		}
		if err := reserve.updateState(p.timestamp); err != nil {
			return err
		}

		applied.Set(amount)
		if applied.Cmp(reserve.TotalBorrows) > 0 {
			applied.Set(reserve.TotalBorrows)
		}
		if applied.Sign() == 0 {
			return nil
		}

		if err := p.ledger.Transfer(asset, caller, p.poolAddr, applied); err != nil {
			return err
		}
		reserve.TotalBorrows = new(big.Int).Sub(reserve.TotalBorrows, applied)
		reserve.UnderlyingBalance = new(big.Int).Add(reserve.UnderlyingBalance, applied)
		reserve.updateInterestRates()
		return p.state.PutReserve(asset, reserve)
	})
	if err != nil {
		return nil, err
	}
	return applied, nil
}

// PullFunds moves raw underlying from the pool to the authorized borrower
// without touching reserve accounting. Together with PushFunds it forms the
// same-transaction flash-liquidity primitive: the borrower is trusted to push
// an equal amount back before its own operation completes. The pool does not
// enforce repayment; the borrower asserts it.
func (p *Pool) PullFunds(caller, asset common.Address, amount *big.Int) error {
	return p.run(func() error {
		if err := p.guard(); err != nil {
			return err
		}
		if err := p.requireBorrower(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() < 0 {
			return errInvalidAmount
		}
		if amount.Sign() == 0 {
			return nil
		}
		reserve, err := p.state.GetReserve(asset)
		if err != nil {
			return err
		}
		if amount.Cmp(reserve.UnderlyingBalance) > 0 {
			return errInsufficientLiquidity
		}
		return p.ledger.Transfer(asset, p.poolAddr, caller, amount)
	})
}

// PushFunds returns raw underlying pulled via PullFunds.
func (p *Pool) PushFunds(caller, asset common.Address, amount *big.Int) error {
	return p.run(func() error {
		if err := p.guard(); err != nil {
			return err
		}
		if err := p.requireBorrower(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() < 0 {
			return errInvalidAmount
		}
		if amount.Sign() == 0 {
			return nil
		}
		return p.ledger.Transfer(asset, caller, p.poolAddr, amount)
	})
}
