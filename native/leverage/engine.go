package leverage

import (
	"log/slog"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	nativecommon "leverfarm/native/common"
	"leverfarm/native/lending"
	"leverfarm/native/token"
	"leverfarm/storage"
)

const moduleName = "leverage"

// Engine is the position risk engine: it opens, shrinks and liquidates
// leveraged liquidity positions, acting as the lending pool's single
// authorized borrower. Every mutating entry point is guarded by a
// non-blocking lock and runs all-or-nothing against the journaled store.
type Engine struct {
	mu       sync.Mutex
	store    *storage.Store
	state    *State
	ledger   lending.Ledger
	pool     LendingPool
	oracle   Oracle
	router   SwapRouter
	registry *token.PositionRegistry
	markets  map[common.Address]Market
	logger   *slog.Logger
	pauses   nativecommon.PauseView

	owner        common.Address
	addr         common.Address
	feeCollector common.Address
	paused       bool

	cfg Config
}

// NewEngine constructs an engine holding working funds at addr, administered
// by owner. Markets are registered separately per vault.
func NewEngine(store *storage.Store, ledger lending.Ledger, pool LendingPool, oracle Oracle, router SwapRouter, owner, addr common.Address, cfg Config) *Engine {
	cfg.EnsureDefaults()
	return &Engine{
		store:    store,
		state:    NewState(store),
		ledger:   ledger,
		pool:     pool,
		oracle:   oracle,
		router:   router,
		registry: token.NewPositionRegistry(store),
		markets:  make(map[common.Address]Market),
		logger:   slog.Default(),
		owner:    owner,
		addr:     addr,
		cfg:      cfg,
	}
}

func (e *Engine) SetPauses(v nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = v
}

func (e *Engine) SetLogger(l *slog.Logger) {
	if e == nil || l == nil {
		return
	}
	e.logger = l
}

// RegisterMarket wires the market implementation backing vault.
func (e *Engine) RegisterMarket(vault common.Address, market Market) {
	if e == nil || market == nil {
		return
	}
	e.markets[vault] = market
}

// Address returns the account the engine holds working funds at.
func (e *Engine) Address() common.Address { return e.addr }

// Registry exposes the ownership registry for approvals and queries.
func (e *Engine) Registry() *token.PositionRegistry { return e.registry }

func (e *Engine) guard() error {
	if e.paused {
		return nativecommon.ErrModulePaused
	}
	return nativecommon.Guard(e.pauses, moduleName)
}

// run executes fn under the reentrancy lock with all-or-nothing semantics.
// A call arriving while the lock is held fails immediately rather than queue.
func (e *Engine) run(fn func() error) error {
	if !e.mu.TryLock() {
		return errReentrantCall
	}
	defer e.mu.Unlock()
	mark := e.store.Snapshot()
	if err := fn(); err != nil {
		e.store.RevertToSnapshot(mark)
		return err
	}
	return nil
}

func (e *Engine) market(vault common.Address) (Market, error) {
	market, ok := e.markets[vault]
	if !ok {
		return nil, errMarketNotRegistered
	}
	return market, nil
}

func (e *Engine) denomPrice(denom common.Address) (*big.Int, error) {
	price, err := e.oracle.GetPrice(denom)
	if err != nil || price == nil || price.Sign() <= 0 {
		return nil, errNoPriceFeed
	}
	return price, nil
}

func (e *Engine) sweep(asset, to common.Address) error {
	balance := e.ledger.BalanceOf(asset, e.addr)
	if balance.Sign() == 0 {
		return nil
	}
	return e.ledger.Transfer(asset, e.addr, to, balance)
}

// sweepPositionTokens returns leftover token0/token1/denomination balances to
// recipient. Only these three assets are ever swept; the vault share token is
// structurally out of reach so shares cannot be drained through the sweep.
func (e *Engine) sweepPositionTokens(token0, token1, denom, recipient common.Address) error {
	if err := e.sweep(token0, recipient); err != nil {
		return err
	}
	if err := e.sweep(token1, recipient); err != nil {
		return err
	}
	if denom != token0 && denom != token1 {
		return e.sweep(denom, recipient)
	}
	return nil
}

// OpenPosition opens a leveraged position for caller and returns its id.
// Collateral comes from caller; the gap up to the desired deposit amounts is
// drawn from the pool as same-transaction flash liquidity and restored before
// the call returns, paid for out of the denomination borrow.
func (e *Engine) OpenPosition(caller common.Address, params OpenParams) (uint64, error) {
	var id uint64
	err := e.run(func() error {
		if err := e.guard(); err != nil {
			return err
		}
		vaultParams, err := e.state.GetVaultParams(params.Vault)
		if err != nil {
			return err
		}
		if !vaultParams.LeverageEnabled {
			return errLeverageDisabled
		}
		market, err := e.market(params.Vault)
		if err != nil {
			return err
		}
		if !market.CheckPoolActivity() {
			return errMarketActivity
		}
		twap, err := market.TwapPrice()
		if err != nil {
			return err
		}
		token0, token1 := market.Token0(), market.Token1()

		amount0In := cloneInt(params.Amount0In)
		amount1In := cloneInt(params.Amount1In)
		deposit0 := cloneInt(params.Deposit0)
		deposit1 := cloneInt(params.Deposit1)
		maxBorrow := cloneInt(params.MaxBorrow)
		if amount0In.Sign() < 0 || amount1In.Sign() < 0 || maxBorrow.Sign() < 0 {
			return errInvalidAmount
		}
		if deposit0.Cmp(amount0In) < 0 || deposit1.Cmp(amount1In) < 0 {
			return errInvalidAmount
		}
		if deposit0.Sign() == 0 && deposit1.Sign() == 0 {
			return errInvalidAmount
		}

		poolAddr := e.pool.Address()
		prePool0 := e.ledger.BalanceOf(token0, poolAddr)
		prePool1 := e.ledger.BalanceOf(token1, poolAddr)

		if amount0In.Sign() > 0 {
			if err := e.ledger.Transfer(token0, caller, e.addr, amount0In); err != nil {
				return err
			}
		}
		if amount1In.Sign() > 0 {
			if err := e.ledger.Transfer(token1, caller, e.addr, amount1In); err != nil {
				return err
			}
		}

		delta0 := new(big.Int).Sub(deposit0, amount0In)
		delta1 := new(big.Int).Sub(deposit1, amount1In)
		if delta0.Sign() > 0 {
			if err := e.pool.PullFunds(e.addr, token0, delta0); err != nil {
				return err
			}
		}
		if delta1.Sign() > 0 {
			if err := e.pool.PullFunds(e.addr, token1, delta1); err != nil {
				return err
			}
		}

		shares, used0, used1, err := market.Deposit(e.addr, deposit0, deposit1, params.MinUsed0, params.MinUsed1)
		if err != nil {
			return err
		}
		if shares == nil || shares.Sign() <= 0 {
			return errInvalidAmount
		}

		if maxBorrow.Sign() > 0 {
			if err := e.pool.Borrow(e.addr, params.Denomination, maxBorrow); err != nil {
				return err
			}
		}

		if err := e.restoreFlashLeg(token0, params.Denomination, delta0, params.SwapPath0); err != nil {
			return err
		}
		if err := e.restoreFlashLeg(token1, params.Denomination, delta1, params.SwapPath1); err != nil {
			return err
		}

		// The pool does not enforce pull/push pairing; the engine asserts
		// the balances here instead. The only legitimate decrease at this
		// point is the denomination borrow itself.
		expected0 := cloneInt(prePool0)
		expected1 := cloneInt(prePool1)
		if token0 == params.Denomination {
			expected0.Sub(expected0, maxBorrow)
		}
		if token1 == params.Denomination {
			expected1.Sub(expected1, maxBorrow)
		}
		if e.ledger.BalanceOf(token0, poolAddr).Cmp(expected0) < 0 {
			return errFlashNotRepaid
		}
		if e.ledger.BalanceOf(token1, poolAddr).Cmp(expected1) < 0 {
			return errFlashNotRepaid
		}

		borrowed := cloneInt(maxBorrow)
		leftover := e.ledger.BalanceOf(params.Denomination, e.addr)
		if leftover.Sign() > 0 && maxBorrow.Sign() > 0 {
			applied, err := e.pool.Repay(e.addr, params.Denomination, leftover)
			if err != nil {
				return err
			}
			borrowed.Sub(borrowed, applied)
			if borrowed.Sign() < 0 {
				borrowed.SetInt64(0)
			}
		}

		index, err := e.pool.BorrowIndexOf(params.Denomination)
		if err != nil {
			return err
		}
		price, err := e.denomPrice(params.Denomination)
		if err != nil {
			return err
		}
		depositUSD := ValueInUSD(e.oracle, token0, token1, used0, used1, twap)
		depositValue := mulDiv(depositUSD, wad, price)
		collateralValue := new(big.Int).Sub(depositValue, borrowed)
		if collateralValue.Sign() <= 0 {
			return errInsufficientCollateral
		}
		collateralUSD := wadMul(collateralValue, price)
		borrowedUSD := wadMul(borrowed, price)

		assetParams, err := e.pool.LeverageParamsOf(params.Denomination)
		if err != nil {
			return err
		}
		vaultParams.CurrBorrowedUSD = new(big.Int).Add(vaultParams.CurrBorrowedUSD, borrowedUSD)
		if err := e.checkOpenLimits(vaultParams, assetParams, borrowed, borrowedUSD, depositValue, collateralValue); err != nil {
			return err
		}

		id = e.state.NextPositionID()
		position := &Position{
			ID:                  id,
			Vault:               params.Vault,
			Token0:              token0,
			Token1:              token1,
			Denomination:        params.Denomination,
			Shares:              shares,
			BorrowedAmount:      borrowed,
			BorrowedIndex:       index,
			InitCollateralUSD:   collateralUSD,
			InitCollateralValue: collateralValue,
			InitBorrowedUSD:     borrowedUSD,
		}
		if err := e.state.PutPosition(position); err != nil {
			return err
		}
		if err := e.state.PutVaultParams(params.Vault, vaultParams); err != nil {
			return err
		}

		// A position that is born liquidateable would be free money for a
		// sandwiching frontrunner; reject it outright.
		liquidateable, err := e.liquidateable(position, vaultParams, market)
		if err != nil {
			return err
		}
		if liquidateable {
			return errOpenLiquidateable
		}

		if err := e.registry.Mint(caller, id); err != nil {
			return err
		}
		if err := e.sweepPositionTokens(token0, token1, params.Denomination, caller); err != nil {
			return err
		}
		e.logger.Info("position opened",
			"id", id,
			"vault", params.Vault.Hex(),
			"owner", caller.Hex(),
			"borrowed", borrowed.String(),
		)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// restoreFlashLeg returns a flash-drawn delta of asset to the pool, acquiring
// any shortfall beyond the engine's leftover balance with an exact-output
// swap funded strictly from the denomination. A path sourcing any other token
// is rejected so approved third-party tokens cannot be drained.
func (e *Engine) restoreFlashLeg(asset, denom common.Address, delta *big.Int, path Path) error {
	if delta.Sign() <= 0 {
		return nil
	}
	if asset != denom {
		held := e.ledger.BalanceOf(asset, e.addr)
		if held.Cmp(delta) < 0 {
			shortfall := new(big.Int).Sub(delta, held)
			if path.Empty() || path.First() != denom {
				return errSwapPathSource
			}
			if path.Last() != asset {
				return errSwapPathTarget
			}
			budget := e.ledger.BalanceOf(denom, e.addr)
			if _, err := e.router.SwapExactOutput(e.addr, path, shortfall, budget); err != nil {
				return err
			}
		}
	}
	return e.pool.PushFunds(e.addr, asset, delta)
}
