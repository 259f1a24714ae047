package lending

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Owner-gated administration. Each mutation runs under the same lock and
// snapshot discipline as the user-facing operations.

func (p *Pool) requireOwner(caller common.Address) error {
	if caller != p.owner {
		return errNotOwner
	}
	return nil
}

// Pause halts every pool operation until Unpause.
func (p *Pool) Pause(caller common.Address) error {
	return p.run(func() error {
		if err := p.requireOwner(caller); err != nil {
			return err
		}
		p.paused = true
		p.logger.Info("pool paused")
		return nil
	})
}

func (p *Pool) Unpause(caller common.Address) error {
	return p.run(func() error {
		if err := p.requireOwner(caller); err != nil {
			return err
		}
		p.paused = false
		p.logger.Info("pool unpaused")
		return nil
	})
}

func (p *Pool) mutateReserve(caller, asset common.Address, mutate func(*Reserve)) error {
	return p.run(func() error {
		if err := p.requireOwner(caller); err != nil {
			return err
		}
		reserve, err := p.state.GetReserve(asset)
		if err != nil {
			return err
		}
		if err := reserve.updateState(p.timestamp); err != nil {
			return err
		}
		mutate(reserve)
		reserve.updateInterestRates()
		return p.state.PutReserve(asset, reserve)
	})
}

// FreezeReserve blocks deposits and borrows; redeem and repay stay open.
func (p *Pool) FreezeReserve(caller, asset common.Address) error {
	return p.mutateReserve(caller, asset, func(r *Reserve) { r.Frozen = true })
}

func (p *Pool) UnfreezeReserve(caller, asset common.Address) error {
	return p.mutateReserve(caller, asset, func(r *Reserve) { r.Frozen = false })
}

func (p *Pool) SetBorrowingEnabled(caller, asset common.Address, enabled bool) error {
	return p.mutateReserve(caller, asset, func(r *Reserve) { r.BorrowingEnabled = enabled })
}

// SetCapacity caps available plus borrowed liquidity. Zero removes the cap.
func (p *Pool) SetCapacity(caller, asset common.Address, capacity *big.Int) error {
	return p.mutateReserve(caller, asset, func(r *Reserve) { r.Capacity = cloneInt(capacity) })
}

func (p *Pool) SetRateConfig(caller, asset common.Address, rates RateConfig) error {
	return p.mutateReserve(caller, asset, func(r *Reserve) { r.Rates = rates.Clone() })
}

// SetLeverageParams configures the per-asset caps consumed by the leverage
// engine.
func (p *Pool) SetLeverageParams(caller, asset common.Address, params LeverageParams) error {
	return p.mutateReserve(caller, asset, func(r *Reserve) { r.Leverage = params.Clone() })
}

// SetBorrower wires the single authorized borrower. Settable exactly once.
func (p *Pool) SetBorrower(caller, borrower common.Address) error {
	return p.run(func() error {
		if err := p.requireOwner(caller); err != nil {
			return err
		}
		if p.borrowerSet {
			return errBorrowerAlreadySet
		}
		p.borrower = borrower
		p.borrowerSet = true
		p.logger.Info("authorized borrower set", "borrower", borrower.Hex())
		return nil
	})
}
