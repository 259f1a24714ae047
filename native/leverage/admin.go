package leverage

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

func (e *Engine) requireOwner(caller common.Address) error {
	if caller != e.owner {
		return errNotOwner
	}
	return nil
}

// Pause halts every engine operation until Unpause.
func (e *Engine) Pause(caller common.Address) error {
	return e.run(func() error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		e.paused = true
		e.logger.Info("engine paused")
		return nil
	})
}

func (e *Engine) Unpause(caller common.Address) error {
	return e.run(func() error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		e.paused = false
		e.logger.Info("engine unpaused")
		return nil
	})
}

// SetVaultParams configures a market for leverage. The running borrowed-USD
// counter of an already-configured vault is preserved across updates.
func (e *Engine) SetVaultParams(caller, vault common.Address, params VaultParams) error {
	return e.run(func() error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		params = params.Clone()
		if existing, err := e.state.GetVaultParams(vault); err == nil {
			params.CurrBorrowedUSD = existing.CurrBorrowedUSD
		} else {
			params.CurrBorrowedUSD = big.NewInt(0)
		}
		if err := e.state.PutVaultParams(vault, params); err != nil {
			return err
		}
		e.logger.Info("vault params set", "vault", vault.Hex(), "enabled", params.LeverageEnabled)
		return nil
	})
}

// SetLeverageEnabled toggles opens for a configured vault without touching
// its caps.
func (e *Engine) SetLeverageEnabled(caller, vault common.Address, enabled bool) error {
	return e.run(func() error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		params, err := e.state.GetVaultParams(vault)
		if err != nil {
			return err
		}
		params.LeverageEnabled = enabled
		return e.state.PutVaultParams(vault, params)
	})
}

// SetFeeCollector wires the liquidation-fee recipient. The zero address
// disables the skim.
func (e *Engine) SetFeeCollector(caller, collector common.Address) error {
	return e.run(func() error {
		if err := e.requireOwner(caller); err != nil {
			return err
		}
		e.feeCollector = collector
		return nil
	})
}
