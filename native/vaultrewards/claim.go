package vaultrewards

import (
	"github.com/ethereum/go-ethereum/common"

	"vaultrewards/core/events"
	"vaultrewards/observability/metrics"
)

// Claim settles addr at height, zeroes its unclaimed balance and credits the
// payout through the token ledger. A zero payout succeeds without touching
// the ledger.
func (e *Engine) Claim(addr common.Address, height uint64) (Amount, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	payout, err := e.claimLocked(addr, height)
	metrics.VaultRewards().ObserveOperation("claim", err)
	return payout, err
}

func (e *Engine) claimLocked(addr common.Address, height uint64) (Amount, error) {
	if e.ledger == nil {
		return Amount{}, ErrNilLedger
	}
	global, participant, stored, err := e.settleLocked(addr, height)
	if err != nil {
		return Amount{}, err
	}
	payout := participant.UnclaimedReward
	participant.UnclaimedReward = Amount{}
	if err := e.state.Commit(&global, &participant); err != nil {
		return Amount{}, err
	}
	e.afterGlobalCommit(stored, global)
	e.payout(addr, payout, height, false)
	return payout, nil
}

// payout hands amount to the ledger after state has been committed. Ledger
// failures are logged and counted but never unwind the committed state.
func (e *Engine) payout(addr common.Address, amount Amount, height uint64, harvest bool) {
	if amount.IsZero() {
		return
	}
	if err := e.ledger.MintOrTransfer(addr, amount); err != nil {
		metrics.VaultRewards().IncLedgerFailure()
		e.logger.Error("reward transfer failed",
			"addr", addr.Hex(),
			"amount", amount.String(),
			"height", height,
			"harvest", harvest,
			"error", err)
		return
	}
	metrics.VaultRewards().AddClaimed(amount.Raw())
	e.emitter.Emit(events.VaultRewardsClaimed{
		Height:  height,
		Account: addr,
		Amount:  amount.Raw(),
		Harvest: harvest,
	})
}
