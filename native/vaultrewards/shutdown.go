package vaultrewards

import (
	"github.com/ethereum/go-ethereum/common"

	"vaultrewards/core/events"
	nativecommon "vaultrewards/native/common"
	"vaultrewards/observability/metrics"
)

// ToggleEmergencyShutdown flips the shutdown flag on behalf of the guardian and
// returns the new value. Rewards up to height are locked into the accumulator
// before the flip; lifting the shutdown resumes accrual from height with no
// catch-up for the frozen window.
func (e *Engine) ToggleEmergencyShutdown(caller common.Address, height uint64) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	shutdown, err := e.toggleLocked(caller, height)
	metrics.VaultRewards().ObserveOperation("toggle_shutdown", err)
	return shutdown, err
}

func (e *Engine) toggleLocked(caller common.Address, height uint64) (bool, error) {
	if err := nativecommon.RequireGuardian(e.guardians, caller); err != nil {
		return false, err
	}
	stored, err := e.loadGlobal()
	if err != nil {
		return false, err
	}
	advanced, err := advanceGlobal(stored, e.schedule, height)
	if err != nil {
		return false, err
	}
	advanced.EmergencyShutdown = !advanced.EmergencyShutdown
	if err := e.state.Commit(&advanced); err != nil {
		return false, err
	}
	e.afterGlobalCommit(stored, advanced)
	e.logger.Warn("emergency shutdown toggled",
		"guardian", caller.Hex(),
		"shutdown", advanced.EmergencyShutdown,
		"height", height)
	e.emitter.Emit(events.VaultRewardsShutdownToggled{
		Height:   height,
		Guardian: caller,
		Shutdown: advanced.EmergencyShutdown,
	})
	return advanced.EmergencyShutdown, nil
}

// SetSchedule replaces the emission schedule on behalf of the guardian. The
// accumulator is settled under the old schedule up to height first, so the
// new rate only applies to blocks after height.
func (e *Engine) SetSchedule(caller common.Address, height uint64, schedule Schedule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.setScheduleLocked(caller, height, schedule)
	metrics.VaultRewards().ObserveOperation("set_schedule", err)
	return err
}

func (e *Engine) setScheduleLocked(caller common.Address, height uint64, schedule Schedule) error {
	if err := nativecommon.RequireGuardian(e.guardians, caller); err != nil {
		return err
	}
	if schedule == nil {
		return ErrNilSchedule
	}
	if _, err := e.refreshLocked(height); err != nil {
		return err
	}
	e.schedule = schedule
	e.logger.Info("emission schedule replaced",
		"guardian", caller.Hex(),
		"height", height,
		"rewardPerBlock", schedule.RewardPerBlock(height).String())
	return nil
}
