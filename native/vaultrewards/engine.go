package vaultrewards

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"vaultrewards/core/events"
	nativecommon "vaultrewards/native/common"
	"vaultrewards/observability/metrics"
)

const moduleName = "vaultrewards"

type engineState interface {
	// GetGlobal returns the stored global record, or a zero record before genesis.
	GetGlobal() (*GlobalState, error)
	// GetParticipant returns the stored record, or a zero record for unknown addresses.
	GetParticipant(addr common.Address) (*Participant, error)
	// Commit persists every supplied record atomically.
	Commit(global *GlobalState, participants ...*Participant) error
}

// TokenLedger credits reward tokens to participants. The engine treats the
// call as fire-and-forget: its own state is final before the call is made.
type TokenLedger interface {
	MintOrTransfer(addr common.Address, amount Amount) error
}

// Engine orchestrates reward accrual for vault collateral. Every public
// operation runs under one lock covering settle, mutate and commit, so the
// engine is safe for concurrent callers.
type Engine struct {
	mu sync.Mutex

	state       engineState
	schedule    Schedule
	ledger      TokenLedger
	guardians   nativecommon.GuardianView
	emitter     events.Emitter
	logger      *slog.Logger
	autoHarvest bool
}

// NewEngine constructs an engine emitting according to schedule and
// authorising shutdown toggles through guardians.
func NewEngine(schedule Schedule, guardians nativecommon.GuardianView) *Engine {
	return &Engine{
		schedule:  schedule,
		guardians: guardians,
		emitter:   events.NoopEmitter{},
		logger:    slog.Default(),
	}
}

// NewEngineFromConfig builds an engine from a validated configuration.
func NewEngineFromConfig(cfg Config) (*Engine, error) {
	schedule, err := cfg.BuildSchedule()
	if err != nil {
		return nil, err
	}
	engine := NewEngine(schedule, nativecommon.StaticGuardian(cfg.GuardianAddress()))
	engine.SetAutoHarvest(cfg.AutoHarvest)
	return engine, nil
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state engineState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = state
}

// SetLedger configures the token ledger used for payouts.
func (e *Engine) SetLedger(ledger TokenLedger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ledger = ledger
}

func (e *Engine) SetEmitter(emitter events.Emitter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

func (e *Engine) SetLogger(logger *slog.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if logger == nil {
		logger = slog.Default()
	}
	e.logger = logger.With("component", moduleName)
}

// SetAutoHarvest makes collateral changes pay out settled rewards immediately.
func (e *Engine) SetAutoHarvest(enabled bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoHarvest = enabled
}

// Global returns a copy of the stored global state without advancing it.
func (e *Engine) Global() (*GlobalState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	global, err := e.loadGlobal()
	if err != nil {
		return nil, err
	}
	return &global, nil
}

// Participant returns a copy of the stored participant record without settling it.
func (e *Engine) Participant(addr common.Address) (*Participant, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == nil {
		return nil, ErrNilState
	}
	p, err := e.state.GetParticipant(addr)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// Refresh advances the accumulator to height and persists it.
func (e *Engine) Refresh(height uint64) (*GlobalState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	global, err := e.refreshLocked(height)
	metrics.VaultRewards().ObserveOperation("refresh", err)
	if err != nil {
		return nil, err
	}
	return global.Clone(), nil
}

func (e *Engine) refreshLocked(height uint64) (*GlobalState, error) {
	stored, err := e.loadGlobal()
	if err != nil {
		return nil, err
	}
	advanced, err := advanceGlobal(stored, e.schedule, height)
	if err != nil {
		return nil, err
	}
	if advanced == stored {
		return &advanced, nil
	}
	if err := e.state.Commit(&advanced); err != nil {
		return nil, err
	}
	e.afterGlobalCommit(stored, advanced)
	return &advanced, nil
}

// RewardPerCollateral projects the accumulator at height without persisting.
func (e *Engine) RewardPerCollateral(height uint64) (Amount, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	stored, err := e.loadGlobal()
	if err != nil {
		return Amount{}, err
	}
	advanced, err := advanceGlobal(stored, e.schedule, height)
	if err != nil {
		return Amount{}, err
	}
	return advanced.CumulativeRewardPerCollateral, nil
}

// PendingRewards returns what the participant's unclaimed balance would be
// after settling at height. It runs the same transitions as Settle on copies,
// so both paths agree to the last micro-unit.
func (e *Engine) PendingRewards(addr common.Address, height uint64) (Amount, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, participant, _, err := e.settleLocked(addr, height)
	if err != nil {
		return Amount{}, err
	}
	return participant.UnclaimedReward, nil
}

// Settle crystallises accrued rewards for addr at height and persists both records.
func (e *Engine) Settle(addr common.Address, height uint64) (*Participant, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	global, participant, stored, err := e.settleLocked(addr, height)
	if err == nil {
		err = e.state.Commit(&global, &participant)
	}
	metrics.VaultRewards().ObserveOperation("settle", err)
	if err != nil {
		return nil, err
	}
	e.afterGlobalCommit(stored, global)
	return participant.Clone(), nil
}

// IncreaseCollateral settles addr at its previous collateral level and then
// adds amount to its position.
func (e *Engine) IncreaseCollateral(addr common.Address, amount Amount, height uint64) (*Participant, error) {
	p, err := e.changeCollateral(addr, Increase, amount, height)
	metrics.VaultRewards().ObserveOperation("increase_collateral", err)
	return p, err
}

// DecreaseCollateral settles addr at its previous collateral level and then
// removes amount from its position.
func (e *Engine) DecreaseCollateral(addr common.Address, amount Amount, height uint64) (*Participant, error) {
	p, err := e.changeCollateral(addr, Decrease, amount, height)
	metrics.VaultRewards().ObserveOperation("decrease_collateral", err)
	return p, err
}

func (e *Engine) changeCollateral(addr common.Address, dir Direction, amount Amount, height uint64) (*Participant, error) {
	if amount.IsZero() {
		return nil, ErrInvalidAmount
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.autoHarvest && e.ledger == nil {
		return nil, ErrNilLedger
	}
	global, participant, stored, err := e.settleLocked(addr, height)
	if err != nil {
		return nil, err
	}
	var harvest Amount
	if e.autoHarvest {
		harvest = participant.UnclaimedReward
		participant.UnclaimedReward = Amount{}
	}
	global, participant, err = applyCollateral(global, participant, dir, amount)
	if err != nil {
		return nil, err
	}
	if err := e.state.Commit(&global, &participant); err != nil {
		return nil, err
	}

	e.afterGlobalCommit(stored, global)
	e.emitter.Emit(events.VaultRewardsCollateralChanged{
		Height:        height,
		Account:       addr,
		Direction:     dir.String(),
		Amount:        amount.Raw(),
		NewCollateral: participant.Collateral.Raw(),
		Unclaimed:     participant.UnclaimedReward.Raw(),
	})
	e.payout(addr, harvest, height, true)
	return participant.Clone(), nil
}

// settleLocked loads and settles the global and participant records without
// persisting them. The stored global state is returned for change detection.
func (e *Engine) settleLocked(addr common.Address, height uint64) (GlobalState, Participant, GlobalState, error) {
	stored, err := e.loadGlobal()
	if err != nil {
		return GlobalState{}, Participant{}, GlobalState{}, err
	}
	global, err := advanceGlobal(stored, e.schedule, height)
	if err != nil {
		return GlobalState{}, Participant{}, GlobalState{}, err
	}
	record, err := e.state.GetParticipant(addr)
	if err != nil {
		return GlobalState{}, Participant{}, GlobalState{}, err
	}
	participant := Participant{}
	if record != nil {
		participant = *record
	}
	participant.Address = addr
	participant, err = settleParticipant(participant, global.CumulativeRewardPerCollateral)
	if err != nil {
		return GlobalState{}, Participant{}, GlobalState{}, fmt.Errorf("settle %s: %w", addr.Hex(), err)
	}
	return global, participant, stored, nil
}

func (e *Engine) loadGlobal() (GlobalState, error) {
	if e.state == nil {
		return GlobalState{}, ErrNilState
	}
	stored, err := e.state.GetGlobal()
	if err != nil {
		return GlobalState{}, err
	}
	if stored == nil {
		return GlobalState{}, nil
	}
	return *stored, nil
}

// afterGlobalCommit publishes metrics and the accrual event for a committed
// global transition.
func (e *Engine) afterGlobalCommit(before, after GlobalState) {
	metrics.VaultRewards().ObserveGlobal(
		after.CumulativeRewardPerCollateral.Raw(),
		after.TotalCollateral.Raw(),
		after.LastUpdateHeight,
		after.EmergencyShutdown,
	)
	if after.CumulativeRewardPerCollateral.Equal(before.CumulativeRewardPerCollateral) {
		return
	}
	e.emitter.Emit(events.VaultRewardsAccrued{
		Height:              after.LastUpdateHeight,
		FromHeight:          before.LastUpdateHeight,
		RewardPerCollateral: after.CumulativeRewardPerCollateral.Raw(),
		TotalCollateral:     after.TotalCollateral.Raw(),
	})
}
