package events

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"

	"vaultrewards/core/types"
)

const (
	// TypeVaultRewardsAccrued is emitted when the reward-per-collateral accumulator grows.
	TypeVaultRewardsAccrued = "vaultrewards.accrued"
	// TypeVaultRewardsCollateralChanged captures a settled collateral increase or decrease.
	TypeVaultRewardsCollateralChanged = "vaultrewards.collateralChanged"
	// TypeVaultRewardsClaimed is emitted when unclaimed rewards are paid out.
	TypeVaultRewardsClaimed = "vaultrewards.claimed"
	// TypeVaultRewardsShutdownToggled is emitted when the guardian flips emergency shutdown.
	TypeVaultRewardsShutdownToggled = "vaultrewards.shutdownToggled"
)

// VaultRewardsAccrued records an accumulator advance.
type VaultRewardsAccrued struct {
	Height              uint64
	FromHeight          uint64
	RewardPerCollateral *big.Int
	TotalCollateral     *big.Int
}

func (VaultRewardsAccrued) EventType() string { return TypeVaultRewardsAccrued }

func (e VaultRewardsAccrued) Event() *types.Event {
	return &types.Event{
		Type:   TypeVaultRewardsAccrued,
		Height: e.Height,
		Attributes: map[string]string{
			"fromHeight":          uintToString(e.FromHeight),
			"rewardPerCollateral": formatAmount(e.RewardPerCollateral),
			"totalCollateral":     formatAmount(e.TotalCollateral),
		},
	}
}

// VaultRewardsCollateralChanged records a collateral delta applied after settlement.
type VaultRewardsCollateralChanged struct {
	Height        uint64
	Account       common.Address
	Direction     string
	Amount        *big.Int
	NewCollateral *big.Int
	Unclaimed     *big.Int
}

func (VaultRewardsCollateralChanged) EventType() string { return TypeVaultRewardsCollateralChanged }

func (e VaultRewardsCollateralChanged) Event() *types.Event {
	return &types.Event{
		Type:   TypeVaultRewardsCollateralChanged,
		Height: e.Height,
		Attributes: map[string]string{
			"addr":          e.Account.Hex(),
			"direction":     e.Direction,
			"amount":        formatAmount(e.Amount),
			"newCollateral": formatAmount(e.NewCollateral),
			"unclaimed":     formatAmount(e.Unclaimed),
		},
	}
}

// VaultRewardsClaimed records a payout handed to the token ledger.
type VaultRewardsClaimed struct {
	Height  uint64
	Account common.Address
	Amount  *big.Int
	// Harvest marks payouts triggered by a collateral change rather than an explicit claim.
	Harvest bool
}

func (VaultRewardsClaimed) EventType() string { return TypeVaultRewardsClaimed }

func (e VaultRewardsClaimed) Event() *types.Event {
	return &types.Event{
		Type:   TypeVaultRewardsClaimed,
		Height: e.Height,
		Attributes: map[string]string{
			"addr":    e.Account.Hex(),
			"amount":  formatAmount(e.Amount),
			"harvest": strconv.FormatBool(e.Harvest),
		},
	}
}

// VaultRewardsShutdownToggled records the new emergency shutdown flag.
type VaultRewardsShutdownToggled struct {
	Height   uint64
	Guardian common.Address
	Shutdown bool
}

func (VaultRewardsShutdownToggled) EventType() string { return TypeVaultRewardsShutdownToggled }

func (e VaultRewardsShutdownToggled) Event() *types.Event {
	return &types.Event{
		Type:   TypeVaultRewardsShutdownToggled,
		Height: e.Height,
		Attributes: map[string]string{
			"guardian": e.Guardian.Hex(),
			"shutdown": strconv.FormatBool(e.Shutdown),
		},
	}
}
