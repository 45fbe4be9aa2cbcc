package vaultrewards

import "github.com/ethereum/go-ethereum/common"

// GlobalState is the protocol-wide accrual record. The zero value is the
// genesis state.
type GlobalState struct {
	// TotalCollateral is the sum of every participant's collateral.
	TotalCollateral Amount `json:"totalCollateral"`
	// CumulativeRewardPerCollateral is the running reward owed per unit of
	// collateral. It never decreases.
	CumulativeRewardPerCollateral Amount `json:"cumulativeRewardPerCollateral"`
	// LastUpdateHeight is the block height of the last accumulator advance.
	LastUpdateHeight uint64 `json:"lastUpdateHeight"`
	// EmergencyShutdown freezes the accumulator while set.
	EmergencyShutdown bool `json:"emergencyShutdown"`
}

// Participant tracks one vault owner's collateral and reward position.
type Participant struct {
	Address common.Address `json:"address"`
	// Collateral currently deposited by the participant.
	Collateral Amount `json:"collateral"`
	// RewardPerCollateralSnapshot is the accumulator value at the last settlement.
	RewardPerCollateralSnapshot Amount `json:"rewardPerCollateralSnapshot"`
	// UnclaimedReward is owed to the participant but not yet paid out.
	UnclaimedReward Amount `json:"unclaimedReward"`
}

// Clone returns a copy of the global state.
func (g *GlobalState) Clone() *GlobalState {
	if g == nil {
		return &GlobalState{}
	}
	clone := *g
	return &clone
}

// Clone returns a copy of the participant record.
func (p *Participant) Clone() *Participant {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// Direction distinguishes collateral increases from decreases.
type Direction uint8

const (
	Increase Direction = iota + 1
	Decrease
)

func (d Direction) String() string {
	switch d {
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	default:
		return "unknown"
	}
}
