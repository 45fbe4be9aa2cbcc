package vaultrewards

// advanceGlobal brings the accumulator up to height. It is the only place the
// accumulator grows, and it never mutates its input.
func advanceGlobal(state GlobalState, schedule Schedule, height uint64) (GlobalState, error) {
	if height <= state.LastUpdateHeight {
		return state, nil
	}
	// Shutdown windows and windows without collateral are forfeited rather
	// than banked: only the clock moves.
	if state.EmergencyShutdown || state.TotalCollateral.IsZero() {
		state.LastUpdateHeight = height
		return state, nil
	}
	if schedule == nil {
		return GlobalState{}, ErrNilSchedule
	}
	emitted, err := schedule.Emitted(state.LastUpdateHeight, height)
	if err != nil {
		return GlobalState{}, err
	}
	perCollateral, err := emitted.Div(state.TotalCollateral)
	if err != nil {
		return GlobalState{}, err
	}
	cumulative, err := state.CumulativeRewardPerCollateral.Add(perCollateral)
	if err != nil {
		return GlobalState{}, err
	}
	state.CumulativeRewardPerCollateral = cumulative
	state.LastUpdateHeight = height
	return state, nil
}

// settleParticipant crystallises the accumulator growth since the
// participant's snapshot into its unclaimed balance. Repeating it at the same
// accumulator value adds nothing.
func settleParticipant(p Participant, cumulative Amount) (Participant, error) {
	delta, err := cumulative.Sub(p.RewardPerCollateralSnapshot)
	if err != nil {
		return Participant{}, err
	}
	earned, err := delta.Mul(p.Collateral)
	if err != nil {
		return Participant{}, err
	}
	unclaimed, err := p.UnclaimedReward.Add(earned)
	if err != nil {
		return Participant{}, err
	}
	p.UnclaimedReward = unclaimed
	p.RewardPerCollateralSnapshot = cumulative
	return p, nil
}

// applyCollateral moves amount into or out of both the participant and the
// global total. Both records must already be settled.
func applyCollateral(global GlobalState, p Participant, dir Direction, amount Amount) (GlobalState, Participant, error) {
	var err error
	switch dir {
	case Increase:
		if p.Collateral, err = p.Collateral.Add(amount); err != nil {
			return GlobalState{}, Participant{}, err
		}
		if global.TotalCollateral, err = global.TotalCollateral.Add(amount); err != nil {
			return GlobalState{}, Participant{}, err
		}
	case Decrease:
		if p.Collateral.Cmp(amount) < 0 {
			return GlobalState{}, Participant{}, ErrInsufficientCollateral
		}
		if p.Collateral, err = p.Collateral.Sub(amount); err != nil {
			return GlobalState{}, Participant{}, err
		}
		if global.TotalCollateral, err = global.TotalCollateral.Sub(amount); err != nil {
			return GlobalState{}, Participant{}, err
		}
	default:
		return GlobalState{}, Participant{}, ErrInvalidAmount
	}
	return global, p, nil
}
