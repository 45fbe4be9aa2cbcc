package vaultrewards

import (
	"fmt"
	"sort"
)

// Schedule yields the reward emitted network-wide per elapsed block.
type Schedule interface {
	// RewardPerBlock returns the emission rate in force at height.
	RewardPerBlock(height uint64) Amount
	// Emitted returns the total emission over the half-open block range [from, to).
	Emitted(from, to uint64) (Amount, error)
}

// ConstantSchedule emits the same amount every block.
type ConstantSchedule struct {
	Rate Amount
}

func (s ConstantSchedule) RewardPerBlock(uint64) Amount { return s.Rate }

func (s ConstantSchedule) Emitted(from, to uint64) (Amount, error) {
	if to <= from {
		return Amount{}, nil
	}
	return s.Rate.MulUint64(to - from)
}

// Step switches the emission rate from StartHeight onwards.
type Step struct {
	StartHeight    uint64 `toml:"StartHeight"`
	RewardPerBlock Amount `toml:"RewardPerBlock"`
}

// SteppedSchedule is a piecewise constant emission curve. Heights before the
// first step emit nothing; the last step's rate applies indefinitely, so a
// final zero-rate step ends the programme.
type SteppedSchedule struct {
	steps []Step
}

// NewSteppedSchedule validates and sorts the supplied steps.
func NewSteppedSchedule(steps []Step) (*SteppedSchedule, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("stepped schedule: at least one step required")
	}
	sorted := append([]Step(nil), steps...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartHeight < sorted[j].StartHeight })
	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartHeight == sorted[i-1].StartHeight {
			return nil, fmt.Errorf("stepped schedule: duplicate start height %d", sorted[i].StartHeight)
		}
	}
	return &SteppedSchedule{steps: sorted}, nil
}

// Steps returns a copy of the configured steps in height order.
func (s *SteppedSchedule) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

func (s *SteppedSchedule) RewardPerBlock(height uint64) Amount {
	var rate Amount
	for _, step := range s.steps {
		if step.StartHeight > height {
			break
		}
		rate = step.RewardPerBlock
	}
	return rate
}

func (s *SteppedSchedule) Emitted(from, to uint64) (Amount, error) {
	total := Amount{}
	if to <= from {
		return total, nil
	}
	for i, step := range s.steps {
		start := step.StartHeight
		end := to
		if i+1 < len(s.steps) && s.steps[i+1].StartHeight < end {
			end = s.steps[i+1].StartHeight
		}
		if start < from {
			start = from
		}
		if end <= start {
			continue
		}
		segment, err := step.RewardPerBlock.MulUint64(end - start)
		if err != nil {
			return Amount{}, err
		}
		if total, err = total.Add(segment); err != nil {
			return Amount{}, err
		}
	}
	return total, nil
}
