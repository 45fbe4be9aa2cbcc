package vaultrewards

import (
	"errors"

	nativecommon "vaultrewards/native/common"
)

var (
	// ErrArithmeticOverflow is returned when a fixed-point result does not fit in 256 bits.
	ErrArithmeticOverflow = errors.New("vault rewards: arithmetic overflow")
	// ErrArithmeticPrecondition signals an internal invariant breach such as a
	// division by zero collateral. Reaching it indicates a bug, not bad input.
	ErrArithmeticPrecondition = errors.New("vault rewards: arithmetic precondition violated")
	// ErrInsufficientCollateral is returned when a decrease exceeds the participant's collateral.
	ErrInsufficientCollateral = errors.New("vault rewards: insufficient collateral")
	// ErrUnauthorized is returned when a guardian-only operation is invoked by another caller.
	ErrUnauthorized = nativecommon.ErrUnauthorized

	ErrInvalidAmount = errors.New("vault rewards: amount must be positive")
	ErrNilState      = errors.New("vault rewards: state not configured")
	ErrNilSchedule   = errors.New("vault rewards: emission schedule not configured")
	ErrNilLedger     = errors.New("vault rewards: token ledger not configured")
)
