package events

import (
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
)

// rewardDecimals mirrors the fixed-point precision of reward and collateral amounts.
const rewardDecimals = 6

// formatAmount renders a micro-unit integer as a trimmed decimal string.
func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -rewardDecimals).String()
}

func uintToString(v uint64) string {
	return strconv.FormatUint(v, 10)
}
