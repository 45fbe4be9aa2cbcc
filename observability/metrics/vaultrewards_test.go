package metrics

import (
	"errors"
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestVaultRewardsMetrics(t *testing.T) {
	m := VaultRewards()
	require.Same(t, m, VaultRewards())

	okBefore := testutil.ToFloat64(m.operations.WithLabelValues("claim", "ok"))
	errBefore := testutil.ToFloat64(m.operations.WithLabelValues("claim", "error"))
	m.ObserveOperation("claim", nil)
	m.ObserveOperation("claim", errors.New("boom"))
	require.Equal(t, okBefore+1, testutil.ToFloat64(m.operations.WithLabelValues("claim", "ok")))
	require.Equal(t, errBefore+1, testutil.ToFloat64(m.operations.WithLabelValues("claim", "error")))

	claimedBefore := testutil.ToFloat64(m.claimed)
	m.AddClaimed(big.NewInt(2_500_000))
	require.InDelta(t, claimedBefore+2.5, testutil.ToFloat64(m.claimed), 1e-9)

	m.ObserveGlobal(big.NewInt(128_000_000), big.NewInt(5_000_000), 3, true)
	require.Equal(t, 128.0, testutil.ToFloat64(m.accumulator))
	require.Equal(t, 5.0, testutil.ToFloat64(m.collateral))
	require.Equal(t, 3.0, testutil.ToFloat64(m.lastHeight))
	require.Equal(t, 1.0, testutil.ToFloat64(m.shutdown))

	var nilMetrics *VaultRewardsMetrics
	nilMetrics.ObserveOperation("noop", nil)
	nilMetrics.IncLedgerFailure()
}
