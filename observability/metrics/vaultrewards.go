package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// amountScale converts micro-unit integers into whole tokens for gauges.
var amountScale = new(big.Float).SetUint64(1_000_000)

type VaultRewardsMetrics struct {
	operations     *prometheus.CounterVec
	claimed        prometheus.Counter
	ledgerFailures prometheus.Counter
	accumulator    prometheus.Gauge
	collateral     prometheus.Gauge
	shutdown       prometheus.Gauge
	lastHeight     prometheus.Gauge
}

var (
	vaultRewardsOnce     sync.Once
	vaultRewardsRegistry *VaultRewardsMetrics
)

func VaultRewards() *VaultRewardsMetrics {
	vaultRewardsOnce.Do(func() {
		vaultRewardsRegistry = &VaultRewardsMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "vaultrewards_operations_total",
				Help: "Count of reward ledger operations by name and result.",
			}, []string{"operation", "result"}),
			claimed: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vaultrewards_claimed_tokens_total",
				Help: "Total reward tokens handed to the token ledger.",
			}),
			ledgerFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "vaultrewards_ledger_failures_total",
				Help: "Token ledger transfers that failed after state was committed.",
			}),
			accumulator: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vaultrewards_reward_per_collateral",
				Help: "Current cumulative reward per unit of collateral.",
			}),
			collateral: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vaultrewards_total_collateral",
				Help: "Collateral currently earning rewards.",
			}),
			shutdown: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vaultrewards_emergency_shutdown",
				Help: "1 while emergency shutdown freezes accrual.",
			}),
			lastHeight: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "vaultrewards_last_update_height",
				Help: "Block height of the last accumulator settlement.",
			}),
		}
		prometheus.MustRegister(
			vaultRewardsRegistry.operations,
			vaultRewardsRegistry.claimed,
			vaultRewardsRegistry.ledgerFailures,
			vaultRewardsRegistry.accumulator,
			vaultRewardsRegistry.collateral,
			vaultRewardsRegistry.shutdown,
			vaultRewardsRegistry.lastHeight,
		)
	})
	return vaultRewardsRegistry
}

func (m *VaultRewardsMetrics) ObserveOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.operations.WithLabelValues(operation, result).Inc()
}

func (m *VaultRewardsMetrics) AddClaimed(raw *big.Int) {
	if m == nil || raw == nil {
		return
	}
	m.claimed.Add(tokens(raw))
}

func (m *VaultRewardsMetrics) IncLedgerFailure() {
	if m == nil {
		return
	}
	m.ledgerFailures.Inc()
}

// ObserveGlobal publishes the accumulator snapshot. Amounts are micro-unit integers.
func (m *VaultRewardsMetrics) ObserveGlobal(rewardPerCollateral, totalCollateral *big.Int, height uint64, shutdown bool) {
	if m == nil {
		return
	}
	m.accumulator.Set(tokens(rewardPerCollateral))
	m.collateral.Set(tokens(totalCollateral))
	m.lastHeight.Set(float64(height))
	if shutdown {
		m.shutdown.Set(1)
	} else {
		m.shutdown.Set(0)
	}
}

func tokens(raw *big.Int) float64 {
	if raw == nil {
		return 0
	}
	value, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), amountScale).Float64()
	return value
}
