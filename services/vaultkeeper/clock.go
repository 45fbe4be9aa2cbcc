package vaultkeeper

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// HeightSource reports the host chain's current block height.
type HeightSource interface {
	CurrentHeight() uint64
}

// BlockClock derives block heights from a genesis time and a fixed block
// interval. Heights before genesis read as zero.
type BlockClock struct {
	clock    clockwork.Clock
	genesis  time.Time
	interval time.Duration
}

func NewBlockClock(clock clockwork.Clock, genesis time.Time, interval time.Duration) *BlockClock {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &BlockClock{clock: clock, genesis: genesis, interval: interval}
}

func (c *BlockClock) CurrentHeight() uint64 {
	if c.interval <= 0 {
		return 0
	}
	now := c.clock.Now()
	if now.Before(c.genesis) {
		return 0
	}
	return uint64(now.Sub(c.genesis) / c.interval)
}
