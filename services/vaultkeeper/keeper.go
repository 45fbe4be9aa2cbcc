package vaultkeeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"vaultrewards/native/vaultrewards"
)

// Refresher advances the reward accumulator to a height.
type Refresher interface {
	Refresh(height uint64) (*vaultrewards.GlobalState, error)
}

type KeeperConfig struct {
	Logger          *slog.Logger
	Clock           clockwork.Clock
	Heights         HeightSource
	Engine          Refresher
	RefreshInterval time.Duration
}

func (cfg *KeeperConfig) Validate() error {
	if cfg.Logger == nil {
		return errors.New("logger is required")
	}
	if cfg.Heights == nil {
		return errors.New("height source is required")
	}
	if cfg.Engine == nil {
		return errors.New("engine is required")
	}
	if cfg.RefreshInterval <= 0 {
		return errors.New("refresh interval must be greater than 0")
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	return nil
}

// Status summarises the most recent refresh attempt.
type Status struct {
	LastHeight  uint64    `json:"lastHeight"`
	LastRefresh time.Time `json:"lastRefresh"`
	LastError   string    `json:"lastError,omitempty"`
	Refreshes   uint64    `json:"refreshes"`
}

// Keeper periodically settles the global accumulator so that it tracks the
// chain tip even when no vault activity occurs.
type Keeper struct {
	log    *slog.Logger
	cfg    KeeperConfig
	tracer trace.Tracer

	mu     sync.Mutex
	status Status
}

func NewKeeper(cfg KeeperConfig) (*Keeper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Keeper{
		log:    cfg.Logger,
		cfg:    cfg,
		tracer: otel.Tracer("vaultrewards/services/vaultkeeper"),
	}, nil
}

// Start runs the refresh loop until ctx is cancelled. The first refresh
// happens immediately.
func (k *Keeper) Start(ctx context.Context) {
	go func() {
		k.log.Info("vaultkeeper: starting refresh loop", "interval", k.cfg.RefreshInterval)

		k.safeRefresh(ctx)

		ticker := k.cfg.Clock.NewTicker(k.cfg.RefreshInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				k.safeRefresh(ctx)
			}
		}
	}()
}

func (k *Keeper) safeRefresh(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			k.log.Error("vaultkeeper: refresh panicked", "panic", r)
			k.record(0, fmt.Errorf("panic: %v", r))
		}
	}()

	if err := k.Refresh(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		k.log.Error("vaultkeeper: refresh failed", "error", err)
	}
}

// Refresh settles the accumulator at the current height once.
func (k *Keeper) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	height := k.cfg.Heights.CurrentHeight()
	_, span := k.tracer.Start(ctx, "vaultkeeper.refresh",
		trace.WithAttributes(attribute.Int64("height", int64(height))))
	defer span.End()

	global, err := k.cfg.Engine.Refresh(height)
	k.record(height, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("refresh at height %d: %w", height, err)
	}
	span.SetAttributes(
		attribute.String("reward_per_collateral", global.CumulativeRewardPerCollateral.String()),
		attribute.Bool("emergency_shutdown", global.EmergencyShutdown),
	)
	k.log.Debug("vaultkeeper: refreshed",
		"height", height,
		"rewardPerCollateral", global.CumulativeRewardPerCollateral.String(),
		"totalCollateral", global.TotalCollateral.String())
	return nil
}

func (k *Keeper) record(height uint64, err error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.status.LastRefresh = k.cfg.Clock.Now()
	k.status.Refreshes++
	if err != nil {
		k.status.LastError = err.Error()
		return
	}
	k.status.LastHeight = height
	k.status.LastError = ""
}

// Status returns a snapshot of the keeper's progress.
func (k *Keeper) Status() Status {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.status
}
