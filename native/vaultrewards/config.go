package vaultrewards

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
)

// Config captures the runtime configuration for the vault rewards module.
// Amounts are decimal strings, e.g. RewardPerBlock = "320".
type Config struct {
	Guardian       string `toml:"Guardian"`
	RewardPerBlock Amount `toml:"RewardPerBlock"`
	AutoHarvest    bool   `toml:"AutoHarvest"`
	// MintCap bounds the reward token supply paid out by the ledger. Zero
	// leaves it unbounded.
	MintCap Amount `toml:"MintCap"`
	// Schedule, when present, replaces the constant RewardPerBlock with a
	// stepped emission curve.
	Schedule []Step `toml:"Schedule"`
}

// LoadConfig decodes a TOML file and validates the result.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode vault rewards config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("vault rewards config %s: unknown key %s", path, undecoded[0])
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.Guardian = strings.TrimSpace(c.Guardian)
}

// Validate checks the guardian address and the emission settings.
func (c Config) Validate() error {
	if !common.IsHexAddress(c.Guardian) {
		return fmt.Errorf("vault rewards config: invalid guardian address %q", c.Guardian)
	}
	if c.GuardianAddress() == (common.Address{}) {
		return fmt.Errorf("vault rewards config: guardian must not be the zero address")
	}
	if len(c.Schedule) > 0 && !c.RewardPerBlock.IsZero() {
		return fmt.Errorf("vault rewards config: RewardPerBlock and Schedule are mutually exclusive")
	}
	if len(c.Schedule) > 0 {
		if _, err := NewSteppedSchedule(c.Schedule); err != nil {
			return fmt.Errorf("vault rewards config: %w", err)
		}
	}
	return nil
}

// GuardianAddress returns the parsed guardian identity.
func (c Config) GuardianAddress() common.Address {
	return common.HexToAddress(c.Guardian)
}

// BuildSchedule returns the configured emission schedule.
func (c Config) BuildSchedule() (Schedule, error) {
	if len(c.Schedule) == 0 {
		return ConstantSchedule{Rate: c.RewardPerBlock}, nil
	}
	return NewSteppedSchedule(c.Schedule)
}
