package vaultrewards

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultrewards.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigConstantRate(t *testing.T) {
	path := writeConfig(t, `
Guardian = "0x00000000000000000000000000000000000000aa"
RewardPerBlock = "320"
AutoHarvest = true
MintCap = "1000000.5"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.GuardianAddress() != guardian {
		t.Fatalf("unexpected guardian %s", cfg.GuardianAddress().Hex())
	}
	if !cfg.AutoHarvest {
		t.Fatalf("expected auto-harvest enabled")
	}
	if cfg.MintCap.String() != "1000000.5" {
		t.Fatalf("unexpected mint cap %s", cfg.MintCap)
	}
	schedule, err := cfg.BuildSchedule()
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	if rate := schedule.RewardPerBlock(0); rate.String() != "320" {
		t.Fatalf("expected 320 per block, got %s", rate)
	}

	engine, err := NewEngineFromConfig(cfg)
	if err != nil {
		t.Fatalf("engine from config: %v", err)
	}
	if !engine.autoHarvest {
		t.Fatalf("expected engine auto-harvest enabled")
	}
}

func TestLoadConfigSteppedSchedule(t *testing.T) {
	path := writeConfig(t, `
Guardian = "0x00000000000000000000000000000000000000aa"

[[Schedule]]
StartHeight = 0
RewardPerBlock = "320"

[[Schedule]]
StartHeight = 1008
RewardPerBlock = "280.5"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	schedule, err := cfg.BuildSchedule()
	if err != nil {
		t.Fatalf("build schedule: %v", err)
	}
	if rate := schedule.RewardPerBlock(2000); rate.String() != "280.5" {
		t.Fatalf("expected 280.5 per block, got %s", rate)
	}
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"bad guardian":  `Guardian = "not-an-address"`,
		"zero guardian": `Guardian = "0x0000000000000000000000000000000000000000"`,
		"both rates": `
Guardian = "0x00000000000000000000000000000000000000aa"
RewardPerBlock = "1"
[[Schedule]]
StartHeight = 0
RewardPerBlock = "2"
`,
		"unknown key": `
Guardian = "0x00000000000000000000000000000000000000aa"
Rate = "1"
`,
		"too precise": `
Guardian = "0x00000000000000000000000000000000000000aa"
RewardPerBlock = "0.0000001"
`,
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
