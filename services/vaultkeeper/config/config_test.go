package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "vaultkeeper.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeFile(t, `
data_dir: /var/lib/vaultkeeper
rewards_config: /etc/vaultkeeper/rewards.toml
chain:
  genesis_time: 2021-10-12T00:00:00Z
  block_interval: 10m
log:
  file: /var/log/vaultkeeper.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddress != ":8088" {
		t.Fatalf("expected default listen address, got %q", cfg.ListenAddress)
	}
	if cfg.RefreshInterval != time.Minute {
		t.Fatalf("expected default refresh interval, got %s", cfg.RefreshInterval)
	}
	if cfg.Chain.BlockInterval != 10*time.Minute {
		t.Fatalf("expected 10m block interval, got %s", cfg.Chain.BlockInterval)
	}
	if cfg.Log.MaxSizeMB != 100 {
		t.Fatalf("expected default log size, got %d", cfg.Log.MaxSizeMB)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing data dir": `
rewards_config: rewards.toml
chain:
  genesis_time: 2021-10-12T00:00:00Z
  block_interval: 10m
`,
		"missing rewards config": `
data_dir: data
chain:
  genesis_time: 2021-10-12T00:00:00Z
  block_interval: 10m
`,
		"missing genesis": `
data_dir: data
rewards_config: rewards.toml
chain:
  block_interval: 10m
`,
		"unknown field": `
data_dir: data
rewards_config: rewards.toml
chain:
  genesis_time: 2021-10-12T00:00:00Z
  block_interval: 10m
mystery: true
`,
		"negative rate limit": `
data_dir: data
rewards_config: rewards.toml
chain:
  genesis_time: 2021-10-12T00:00:00Z
  block_interval: 10m
rate_limit:
  requests_per_minute: -1
`,
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
