package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Network.Name != "goerli" {
		t.Errorf("Expected network goerli, got %s", cfg.Network.Name)
	}
	if cfg.Contract.Address != DefaultContractAddress {
		t.Errorf("Expected default contract address, got %s", cfg.Contract.Address)
	}
	if cfg.Contract.WaitTimeout != 0 {
		t.Errorf("Expected no wait timeout by default, got %v", cfg.Contract.WaitTimeout)
	}
	if cfg.Election.CandidateA != "Biden" || cfg.Election.CandidateB != "Trump" {
		t.Errorf("Unexpected candidate names %q/%q", cfg.Election.CandidateA, cfg.Election.CandidateB)
	}
	if cfg.Form.ValidateBeforeSubmit {
		t.Error("Expected draft validation to be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func(mutate func(c *Config)) *Config {
		c := DefaultConfig()
		mutate(c)
		return c
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name:    "invalid network",
			config:  valid(func(c *Config) { c.Network.Name = "sepolia-ish" }),
			wantErr: true,
			errMsg:  "invalid network: sepolia-ish (must be one of: mainnet, ropsten, rinkeby, goerli, kovan, localhost)",
		},
		{
			name:    "unsupported chain id",
			config:  valid(func(c *Config) { c.Network.ChainID = 137 }),
			wantErr: true,
			errMsg:  "unsupported chain_id: 137",
		},
		{
			name:    "supported chain id",
			config:  valid(func(c *Config) { c.Network.ChainID = 31337 }),
			wantErr: false,
		},
		{
			name:    "missing contract address",
			config:  valid(func(c *Config) { c.Contract.Address = "" }),
			wantErr: true,
			errMsg:  "contract address is required",
		},
		{
			name:    "malformed contract address",
			config:  valid(func(c *Config) { c.Contract.Address = "0x1234" }),
			wantErr: true,
			errMsg:  "invalid contract address: 0x1234",
		},
		{
			name:    "negative wait timeout",
			config:  valid(func(c *Config) { c.Contract.WaitTimeout = -time.Second }),
			wantErr: true,
			errMsg:  "wait_timeout must be non-negative",
		},
		{
			name:    "zero dedupe window",
			config:  valid(func(c *Config) { c.Election.DedupeWindow = 0 }),
			wantErr: true,
			errMsg:  "dedupe_window must be greater than 0",
		},
		{
			name:    "invalid output format",
			config:  valid(func(c *Config) { c.Output.DefaultFormat = "xml" }),
			wantErr: true,
			errMsg:  "invalid output format: xml (must be one of: json, text, markdown, csv)",
		},
		{
			name:    "invalid color mode",
			config:  valid(func(c *Config) { c.Output.ColorMode = "sometimes" }),
			wantErr: true,
			errMsg:  "invalid color mode: sometimes (must be one of: auto, always, never)",
		},
		{
			name:    "invalid theme",
			config:  valid(func(c *Config) { c.UI.Theme = "neon" }),
			wantErr: true,
			errMsg:  "invalid theme: neon (must be one of: default, high-contrast, minimal)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Expected error but got none")
				} else if tt.errMsg != "" && err.Error() != tt.errMsg {
					t.Errorf("Expected error message '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestExplorerURL(t *testing.T) {
	tests := []struct {
		name    string
		network NetworkConfig
		want    string
	}{
		{"goerli", NetworkConfig{Name: "goerli"}, "https://goerli.etherscan.io"},
		{"mainnet", NetworkConfig{Name: "mainnet"}, "https://etherscan.io"},
		{"localhost has none", NetworkConfig{Name: "localhost"}, ""},
		{"override trims slash", NetworkConfig{Name: "goerli", Explorer: "https://scan.example/"}, "https://scan.example"},
		{"unknown network", NetworkConfig{Name: "other"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.network.ExplorerURL(); got != tt.want {
				t.Errorf("ExplorerURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLookupChain(t *testing.T) {
	for _, id := range []int64{1, 3, 4, 5, 42, 31337} {
		if _, ok := LookupChain(id); !ok {
			t.Errorf("Expected chain %d to be supported", id)
		}
	}
	if _, ok := LookupChain(10); ok {
		t.Error("Expected chain 10 to be unsupported")
	}
}
