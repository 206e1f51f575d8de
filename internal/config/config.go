package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Config holds the complete application configuration
type Config struct {
	Version  string         `yaml:"version" json:"version"`
	Network  NetworkConfig  `yaml:"network" json:"network"`
	Contract ContractConfig `yaml:"contract" json:"contract"`
	Wallet   WalletConfig   `yaml:"wallet" json:"wallet"`
	Election ElectionConfig `yaml:"election" json:"election"`
	Form     FormConfig     `yaml:"form" json:"form"`
	Output   OutputConfig   `yaml:"output" json:"output"`
	UI       UIConfig       `yaml:"ui" json:"ui"`
}

// NetworkConfig configures the chain connection
type NetworkConfig struct {
	Name     string `yaml:"name" json:"name"`         // mainnet|ropsten|rinkeby|goerli|kovan|localhost
	RPCURL   string `yaml:"rpc_url" json:"rpc_url"`   // websocket endpoint, required for event subscriptions
	ChainID  int64  `yaml:"chain_id" json:"chain_id"` // 0 asks the node
	Explorer string `yaml:"explorer" json:"explorer"` // block explorer base URL, derived from name when empty
}

// ContractConfig configures the election contract binding
type ContractConfig struct {
	Address     string        `yaml:"address" json:"address"`
	CallTimeout time.Duration `yaml:"call_timeout" json:"call_timeout"` // bound for read calls
	WaitTimeout time.Duration `yaml:"wait_timeout" json:"wait_timeout"` // 0 waits for finality indefinitely
}

// WalletConfig configures the signing key. Prefer USVOTE_WALLET_PRIVATE_KEY or a .env file
// over putting the key in a config file.
type WalletConfig struct {
	PrivateKey string `yaml:"private_key" json:"-"`
	Keystore   string `yaml:"keystore" json:"keystore"`
	Passphrase string `yaml:"passphrase" json:"-"`
}

// ElectionConfig configures how the election is presented
type ElectionConfig struct {
	CandidateA    string `yaml:"candidate_a" json:"candidate_a"`
	CandidateB    string `yaml:"candidate_b" json:"candidate_b"`
	DedupeWindow  int    `yaml:"dedupe_window" json:"dedupe_window"`   // remembered event references
	RecentResults int    `yaml:"recent_results" json:"recent_results"` // results kept for display
}

// FormConfig configures the results form behavior
type FormConfig struct {
	ValidateBeforeSubmit bool `yaml:"validate_before_submit" json:"validate_before_submit"`
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`
	Hyperlinks    bool   `yaml:"hyperlinks" json:"hyperlinks"` // OSC 8 links for transaction hashes
	LogFile       string `yaml:"log_file" json:"log_file"`     // log destination while the form is open
}

// UIConfig configures the interactive form
type UIConfig struct {
	Theme          string        `yaml:"theme" json:"theme"`
	NoticeDuration time.Duration `yaml:"notice_duration" json:"notice_duration"`
}

// Network describes a chain the front-end knows how to talk to
type Network struct {
	Name     string
	ChainID  int64
	Explorer string
}

// Networks lists the supported chains
var Networks = []Network{
	{Name: "mainnet", ChainID: 1, Explorer: "https://etherscan.io"},
	{Name: "ropsten", ChainID: 3, Explorer: "https://ropsten.etherscan.io"},
	{Name: "rinkeby", ChainID: 4, Explorer: "https://rinkeby.etherscan.io"},
	{Name: "goerli", ChainID: 5, Explorer: "https://goerli.etherscan.io"},
	{Name: "kovan", ChainID: 42, Explorer: "https://kovan.etherscan.io"},
	{Name: "localhost", ChainID: 31337},
}

// DefaultContractAddress is the USElection deployment on goerli
const DefaultContractAddress = "0xcc4149bC41a92FA4E104e7555ff50989de18d50A"

// LookupNetwork finds a supported network by name
func LookupNetwork(name string) (Network, bool) {
	for _, n := range Networks {
		if n.Name == strings.ToLower(name) {
			return n, true
		}
	}
	return Network{}, false
}

// LookupChain finds a supported network by chain id
func LookupChain(chainID int64) (Network, bool) {
	for _, n := range Networks {
		if n.ChainID == chainID {
			return n, true
		}
	}
	return Network{}, false
}

// ExplorerURL returns the configured block explorer base, falling back to the
// network's default. Empty means no explorer (local chains).
func (n NetworkConfig) ExplorerURL() string {
	if n.Explorer != "" {
		return strings.TrimRight(n.Explorer, "/")
	}
	if known, ok := LookupNetwork(n.Name); ok {
		return known.Explorer
	}
	return ""
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Network: NetworkConfig{
			Name:   "goerli",
			RPCURL: "ws://127.0.0.1:8545",
		},
		Contract: ContractConfig{
			Address:     DefaultContractAddress,
			CallTimeout: 15 * time.Second,
			WaitTimeout: 0,
		},
		Election: ElectionConfig{
			CandidateA:    "Biden",
			CandidateB:    "Trump",
			DedupeWindow:  1024,
			RecentResults: 5,
		},
		Form: FormConfig{
			ValidateBeforeSubmit: false,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
			Hyperlinks:    true,
			LogFile:       "~/.cache/usvote/usvote.log",
		},
		UI: UIConfig{
			Theme:          "default",
			NoticeDuration: 5 * time.Second,
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateNetworkConfig(); err != nil {
		return err
	}
	if err := c.validateContractConfig(); err != nil {
		return err
	}
	if err := c.validateElectionConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateUIConfig(); err != nil {
		return err
	}
	return nil
}

// validateNetworkConfig validates network-related configuration
func (c *Config) validateNetworkConfig() error {
	if c.Network.Name != "" {
		if _, ok := LookupNetwork(c.Network.Name); !ok {
			return fmt.Errorf("invalid network: %s (must be one of: mainnet, ropsten, rinkeby, goerli, kovan, localhost)", c.Network.Name)
		}
	}
	if c.Network.ChainID < 0 {
		return fmt.Errorf("chain_id must be non-negative")
	}
	if c.Network.ChainID != 0 {
		if _, ok := LookupChain(c.Network.ChainID); !ok {
			return fmt.Errorf("unsupported chain_id: %d", c.Network.ChainID)
		}
	}
	return nil
}

// validateContractConfig validates contract-related configuration
func (c *Config) validateContractConfig() error {
	if c.Contract.Address == "" {
		return fmt.Errorf("contract address is required")
	}
	if !common.IsHexAddress(c.Contract.Address) {
		return fmt.Errorf("invalid contract address: %s", c.Contract.Address)
	}
	if c.Contract.CallTimeout < 0 {
		return fmt.Errorf("call_timeout must be non-negative")
	}
	if c.Contract.WaitTimeout < 0 {
		return fmt.Errorf("wait_timeout must be non-negative")
	}
	return nil
}

// validateElectionConfig validates election-related configuration
func (c *Config) validateElectionConfig() error {
	if c.Election.DedupeWindow < 1 {
		return fmt.Errorf("dedupe_window must be greater than 0")
	}
	if c.Election.RecentResults < 0 {
		return fmt.Errorf("recent_results must be non-negative")
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateUIConfig validates interactive form configuration
func (c *Config) validateUIConfig() error {
	if c.UI.Theme != "" {
		validThemes := map[string]bool{
			"default":       true,
			"high-contrast": true,
			"minimal":       true,
		}
		if !validThemes[c.UI.Theme] {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.UI.Theme)
		}
	}
	if c.UI.NoticeDuration < 0 {
		return fmt.Errorf("notice_duration must be non-negative")
	}
	return nil
}
