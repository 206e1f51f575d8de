package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.usvote.yaml",               // Project-specific config (highest priority)
	"~/.config/usvote/config.yaml", // User config
	"/etc/usvote/config.yaml",      // System config (lowest priority)
}

// DotenvPath is the env file read before environment overrides are applied
const DotenvPath = ".env"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	dotenvPath  string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		dotenvPath:  DotenvPath,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables (USVOTE_*, optionally seeded from .env)
// 3. ./.usvote.yaml
// 4. ~/.config/usvote/config.yaml
// 5. /etc/usvote/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if fileExists(expandedPath) {
				if err := l.loadFromFile(config, expandedPath); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
				}
			}
		}
	}

	if err := l.loadDotenv(); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", l.dotenvPath, err)
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadDotenv seeds the process environment from the env file. Variables that
// are already set keep their values.
func (l *Loader) loadDotenv() error {
	if l.dotenvPath == "" || !fileExists(l.dotenvPath) {
		return nil
	}
	return godotenv.Load(l.dotenvPath)
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig, presentKeys(data))

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Network Config
		"USVOTE_NETWORK_NAME":     func(v string) error { config.Network.Name = v; return nil },
		"USVOTE_NETWORK_RPC_URL":  func(v string) error { config.Network.RPCURL = v; return nil },
		"USVOTE_NETWORK_CHAIN_ID": func(v string) error { return parseInt64(v, &config.Network.ChainID) },
		"USVOTE_NETWORK_EXPLORER": func(v string) error { config.Network.Explorer = v; return nil },

		// Contract Config
		"USVOTE_CONTRACT_ADDRESS":      func(v string) error { config.Contract.Address = v; return nil },
		"USVOTE_CONTRACT_CALL_TIMEOUT": func(v string) error { return parseDuration(v, &config.Contract.CallTimeout) },
		"USVOTE_CONTRACT_WAIT_TIMEOUT": func(v string) error { return parseDuration(v, &config.Contract.WaitTimeout) },

		// Wallet Config
		"USVOTE_WALLET_PRIVATE_KEY": func(v string) error { config.Wallet.PrivateKey = v; return nil },
		"USVOTE_WALLET_KEYSTORE":    func(v string) error { config.Wallet.Keystore = v; return nil },
		"USVOTE_WALLET_PASSPHRASE":  func(v string) error { config.Wallet.Passphrase = v; return nil },

		// Election Config
		"USVOTE_ELECTION_CANDIDATE_A":    func(v string) error { config.Election.CandidateA = v; return nil },
		"USVOTE_ELECTION_CANDIDATE_B":    func(v string) error { config.Election.CandidateB = v; return nil },
		"USVOTE_ELECTION_DEDUPE_WINDOW":  func(v string) error { return parseInt(v, &config.Election.DedupeWindow) },
		"USVOTE_ELECTION_RECENT_RESULTS": func(v string) error { return parseInt(v, &config.Election.RecentResults) },

		// Form Config
		"USVOTE_FORM_VALIDATE_BEFORE_SUBMIT": func(v string) error { return parseBool(v, &config.Form.ValidateBeforeSubmit) },

		// Output Config
		"USVOTE_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"USVOTE_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"USVOTE_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },
		"USVOTE_OUTPUT_HYPERLINKS":     func(v string) error { return parseBool(v, &config.Output.Hyperlinks) },
		"USVOTE_OUTPUT_LOG_FILE":       func(v string) error { config.Output.LogFile = v; return nil },

		// UI Config
		"USVOTE_UI_THEME":           func(v string) error { config.UI.Theme = v; return nil },
		"USVOTE_UI_NOTICE_DURATION": func(v string) error { return parseDuration(v, &config.UI.NoticeDuration) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	return expandPath(path)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// presentKeys records which "section.key" entries a YAML document sets, so
// that explicit false/zero values can override defaults.
func presentKeys(data []byte) map[string]bool {
	var raw map[string]interface{}
	keys := make(map[string]bool)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return keys
	}
	for section, value := range raw {
		values, ok := value.(map[string]interface{})
		if !ok {
			continue
		}
		for key := range values {
			keys[section+"."+key] = true
		}
	}
	return keys
}

// mergeConfigs merges source config into destination config.
// Non-zero values from source overwrite destination; booleans overwrite
// only when the file sets them.
func mergeConfigs(dst, src *Config, present map[string]bool) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeNetworkConfig(&dst.Network, &src.Network)
	mergeContractConfig(&dst.Contract, &src.Contract)
	mergeWalletConfig(&dst.Wallet, &src.Wallet)
	mergeElectionConfig(&dst.Election, &src.Election)
	mergeIfSet(&dst.Form.ValidateBeforeSubmit, src.Form.ValidateBeforeSubmit, present["form.validate_before_submit"])
	mergeOutputConfig(&dst.Output, &src.Output, present)
	mergeUIConfig(&dst.UI, &src.UI)
}

func mergeNetworkConfig(dst, src *NetworkConfig) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.RPCURL != "" {
		dst.RPCURL = src.RPCURL
	}
	if src.ChainID != 0 {
		dst.ChainID = src.ChainID
	}
	if src.Explorer != "" {
		dst.Explorer = src.Explorer
	}
}

func mergeContractConfig(dst, src *ContractConfig) {
	if src.Address != "" {
		dst.Address = src.Address
	}
	if src.CallTimeout != 0 {
		dst.CallTimeout = src.CallTimeout
	}
	if src.WaitTimeout != 0 {
		dst.WaitTimeout = src.WaitTimeout
	}
}

func mergeWalletConfig(dst, src *WalletConfig) {
	if src.PrivateKey != "" {
		dst.PrivateKey = src.PrivateKey
	}
	if src.Keystore != "" {
		dst.Keystore = src.Keystore
	}
	if src.Passphrase != "" {
		dst.Passphrase = src.Passphrase
	}
}

func mergeElectionConfig(dst, src *ElectionConfig) {
	if src.CandidateA != "" {
		dst.CandidateA = src.CandidateA
	}
	if src.CandidateB != "" {
		dst.CandidateB = src.CandidateB
	}
	if src.DedupeWindow != 0 {
		dst.DedupeWindow = src.DedupeWindow
	}
	if src.RecentResults != 0 {
		dst.RecentResults = src.RecentResults
	}
}

func mergeOutputConfig(dst, src *OutputConfig, present map[string]bool) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.LogFile != "" {
		dst.LogFile = src.LogFile
	}
	mergeIfSet(&dst.Verbose, src.Verbose, present["output.verbose"])
	mergeIfSet(&dst.Hyperlinks, src.Hyperlinks, present["output.hyperlinks"])
}

func mergeUIConfig(dst, src *UIConfig) {
	if src.Theme != "" {
		dst.Theme = src.Theme
	}
	if src.NoticeDuration != 0 {
		dst.NoticeDuration = src.NoticeDuration
	}
}

// mergeIfSet only merges boolean values the file actually sets
func mergeIfSet(dst *bool, src bool, set bool) {
	if set {
		*dst = src
	}
}

// Type conversion helpers

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
