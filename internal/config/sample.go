package config

// SampleConfig returns a fully documented configuration file
func SampleConfig() string {
	return `# usvote configuration
version: "1.0"

network:
  # mainnet | ropsten | rinkeby | goerli | kovan | localhost
  name: goerli
  # Websocket endpoint; event subscriptions need ws:// or wss://
  rpc_url: ws://127.0.0.1:8545
  # 0 asks the node for its chain id
  chain_id: 0
  # Block explorer base URL; derived from the network name when empty
  explorer: ""

contract:
  address: "` + DefaultContractAddress + `"
  # Bound for read calls (current leader, seats, election status)
  call_timeout: 15s
  # 0 waits for finality indefinitely
  wait_timeout: 0s

wallet:
  # Prefer USVOTE_WALLET_PRIVATE_KEY in the environment or a .env file
  private_key: ""
  keystore: ""
  passphrase: ""

election:
  candidate_a: Biden
  candidate_b: Trump
  # Event references remembered to skip duplicate deliveries
  dedupe_window: 1024
  # State results listed under the form
  recent_results: 5

form:
  # Reject empty state names and zero seat counts before sending
  validate_before_submit: false

output:
  # text | json | markdown | csv
  default_format: text
  # auto | always | never
  color_mode: auto
  verbose: false
  # Clickable transaction links in terminals that support OSC 8
  hyperlinks: true
  # Log destination while the interactive form is open
  log_file: ~/.cache/usvote/usvote.log

ui:
  # default | high-contrast | minimal
  theme: default
  notice_duration: 5s
`
}

// MinimalSampleConfig returns a configuration with only the essential settings
func MinimalSampleConfig() string {
	return `version: "1.0"
network:
  name: goerli
  rpc_url: ws://127.0.0.1:8545
contract:
  address: "` + DefaultContractAddress + `"
`
}
