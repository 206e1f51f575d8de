package contract

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// USElectionABI is the ABI of the USElection contract
const USElectionABI = `[
	{
		"inputs": [],
		"name": "currentLeader",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"name": "seats",
		"outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "electionEnded",
		"outputs": [{"internalType": "bool", "name": "", "type": "bool"}],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{
				"components": [
					{"internalType": "string", "name": "name", "type": "string"},
					{"internalType": "uint256", "name": "votesBiden", "type": "uint256"},
					{"internalType": "uint256", "name": "votesTrump", "type": "uint256"},
					{"internalType": "uint8", "name": "stateSeats", "type": "uint8"}
				],
				"internalType": "struct USElection.StateResult",
				"name": "result",
				"type": "tuple"
			}
		],
		"name": "submitStateResult",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "endElection",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "internalType": "uint8", "name": "winner", "type": "uint8"},
			{"indexed": false, "internalType": "uint8", "name": "stateSeats", "type": "uint8"},
			{"indexed": false, "internalType": "string", "name": "state", "type": "string"}
		],
		"name": "LogStateResult",
		"type": "event"
	},
	{
		"anonymous": false,
		"inputs": [
			{"indexed": false, "internalType": "uint256", "name": "winner", "type": "uint256"}
		],
		"name": "LogElectionEnded",
		"type": "event"
	}
]`

// Method and event names
const (
	methodCurrentLeader     = "currentLeader"
	methodSeats             = "seats"
	methodElectionEnded     = "electionEnded"
	methodSubmitStateResult = "submitStateResult"
	methodEndElection       = "endElection"

	EventStateResult   = "LogStateResult"
	EventElectionEnded = "LogElectionEnded"
)

// ParsedABI parses USElectionABI
func ParsedABI() (abi.ABI, error) {
	return abi.JSON(strings.NewReader(USElectionABI))
}

// stateResultTuple mirrors USElection.StateResult; field names follow the ABI
// component names so the packer can match them.
type stateResultTuple struct {
	Name       string
	VotesBiden *big.Int
	VotesTrump *big.Int
	StateSeats uint8
}

// logStateResult is the data of LogStateResult
type logStateResult struct {
	Winner     uint8
	StateSeats uint8
	State      string
}

// logElectionEnded is the data of LogElectionEnded
type logElectionEnded struct {
	Winner *big.Int
}
