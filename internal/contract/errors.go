package contract

import "errors"

var (
	// ErrReadOnly is returned by writes when no signing key is configured
	ErrReadOnly = errors.New("no wallet configured: binding is read-only")

	// ErrTransactionReverted is returned when a mined transaction failed
	ErrTransactionReverted = errors.New("transaction reverted")

	// ErrSeatsOverflow is returned when a seat count does not fit the contract's uint8
	ErrSeatsOverflow = errors.New("state seats must be at most 255")

	// ErrUnsupportedChain is returned when the node runs a chain usvote has no network for
	ErrUnsupportedChain = errors.New("unsupported chain id")
)
