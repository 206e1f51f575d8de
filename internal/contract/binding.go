// Package contract binds the USElection smart contract with go-ethereum and
// exposes it to the election Controller.
package contract

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/logger"
)

// Backend is what the binding needs from a node connection. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// Binding is a USElection contract handle
type Binding struct {
	address  common.Address
	abi      abi.ABI
	contract *bind.BoundContract
	backend  Backend
	auth     *bind.TransactOpts
	log      *logger.Logger
}

// New binds the contract at address. auth may be nil for a read-only binding.
func New(address common.Address, backend Backend, auth *bind.TransactOpts, log *logger.Logger) (*Binding, error) {
	parsed, err := ParsedABI()
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}
	if log == nil {
		log = logger.Nop()
	}

	return &Binding{
		address:  address,
		abi:      parsed,
		contract: bind.NewBoundContract(address, parsed, backend, backend, backend),
		backend:  backend,
		auth:     auth,
		log:      log.WithComponent("contract"),
	}, nil
}

// Address returns the contract address
func (b *Binding) Address() common.Address {
	return b.address
}

// ReadOnly reports whether writes are unavailable
func (b *Binding) ReadOnly() bool {
	return b.auth == nil
}

// Sender returns the signing account, or the zero address when read-only
func (b *Binding) Sender() common.Address {
	if b.auth == nil {
		return common.Address{}
	}
	return b.auth.From
}

func (b *Binding) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	var out []interface{}
	if err := b.contract.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return out[0], nil
}

// CurrentLeader reads currentLeader()
func (b *Binding) CurrentLeader(ctx context.Context) (election.Candidate, error) {
	out, err := b.call(ctx, methodCurrentLeader)
	if err != nil {
		return election.Unknown, err
	}
	leader, ok := out.(uint8)
	if !ok {
		return election.Unknown, fmt.Errorf("%s: unexpected result type %T", methodCurrentLeader, out)
	}
	return toCandidate(uint64(leader)), nil
}

// Seats reads seats(candidate)
func (b *Binding) Seats(ctx context.Context, candidate election.Candidate) (uint64, error) {
	out, err := b.call(ctx, methodSeats, uint8(candidate))
	if err != nil {
		return 0, err
	}
	seats, ok := out.(uint8)
	if !ok {
		return 0, fmt.Errorf("%s: unexpected result type %T", methodSeats, out)
	}
	return uint64(seats), nil
}

// ElectionEnded reads electionEnded()
func (b *Binding) ElectionEnded(ctx context.Context) (bool, error) {
	out, err := b.call(ctx, methodElectionEnded)
	if err != nil {
		return false, err
	}
	ended, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("%s: unexpected result type %T", methodElectionEnded, out)
	}
	return ended, nil
}

// SubmitStateResult sends submitStateResult(result)
func (b *Binding) SubmitStateResult(ctx context.Context, result election.StateResult) (election.PendingTx, error) {
	tuple, err := toTuple(result)
	if err != nil {
		return nil, err
	}
	return b.transact(ctx, methodSubmitStateResult, tuple)
}

// EndElection sends endElection()
func (b *Binding) EndElection(ctx context.Context) (election.PendingTx, error) {
	return b.transact(ctx, methodEndElection)
}

func (b *Binding) transact(ctx context.Context, method string, args ...interface{}) (election.PendingTx, error) {
	if b.auth == nil {
		return nil, ErrReadOnly
	}

	opts := *b.auth
	opts.Context = ctx

	tx, err := b.contract.Transact(&opts, method, args...)
	if err != nil {
		return nil, err
	}

	b.log.DebugWithFields("transaction sent", []logger.Field{
		logger.F("method", method),
		logger.TxHash(tx.Hash().Hex()),
		logger.F("nonce", tx.Nonce()),
	})
	return &pendingTx{tx: tx, backend: b.backend, log: b.log}, nil
}

// PackStateResult returns the calldata of submitStateResult(result)
func (b *Binding) PackStateResult(result election.StateResult) ([]byte, error) {
	tuple, err := toTuple(result)
	if err != nil {
		return nil, err
	}
	return b.abi.Pack(methodSubmitStateResult, tuple)
}

func toTuple(result election.StateResult) (stateResultTuple, error) {
	if result.StateSeats > 255 {
		return stateResultTuple{}, fmt.Errorf("%w: got %d", ErrSeatsOverflow, result.StateSeats)
	}
	return stateResultTuple{
		Name:       result.Name,
		VotesBiden: orZero(result.VotesA),
		VotesTrump: orZero(result.VotesB),
		StateSeats: uint8(result.StateSeats),
	}, nil
}

func orZero(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func toCandidate(v uint64) election.Candidate {
	if v > uint64(election.CandidateB) {
		return election.Unknown
	}
	return election.Candidate(v)
}

// pendingTx waits for a sent transaction to be mined
type pendingTx struct {
	tx      *types.Transaction
	backend bind.DeployBackend
	log     *logger.Logger
}

func (p *pendingTx) Hash() string {
	return p.tx.Hash().Hex()
}

// Wait blocks until the transaction is mined or ctx is done. A receipt with a
// failed status is reported as ErrTransactionReverted.
func (p *pendingTx) Wait(ctx context.Context) (*election.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, p.backend, p.tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", p.Hash(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("%w: %s", ErrTransactionReverted, p.Hash())
	}

	out := &election.Receipt{
		TxHash:  receipt.TxHash.Hex(),
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	p.log.DebugWithFields("transaction mined", []logger.Field{
		logger.TxHash(out.TxHash),
		logger.F("block", out.BlockNumber),
		logger.F("gas", out.GasUsed),
	})
	return out, nil
}
