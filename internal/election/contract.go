package election

import (
	"context"
	"time"
)

// Contract is the election contract as seen by the Controller
type Contract interface {
	CurrentLeader(ctx context.Context) (Candidate, error)
	Seats(ctx context.Context, candidate Candidate) (uint64, error)
	ElectionEnded(ctx context.Context) (bool, error)
	SubmitStateResult(ctx context.Context, result StateResult) (PendingTx, error)
	EndElection(ctx context.Context) (PendingTx, error)
	Subscribe(ctx context.Context, handlers EventHandlers) (Subscription, error)
}

// PendingTx is a write that has been sent but not yet confirmed
type PendingTx interface {
	Hash() string
	Wait(ctx context.Context) (*Receipt, error)
}

// Receipt summarizes a confirmed transaction
type Receipt struct {
	TxHash      string
	BlockNumber uint64
	GasUsed     uint64
}

// EventHandlers receive decoded contract events
type EventHandlers struct {
	OnStateResult   func(StateResultEvent)
	OnElectionEnded func(ElectionEndedEvent)
}

// Subscription is a live event feed
type Subscription interface {
	Unsubscribe()
	Err() <-chan error
}

// Notifier shows user-facing notifications
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Recorder receives timings of contract operations
type Recorder interface {
	Record(operation string, duration time.Duration, err error)
}

// Operation names passed to Recorder
const (
	OpRead        = "read"
	OpSubmit      = "submit"
	OpEndElection = "end_election"
	OpEvent       = "event"
)
