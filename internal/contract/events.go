package contract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"

	"github.com/yildizm/usvote/internal/election"
	"github.com/yildizm/usvote/internal/logger"
)

// Subscribe watches LogStateResult and LogElectionEnded and calls the
// matching handler for each log. Logs removed by a reorg are skipped. Both
// feeds share one subscription; losing either ends it with an error.
func (b *Binding) Subscribe(ctx context.Context, handlers election.EventHandlers) (election.Subscription, error) {
	opts := &bind.WatchOpts{Context: ctx}

	stateLogs, stateSub, err := b.contract.WatchLogs(opts, EventStateResult)
	if err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", EventStateResult, err)
	}
	endLogs, endSub, err := b.contract.WatchLogs(opts, EventElectionEnded)
	if err != nil {
		stateSub.Unsubscribe()
		return nil, fmt.Errorf("failed to watch %s: %w", EventElectionEnded, err)
	}

	b.log.Debug("subscribed to contract events at %s", b.address.Hex())

	return event.NewSubscription(func(quit <-chan struct{}) error {
		defer stateSub.Unsubscribe()
		defer endSub.Unsubscribe()

		for {
			select {
			case l := <-stateLogs:
				b.dispatchStateResult(l, handlers.OnStateResult)
			case l := <-endLogs:
				b.dispatchElectionEnded(l, handlers.OnElectionEnded)
			case err := <-stateSub.Err():
				return err
			case err := <-endSub.Err():
				return err
			case <-quit:
				return nil
			}
		}
	}), nil
}

func (b *Binding) dispatchStateResult(l types.Log, handle func(election.StateResultEvent)) {
	if l.Removed || handle == nil {
		return
	}
	ev, err := b.ParseStateResult(l)
	if err != nil {
		b.log.WarnWithFields("undecodable state result log", []logger.Field{logger.TxHash(l.TxHash.Hex()), logger.Error(err)})
		return
	}
	handle(ev)
}

func (b *Binding) dispatchElectionEnded(l types.Log, handle func(election.ElectionEndedEvent)) {
	if l.Removed || handle == nil {
		return
	}
	ev, err := b.ParseElectionEnded(l)
	if err != nil {
		b.log.WarnWithFields("undecodable election ended log", []logger.Field{logger.TxHash(l.TxHash.Hex()), logger.Error(err)})
		return
	}
	handle(ev)
}

// ParseStateResult decodes a LogStateResult log
func (b *Binding) ParseStateResult(l types.Log) (election.StateResultEvent, error) {
	var out logStateResult
	if err := b.contract.UnpackLog(&out, EventStateResult, l); err != nil {
		return election.StateResultEvent{}, err
	}
	return election.StateResultEvent{
		Winner: toCandidate(uint64(out.Winner)),
		Seats:  uint64(out.StateSeats),
		State:  out.State,
		Ref:    refOf(l),
	}, nil
}

// ParseElectionEnded decodes a LogElectionEnded log
func (b *Binding) ParseElectionEnded(l types.Log) (election.ElectionEndedEvent, error) {
	var out logElectionEnded
	if err := b.contract.UnpackLog(&out, EventElectionEnded, l); err != nil {
		return election.ElectionEndedEvent{}, err
	}
	winner := election.Unknown
	if out.Winner != nil && out.Winner.IsUint64() {
		winner = toCandidate(out.Winner.Uint64())
	}
	return election.ElectionEndedEvent{Winner: winner, Ref: refOf(l)}, nil
}

func refOf(l types.Log) election.EventRef {
	return election.EventRef{TxHash: l.TxHash.Hex(), LogIndex: l.Index}
}
