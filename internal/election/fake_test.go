package election

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakeTx struct {
	hash    string
	release chan struct{}
	err     error
}

func newFakeTx(hash string) *fakeTx {
	return &fakeTx{hash: hash, release: make(chan struct{})}
}

func (tx *fakeTx) Hash() string { return tx.hash }

func (tx *fakeTx) Wait(ctx context.Context) (*Receipt, error) {
	select {
	case <-tx.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if tx.err != nil {
		return nil, tx.err
	}
	return &Receipt{TxHash: tx.hash, BlockNumber: 1}, nil
}

type fakeSub struct {
	errc         chan error
	once         sync.Once
	unsubscribed int
	mu           sync.Mutex
}

func newFakeSub() *fakeSub {
	return &fakeSub{errc: make(chan error, 1)}
}

func (s *fakeSub) Unsubscribe() {
	s.mu.Lock()
	s.unsubscribed++
	s.mu.Unlock()
	s.once.Do(func() { close(s.errc) })
}

func (s *fakeSub) Err() <-chan error { return s.errc }

type fakeContract struct {
	mu sync.Mutex

	leader Candidate
	seatsA uint64
	seatsB uint64
	ended  bool

	leaderErr error
	seatsErr  error
	endedErr  error

	// gates block the matching read until closed
	leaderGate chan struct{}
	seatsGate  chan struct{}
	endedGate  chan struct{}

	sendErr   error
	nextTx    *fakeTx
	submitted []StateResult
	endCalls  int

	subscribeErr   error
	subscribeCalls int
	handlers       EventHandlers
	sub            *fakeSub
}

func waitGate(ctx context.Context, gate chan struct{}) error {
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *fakeContract) CurrentLeader(ctx context.Context) (Candidate, error) {
	if err := waitGate(ctx, f.leaderGate); err != nil {
		return Unknown, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.leader, f.leaderErr
}

func (f *fakeContract) Seats(ctx context.Context, candidate Candidate) (uint64, error) {
	if err := waitGate(ctx, f.seatsGate); err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.seatsErr != nil {
		return 0, f.seatsErr
	}
	if candidate == CandidateA {
		return f.seatsA, nil
	}
	return f.seatsB, nil
}

func (f *fakeContract) ElectionEnded(ctx context.Context) (bool, error) {
	if err := waitGate(ctx, f.endedGate); err != nil {
		return false, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ended, f.endedErr
}

func (f *fakeContract) SubmitStateResult(_ context.Context, result StateResult) (PendingTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, result)
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.nextTx, nil
}

func (f *fakeContract) EndElection(context.Context) (PendingTx, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.endCalls++
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.nextTx, nil
}

func (f *fakeContract) Subscribe(_ context.Context, handlers EventHandlers) (Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribeCalls++
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.handlers = handlers
	f.sub = newFakeSub()
	return f.sub, nil
}

func (f *fakeContract) submitCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.submitted)
}

func (f *fakeContract) emitStateResult(ev StateResultEvent) {
	f.mu.Lock()
	h := f.handlers.OnStateResult
	f.mu.Unlock()
	h(ev)
}

func (f *fakeContract) emitElectionEnded(ev ElectionEndedEvent) {
	f.mu.Lock()
	h := f.handlers.OnElectionEnded
	f.mu.Unlock()
	h(ev)
}

type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
	errorSeen chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{errorSeen: make(chan struct{}, 8)}
}

func (n *fakeNotifier) Success(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *fakeNotifier) Error(message string) {
	n.mu.Lock()
	n.errors = append(n.errors, message)
	n.mu.Unlock()
	select {
	case n.errorSeen <- struct{}{}:
	default:
	}
}

func (n *fakeNotifier) snapshot() (successes, errs []string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...), append([]string(nil), n.errors...)
}

type recordedOp struct {
	op  string
	err error
}

type fakeRecorder struct {
	mu  sync.Mutex
	ops []recordedOp
}

func (r *fakeRecorder) Record(op string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, recordedOp{op: op, err: err})
}

func (r *fakeRecorder) count(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, o := range r.ops {
		if o.op == op {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")
