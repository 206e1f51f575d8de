package election

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/errgroup"

	"github.com/yildizm/usvote/internal/logger"
)

// Options configures a Controller
type Options struct {
	Notifier Notifier
	Logger   *logger.Logger
	Recorder Recorder
	Names    Names

	// DedupeWindow is how many event references are remembered
	DedupeWindow int

	// RecentResults is how many state results the View keeps
	RecentResults int

	// ValidateBeforeSubmit rejects empty state names and zero seats locally
	ValidateBeforeSubmit bool

	// CallTimeout bounds each mount read; 0 means no bound
	CallTimeout time.Duration

	// WaitTimeout bounds the wait for finality; 0 waits until ctx is done
	WaitTimeout time.Duration

	SessionID string
}

// DefaultOptions returns options matching the default configuration
func DefaultOptions() Options {
	return Options{
		Names:         DefaultNames(),
		DedupeWindow:  1024,
		RecentResults: 5,
		CallTimeout:   15 * time.Second,
	}
}

// Controller owns the results form state and drives the contract
type Controller struct {
	contract  Contract
	notifier  Notifier
	log       *logger.Logger
	recorder  Recorder
	names     Names
	validate  bool
	recentMax int
	callTO    time.Duration
	waitTO    time.Duration
	sessionID string

	mu         sync.Mutex
	snapshot   Snapshot
	draft      Draft
	submission Submission
	phase      Phase
	recent     []StateResultEvent
	seen       *lru.Cache
	mounted    bool
	generation uint64
	sub        Subscription
	cancelSub  context.CancelFunc

	obsMu     sync.Mutex
	observers []func(View)
}

// NewController creates a Controller over the given contract
func NewController(contract Contract, opts Options) (*Controller, error) {
	if contract == nil {
		return nil, fmt.Errorf("contract is required")
	}
	if opts.DedupeWindow <= 0 {
		opts.DedupeWindow = DefaultOptions().DedupeWindow
	}
	if opts.Names == (Names{}) {
		opts.Names = DefaultNames()
	}
	if opts.SessionID == "" {
		opts.SessionID = uuid.NewString()
	}

	seen, err := lru.New(opts.DedupeWindow)
	if err != nil {
		return nil, fmt.Errorf("failed to create event cache: %w", err)
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Controller{
		contract:  contract,
		notifier:  notifier,
		log:       log.WithComponent("election").With(logger.F("session", opts.SessionID)),
		recorder:  opts.Recorder,
		names:     opts.Names,
		validate:  opts.ValidateBeforeSubmit,
		recentMax: opts.RecentResults,
		callTO:    opts.CallTimeout,
		waitTO:    opts.WaitTimeout,
		sessionID: opts.SessionID,
		seen:      seen,
	}, nil
}

// SessionID identifies this Controller in logs
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Names returns the candidate display names
func (c *Controller) Names() Names {
	return c.names
}

// OnChange registers an observer called with a fresh View after every transition
func (c *Controller) OnChange(fn func(View)) {
	if fn == nil {
		return
	}
	c.obsMu.Lock()
	defer c.obsMu.Unlock()
	c.observers = append(c.observers, fn)
}

// View returns a copy of the current state
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller) viewLocked() View {
	recent := make([]StateResultEvent, len(c.recent))
	copy(recent, c.recent)
	return View{
		Snapshot:   c.snapshot,
		Draft:      c.draft,
		Submission: c.submission,
		Phase:      c.phase,
		Recent:     recent,
		Mounted:    c.mounted,
	}
}

func (c *Controller) emit(v View) {
	c.obsMu.Lock()
	observers := make([]func(View), len(c.observers))
	copy(observers, c.observers)
	c.obsMu.Unlock()

	for _, fn := range observers {
		fn(v)
	}
}

// update runs fn under the state lock and notifies observers afterwards
func (c *Controller) update(fn func()) View {
	c.mu.Lock()
	fn()
	v := c.viewLocked()
	c.mu.Unlock()
	c.emit(v)
	return v
}

// Mount reads the current election state and subscribes to contract events.
// The subscription is held until Unmount. An Unmount that lands while Mount
// is still reading cancels the reads and releases the subscription.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	mountCtx, cancel := context.WithCancel(ctx)
	c.mounted = true
	c.generation++
	gen := c.generation
	c.cancelSub = cancel
	c.mu.Unlock()

	readErr := c.Refresh(mountCtx)
	subErr := c.subscribe(mountCtx, gen)

	c.update(func() {})

	if subErr != nil {
		subErr = fmt.Errorf("failed to subscribe to election events: %w", subErr)
	}
	return errors.Join(readErr, subErr)
}

// Refresh issues the three snapshot reads concurrently. Each read sets only
// its own field; a failed read leaves its field untouched.
func (c *Controller) Refresh(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error {
		leader, err := timedRead(ctx, c, func(ctx context.Context) (Candidate, error) {
			return c.contract.CurrentLeader(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to read current leader: %w", err)
		}
		c.update(func() { c.snapshot.Leader = leader })
		return nil
	})

	g.Go(func() error {
		var errs []error
		for _, candidate := range []Candidate{CandidateA, CandidateB} {
			seats, err := timedRead(ctx, c, func(ctx context.Context) (uint64, error) {
				return c.contract.Seats(ctx, candidate)
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to read seats of %s: %w", c.names.Of(candidate), err))
				continue
			}
			c.update(func() {
				if candidate == CandidateA {
					c.snapshot.SeatsA = seats
				} else {
					c.snapshot.SeatsB = seats
				}
			})
		}
		return errors.Join(errs...)
	})

	g.Go(func() error {
		ended, err := timedRead(ctx, c, func(ctx context.Context) (bool, error) {
			return c.contract.ElectionEnded(ctx)
		})
		if err != nil {
			return fmt.Errorf("failed to read election status: %w", err)
		}
		c.update(func() {
			if ended {
				c.snapshot.Status = Ended
			} else {
				c.snapshot.Status = InProgress
			}
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		c.log.WarnWithFields("snapshot read failed", []logger.Field{logger.Error(err)})
		return err
	}
	c.log.DebugWithFields("snapshot loaded", []logger.Field{
		logger.F("leader", c.View().Snapshot.Leader),
	})
	return nil
}

func timedRead[T any](ctx context.Context, c *Controller, read func(context.Context) (T, error)) (T, error) {
	if c.callTO > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTO)
		defer cancel()
	}
	start := time.Now()
	v, err := read(ctx)
	c.record(OpRead, time.Since(start), err)
	return v, err
}

func (c *Controller) subscribe(ctx context.Context, gen uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sub, err := c.contract.Subscribe(ctx, EventHandlers{
		OnStateResult:   c.handleStateResult,
		OnElectionEnded: c.handleElectionEnded,
	})
	if err != nil {
		return err
	}

	c.mu.Lock()
	if !c.mounted || c.generation != gen {
		c.mu.Unlock()
		sub.Unsubscribe()
		c.log.Debug("subscription released, unmounted during mount")
		return context.Canceled
	}
	c.sub = sub
	c.mu.Unlock()

	go c.watchSubscription(sub)
	return nil
}

func (c *Controller) watchSubscription(sub Subscription) {
	err, ok := <-sub.Err()
	if !ok || err == nil {
		return
	}
	c.log.ErrorWithFields("event subscription lost", []logger.Field{logger.Error(err)})
	c.notifier.Error(fmt.Sprintf("Lost connection to election events: %v", err))
}

// Unmount releases the event subscription. Calling it again is a no-op.
func (c *Controller) Unmount() {
	c.mu.Lock()
	sub, cancel := c.sub, c.cancelSub
	c.sub, c.cancelSub = nil, nil
	wasMounted := c.mounted
	c.mounted = false
	c.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	if wasMounted {
		c.log.Debug("unmounted")
	}
}

// isDuplicate remembers ref and reports whether it was seen before. Callers hold mu.
func (c *Controller) isDuplicate(ref EventRef) bool {
	if ref.IsZero() {
		return false
	}
	seen, _ := c.seen.ContainsOrAdd(ref, struct{}{})
	return seen
}

func (c *Controller) handleStateResult(ev StateResultEvent) {
	start := time.Now()

	if !ev.Winner.Valid() || ev.Winner == Unknown {
		c.log.WarnWithFields("state result without a winner ignored", []logger.Field{
			logger.F("state", ev.State),
			logger.F("winner", uint8(ev.Winner)),
			logger.TxHash(ev.Ref.TxHash),
		})
		return
	}

	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	if c.isDuplicate(ev.Ref) {
		c.mu.Unlock()
		c.log.DebugWithFields("duplicate state result skipped", []logger.Field{logger.F("ref", ev.Ref)})
		return
	}
	c.snapshot = ApplyStateResult(c.snapshot, ev)
	c.recent = appendRecent(c.recent, ev, c.recentMax)
	snap := c.snapshot
	v := c.viewLocked()
	c.mu.Unlock()

	c.log.InfoWithFields("state result recorded", []logger.Field{
		logger.F("state", ev.State),
		logger.F("winner", c.names.Of(ev.Winner)),
		logger.F("seats", ev.Seats),
		logger.F("leader", c.names.Of(snap.Leader)),
		logger.TxHash(ev.Ref.TxHash),
	})
	c.record(OpEvent, time.Since(start), nil)
	c.emit(v)
}

func (c *Controller) handleElectionEnded(ev ElectionEndedEvent) {
	start := time.Now()

	c.mu.Lock()
	if !c.mounted || c.isDuplicate(ev.Ref) {
		c.mu.Unlock()
		return
	}
	c.snapshot = ApplyElectionEnded(c.snapshot, ev)
	v := c.viewLocked()
	c.mu.Unlock()

	c.log.InfoWithFields("election ended", []logger.Field{
		logger.F("winner", c.names.Of(ev.Winner)),
		logger.TxHash(ev.Ref.TxHash),
	})
	c.record(OpEvent, time.Since(start), nil)
	c.emit(v)
}

// SetDraft replaces all four fields
func (c *Controller) SetDraft(d Draft) error {
	return c.setField(func() { c.draft = d })
}

// SetStateName sets the state name field
func (c *Controller) SetStateName(name string) error {
	return c.setField(func() { c.draft.StateName = name })
}

// SetVotesA sets the votes of candidate A
func (c *Controller) SetVotesA(votes uint64) error {
	return c.setField(func() { c.draft.VotesA = votes })
}

// SetVotesB sets the votes of candidate B
func (c *Controller) SetVotesB(votes uint64) error {
	return c.setField(func() { c.draft.VotesB = votes })
}

// SetSeats sets the state seat count
func (c *Controller) SetSeats(seats uint64) error {
	return c.setField(func() { c.draft.Seats = seats })
}

func (c *Controller) setField(set func()) error {
	c.mu.Lock()
	if c.submission.Pending {
		c.mu.Unlock()
		return ErrSubmissionPending
	}
	set()
	v := c.viewLocked()
	c.mu.Unlock()
	c.emit(v)
	return nil
}

// begin claims the pending flag after check passes, both under the state
// lock. It fails if a write is already in flight.
func (c *Controller) begin(phase Phase, check func() error) error {
	c.mu.Lock()
	if c.submission.Pending {
		c.mu.Unlock()
		return ErrSubmissionPending
	}
	if err := check(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.submission = Submission{Pending: true}
	c.phase = phase
	v := c.viewLocked()
	c.mu.Unlock()
	c.emit(v)
	return nil
}

// finish returns the Controller to Idle after a write settles
func (c *Controller) finish(success func()) {
	c.update(func() {
		c.submission.Pending = false
		c.phase = Idle
		if success != nil {
			c.submission.TxRef = ""
			success()
		}
	})
}

// SubmitResult sends the current draft and waits for finality. On success the
// draft is reset; on failure it is kept so the user can retry.
func (c *Controller) SubmitResult(ctx context.Context) error {
	var draft Draft
	err := c.begin(SubmittingResult, func() error {
		draft = c.draft
		if c.validate {
			return draft.Validate()
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidDraft) {
			c.notifier.Error(err.Error())
		}
		return err
	}

	fields := []logger.Field{logger.F("state", draft.StateName), logger.F("seats", draft.Seats)}
	c.log.InfoWithFields("submitting state result", fields)

	start := time.Now()
	receipt, err := c.write(ctx, func(ctx context.Context) (PendingTx, error) {
		return c.contract.SubmitStateResult(ctx, draft.StateResult())
	})
	c.record(OpSubmit, time.Since(start), err)

	if err != nil {
		c.finish(nil)
		c.log.ErrorWithFields("state result submission failed", append(fields, logger.Error(err)))
		c.notifier.Error(err.Error())
		return err
	}

	c.finish(func() { c.draft = Draft{} })
	c.log.InfoWithFields("state result confirmed", append(fields, logger.TxHash(receipt.TxHash)))
	c.notifier.Success(fmt.Sprintf("Results for %s submitted", draft.StateName))
	return nil
}

// EndElection ends the election. It refuses without calling the contract when
// the election is already known to have ended.
func (c *Controller) EndElection(ctx context.Context) error {
	err := c.begin(EndingElection, func() error {
		if c.snapshot.Status == Ended {
			return ErrElectionEnded
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrElectionEnded) {
			c.log.Warn("end election refused: already ended")
			c.notifier.Error("The election has already ended")
		}
		return err
	}

	c.log.Info("ending election")

	start := time.Now()
	receipt, err := c.write(ctx, c.contract.EndElection)
	c.record(OpEndElection, time.Since(start), err)

	if err != nil {
		c.finish(nil)
		c.log.ErrorWithFields("end election failed", []logger.Field{logger.Error(err)})
		c.notifier.Error(err.Error())
		return err
	}

	c.finish(func() {
		c.snapshot = ApplyElectionEnded(c.snapshot, ElectionEndedEvent{})
	})
	c.log.InfoWithFields("election ended by this session", []logger.Field{logger.TxHash(receipt.TxHash)})
	c.notifier.Success("Election ended")
	return nil
}

// write sends a transaction, publishes its hash and waits for finality
func (c *Controller) write(ctx context.Context, send func(context.Context) (PendingTx, error)) (*Receipt, error) {
	tx, err := send(ctx)
	if err != nil {
		return nil, err
	}

	hash := tx.Hash()
	c.update(func() { c.submission.TxRef = hash })
	c.log.DebugWithFields("transaction sent", []logger.Field{logger.TxHash(hash)})

	waitCtx := ctx
	if c.waitTO > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.waitTO)
		defer cancel()
	}

	receipt, err := tx.Wait(waitCtx)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		receipt = &Receipt{TxHash: hash}
	}
	return receipt, nil
}

func (c *Controller) record(op string, d time.Duration, err error) {
	if c.recorder != nil {
		c.recorder.Record(op, d, err)
	}
}

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}
