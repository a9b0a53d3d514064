package relation

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// PendingState is the state of a deferred operation.
type PendingState int32

const (
	// StateIdle is the state before registration.
	StateIdle PendingState = iota
	// StateScheduled means the handler waits for the entity's save event.
	StateScheduled
	// StateFired means the handler ran and deregistered itself.
	StateFired
	// StateCancelled means the operation was withdrawn before the event fired.
	StateCancelled
)

// String implements fmt.Stringer.
func (s PendingState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScheduled:
		return "scheduled"
	case StateFired:
		return "fired"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Pending is a deferred operation registered on an entity's save event.
type Pending struct {
	// Operation is the deferred link or unlink.
	Operation PendingOperation

	entity Entity
	kind   EventKind
	id     SubscriptionID

	mu      sync.Mutex
	state   PendingState
	outcome SyncOutcome
}

// State returns the current state.
func (p *Pending) State() PendingState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Event returns the event the operation waits for.
func (p *Pending) Event() EventKind {
	return p.kind
}

// Outcome returns the result once the operation has fired.
func (p *Pending) Outcome() (SyncOutcome, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome, p.state == StateFired
}

func (p *Pending) transition(from, to PendingState) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != from {
		return false
	}
	p.state = to
	return true
}

// FiredFunc observes deferred operations after they ran.
type FiredFunc func(op PendingOperation, outcome SyncOutcome)

// Scheduler postpones link and unlink operations until an entity reports a successful save.
// Each registration fires at most once.
type Scheduler struct {
	repo   Repository
	logger *zap.Logger

	mu        sync.RWMutex
	observers []FiredFunc
}

// NewScheduler creates a scheduler executing operations through repo.
func NewScheduler(repo Repository, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{repo: repo, logger: logger}
}

// OnFired registers an observer called after every fired operation.
func (s *Scheduler) OnFired(fn FiredFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Schedule registers op on the entity's next insert (new entity) or update (persisted entity).
// Several operations scheduled on one entity all fire, in registration order, on the same save.
func (s *Scheduler) Schedule(entity Entity, op PendingOperation) *Pending {
	p := &Pending{Operation: op, entity: entity, state: StateIdle}

	p.kind = AfterUpdate
	if entity.IsNewRecord() {
		p.kind = AfterInsert
	}
	p.id = entity.Events().On(p.kind, s.fire, p)
	p.transition(StateIdle, StateScheduled)

	s.logger.Debug("relation operation deferred",
		zap.String("kind", string(op.Kind)),
		zap.Stringer("first", op.First),
		zap.Stringer("second", op.Second),
		zap.String("event", string(p.kind)),
	)
	return p
}

// Cancel withdraws a scheduled operation. It returns false if the operation already fired.
func (s *Scheduler) Cancel(p *Pending) bool {
	if !p.transition(StateScheduled, StateCancelled) {
		return false
	}
	p.entity.Events().Off(p.kind, p.id)
	return true
}

// fire is the one-shot handler. It deregisters itself before touching the database,
// so a save issued while it runs cannot execute the operation twice.
func (s *Scheduler) fire(ev *Event) {
	p, ok := ev.Data.(*Pending)
	if !ok {
		return
	}
	p.entity.Events().Off(p.kind, p.id)
	if !p.transition(StateScheduled, StateFired) {
		return
	}

	ctx := context.Background()
	repo := s.repo
	if ev.DB != nil {
		repo = repo.WithDB(ev.DB)
		if ev.DB.Statement != nil && ev.DB.Statement.Context != nil {
			ctx = ev.DB.Statement.Context
		}
	}

	out := s.execute(ctx, repo, p.Operation)

	p.mu.Lock()
	p.outcome = out
	p.mu.Unlock()

	fields := []zap.Field{
		zap.String("kind", string(p.Operation.Kind)),
		zap.Stringer("first", out.First),
		zap.Stringer("second", out.Second),
		zap.String("status", string(out.Status)),
	}
	if out.Failed() {
		s.logger.Warn("deferred relation operation failed", append(fields, zap.Error(out.Err))...)
	} else {
		s.logger.Debug("deferred relation operation fired", fields...)
	}

	s.mu.RLock()
	observers := append([]FiredFunc(nil), s.observers...)
	s.mu.RUnlock()
	for _, fn := range observers {
		fn(p.Operation, out)
	}
}

func (s *Scheduler) execute(ctx context.Context, repo Repository, op PendingOperation) SyncOutcome {
	first, err := Extract(op.First)
	if err != nil {
		return failed(Key{}, Key{}, err)
	}
	second, err := Extract(op.Second)
	if err != nil {
		return failed(first, Key{}, err)
	}

	switch op.Kind {
	case OperationUnlink:
		out, _ := unlink(ctx, repo, first, second)
		return out
	default:
		return link(ctx, repo, first, second)
	}
}
