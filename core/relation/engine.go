package relation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Synchronizer maintains the associations of one relation type.
type Synchronizer struct {
	def       Definition
	repo      Repository
	resolver  *Resolver
	scheduler *Scheduler
	logger    *zap.Logger
}

// New creates a synchronizer. A nil resolver means the process-wide DefaultResolver;
// a nil logger disables logging.
func New(def Definition, repo Repository, resolver *Resolver, logger *zap.Logger) (*Synchronizer, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	if repo == nil {
		return nil, fmt.Errorf("%w: relation %s has no repository", ErrConfiguration, def.Name)
	}
	if resolver == nil {
		resolver = DefaultResolver()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("relation", def.Name))

	return &Synchronizer{
		def:       def,
		repo:      repo,
		resolver:  resolver,
		scheduler: NewScheduler(repo, logger),
		logger:    logger,
	}, nil
}

// NewGorm creates a synchronizer backed by a GormRepository on db.
func NewGorm(db *gorm.DB, def Definition, resolver *Resolver, logger *zap.Logger) (*Synchronizer, error) {
	repo, err := NewGormRepository(db, def)
	if err != nil {
		return nil, err
	}
	return New(def, repo, resolver, logger)
}

// Definition returns the relation definition.
func (s *Synchronizer) Definition() Definition {
	return s.def
}

// Name returns the relation type name.
func (s *Synchronizer) Name() string {
	return s.def.Name
}

// Scheduler returns the scheduler that holds deferred operations.
func (s *Synchronizer) Scheduler() *Scheduler {
	return s.scheduler
}

// Resolver returns the configuration resolver.
func (s *Synchronizer) Resolver() *Resolver {
	return s.resolver
}

// Config returns the effective policy for a call with opts.
func (s *Synchronizer) Config(opts Options) Config {
	return s.resolver.Resolve(s.def.Name, opts)
}

// LinkOne links a single pair. With opts.BackLink the second endpoint is the primary one,
// which decides whose save a deferred link waits for.
// Empty endpoints are a no-op.
func (s *Synchronizer) LinkOne(ctx context.Context, first, second Ref, opts Options) (SyncOutcome, error) {
	if first.IsEmpty() || second.IsEmpty() {
		return SyncOutcome{Status: StatusNoOp}, nil
	}
	primary, target := first, second
	if opts.BackLink {
		primary, target = second, first
	}
	afterPrimary := s.resolver.AfterPrimary(s.def.Name, opts.AfterPrimary)
	return s.linkPair(ctx, primary, target, opts.BackLink, afterPrimary)
}

// LinkMany sets the associations of the primary endpoints to exactly the counterpart set.
// firsts are the primaries unless opts.BackLink is set, in which case seconds are.
// Pairs no longer desired are removed first, then missing pairs are added.
func (s *Synchronizer) LinkMany(ctx context.Context, firsts, seconds []Ref, opts Options) (Outcomes, error) {
	if opts.BackLink {
		return s.Reconcile(ctx, seconds, firsts, opts)
	}
	return s.Reconcile(ctx, firsts, seconds, opts)
}

// Reconcile makes the associations of each primary endpoint match desired.
// See Plan and Apply for the detailed semantics.
func (s *Synchronizer) Reconcile(ctx context.Context, primary, desired []Ref, opts Options) (Outcomes, error) {
	if len(compact(primary)) == 0 {
		return Outcomes{}, nil
	}

	plan, err := s.Plan(ctx, primary, desired, opts)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("relation plan computed",
		zap.Int("primaries", plan.Summary.Primaries),
		zap.Int("to_remove", plan.Summary.ToRemove),
		zap.Int("to_add", plan.Summary.ToAdd),
		zap.Bool("after_primary", plan.Config.AfterPrimary),
		zap.Bool("clear_on_empty", plan.Config.ClearOnEmpty),
	)

	return s.Apply(ctx, plan)
}

// UnlinkOne removes a single pair. A missing pair is a no-op.
func (s *Synchronizer) UnlinkOne(ctx context.Context, first, second Ref, opts Options) (SyncOutcome, error) {
	if first.IsEmpty() || second.IsEmpty() {
		return SyncOutcome{Status: StatusNoOp}, nil
	}
	primary, target := first, second
	if opts.BackLink {
		primary, target = second, first
	}
	afterPrimary := s.resolver.AfterPrimary(s.def.Name, opts.AfterPrimary)

	out, err := s.unlinkPair(ctx, primary, target, opts.BackLink, afterPrimary)
	if errors.Is(err, ErrConfiguration) {
		return SyncOutcome{}, err
	}
	return out, nil
}

// UnlinkMany removes every pair of the cross product of firsts and seconds.
// Failures are reported per pair and do not stop the batch.
func (s *Synchronizer) UnlinkMany(ctx context.Context, firsts, seconds []Ref, opts Options) (Outcomes, error) {
	firsts, seconds = compact(firsts), compact(seconds)
	if len(firsts) == 0 || len(seconds) == 0 {
		return Outcomes{}, nil
	}
	afterPrimary := s.resolver.AfterPrimary(s.def.Name, opts.AfterPrimary)

	outcomes := make(Outcomes, 0, len(firsts)*len(seconds))
	for _, f := range firsts {
		for _, sec := range seconds {
			primary, target := f, sec
			if opts.BackLink {
				primary, target = sec, f
			}
			out, err := s.unlinkPair(ctx, primary, target, opts.BackLink, afterPrimary)
			if errors.Is(err, ErrConfiguration) {
				return nil, err
			}
			outcomes = append(outcomes, out)
		}
	}
	return outcomes, nil
}

// ClearAll removes every association of the primary endpoints.
// Unless opts.ClearOnEmpty says otherwise, clearing is forced on for this call.
func (s *Synchronizer) ClearAll(ctx context.Context, primary []Ref, opts Options) (Outcomes, error) {
	if opts.ClearOnEmpty == Inherit {
		opts.ClearOnEmpty = Enable
	}
	return s.Reconcile(ctx, primary, nil, opts)
}

// CurrentLinks returns the rows whose first key matches any of the primary endpoints.
// Unsaved entities have no rows.
func (s *Synchronizer) CurrentLinks(ctx context.Context, primary ...Ref) ([]AssociationRecord, error) {
	return s.current(ctx, primary, false)
}

// CurrentBackLinks returns the rows whose second key matches any of the secondary endpoints.
func (s *Synchronizer) CurrentBackLinks(ctx context.Context, secondary ...Ref) ([]AssociationRecord, error) {
	return s.current(ctx, secondary, true)
}

func (s *Synchronizer) current(ctx context.Context, refs []Ref, backLink bool) ([]AssociationRecord, error) {
	records := []AssociationRecord{}
	for _, ref := range compact(refs) {
		if ref.isUnsaved() {
			continue
		}
		k, err := Extract(ref)
		if err != nil {
			return nil, err
		}
		found, err := s.lookup(ctx, k, backLink)
		if err != nil {
			return nil, err
		}
		records = append(records, found...)
	}
	return records, nil
}

// All returns every association row of the relation.
func (s *Synchronizer) All(ctx context.Context) ([]AssociationRecord, error) {
	return s.repo.FindAll(ctx)
}

// Cascade removes the rows that reference key through an owning table.
// It is called when an entity of that table is deleted.
func (s *Synchronizer) Cascade(ctx context.Context, db *gorm.DB, table string, key Key) (int64, error) {
	repo := s.repo
	if db != nil {
		repo = repo.WithDB(db)
	}

	var removed int64
	if s.def.FirstOwner != "" && s.def.FirstOwner == table {
		n, err := repo.DeleteByFirst(ctx, key)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	if s.def.SecondOwner != "" && s.def.SecondOwner == table {
		n, err := repo.DeleteBySecond(ctx, key)
		if err != nil {
			return removed, err
		}
		removed += n
	}
	if removed > 0 {
		s.logger.Debug("relation rows cascaded", zap.String("owner", table), zap.Stringer("key", key), zap.Int64("removed", removed))
	}
	return removed, nil
}
