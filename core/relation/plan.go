package relation

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ActionType represents the type of a planned association change.
type ActionType string

const (
	// ActionUnlink removes a pair that is no longer desired.
	ActionUnlink ActionType = "unlink"
	// ActionLink adds a desired pair that is missing.
	ActionLink ActionType = "link"
	// ActionNone records that a primary has nothing to change.
	ActionNone ActionType = "none"
)

// Action is one planned change for a primary endpoint.
type Action struct {
	// Type specifies the change to perform.
	Type ActionType `json:"type"`

	// Primary is the endpoint whose associations are being set.
	Primary Ref `json:"-"`

	// Target is the counterpart endpoint.
	Target Ref `json:"-"`

	// PrimaryKey is the normalized primary key. It is zero for unsaved entities.
	PrimaryKey Key `json:"primary"`

	// TargetKey is the normalized target key. It is zero for unsaved entities.
	TargetKey Key `json:"target"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// Plan holds the computed changes of a reconciliation. Removals always precede additions.
type Plan struct {
	// BackLink tells whether the primary endpoints populate the second column.
	BackLink bool `json:"back_link"`

	// Config is the policy the plan was computed with.
	Config Config `json:"config"`

	// Actions contains the planned changes in execution order.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Primaries is the number of primary endpoints.
	Primaries int `json:"primaries"`
	// Current is the number of existing associations of the primaries.
	Current int `json:"current"`
	// ToRemove counts planned unlink actions.
	ToRemove int `json:"to_remove"`
	// ToAdd counts planned link actions.
	ToAdd int `json:"to_add"`
	// Unchanged counts existing associations that stay.
	Unchanged int `json:"unchanged"`
}

// Diff computes the set difference between current and desired target keys.
// An empty desired set is a no-op unless clearOnEmpty is set, in which case every
// current key is removed. Duplicates are ignored; result order follows the inputs.
func Diff(current, desired []Key, clearOnEmpty bool) (toRemove, toAdd []Key, noop bool) {
	if len(desired) == 0 {
		if !clearOnEmpty {
			return nil, nil, true
		}
		return dedup(current), nil, false
	}

	desiredSet := make(map[Key]struct{}, len(desired))
	for _, k := range desired {
		desiredSet[k] = struct{}{}
	}
	currentSet := make(map[Key]struct{}, len(current))
	for _, k := range current {
		currentSet[k] = struct{}{}
	}

	for _, k := range dedup(current) {
		if _, ok := desiredSet[k]; !ok {
			toRemove = append(toRemove, k)
		}
	}
	for _, k := range dedup(desired) {
		if _, ok := currentSet[k]; !ok {
			toAdd = append(toAdd, k)
		}
	}
	return toRemove, toAdd, false
}

func dedup(keys []Key) []Key {
	seen := make(map[Key]struct{}, len(keys))
	out := make([]Key, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Plan computes the changes needed to make the associations of each primary endpoint
// match desired. It reads current associations but writes nothing; use Apply for that.
func (s *Synchronizer) Plan(ctx context.Context, primary, desired []Ref, opts Options) (*Plan, error) {
	primary = compact(primary)
	desired = compact(desired)
	cfg := s.resolver.Resolve(s.def.Name, opts)

	plan := &Plan{BackLink: opts.BackLink, Config: cfg}
	plan.Summary.Primaries = len(primary)
	if len(primary) == 0 {
		return plan, nil
	}

	// Unsaved desired entities have no key yet, so they are always additions.
	var desiredKeys []Key
	var unsaved []Ref
	desiredRefs := make(map[Key]Ref, len(desired))
	for _, ref := range desired {
		if ref.isUnsaved() {
			unsaved = append(unsaved, ref)
			continue
		}
		k, err := Extract(ref)
		if err != nil {
			return nil, err
		}
		if _, ok := desiredRefs[k]; !ok {
			desiredRefs[k] = ref
		}
		desiredKeys = append(desiredKeys, k)
	}

	var none, removes, adds []Action
	for _, p := range primary {
		var pk Key
		var current []Key
		if !p.isUnsaved() {
			k, err := Extract(p)
			if err != nil {
				return nil, err
			}
			pk = k
			records, err := s.lookup(ctx, pk, opts.BackLink)
			if err != nil {
				return nil, err
			}
			current = targets(records, opts.BackLink)
		}
		plan.Summary.Current += len(current)

		if len(desiredKeys) == 0 && len(unsaved) == 0 && !cfg.ClearOnEmpty {
			none = append(none, Action{Type: ActionNone, Primary: p, PrimaryKey: pk, Reason: "empty desired set"})
			continue
		}

		toRemove, toAdd, _ := Diff(current, desiredKeys, cfg.ClearOnEmpty)
		if len(desiredKeys) == 0 {
			// Only unsaved targets are desired: every current target goes.
			toRemove = dedup(current)
		}
		plan.Summary.Unchanged += len(dedup(current)) - len(toRemove)

		for _, k := range toRemove {
			removes = append(removes, Action{
				Type:       ActionUnlink,
				Primary:    p,
				Target:     RefOf(k),
				PrimaryKey: pk,
				TargetKey:  k,
				Reason:     "not in desired set",
			})
		}
		for _, k := range toAdd {
			adds = append(adds, Action{
				Type:       ActionLink,
				Primary:    p,
				Target:     desiredRefs[k],
				PrimaryKey: pk,
				TargetKey:  k,
				Reason:     "missing",
			})
		}
		for _, ref := range unsaved {
			adds = append(adds, Action{Type: ActionLink, Primary: p, Target: ref, PrimaryKey: pk, Reason: "unsaved target"})
		}
	}

	plan.Actions = make([]Action, 0, len(none)+len(removes)+len(adds))
	plan.Actions = append(plan.Actions, none...)
	plan.Actions = append(plan.Actions, removes...)
	plan.Actions = append(plan.Actions, adds...)
	plan.Summary.ToRemove = len(removes)
	plan.Summary.ToAdd = len(adds)
	return plan, nil
}

// Apply executes a plan: every removal first, then every addition.
// Additions fail per pair and processing continues. A failed removal aborts the rest
// of the plan and is returned together with the outcomes gathered so far.
// Configuration errors abort without outcomes.
func (s *Synchronizer) Apply(ctx context.Context, plan *Plan) (Outcomes, error) {
	outcomes := make(Outcomes, 0, len(plan.Actions))

	for _, action := range plan.Actions {
		switch action.Type {
		case ActionNone:
			first, second := orientKeys(action.PrimaryKey, Key{}, plan.BackLink)
			outcomes = append(outcomes, SyncOutcome{First: first, Second: second, Status: StatusNoOp})

		case ActionUnlink:
			out, err := s.unlinkPair(ctx, action.Primary, action.Target, plan.BackLink, plan.Config.AfterPrimary)
			if errors.Is(err, ErrConfiguration) {
				return nil, err
			}
			outcomes = append(outcomes, out)
			if err != nil {
				return outcomes, fmt.Errorf("relation %s: reconciliation aborted: %w", s.def.Name, err)
			}

		case ActionLink:
			out, err := s.linkPair(ctx, action.Primary, action.Target, plan.BackLink, plan.Config.AfterPrimary)
			if err != nil {
				return nil, err
			}
			outcomes = append(outcomes, out)
		}
	}

	return outcomes, nil
}

func (s *Synchronizer) lookup(ctx context.Context, key Key, backLink bool) ([]AssociationRecord, error) {
	if backLink {
		return s.repo.FindBySecond(ctx, key)
	}
	return s.repo.FindByFirst(ctx, key)
}

// targets returns the other side's key of each record.
func targets(records []AssociationRecord, backLink bool) []Key {
	keys := make([]Key, 0, len(records))
	for _, rec := range records {
		if backLink {
			keys = append(keys, rec.First)
		} else {
			keys = append(keys, rec.Second)
		}
	}
	return keys
}

func orient(primary, target Ref, backLink bool) (first, second Ref) {
	if backLink {
		return target, primary
	}
	return primary, target
}

func orientKeys(primary, target Key, backLink bool) (first, second Key) {
	if backLink {
		return target, primary
	}
	return primary, target
}

// pairKeys extracts both keys. Unsaved entities yield a zero key instead of an error.
func pairKeys(first, second Ref) (Key, Key, error) {
	var fk, sk Key
	var err error
	if !first.isUnsaved() {
		if fk, err = Extract(first); err != nil {
			return Key{}, Key{}, err
		}
	}
	if !second.isUnsaved() {
		if sk, err = Extract(second); err != nil {
			return Key{}, Key{}, err
		}
	}
	return fk, sk, nil
}

// deferTo returns the entity a pair operation must wait for, if any.
// Unsaved primaries always wait since there is no key to write yet. Raw keys have no
// save event to wait for and are applied immediately.
func deferTo(primary Ref, afterPrimary bool) (Entity, bool) {
	e, ok := primary.Entity()
	if !ok {
		return nil, false
	}
	if e.IsNewRecord() || afterPrimary {
		return e, true
	}
	return nil, false
}

// linkPair links one pair, immediately or through the scheduler.
// The error is only set for configuration failures; write failures are reported in the outcome.
func (s *Synchronizer) linkPair(ctx context.Context, primary, target Ref, backLink, afterPrimary bool) (SyncOutcome, error) {
	first, second := orient(primary, target, backLink)
	fk, sk, err := pairKeys(first, second)
	if err != nil {
		return SyncOutcome{}, err
	}

	if e, ok := deferTo(primary, afterPrimary); ok {
		s.scheduler.Schedule(e, PendingOperation{Kind: OperationLink, First: first, Second: second})
		return SyncOutcome{First: fk, Second: sk, Status: StatusDeferred}, nil
	}

	out := link(ctx, s.repo, fk, sk)
	s.report(out)
	return out, nil
}

// unlinkPair unlinks one pair, immediately or through the scheduler.
// The error mirrors a failed outcome so reconciliation can abort on it.
func (s *Synchronizer) unlinkPair(ctx context.Context, primary, target Ref, backLink, afterPrimary bool) (SyncOutcome, error) {
	first, second := orient(primary, target, backLink)
	if first.isUnsaved() || second.isUnsaved() {
		fk, sk, err := pairKeys(first, second)
		if err != nil {
			return SyncOutcome{}, err
		}
		return SyncOutcome{First: fk, Second: sk, Status: StatusNoOp}, nil
	}

	fk, sk, err := pairKeys(first, second)
	if err != nil {
		return SyncOutcome{}, err
	}

	if e, ok := deferTo(primary, afterPrimary); ok {
		s.scheduler.Schedule(e, PendingOperation{Kind: OperationUnlink, First: first, Second: second})
		return SyncOutcome{First: fk, Second: sk, Status: StatusDeferred}, nil
	}

	out, err := unlink(ctx, s.repo, fk, sk)
	s.report(out)
	return out, err
}

func (s *Synchronizer) report(out SyncOutcome) {
	fields := []zap.Field{
		zap.Stringer("first", out.First),
		zap.Stringer("second", out.Second),
		zap.String("status", string(out.Status)),
	}
	if out.Failed() {
		s.logger.Warn("relation pair failed", append(fields, zap.Error(out.Err))...)
		return
	}
	s.logger.Debug("relation pair applied", fields...)
}

// link creates the pair if it is absent.
func link(ctx context.Context, repo Repository, first, second Key) SyncOutcome {
	existing, err := repo.FindExact(ctx, first, second)
	if err != nil {
		return failed(first, second, err)
	}
	if existing != nil {
		return SyncOutcome{First: first, Second: second, Status: StatusAlreadyExists, Record: existing}
	}

	record, err := repo.Create(ctx, first, second)
	if errors.Is(err, ErrAlreadyExists) {
		return SyncOutcome{First: first, Second: second, Status: StatusAlreadyExists, Record: record}
	}
	if err != nil {
		return failed(first, second, err)
	}
	return SyncOutcome{First: first, Second: second, Status: StatusCreated, Record: record}
}

// unlink deletes the pair if it is present.
func unlink(ctx context.Context, repo Repository, first, second Key) (SyncOutcome, error) {
	existing, err := repo.FindExact(ctx, first, second)
	if err != nil {
		return failed(first, second, err), err
	}
	if existing == nil {
		return SyncOutcome{First: first, Second: second, Status: StatusNoOp}, nil
	}
	if err := repo.Delete(ctx, *existing); err != nil {
		return failed(first, second, err), err
	}
	return SyncOutcome{First: first, Second: second, Status: StatusDeleted, Record: existing}, nil
}
