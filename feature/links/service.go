package links

import (
	"context"
	"errors"
	"fmt"

	"relation-manager/core/relation"

	"go.uber.org/zap"
)

// ErrUnknownRelation is returned for a relation name that is not declared.
var ErrUnknownRelation = errors.New("unknown relation")

// SetRequest is the body of a reconciliation request.
type SetRequest struct {
	// Targets is the desired counterpart set. Numbers and numeric strings are integer keys.
	Targets []any `json:"targets"`
	// BackLink makes the path key the second side of the relation.
	BackLink bool `json:"back_link"`
	// ClearOnEmpty overrides the configured empty-set policy when set.
	ClearOnEmpty *bool `json:"clear_on_empty,omitempty"`
}

// Result is the response of a write operation.
type Result struct {
	// Relation is the relation type name.
	Relation string `json:"relation"`
	// Outcomes holds one entry per attempted pair.
	Outcomes relation.Outcomes `json:"outcomes"`
	// Summary counts outcomes by status.
	Summary map[relation.Status]int `json:"summary"`
}

func newResult(name string, outcomes relation.Outcomes) *Result {
	if outcomes == nil {
		outcomes = relation.Outcomes{}
	}
	summary := make(map[relation.Status]int)
	for _, out := range outcomes {
		summary[out.Status]++
	}
	return &Result{Relation: name, Outcomes: outcomes, Summary: summary}
}

// Err converts failed pairs into a *relation.RelationError.
func (r *Result) Err() error {
	return r.Outcomes.Err(r.Relation)
}

// RelationInfo describes a declared relation and its effective defaults.
type RelationInfo struct {
	relation.Definition
	Defaults relation.Config `json:"defaults"`
}

// Service exposes the declared relations to the HTTP handlers.
type Service struct {
	registry *relation.Registry
	logger   *zap.Logger
}

// NewService creates a new links service.
func NewService(registry *relation.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{registry: registry, logger: logger}
}

func (s *Service) synchronizer(name string) (*relation.Synchronizer, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	syncer, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
	}
	return syncer, nil
}

// Relations lists every declared relation.
func (s *Service) Relations() []RelationInfo {
	if s.registry == nil {
		return []RelationInfo{}
	}
	all := s.registry.All()
	infos := make([]RelationInfo, 0, len(all))
	for _, syncer := range all {
		infos = append(infos, RelationInfo{
			Definition: syncer.Definition(),
			Defaults:   syncer.Resolver().Defaults(syncer.Name()),
		})
	}
	return infos
}

// Links returns the rows whose first key is primary.
func (s *Service) Links(ctx context.Context, name, primary string) ([]relation.AssociationRecord, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}
	ref := relation.Str(primary)
	if err := checkKeys(syncer.Definition(), ref); err != nil {
		return nil, err
	}
	return syncer.CurrentLinks(ctx, ref)
}

// BackLinks returns the rows whose second key is secondary.
func (s *Service) BackLinks(ctx context.Context, name, secondary string) ([]relation.AssociationRecord, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}
	ref := relation.Str(secondary)
	if err := checkKeys(syncer.Definition(), ref); err != nil {
		return nil, err
	}
	return syncer.CurrentBackLinks(ctx, ref)
}

// Set reconciles the associations of primary with the requested targets.
func (s *Service) Set(ctx context.Context, name, primary string, req SetRequest) (*Result, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}

	opts := relation.Options{BackLink: req.BackLink}
	if req.ClearOnEmpty != nil {
		opts.ClearOnEmpty = relation.ToggleOf(*req.ClearOnEmpty)
	}

	primaries := []relation.Ref{relation.Str(primary)}
	targets := relation.RefsOf(req.Targets...)
	if err := checkKeys(syncer.Definition(), append(primaries, targets...)...); err != nil {
		return nil, err
	}

	outcomes, err := syncer.Reconcile(ctx, primaries, targets, opts)
	if err != nil && outcomes == nil {
		return nil, err
	}
	return newResult(syncer.Name(), outcomes), err
}

// Link links a single pair.
func (s *Service) Link(ctx context.Context, name, primary, secondary string, backLink bool) (*Result, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}

	first, second := pair(primary, secondary, backLink)
	if err := checkKeys(syncer.Definition(), first, second); err != nil {
		return nil, err
	}
	out, err := syncer.LinkOne(ctx, first, second, relation.Options{BackLink: backLink})
	if err != nil {
		return nil, err
	}
	return newResult(syncer.Name(), relation.Outcomes{out}), nil
}

// Unlink removes a single pair.
func (s *Service) Unlink(ctx context.Context, name, primary, secondary string, backLink bool) (*Result, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}

	first, second := pair(primary, secondary, backLink)
	if err := checkKeys(syncer.Definition(), first, second); err != nil {
		return nil, err
	}
	out, err := syncer.UnlinkOne(ctx, first, second, relation.Options{BackLink: backLink})
	if err != nil {
		return nil, err
	}
	return newResult(syncer.Name(), relation.Outcomes{out}), nil
}

// Clear removes every association of primary.
func (s *Service) Clear(ctx context.Context, name, primary string, backLink bool) (*Result, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}

	ref := relation.Str(primary)
	if err := checkKeys(syncer.Definition(), ref); err != nil {
		return nil, err
	}
	outcomes, err := syncer.ClearAll(ctx, []relation.Ref{ref}, relation.Options{BackLink: backLink})
	if err != nil && outcomes == nil {
		return nil, err
	}
	return newResult(syncer.Name(), outcomes), err
}

// ResetConfig drops the cached defaults of a relation so that the next call re-reads the settings.
func (s *Service) ResetConfig(name string) (relation.Config, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return relation.Config{}, err
	}
	// name may alias a request buffer; the resolver caches under the declared name.
	declared := syncer.Name()
	syncer.Resolver().Reset(declared)
	s.logger.Info("Relation defaults reset", zap.String("relation", declared))
	return syncer.Resolver().Defaults(declared), nil
}

// checkKeys rejects non-integer keys for relations stored in integer columns.
func checkKeys(def relation.Definition, refs ...relation.Ref) error {
	if def.KeyKind == relation.KeyString {
		return nil
	}
	for _, ref := range refs {
		if _, isEntity := ref.Entity(); isEntity || ref.IsEmpty() {
			continue
		}
		k, err := relation.Extract(ref)
		if err != nil {
			return err
		}
		if k.Kind() == relation.KeyString {
			return fmt.Errorf("%w: %q is not an integer key of relation %s", relation.ErrValidation, k, def.Name)
		}
	}
	return nil
}

// pair orders the path keys. With backLink the path's primary key is the second side.
func pair(primary, secondary string, backLink bool) (relation.Ref, relation.Ref) {
	if backLink {
		return relation.Str(secondary), relation.Str(primary)
	}
	return relation.Str(primary), relation.Str(secondary)
}
