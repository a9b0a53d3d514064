package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"relation-manager/core/relation"
	"relation-manager/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var (
	// ErrUnknownRelation is returned for a relation name that is not declared.
	ErrUnknownRelation = errors.New("unknown relation")
	// ErrInvalidName is returned for a snapshot name outside the relation's prefix.
	ErrInvalidName = errors.New("invalid snapshot name")
)

// Snapshot is the stored document: the full row set of one relation at a point in time.
type Snapshot struct {
	Relation     string                       `json:"relation"`
	Table        string                       `json:"table"`
	FirstColumn  string                       `json:"first_column"`
	SecondColumn string                       `json:"second_column"`
	TakenAt      time.Time                    `json:"taken_at"`
	Records      []relation.AssociationRecord `json:"records"`
}

// Entry describes a stored snapshot.
type Entry struct {
	Name         string    `json:"name"`
	Object       string    `json:"object"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Service exports relation rows to object storage and restores them.
type Service struct {
	client   storage.Client
	bucket   string
	region   string
	registry *relation.Registry
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new snapshot service.
func NewService(client storage.Client, bucket, region string, registry *relation.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		bucket:   bucket,
		region:   region,
		registry: registry,
		logger:   logger,
		now:      time.Now,
	}
}

// Prefix returns the object prefix holding the snapshots of a relation.
func Prefix(name string) string {
	return "snapshots/" + name + "/"
}

func (s *Service) synchronizer(name string) (*relation.Synchronizer, error) {
	if s.registry != nil {
		if syncer, ok := s.registry.Get(name); ok {
			return syncer, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRelation, name)
}

// object resolves a snapshot name to its object key.
func object(name, snapshot string) (string, error) {
	if snapshot == "" || path.Base(snapshot) != snapshot || !strings.HasSuffix(snapshot, ".json") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, snapshot)
	}
	return Prefix(name) + snapshot, nil
}

// Export writes every row of the relation to a new snapshot object.
func (s *Service) Export(ctx context.Context, name string) (*Entry, error) {
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}

	records, err := syncer.All(ctx)
	if err != nil {
		return nil, err
	}

	def := syncer.Definition()
	taken := s.now().UTC()
	doc := Snapshot{
		Relation:     def.Name,
		Table:        def.Table,
		FirstColumn:  def.FirstColumn,
		SecondColumn: def.SecondColumn,
		TakenAt:      taken,
		Records:      records,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := storage.EnsureBucket(ctx, s.client, s.bucket, s.region); err != nil {
		return nil, err
	}

	// Timestamp first so that names sort chronologically.
	file := fmt.Sprintf("%s-%s.json", taken.Format("20060102T150405Z"), uuid.NewString())
	key := Prefix(name) + file
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	s.logger.Info("Relation snapshot exported",
		zap.String("relation", name),
		zap.String("object", key),
		zap.Int("records", len(records)),
	)
	return &Entry{Name: file, Object: key, Size: info.Size, LastModified: taken}, nil
}

// List returns the snapshots of a relation, oldest first.
func (s *Service) List(ctx context.Context, name string) ([]Entry, error) {
	if _, err := s.synchronizer(name); err != nil {
		return nil, err
	}

	entries := []Entry{}
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: Prefix(name), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list snapshots: %w", obj.Err)
		}
		if !strings.HasSuffix(obj.Key, ".json") {
			continue
		}
		entries = append(entries, Entry{
			Name:         path.Base(obj.Key),
			Object:       obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries, nil
}

// Load reads a snapshot.
func (s *Service) Load(ctx context.Context, name, snapshot string) (*Snapshot, error) {
	if _, err := s.synchronizer(name); err != nil {
		return nil, err
	}
	key, err := object(name, snapshot)
	if err != nil {
		return nil, err
	}

	reader, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	defer reader.Close()

	var doc Snapshot
	if err := json.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", key, err)
	}
	if doc.Relation != name {
		return nil, fmt.Errorf("%w: snapshot %s belongs to relation %s", ErrInvalidName, snapshot, doc.Relation)
	}
	return &doc, nil
}

// Restore makes the relation's rows match a snapshot.
// Every first key present now or in the snapshot is reconciled with clear-on-empty forced on,
// so keys absent from the snapshot lose their links.
func (s *Service) Restore(ctx context.Context, name, snapshot string) (relation.Outcomes, error) {
	doc, err := s.Load(ctx, name, snapshot)
	if err != nil {
		return nil, err
	}
	syncer, err := s.synchronizer(name)
	if err != nil {
		return nil, err
	}

	current, err := syncer.All(ctx)
	if err != nil {
		return nil, err
	}

	var order []relation.Key
	desired := make(map[relation.Key][]relation.Ref)
	for _, rec := range append(current, doc.Records...) {
		if _, seen := desired[rec.First]; !seen {
			desired[rec.First] = []relation.Ref{}
			order = append(order, rec.First)
		}
	}
	for _, rec := range doc.Records {
		desired[rec.First] = append(desired[rec.First], relation.RefOf(rec.Second))
	}

	outcomes := relation.Outcomes{}
	opts := relation.Options{ClearOnEmpty: relation.Enable}
	for _, first := range order {
		out, err := syncer.Reconcile(ctx, []relation.Ref{relation.RefOf(first)}, desired[first], opts)
		outcomes = append(outcomes, out...)
		if err != nil {
			return outcomes, err
		}
	}

	s.logger.Info("Relation snapshot restored",
		zap.String("relation", name),
		zap.String("snapshot", snapshot),
		zap.Int("created", outcomes.Count(relation.StatusCreated)),
		zap.Int("deleted", outcomes.Count(relation.StatusDeleted)),
		zap.Int("failed", len(outcomes.Failures())),
	)
	return outcomes, nil
}

// Delete removes one snapshot.
func (s *Service) Delete(ctx context.Context, name, snapshot string) error {
	if _, err := s.synchronizer(name); err != nil {
		return err
	}
	key, err := object(name, snapshot)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove snapshot %s: %w", key, err)
	}
	return nil
}

// Prune keeps the newest keep snapshots of a relation and removes the rest.
// It returns the removed names.
func (s *Service) Prune(ctx context.Context, name string, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}
	entries, err := s.List(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(entries) <= keep {
		return []string{}, nil
	}

	stale := entries[:len(entries)-keep]
	objectsCh := make(chan minio.ObjectInfo, len(stale))
	removed := make([]string, 0, len(stale))
	for _, e := range stale {
		objectsCh <- minio.ObjectInfo{Key: e.Object}
		removed = append(removed, e.Name)
	}
	close(objectsCh)

	var errs []error
	for rerr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to prune snapshots: %w", errors.Join(errs...))
	}

	s.logger.Info("Relation snapshots pruned", zap.String("relation", name), zap.Int("removed", len(removed)))
	return removed, nil
}
