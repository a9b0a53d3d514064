package integrity

import (
	"context"

	"relation-manager/core/relation"
	"relation-manager/core/storage"
	"relation-manager/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs health checks over the declared relations.
type Service struct {
	client   storage.Client
	bucket   string
	logger   *zap.Logger
	db       *gorm.DB
	registry *relation.Registry
}

// NewService creates a new integrity service. client may be nil, which skips the snapshot check.
func NewService(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, registry *relation.Registry) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client:   client,
		bucket:   bucket,
		logger:   logger,
		db:       db,
		registry: registry,
	}
}

func (s *Service) definitions() []relation.Definition {
	if s.registry == nil {
		return nil
	}
	var defs []relation.Definition
	for _, syncer := range s.registry.All() {
		defs = append(defs, syncer.Definition())
	}
	return defs
}

// CheckSchema verifies the link tables of every declared relation.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.definitions())
}

// CheckOrphans counts orphaned association rows. With fix set they are deleted first
// and the returned counts describe what remains.
func (s *Service) CheckOrphans(ctx context.Context, fix bool) ([]checks.Orphans, int64, error) {
	var removed int64
	report := []checks.Orphans{}
	for _, def := range s.definitions() {
		if fix {
			n, err := checks.FixOrphans(ctx, s.db, def)
			removed += n
			if err != nil {
				return nil, removed, err
			}
			if n > 0 {
				s.logger.Info("Removed orphaned association rows", zap.String("relation", def.Name), zap.Int64("rows", n))
			}
		}

		orphans, err := checks.CheckOrphans(ctx, s.db, def)
		if err != nil {
			return nil, removed, err
		}
		report = append(report, orphans...)
	}
	return report, removed, nil
}

// SnapshotsEnabled reports whether a storage client is configured.
func (s *Service) SnapshotsEnabled() bool {
	return s.client != nil
}

// CheckSnapshots returns the relations without any snapshot.
func (s *Service) CheckSnapshots(ctx context.Context) ([]string, error) {
	var names []string
	for _, def := range s.definitions() {
		names = append(names, def.Name)
	}
	return checks.CheckSnapshots(ctx, s.client, s.bucket, names)
}
