package snapshot

import (
	"relation-manager/core/relation"
	"relation-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature serves relation snapshots from object storage.
type Feature struct {
	client  storage.Client
	service *Service
}

// NewFeature creates the snapshot feature. It is disabled without a storage client.
func NewFeature(client storage.Client, bucket, region string, registry *relation.Registry, logger *zap.Logger) *Feature {
	return &Feature{
		client:  client,
		service: NewService(client, bucket, region, registry, logger),
	}
}

// Name implements loader.Feature.
func (f *Feature) Name() string {
	return "snapshot"
}

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool {
	return f.client != nil
}

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
