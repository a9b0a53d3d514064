package integrity

import (
	"relation-manager/core/relation"
	"relation-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature serves the integrity checks.
type Feature struct {
	service *Service
}

// NewFeature creates the integrity feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, registry *relation.Registry) *Feature {
	return &Feature{service: NewService(client, bucket, logger, db, registry)}
}

// Name implements loader.Feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled implements loader.Feature. The checks need a database.
func (f *Feature) IsEnabled() bool {
	return f.service.db != nil
}

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
