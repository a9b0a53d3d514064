package links

import (
	"relation-manager/core/relation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature exposes the declared relations over HTTP.
type Feature struct {
	service *Service
}

// NewFeature creates the links feature.
func NewFeature(registry *relation.Registry, logger *zap.Logger) *Feature {
	return &Feature{service: NewService(registry, logger)}
}

// Name implements loader.Feature.
func (f *Feature) Name() string {
	return "links"
}

// IsEnabled implements loader.Feature.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load implements loader.Feature.
func (f *Feature) Load(app fiber.Router) error {
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
