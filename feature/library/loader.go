package library

import (
	"biblib/core/metrics"
	"biblib/core/reconcile"
	"biblib/core/workspace"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the library report feature.
func NewFeature(paths workspace.Paths, cache *reconcile.Cache[*workspace.Snapshot], m *metrics.Metrics, logger *zap.Logger) *Feature {
	svc := NewService(paths, cache, m, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "library"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
