package journal

import (
	"biblib/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// DefaultLimit bounds the events returned when no limit is given.
const DefaultLimit = 50

// Handler serves the journal over HTTP.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a journal handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the journal routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/journal/events", h.HandleEvents)
}

// HandleEvents lists recent workspace mutations.
// @Summary Recent events
// @Description List the newest workspace mutations recorded by the CLI.
// @Tags journal
// @Produce json
// @Param limit query int false "Maximum number of events" default(50)
// @Success 200 {array} journal.Event "Events"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /journal/events [get]
func (h *Handler) HandleEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", DefaultLimit)
	events, err := h.store.Recent(c.Context(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Journal query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(events)
}

// Feature implements the loader.Feature interface. It is disabled without a database.
type Feature struct {
	store   *Store
	handler *Handler
}

// NewFeature creates the journal feature. store may be nil.
func NewFeature(store *Store, logger *zap.Logger) *Feature {
	f := &Feature{store: store}
	if store != nil {
		f.handler = NewHandler(store, logger)
	}
	return f
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "journal"
}

// IsEnabled reports whether a journal database is configured.
func (f *Feature) IsEnabled() bool {
	return f.store != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
