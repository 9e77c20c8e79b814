package library

import (
	"errors"

	"biblib/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for library reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the library routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/library")
	group.Get("/consistency", h.HandleConsistency)
	group.Get("/labels", h.HandleLabels)
	group.Get("/entries", h.HandleEntries)
	group.Get("/entries/:key", h.HandleEntry)
}

// HandleConsistency reports the three-way key check.
// @Summary Store consistency
// @Description Compare the key sets of the entry store, the identifier collection and the add-order list.
// @Tags library
// @Produce json
// @Success 200 {object} library.ConsistencyReport "Consistency report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /library/consistency [get]
func (h *Handler) HandleConsistency(c *fiber.Ctx) error {
	report, err := h.service.Consistency(c.Context())
	if err != nil {
		return h.fail(c, "Consistency check failed", err)
	}
	return c.JSON(report)
}

// HandleLabels lists keys that differ from their generated label.
// @Summary Label mismatches
// @Description List entries whose key differs from the generated canonical label.
// @Tags library
// @Produce json
// @Success 200 {object} library.LabelsReport "Label report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /library/labels [get]
func (h *Handler) HandleLabels(c *fiber.Ctx) error {
	report, err := h.service.Labels(c.Context())
	if err != nil {
		return h.fail(c, "Label check failed", err)
	}
	return c.JSON(report)
}

// HandleEntries lists every entry.
// @Summary List entries
// @Description Summarize every entry of the library in file order.
// @Tags library
// @Produce json
// @Success 200 {array} library.EntrySummary "Entries"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /library/entries [get]
func (h *Handler) HandleEntries(c *fiber.Ctx) error {
	entries, err := h.service.Entries(c.Context())
	if err != nil {
		return h.fail(c, "Listing entries failed", err)
	}
	return c.JSON(entries)
}

// HandleEntry returns one entry.
// @Summary Get entry
// @Description Get the fields, identifier record, label and store presence of one entry.
// @Tags library
// @Produce json
// @Param key path string true "Citation key (e.g. 'bredon-1993-7908a921')"
// @Success 200 {object} library.EntryDetail "Entry"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /library/entries/{key} [get]
func (h *Handler) HandleEntry(c *fiber.Ctx) error {
	entry, err := h.service.Entry(c.Context(), c.Params("key"))
	if err != nil {
		return h.fail(c, "Entry lookup failed", err)
	}
	return c.JSON(entry)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := fiber.StatusInternalServerError
	if errors.Is(err, ErrUnknownKey) {
		status = fiber.StatusNotFound
	}
	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusNotFound {
		l.Info(msg, zap.Error(err))
	} else {
		l.Error(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
