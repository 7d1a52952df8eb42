package schemasync

import (
	"schema-sync/core/logger"
	"schema-sync/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the schema reconciliation surface.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the schema routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/schema")
	group.Get("/status", h.HandleStatus)
	group.Get("/differences", h.HandleDifferences)
	group.Post("/sync", h.HandleSync)
}

// HandleStatus reports the in-sync state, the last-sync timestamp and the
// current differences grouped by severity.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	status, err := h.service.Status(c.Context())
	if err != nil {
		l.Error("Schema status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(status)
}

// HandleDifferences runs the comparator only and returns the current
// difference list without fixing anything.
func (h *Handler) HandleDifferences(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	diffs, err := h.service.Differences(c.Context())
	if err != nil {
		l.Error("Schema validation failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"valid":       len(diffs) == 0,
		"differences": diffs,
	})
}

// HandleSync runs a reconciliation pass. Query parameters: dry_run and
// auto_fix (both boolean, auto_fix defaults to false over HTTP).
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	opts := reconcile.Options{
		DryRun:  c.QueryBool("dry_run"),
		AutoFix: c.QueryBool("auto_fix"),
	}
	l.Info("Schema sync requested", zap.Bool("dry_run", opts.DryRun), zap.Bool("auto_fix", opts.AutoFix))

	result, err := h.service.Sync(c.Context(), opts)
	if err != nil {
		l.Error("Schema sync failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(result)
}
