package integrity

import (
	"relation-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/orphans", h.HandleOrphanCheck)
	group.Get("/snapshots", h.HandleSnapshotCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Schema, Orphans, Snapshots). Nothing is repaired.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	// Schema
	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	// Orphans
	if orphans, _, err := h.service.CheckOrphans(ctx, false); err != nil {
		report["orphans"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["orphans"] = map[string]interface{}{"status": "ok", "relations": orphans}
	}

	// Snapshots
	if !h.service.SnapshotsEnabled() {
		report["snapshots"] = map[string]interface{}{"status": "skipped"}
	} else if missing, err := h.service.CheckSnapshots(ctx); err != nil {
		report["snapshots"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["snapshots"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks the link table schemas.
// @Summary Check Link Tables
// @Description Checks that every declared link table has its id and key columns with the expected types.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Matched {
		l.Warn("Link table schema mismatch detected")
	}
	return c.JSON(report)
}

// HandleOrphanCheck counts and optionally removes orphaned rows.
// @Summary Check Orphaned Rows
// @Description Counts association rows whose owner entity no longer exists. Optionally deletes them.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Delete orphaned rows"
// @Success 200 {object} map[string]interface{} "Orphan Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/orphans [get]
func (h *Handler) HandleOrphanCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	orphans, removed, err := h.service.CheckOrphans(c.Context(), fix)
	if err != nil {
		l.Error("Orphan check failed", zap.Error(err), zap.Int64("removed", removed))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error(), "removed": removed})
	}

	status := "checked"
	if fix {
		status = "fixed"
	}
	return c.JSON(fiber.Map{
		"status":    status,
		"removed":   removed,
		"relations": orphans,
	})
}

// HandleSnapshotCheck lists relations without a snapshot.
// @Summary Check Snapshots
// @Description Lists the declared relations that have no snapshot in the storage bucket.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Snapshot Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 503 {object} map[string]string "Storage not configured"
// @Router /integrity/snapshots [get]
func (h *Handler) HandleSnapshotCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	if !h.service.SnapshotsEnabled() {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "storage is not configured"})
	}

	missing, err := h.service.CheckSnapshots(c.Context())
	if err != nil {
		l.Error("Snapshot check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}
