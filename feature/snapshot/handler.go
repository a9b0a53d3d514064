package snapshot

import (
	"errors"

	"relation-manager/core/logger"
	"relation-manager/core/relation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for relation snapshots.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Post("/:relation", h.HandleExport)
	group.Get("/:relation", h.HandleList)
	group.Delete("/:relation", h.HandlePrune)
	group.Get("/:relation/:name", h.HandleLoad)
	group.Post("/:relation/:name/restore", h.HandleRestore)
	group.Delete("/:relation/:name", h.HandleDelete)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRelation):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInvalidName):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusOf(err)
	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.String("relation", c.Params("relation")), zap.Error(err))
	} else {
		l.Warn(msg, zap.String("relation", c.Params("relation")), zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// HandleExport stores a snapshot of a relation.
// @Summary Export Snapshot
// @Description Writes every row of the relation to a JSON object in the snapshot bucket.
// @Tags snapshots
// @Produce json
// @Param relation path string true "Relation name"
// @Success 201 {object} Entry "Stored snapshot"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Failure 500 {object} map[string]string "Export failed"
// @Router /snapshots/{relation} [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	entry, err := h.service.Export(c.Context(), c.Params("relation"))
	if err != nil {
		return h.fail(c, "Snapshot export failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// HandleList lists the snapshots of a relation.
// @Summary List Snapshots
// @Tags snapshots
// @Produce json
// @Param relation path string true "Relation name"
// @Success 200 {array} Entry "Stored snapshots, oldest first"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /snapshots/{relation} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	entries, err := h.service.List(c.Context(), c.Params("relation"))
	if err != nil {
		return h.fail(c, "Snapshot listing failed", err)
	}
	return c.JSON(entries)
}

// HandleLoad returns the content of a snapshot.
// @Summary Get Snapshot
// @Tags snapshots
// @Produce json
// @Param relation path string true "Relation name"
// @Param name path string true "Snapshot name"
// @Success 200 {object} Snapshot "Snapshot content"
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /snapshots/{relation}/{name} [get]
func (h *Handler) HandleLoad(c *fiber.Ctx) error {
	doc, err := h.service.Load(c.Context(), c.Params("relation"), c.Params("name"))
	if err != nil {
		return h.fail(c, "Snapshot load failed", err)
	}
	return c.JSON(doc)
}

// HandleRestore makes the relation match a snapshot.
// @Summary Restore Snapshot
// @Description Reconciles every first side key so that the stored rows match the snapshot.
// @Tags snapshots
// @Produce json
// @Param relation path string true "Relation name"
// @Param name path string true "Snapshot name"
// @Success 200 {object} map[string]interface{} "Per-pair outcomes"
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Failure 500 {object} map[string]interface{} "Restore aborted"
// @Router /snapshots/{relation}/{name}/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	outcomes, err := h.service.Restore(c.Context(), c.Params("relation"), c.Params("name"))
	if err != nil {
		if outcomes == nil {
			return h.fail(c, "Snapshot restore failed", err)
		}
		logger.WithRayID(h.service.logger, c).Error("Snapshot restore aborted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":    err.Error(),
			"outcomes": outcomes,
		})
	}

	return c.JSON(fiber.Map{
		"relation": c.Params("relation"),
		"snapshot": c.Params("name"),
		"created":  outcomes.Count(relation.StatusCreated),
		"deleted":  outcomes.Count(relation.StatusDeleted),
		"failed":   len(outcomes.Failures()),
		"outcomes": outcomes,
	})
}

// HandleDelete removes one snapshot.
// @Summary Delete Snapshot
// @Tags snapshots
// @Param relation path string true "Relation name"
// @Param name path string true "Snapshot name"
// @Success 204 "Deleted"
// @Failure 400 {object} map[string]string "Invalid name"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /snapshots/{relation}/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("relation"), c.Params("name")); err != nil {
		return h.fail(c, "Snapshot delete failed", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePrune removes old snapshots.
// @Summary Prune Snapshots
// @Tags snapshots
// @Produce json
// @Param relation path string true "Relation name"
// @Param keep query int false "Number of newest snapshots to keep" default(10)
// @Success 200 {object} map[string]interface{} "Removed snapshots"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /snapshots/{relation} [delete]
func (h *Handler) HandlePrune(c *fiber.Ctx) error {
	keep := c.QueryInt("keep", 10)
	removed, err := h.service.Prune(c.Context(), c.Params("relation"), keep)
	if err != nil {
		return h.fail(c, "Snapshot prune failed", err)
	}
	return c.JSON(fiber.Map{"removed": removed, "count": len(removed)})
}
