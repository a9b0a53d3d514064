package links

import (
	"errors"

	"relation-manager/core/logger"
	"relation-manager/core/relation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for relation links.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the relation routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/relations")
	group.Get("/", h.HandleRelations)
	group.Get("/:relation/config", h.HandleConfig)
	group.Delete("/:relation/config", h.HandleResetConfig)
	group.Get("/:relation/links/:primary", h.HandleLinks)
	group.Get("/:relation/backlinks/:secondary", h.HandleBackLinks)
	group.Put("/:relation/links/:primary", h.HandleSet)
	group.Delete("/:relation/links/:primary", h.HandleClear)
	group.Post("/:relation/links/:primary/:secondary", h.HandleLink)
	group.Delete("/:relation/links/:primary/:secondary", h.HandleUnlink)
}

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, ErrUnknownRelation):
		return fiber.StatusNotFound
	case errors.Is(err, relation.ErrConfiguration), errors.Is(err, relation.ErrValidation):
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

// respond writes a write-operation result. With ?strict=true any failed pair turns the
// response into a 422 carrying every failure message.
func (h *Handler) respond(c *fiber.Ctx, result *Result, err error) error {
	if err != nil {
		if result == nil {
			return h.fail(c, "Relation operation failed", err)
		}
		// Aborted reconciliation: report what was applied before the failure.
		logger.WithRayID(h.service.logger, c).Error("Relation reconciliation aborted", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"result": result,
		})
	}

	if c.QueryBool("strict") {
		if failure := result.Err(); failure != nil {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":  failure.Error(),
				"result": result,
			})
		}
	}
	return c.JSON(result)
}

// HandleRelations lists the declared relations.
// @Summary List Relations
// @Description Lists every declared relation with its link table and effective policy defaults.
// @Tags relations
// @Produce json
// @Success 200 {array} RelationInfo "Declared relations"
// @Router /relations [get]
func (h *Handler) HandleRelations(c *fiber.Ctx) error {
	return c.JSON(h.service.Relations())
}

// HandleConfig returns the effective defaults of a relation.
// @Summary Get Relation Defaults
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Success 200 {object} relation.Config "Effective defaults"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/config [get]
func (h *Handler) HandleConfig(c *fiber.Ctx) error {
	syncer, err := h.service.synchronizer(c.Params("relation"))
	if err != nil {
		return h.fail(c, "Relation lookup failed", err)
	}
	return c.JSON(syncer.Resolver().Defaults(syncer.Name()))
}

// HandleResetConfig drops the cached defaults of a relation.
// @Summary Reset Relation Defaults
// @Description Drops the cached policy defaults so that the next call re-reads the settings.
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Success 200 {object} relation.Config "Reloaded defaults"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/config [delete]
func (h *Handler) HandleResetConfig(c *fiber.Ctx) error {
	cfg, err := h.service.ResetConfig(c.Params("relation"))
	if err != nil {
		return h.fail(c, "Relation reset failed", err)
	}
	return c.JSON(cfg)
}

// HandleLinks returns the links of a primary key.
// @Summary Current Links
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Param primary path string true "First side key"
// @Success 200 {array} relation.AssociationRecord "Association rows"
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/links/{primary} [get]
func (h *Handler) HandleLinks(c *fiber.Ctx) error {
	records, err := h.service.Links(c.Context(), c.Params("relation"), c.Params("primary"))
	if err != nil {
		return h.fail(c, "Links lookup failed", err)
	}
	return c.JSON(records)
}

// HandleBackLinks returns the links of a secondary key.
// @Summary Current Back Links
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Param secondary path string true "Second side key"
// @Success 200 {array} relation.AssociationRecord "Association rows"
// @Failure 400 {object} map[string]string "Invalid key"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/backlinks/{secondary} [get]
func (h *Handler) HandleBackLinks(c *fiber.Ctx) error {
	records, err := h.service.BackLinks(c.Context(), c.Params("relation"), c.Params("secondary"))
	if err != nil {
		return h.fail(c, "Back links lookup failed", err)
	}
	return c.JSON(records)
}

// HandleSet reconciles the links of a primary key with the requested targets.
// @Summary Set Links
// @Description Removes the links that are no longer requested, then adds the missing ones.
// @Tags relations
// @Accept json
// @Produce json
// @Param relation path string true "Relation name"
// @Param primary path string true "Primary key"
// @Param strict query boolean false "Fail with 422 when any pair fails"
// @Param body body SetRequest true "Desired targets"
// @Success 200 {object} Result "Per-pair outcomes"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Failure 422 {object} map[string]interface{} "Some pairs failed"
// @Failure 500 {object} map[string]interface{} "Reconciliation aborted"
// @Router /relations/{relation}/links/{primary} [put]
func (h *Handler) HandleSet(c *fiber.Ctx) error {
	var req SetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	result, err := h.service.Set(c.Context(), c.Params("relation"), c.Params("primary"), req)
	return h.respond(c, result, err)
}

// HandleClear removes every link of a primary key.
// @Summary Clear Links
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Param primary path string true "Primary key"
// @Param back_link query boolean false "Treat the key as the second side"
// @Success 200 {object} Result "Per-pair outcomes"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/links/{primary} [delete]
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	result, err := h.service.Clear(c.Context(), c.Params("relation"), c.Params("primary"), c.QueryBool("back_link"))
	return h.respond(c, result, err)
}

// HandleLink links a single pair.
// @Summary Link Pair
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Param primary path string true "Primary key"
// @Param secondary path string true "Counterpart key"
// @Param back_link query boolean false "Treat the primary key as the second side"
// @Param strict query boolean false "Fail with 422 when the pair fails"
// @Success 200 {object} Result "Pair outcome"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/links/{primary}/{secondary} [post]
func (h *Handler) HandleLink(c *fiber.Ctx) error {
	result, err := h.service.Link(c.Context(), c.Params("relation"), c.Params("primary"), c.Params("secondary"), c.QueryBool("back_link"))
	return h.respond(c, result, err)
}

// HandleUnlink removes a single pair.
// @Summary Unlink Pair
// @Tags relations
// @Produce json
// @Param relation path string true "Relation name"
// @Param primary path string true "Primary key"
// @Param secondary path string true "Counterpart key"
// @Param back_link query boolean false "Treat the primary key as the second side"
// @Success 200 {object} Result "Pair outcome"
// @Failure 404 {object} map[string]string "Unknown relation"
// @Router /relations/{relation}/links/{primary}/{secondary} [delete]
func (h *Handler) HandleUnlink(c *fiber.Ctx) error {
	result, err := h.service.Unlink(c.Context(), c.Params("relation"), c.Params("primary"), c.Params("secondary"), c.QueryBool("back_link"))
	return h.respond(c, result, err)
}
