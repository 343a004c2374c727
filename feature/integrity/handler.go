package integrity

import (
	"errors"
	"strings"

	"bucket-manager/core/logger"
	"bucket-manager/feature/buckets"
	"bucket-manager/feature/integrity/checks"

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
	group := app.Group("/buckets/:id/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/connection", h.HandleConnectionCheck)
	group.Get("/structure", h.HandleStructureCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Runs the connection check and, when folders are given, the structure check.
// @Tags integrity
// @Produce json
// @Param id path string true "Connection ID"
// @Param folders query string false "Comma separated folders"
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Failure 404 {object} map[string]string "Unknown connection"
// @Router /buckets/{id}/integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks", zap.String("connection", c.Params("id")))

	ctx := c.Context()
	id := c.Params("id")

	conn, err := h.service.CheckConnection(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	report := map[string]interface{}{"connection": conn}

	if folders := parseFolders(c.Query("folders")); len(folders) > 0 {
		if missing, err := h.service.CheckStructure(ctx, id, folders); err != nil {
			report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
		} else {
			report["structure"] = map[string]interface{}{"status": "checked", "missing": missing}
		}
	}

	return c.JSON(report)
}

// HandleConnectionCheck tests access to the bucket.
// @Summary Check Connection
// @Description Lists at most one key to confirm the endpoint, bucket and credentials of a connection.
// @Tags integrity
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} checks.ConnectionReport
// @Failure 404 {object} map[string]string "Unknown connection"
// @Router /buckets/{id}/integrity/connection [get]
func (h *Handler) HandleConnectionCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckConnection(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if !report.Reachable {
		l.Warn("Bucket unreachable", zap.String("bucket", report.Bucket), zap.String("error", report.Error))
	}
	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes folders.
// @Summary Check Structure
// @Description Checks that each folder holds at least one object. Optionally creates placeholders for missing folders.
// @Tags integrity
// @Produce json
// @Param id path string true "Connection ID"
// @Param folders query string true "Comma separated folders"
// @Param fix query boolean false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 400 {object} map[string]string "No folders given"
// @Failure 404 {object} map[string]string "Unknown connection"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /buckets/{id}/integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	id := c.Params("id")
	fix := c.Query("fix") == "true"

	folders := parseFolders(c.Query("folders"))
	if len(folders) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "folders is required"})
	}

	missing, err := h.service.CheckStructure(c.Context(), id, folders)
	if err != nil {
		return h.fail(c, err)
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing folders")
			if err := h.service.FixStructure(c.Context(), id, missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	if errors.Is(err, buckets.ErrConnectionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Integrity check failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

func parseFolders(raw string) []string {
	if raw == "" {
		return nil
	}
	return checks.NormalizeFolders(strings.Split(raw, ","))
}
