package buckets

import (
	"errors"

	"bucket-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for bucket connections.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the bucket connection routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets")
	group.Get("/", h.HandleList)
	group.Post("/", h.HandleRegister)
	group.Get("/:id", h.HandleGet)
	group.Delete("/:id", h.HandleDisconnect)
}

// HandleList lists connected buckets.
// @Summary List Bucket Connections
// @Description Returns every bucket connected in this process, oldest first. Secrets are never returned.
// @Tags buckets
// @Produce json
// @Success 200 {object} ListResponse
// @Router /buckets [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	conns := h.service.List()
	views := make([]ConnectionView, 0, len(conns))
	for _, conn := range conns {
		views = append(views, conn.View())
	}
	return c.JSON(ListResponse{Success: true, Buckets: views})
}

// HandleRegister connects a new bucket.
// @Summary Connect Bucket
// @Description Registers a bucket connection. Name, region and both credential fields are required.
// @Tags buckets
// @Accept json
// @Accept x-www-form-urlencoded
// @Produce json
// @Param bucket body RegisterInput true "Connection"
// @Success 201 {object} Response
// @Failure 400 {object} Response
// @Router /buckets [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var in RegisterInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Message: "invalid request body"})
	}

	conn, err := h.service.Register(c.Context(), in)
	if err != nil {
		l.Warn("Failed to add bucket", zap.Error(err))
		status := fiber.StatusInternalServerError
		if errors.Is(err, ErrInvalidInput) {
			status = fiber.StatusBadRequest
		}
		return c.Status(status).JSON(Response{Message: err.Error()})
	}

	view := conn.View()
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Bucket: &view})
}

// HandleGet returns one connection.
// @Summary Get Bucket Connection
// @Tags buckets
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /buckets/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	conn, err := h.service.Get(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(Response{Message: ErrConnectionNotFound.Error()})
	}
	view := conn.View()
	return c.JSON(Response{Success: true, Bucket: &view})
}

// HandleDisconnect removes a connection.
// @Summary Disconnect Bucket
// @Tags buckets
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} Response
// @Failure 404 {object} Response
// @Router /buckets/{id} [delete]
func (h *Handler) HandleDisconnect(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Disconnect(c.Context(), c.Params("id")); err != nil {
		l.Warn("Failed to disconnect bucket", zap.Error(err))
		return c.Status(fiber.StatusNotFound).JSON(Response{Message: ErrConnectionNotFound.Error()})
	}
	return c.JSON(Response{Success: true})
}
