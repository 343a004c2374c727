package objects

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"bucket-manager/core/logger"
	"bucket-manager/core/storage"
	"bucket-manager/feature/buckets"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// MetaHeaderPrefix marks request headers stored as user metadata on upload.
const MetaHeaderPrefix = "X-Meta-"

// Opener resolves a connection id to its object store client.
type Opener interface {
	Open(ctx context.Context, id string) (storage.Client, error)
}

// Handler handles HTTP requests for objects of a connected bucket.
type Handler struct {
	opener Opener
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(opener Opener, logger *zap.Logger) *Handler {
	return &Handler{opener: opener, logger: logger}
}

// RegisterRoutes registers the object routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/buckets/:id/objects")
	group.Get("/", h.HandleList)
	group.Delete("/", h.HandleDelete)
	group.Get("/content", h.HandleRead)
	group.Put("/content", h.HandleWrite)
	group.Get("/metadata", h.HandleMetadata)
	group.Get("/exists", h.HandleExists)
	group.Get("/presign", h.HandlePresign)
}

// HandleList lists objects under a prefix.
// @Summary List Objects
// @Description Returns a single page of at most max_keys objects under prefix. No continuation token is offered.
// @Tags objects
// @Produce json
// @Param id path string true "Connection ID"
// @Param prefix query string false "Key prefix"
// @Param max_keys query int false "Page size (default 1000)"
// @Param details query boolean false "Include size, last modified and etag"
// @Success 200 {object} DetailsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	prefix := c.Query("prefix")
	maxKeys := c.QueryInt("max_keys", storage.DefaultMaxKeys)
	if maxKeys <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "max_keys must be positive"})
	}

	if c.QueryBool("details") {
		objects, err := client.ListObjectDetails(c.Context(), prefix, maxKeys)
		if err != nil {
			return h.fail(c, err)
		}
		return c.JSON(DetailsResponse{Bucket: client.Bucket(), Prefix: prefix, Objects: objects})
	}

	keys, err := client.ListKeys(c.Context(), prefix, maxKeys)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(KeysResponse{Bucket: client.Bucket(), Prefix: prefix, Keys: keys})
}

// HandleRead streams the object body back.
// @Summary Download Object
// @Tags objects
// @Produce octet-stream
// @Param id path string true "Connection ID"
// @Param key query string true "Object key"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects/content [get]
func (h *Handler) HandleRead(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	key := c.Query("key")
	data, err := client.ReadObject(c.Context(), key)
	if err != nil {
		return h.fail(c, err)
	}

	if ext := filepath.Ext(key); ext != "" {
		c.Type(ext)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	}
	return c.Send(data)
}

// HandleWrite uploads the request body as the object.
// @Summary Upload Object
// @Description Uploads or overwrites an object. Last writer wins. X-Meta-* headers are stored as user metadata.
// @Tags objects
// @Accept octet-stream
// @Produce json
// @Param id path string true "Connection ID"
// @Param key query string true "Object key"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects/content [put]
func (h *Handler) HandleWrite(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	opts := storage.WriteOptions{
		ContentType:  string(c.Request().Header.ContentType()),
		UserMetadata: metaHeaders(c),
	}
	// The body buffer belongs to fasthttp and is recycled after the handler returns.
	data := append([]byte(nil), c.Body()...)

	if err := client.WriteObject(c.Context(), c.Query("key"), data, opts); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleMetadata returns object metadata without the body.
// @Summary Object Metadata
// @Tags objects
// @Produce json
// @Param id path string true "Connection ID"
// @Param key query string true "Object key"
// @Success 200 {object} storage.ObjectMetadata
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects/metadata [get]
func (h *Handler) HandleMetadata(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	meta, err := client.GetMetadata(c.Context(), c.Query("key"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(meta)
}

// HandleExists reports whether an object exists.
// @Summary Object Exists
// @Tags objects
// @Produce json
// @Param id path string true "Connection ID"
// @Param key query string true "Object key"
// @Success 200 {object} ExistsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects/exists [get]
func (h *Handler) HandleExists(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	key := c.Query("key")
	ok, err := client.Exists(c.Context(), key)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(ExistsResponse{Key: key, Exists: ok})
}

// HandleDelete removes an object. Deleting a missing key succeeds.
// @Summary Delete Object
// @Tags objects
// @Param id path string true "Connection ID"
// @Param key query string true "Object key"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	if err := client.DeleteObject(c.Context(), c.Query("key")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePresign returns a presigned download URL.
// @Summary Presign Object
// @Description Returns a time-limited GET URL. Expiry is in seconds and defaults to one hour.
// @Tags objects
// @Produce json
// @Param id path string true "Connection ID"
// @Param key query string true "Object key"
// @Param expires query int false "Expiry in seconds (default 3600)"
// @Success 200 {object} PresignResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /buckets/{id}/objects/presign [get]
func (h *Handler) HandlePresign(c *fiber.Ctx) error {
	client, err := h.open(c)
	if err != nil {
		return h.fail(c, err)
	}

	seconds := int(storage.DefaultPresignExpiry / time.Second)
	if raw := c.Query("expires"); raw != "" {
		seconds, err = strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: storage.ErrInvalidExpiry.Error()})
		}
	}

	key := c.Query("key")
	u, err := client.PresignedURL(c.Context(), key, time.Duration(seconds)*time.Second)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(PresignResponse{Key: key, URL: u, ExpiresIn: seconds})
}

func (h *Handler) open(c *fiber.Ctx) (storage.Client, error) {
	return h.opener.Open(c.Context(), c.Params("id"))
}

// fail maps err onto a status and writes the error body.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.logger, c)

	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		l.Error("Object operation failed", zap.String("path", c.Path()), zap.Error(err))
	} else {
		l.Debug("Object request rejected", zap.Int("status", status), zap.Error(err))
	}
	return c.Status(status).JSON(ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, buckets.ErrConnectionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, storage.ErrEmptyKey), errors.Is(err, storage.ErrInvalidExpiry):
		return fiber.StatusBadRequest
	case errors.Is(err, storage.ErrBodyEmpty), storage.IsTransport(err):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

func metaHeaders(c *fiber.Ctx) map[string]string {
	meta := make(map[string]string)
	c.Request().Header.VisitAll(func(k, v []byte) {
		name := string(k)
		if len(name) > len(MetaHeaderPrefix) && strings.EqualFold(name[:len(MetaHeaderPrefix)], MetaHeaderPrefix) {
			meta[strings.ToLower(name[len(MetaHeaderPrefix):])] = string(v)
		}
	})
	if len(meta) == 0 {
		return nil
	}
	return meta
}
