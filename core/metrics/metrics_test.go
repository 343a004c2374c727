package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupApp(t *testing.T) (*fiber.App, *HTTPMetrics) {
	t.Helper()
	m := New("test", prometheus.NewRegistry())

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())
	app.Get("/items/:id", func(c *fiber.Ctx) error { return c.SendString(c.Params("id")) })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadGateway, "upstream") })
	return app, m
}

func TestMiddleware_RecordsByRoute(t *testing.T) {
	app, m := setupApp(t)

	for _, id := range []string{"a", "b", "c"} {
		_, err := app.Test(httptest.NewRequest("GET", "/items/"+id, nil))
		require.NoError(t, err)
	}
	_, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/fail", "502")))
}

func TestHandler_Exposition(t *testing.T) {
	app, _ := setupApp(t)

	_, err := app.Test(httptest.NewRequest("GET", "/items/x", nil))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_http_requests_total")
}
