package objects

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"bucket-manager/core/storage"
	"bucket-manager/core/storage/mocks"
	"bucket-manager/feature/buckets"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedOpener struct {
	client storage.Client
}

func (o fixedOpener) Open(ctx context.Context, id string) (storage.Client, error) {
	if id != "conn" {
		return nil, buckets.ErrConnectionNotFound
	}
	return o.client, nil
}

// setupTestApp wires the handler to a real registry backed by the memory driver.
func setupTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	registry := buckets.NewService(
		buckets.NewClientFactory(storage.Config{Driver: storage.DriverMemory}, zap.NewNop()),
		zap.NewNop(),
	)
	conn, err := registry.Register(context.Background(), buckets.RegisterInput{
		Name:            "test-bucket",
		Region:          "us-east-1",
		AccessKeyID:     "AKIA",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	app := fiber.New()
	require.NoError(t, NewFeature(registry, zap.NewNop()).Load(app))
	return app, "/buckets/" + conn.ID + "/objects"
}

func do(t *testing.T, app *fiber.App, method, target, body string, headers map[string]string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func TestObjects_Lifecycle(t *testing.T) {
	app, base := setupTestApp(t)

	status, _ := do(t, app, "PUT", base+"/content?key=a.txt", "hello", map[string]string{
		"Content-Type": "text/plain",
		"X-Meta-Owner": "ops",
	})
	assert.Equal(t, fiber.StatusNoContent, status)

	status, raw := do(t, app, "GET", base+"/content?key=a.txt", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "hello", string(raw))

	status, raw = do(t, app, "GET", base+"/metadata?key=a.txt", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var meta storage.ObjectMetadata
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "text/plain", meta.ContentType)
	assert.Equal(t, int64(5), meta.ContentLength)
	assert.Equal(t, "ops", meta.UserMetadata["owner"])

	status, raw = do(t, app, "GET", base+"?details=true", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var details DetailsResponse
	require.NoError(t, json.Unmarshal(raw, &details))
	require.Len(t, details.Objects, 1)
	assert.Equal(t, "a.txt", details.Objects[0].Key)
	assert.Equal(t, "test-bucket", details.Bucket)

	status, raw = do(t, app, "GET", base+"/exists?key=a.txt", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var exists ExistsResponse
	require.NoError(t, json.Unmarshal(raw, &exists))
	assert.True(t, exists.Exists)

	status, _ = do(t, app, "DELETE", base+"?key=a.txt", "", nil)
	assert.Equal(t, fiber.StatusNoContent, status)
	status, _ = do(t, app, "DELETE", base+"?key=a.txt", "", nil)
	assert.Equal(t, fiber.StatusNoContent, status)

	status, raw = do(t, app, "GET", base, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var keys KeysResponse
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Empty(t, keys.Keys)

	status, raw = do(t, app, "GET", base+"/exists?key=a.txt", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &exists))
	assert.False(t, exists.Exists)
}

func TestObjects_List(t *testing.T) {
	app, base := setupTestApp(t)
	for _, key := range []string{"logs/1", "logs/2", "logs/3", "other"} {
		status, _ := do(t, app, "PUT", base+"/content?key="+key, "x", nil)
		require.Equal(t, fiber.StatusNoContent, status)
	}

	status, raw := do(t, app, "GET", base+"?prefix=logs/&max_keys=2", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var keys KeysResponse
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Equal(t, []string{"logs/1", "logs/2"}, keys.Keys)

	status, _ = do(t, app, "GET", base+"?max_keys=-1", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestObjects_Presign(t *testing.T) {
	app, base := setupTestApp(t)

	status, raw := do(t, app, "GET", base+"/presign?key=a.txt&expires=60", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var out PresignResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out.URL, "test-bucket/a.txt")
	assert.Equal(t, 60, out.ExpiresIn)

	status, raw = do(t, app, "GET", base+"/presign?key=a.txt", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, 3600, out.ExpiresIn)

	for _, bad := range []string{"0", "-5", "soon"} {
		status, _ = do(t, app, "GET", base+"/presign?key=a.txt&expires="+bad, "", nil)
		assert.Equal(t, fiber.StatusBadRequest, status, bad)
	}
}

func TestObjects_ErrorMapping(t *testing.T) {
	app, base := setupTestApp(t)

	status, _ := do(t, app, "GET", base+"/content?key=missing", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, "GET", base+"/metadata?key=missing", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, "GET", base+"/content", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, "GET", "/buckets/unknown/objects", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestObjects_TransportFailure(t *testing.T) {
	client := new(mocks.Client)
	denied := &storage.TransportError{Op: "list", Code: "AccessDenied", StatusCode: 403, Err: errors.New("access denied")}
	client.On("ListKeys", mock.Anything, "", storage.DefaultMaxKeys).Return(nil, denied)
	client.On("ReadObject", mock.Anything, "empty").Return(nil, storage.ErrBodyEmpty)

	app := fiber.New()
	NewHandler(fixedOpener{client: client}, zap.NewNop()).RegisterRoutes(app)

	status, raw := do(t, app, "GET", "/buckets/conn/objects", "", nil)
	assert.Equal(t, fiber.StatusBadGateway, status)
	var out ErrorResponse
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Contains(t, out.Error, "AccessDenied")

	status, _ = do(t, app, "GET", "/buckets/conn/objects/content?key=empty", "", nil)
	assert.Equal(t, fiber.StatusBadGateway, status)

	client.AssertExpectations(t)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusInternalServerError, statusFor(errors.New("boom")))
	assert.Equal(t, fiber.StatusBadRequest, statusFor(storage.ErrInvalidExpiry))
}

func TestFeature(t *testing.T) {
	feature := NewFeature(fixedOpener{}, zap.NewNop())
	assert.Equal(t, "objects", feature.Name())
	assert.True(t, feature.IsEnabled())
}

func TestObjects_KeysSurviveLaterRequests(t *testing.T) {
	app, base := setupTestApp(t)

	status, _ := do(t, app, "PUT", base+"/content?key=alpha.txt", "a", nil)
	require.Equal(t, fiber.StatusNoContent, status)

	// Unrelated requests reuse the request buffers the key was read from.
	status, _ = do(t, app, "GET", base+"/exists?key=zzzzzzzzz", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = do(t, app, "PUT", base+"/content?key=yyyyyyyyy", "b", nil)
	require.Equal(t, fiber.StatusNoContent, status)

	status, raw := do(t, app, "GET", base, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	var keys KeysResponse
	require.NoError(t, json.Unmarshal(raw, &keys))
	assert.Equal(t, []string{"alpha.txt", "yyyyyyyyy"}, keys.Keys)

	status, raw = do(t, app, "GET", base+"/content?key=alpha.txt", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "a", string(raw))
}
