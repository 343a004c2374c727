package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMinioTransport(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    false,
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		transport, err := NewMinioTransport(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, transport)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := Config{
			Endpoint:  "https://s3.amazonaws.com/",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		transport, err := NewMinioTransport(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, transport)
	})

	t.Run("AmbientCredentials", func(t *testing.T) {
		transport, err := NewMinioTransport(Config{Region: "eu-west-1", UseSSL: true})
		assert.NoError(t, err)
		assert.NotNil(t, transport)
	})

	t.Run("NilClient", func(t *testing.T) {
		_, err := NewMinioTransportWithClient(nil)
		assert.Error(t, err)
	})
}

func TestMinioTransport_PresignGet(t *testing.T) {
	transport, err := NewMinioTransport(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "testkey",
		SecretKey: "testsecret",
		Region:    "us-east-1",
	})
	require.NoError(t, err)

	u, err := transport.PresignGet(context.Background(), "test-bucket", "dir/a.txt", 60*time.Second)
	require.NoError(t, err)
	assert.Contains(t, u, "/test-bucket/dir/a.txt")
	assert.Contains(t, u, "X-Amz-Expires=60")
	assert.NotContains(t, u, "testsecret")
}

func TestMapMinioError(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		err      error
		notFound bool
		code     string
	}{
		{"NoSuchKey", "a.txt", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, true, ""},
		{"HeadNotFound", "a.txt", minio.ErrorResponse{Code: "NotFound", StatusCode: 404}, true, ""},
		{"Bare404", "a.txt", minio.ErrorResponse{StatusCode: 404}, true, ""},
		{"NoSuchBucket", "a.txt", minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: 404}, false, "NoSuchBucket"},
		{"AccessDenied", "a.txt", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, false, "AccessDenied"},
		{"Network", "a.txt", errors.New("dial tcp: connection refused"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapMinioError("head", tt.key, tt.err)
			assert.Equal(t, tt.notFound, IsNotFound(err))
			if !tt.notFound {
				var te *TransportError
				require.ErrorAs(t, err, &te)
				assert.Equal(t, tt.code, te.Code)
				assert.Equal(t, "head", te.Op)
				assert.Equal(t, tt.err, te.Err)
			}
		})
	}

	assert.NoError(t, mapMinioError("get", "a", nil))

	err := mapMinioError("get", "a", context.DeadlineExceeded)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
