package storage

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Transport_PresignGet(t *testing.T) {
	ctx := context.Background()

	t.Run("AWS", func(t *testing.T) {
		transport, err := NewS3Transport(ctx, Config{
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		})
		require.NoError(t, err)

		u, err := transport.PresignGet(ctx, "test-bucket", "a.txt", 60*time.Second)
		require.NoError(t, err)
		assert.Contains(t, u, "test-bucket")
		assert.Contains(t, u, "/a.txt")
		assert.Contains(t, u, "X-Amz-Expires=60")
	})

	t.Run("CustomEndpointUsesPathStyle", func(t *testing.T) {
		transport, err := NewS3Transport(ctx, Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Region:    "us-east-1",
		})
		require.NoError(t, err)

		u, err := transport.PresignGet(ctx, "test-bucket", "a.txt", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, u, "http://localhost:9000/test-bucket/a.txt")
	})
}

// writeCABundle writes a self-signed CA certificate in PEM form and returns its path.
func writeCABundle(t *testing.T) string {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "bucket-manager test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ca.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	return path
}

func TestNewS3Transport_CustomCABundle(t *testing.T) {
	t.Setenv("AWS_CA_BUNDLE", writeCABundle(t))
	ctx := context.Background()

	transport, err := NewS3Transport(ctx, Config{
		Endpoint:       "localhost:9000",
		UseSSL:         true,
		AccessKey:      "testkey",
		SecretKey:      "testsecret",
		Region:         "us-east-1",
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)

	u, err := transport.PresignGet(ctx, "test-bucket", "a.txt", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, u, "https://localhost:9000/test-bucket/a.txt")
}

func TestNewAWSHTTPClient(t *testing.T) {
	client := newAWSHTTPClient(5 * time.Second)

	// No whole-request deadline: large bodies are bounded by the caller's context.
	assert.Zero(t, client.GetTimeout())

	tr := client.GetTransport()
	assert.Equal(t, 5*time.Second, tr.ResponseHeaderTimeout)
	assert.Equal(t, 5*time.Second, tr.TLSHandshakeTimeout)
	assert.Equal(t, 5*time.Second, client.GetDialer().Timeout)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "https://minio.local", endpointURL(Config{Endpoint: "minio.local", UseSSL: true}))
	assert.Equal(t, "http://minio.local", endpointURL(Config{Endpoint: "minio.local"}))
	assert.Equal(t, "http://minio.local:9000", endpointURL(Config{Endpoint: "http://minio.local:9000", UseSSL: true}))
}

func TestMapS3Error(t *testing.T) {
	t.Run("NoSuchKey", func(t *testing.T) {
		err := mapS3Error("get", "a.txt", fmt.Errorf("operation error: %w", &s3types.NoSuchKey{}))
		assert.True(t, IsNotFound(err))
	})

	t.Run("HeadNotFound", func(t *testing.T) {
		err := mapS3Error("head", "a.txt", &s3types.NotFound{})
		assert.True(t, IsNotFound(err))
	})

	t.Run("GenericNotFoundCode", func(t *testing.T) {
		err := mapS3Error("head", "a.txt", &smithy.GenericAPIError{Code: "NotFound"})
		assert.True(t, IsNotFound(err))
	})

	t.Run("AccessDenied", func(t *testing.T) {
		err := mapS3Error("put", "a.txt", &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})
		assert.False(t, IsNotFound(err))

		var te *TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, "AccessDenied", te.Code)
		assert.Equal(t, "put", te.Op)
	})

	t.Run("Network", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := mapS3Error("list", "", cause)
		assert.True(t, IsTransport(err))
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Nil", func(t *testing.T) {
		assert.NoError(t, mapS3Error("get", "a", nil))
	})
}
