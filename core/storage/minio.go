package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const defaultAWSEndpoint = "s3.amazonaws.com"

// MinioTransport talks to S3-compatible stores through minio-go.
type MinioTransport struct {
	client *minio.Client
}

// NewMinioTransport creates a MinIO backed transport from the configuration.
func NewMinioTransport(cfg Config) (*MinioTransport, error) {
	// Minio expects endpoint without scheme
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")
	endpoint = strings.TrimSuffix(endpoint, "/")
	if endpoint == "" {
		endpoint = defaultAWSEndpoint
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:     minioCredentials(cfg),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	// Minio connects lazily; the transport timeouts bound connection setup and
	// everything else is bounded by the caller's context.

	return &MinioTransport{client: client}, nil
}

// NewMinioTransportWithClient wraps an existing minio client.
func NewMinioTransportWithClient(client *minio.Client) (*MinioTransport, error) {
	if client == nil {
		return nil, fmt.Errorf("minio client is required")
	}
	return &MinioTransport{client: client}, nil
}

func minioCredentials(cfg Config) *credentials.Credentials {
	if cfg.HasStaticCredentials() {
		return credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
	})
}

// List returns a single page of at most opts.MaxKeys objects.
func (t *MinioTransport) List(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error) {
	// minio-go keeps paging in a goroutine; cancelling stops it once the page is full.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listOpts := minio.ListObjectsOptions{
		Prefix:    opts.Prefix,
		Recursive: true,
		MaxKeys:   opts.MaxKeys,
	}

	objects := make([]ObjectInfo, 0)
	for obj := range t.client.ListObjects(ctx, bucket, listOpts) {
		if obj.Err != nil {
			return nil, mapMinioError("list", "", obj.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
			ETag:         obj.ETag,
		})
		if opts.MaxKeys > 0 && len(objects) >= opts.MaxKeys {
			break
		}
	}
	return objects, nil
}

// Get opens the object. minio defers errors to the first read, so the object
// is stat'ed first to surface not-found before any body is handed out.
func (t *MinioTransport) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := t.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError("get", key, err)
	}
	if obj == nil {
		return nil, ErrBodyEmpty
	}
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, mapMinioError("get", key, err)
	}
	return obj, nil
}

// Head fetches object metadata.
func (t *MinioTransport) Head(ctx context.Context, bucket, key string) (ObjectMetadata, error) {
	info, err := t.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return ObjectMetadata{}, mapMinioError("head", key, err)
	}
	meta := ObjectMetadata{
		ContentType:   info.ContentType,
		ContentLength: info.Size,
		LastModified:  info.LastModified,
		ETag:          info.ETag,
		UserMetadata:  make(map[string]string, len(info.UserMetadata)),
	}
	for k, v := range info.UserMetadata {
		meta.UserMetadata[k] = v
	}
	return meta, nil
}

// Put uploads an object.
func (t *MinioTransport) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts WriteOptions) error {
	putOpts := minio.PutObjectOptions{
		ContentType:  opts.ContentType,
		UserMetadata: opts.UserMetadata,
	}
	if _, err := t.client.PutObject(ctx, bucket, key, body, size, putOpts); err != nil {
		return mapMinioError("put", key, err)
	}
	return nil
}

// Delete removes an object.
func (t *MinioTransport) Delete(ctx context.Context, bucket, key string) error {
	if err := t.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapMinioError("delete", key, err)
	}
	return nil
}

// PresignGet signs a GET URL locally; no request is sent when a region is configured.
func (t *MinioTransport) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	u, err := t.client.PresignedGetObject(ctx, bucket, key, expires, nil)
	if err != nil {
		return "", mapMinioError("presign", key, err)
	}
	return u.String(), nil
}

func mapMinioError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &TransportError{Op: op, Key: key, Err: err}
	}

	resp := minio.ToErrorResponse(err)
	switch {
	case resp.Code == "NoSuchKey" || resp.Code == "NotFound":
		return notFound(key)
	case resp.StatusCode == http.StatusNotFound && resp.Code != "NoSuchBucket" && key != "":
		return notFound(key)
	}
	return &TransportError{
		Op:         op,
		Key:        key,
		Code:       resp.Code,
		StatusCode: resp.StatusCode,
		Err:        err,
	}
}

var _ Transport = (*MinioTransport)(nil)
