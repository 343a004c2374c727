package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultMaxKeys is the page size used when a listing asks for zero keys.
	DefaultMaxKeys = 1000
	// DefaultPresignExpiry is used when PresignedURL is called with a zero expiry.
	DefaultPresignExpiry = time.Hour
)

// Client defines the object operations available on one bucket.
type Client interface {
	// Bucket returns the bucket name the client was built for.
	Bucket() string
	// ListKeys returns at most maxKeys keys under prefix.
	ListKeys(ctx context.Context, prefix string, maxKeys int) ([]string, error)
	// ListObjectDetails returns at most maxKeys objects under prefix with size, time and etag.
	ListObjectDetails(ctx context.Context, prefix string, maxKeys int) ([]ObjectInfo, error)
	// ReadObject downloads the full object body.
	ReadObject(ctx context.Context, key string) ([]byte, error)
	// ReadObjectAsText downloads the body as UTF-8 text.
	ReadObjectAsText(ctx context.Context, key string) (string, error)
	// GetMetadata fetches object metadata without the body.
	GetMetadata(ctx context.Context, key string) (ObjectMetadata, error)
	// Exists reports whether key exists.
	Exists(ctx context.Context, key string) (bool, error)
	// WriteObject uploads or overwrites key.
	WriteObject(ctx context.Context, key string, data []byte, opts WriteOptions) error
	// WriteText uploads a text body.
	WriteText(ctx context.Context, key, text string, opts WriteOptions) error
	// DeleteObject removes key.
	DeleteObject(ctx context.Context, key string) error
	// PresignedURL returns a time-limited read URL for key.
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

// NewClient creates a client for cfg.Bucket using the transport named by cfg.Driver.
func NewClient(cfg Config, logger *zap.Logger) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}

	transport, err := NewTransport(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return New(transport, cfg.Bucket, logger)
}

// NewTransport builds the transport selected by cfg.Driver.
func NewTransport(ctx context.Context, cfg Config) (Transport, error) {
	switch cfg.Driver {
	case DriverMinio:
		return NewMinioTransport(cfg)
	case DriverS3:
		return NewS3Transport(ctx, cfg)
	case DriverMemory:
		return NewMemoryTransport(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// New creates a client for bucket on top of an existing transport.
func New(transport Transport, bucket string, logger *zap.Logger) (Client, error) {
	if transport == nil {
		return nil, fmt.Errorf("storage transport is required")
	}
	if bucket == "" {
		return nil, ErrEmptyBucket
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &bucketClient{
		transport: transport,
		bucket:    bucket,
		logger:    logger.With(zap.String("bucket", bucket)),
	}, nil
}

// bucketClient holds only immutable state; every call is one transport request.
type bucketClient struct {
	transport Transport
	bucket    string
	logger    *zap.Logger
}

func (c *bucketClient) Bucket() string {
	return c.bucket
}

func (c *bucketClient) ListKeys(ctx context.Context, prefix string, maxKeys int) ([]string, error) {
	objects, err := c.list(ctx, prefix, maxKeys)
	if err != nil {
		c.logger.Error("Error listing objects", zap.String("prefix", prefix), zap.Error(err))
		return nil, err
	}

	keys := make([]string, 0, len(objects))
	for _, obj := range objects {
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (c *bucketClient) ListObjectDetails(ctx context.Context, prefix string, maxKeys int) ([]ObjectInfo, error) {
	objects, err := c.list(ctx, prefix, maxKeys)
	if err != nil {
		c.logger.Error("Error listing objects with details", zap.String("prefix", prefix), zap.Error(err))
		return nil, err
	}
	return objects, nil
}

// list fetches one page and drops entries without a key.
func (c *bucketClient) list(ctx context.Context, prefix string, maxKeys int) ([]ObjectInfo, error) {
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	objects, err := c.transport.List(ctx, c.bucket, ListOptions{Prefix: prefix, MaxKeys: maxKeys})
	if err != nil {
		return nil, err
	}

	out := make([]ObjectInfo, 0, len(objects))
	for _, obj := range objects {
		if obj.Key == "" {
			continue
		}
		out = append(out, obj)
		if len(out) == maxKeys {
			break
		}
	}
	return out, nil
}

func (c *bucketClient) ReadObject(ctx context.Context, key string) ([]byte, error) {
	data, err := c.read(ctx, key)
	if err != nil {
		c.logger.Error("Error getting object content", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}

func (c *bucketClient) ReadObjectAsText(ctx context.Context, key string) (string, error) {
	data, err := c.read(ctx, key)
	if err != nil {
		c.logger.Error("Error getting object content as string", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return string(data), nil
}

func (c *bucketClient) read(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	body, err := c.transport.Get(ctx, c.bucket, key)
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, ErrBodyEmpty
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &TransportError{Op: "get", Key: key, Err: err}
	}
	return data, nil
}

func (c *bucketClient) GetMetadata(ctx context.Context, key string) (ObjectMetadata, error) {
	if key == "" {
		return ObjectMetadata{}, ErrEmptyKey
	}

	meta, err := c.transport.Head(ctx, c.bucket, key)
	if err != nil {
		c.logger.Error("Error getting object metadata", zap.String("key", key), zap.Error(err))
		return ObjectMetadata{}, err
	}
	if meta.UserMetadata == nil {
		meta.UserMetadata = map[string]string{}
	}
	return meta, nil
}

func (c *bucketClient) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	if _, err := c.transport.Head(ctx, c.bucket, key); err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		c.logger.Error("Error checking if object exists", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return true, nil
}

func (c *bucketClient) WriteObject(ctx context.Context, key string, data []byte, opts WriteOptions) error {
	if key == "" {
		return ErrEmptyKey
	}

	err := c.transport.Put(ctx, c.bucket, key, bytes.NewReader(data), int64(len(data)), opts)
	if err != nil {
		c.logger.Error("Error uploading object", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (c *bucketClient) WriteText(ctx context.Context, key, text string, opts WriteOptions) error {
	return c.WriteObject(ctx, key, []byte(text), opts)
}

func (c *bucketClient) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	if err := c.transport.Delete(ctx, c.bucket, key); err != nil {
		c.logger.Error("Error deleting object", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

func (c *bucketClient) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	if expires < 0 {
		return "", ErrInvalidExpiry
	}
	if expires == 0 {
		expires = DefaultPresignExpiry
	}

	u, err := c.transport.PresignGet(ctx, c.bucket, key, expires)
	if err != nil {
		c.logger.Error("Error generating presigned URL", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return u, nil
}
