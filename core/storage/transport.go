package storage

import (
	"context"
	"io"
	"time"
)

// ObjectInfo is a metadata snapshot of one object, taken at listing time.
type ObjectInfo struct {
	// Key is the object key, never empty.
	Key string `json:"key"`
	// Size is the object size in bytes.
	Size int64 `json:"size"`
	// LastModified is the zero time when the store did not report it.
	LastModified time.Time `json:"last_modified"`
	// ETag is the entity tag as reported by the store (usually quoted).
	ETag string `json:"etag,omitempty"`
}

// ObjectMetadata is the result of a metadata-only request.
type ObjectMetadata struct {
	ContentType   string            `json:"content_type,omitempty"`
	ContentLength int64             `json:"content_length"`
	LastModified  time.Time         `json:"last_modified"`
	ETag          string            `json:"etag,omitempty"`
	UserMetadata  map[string]string `json:"user_metadata"`
}

// ListOptions scopes a single listing page.
type ListOptions struct {
	// Prefix filters keys; empty lists from the bucket root.
	Prefix string
	// MaxKeys caps the number of returned entries.
	MaxKeys int
}

// WriteOptions carries the optional attributes of an upload.
type WriteOptions struct {
	ContentType  string
	UserMetadata map[string]string
}

// Transport is the provider-facing capability set used by the object store client.
// Implementations translate provider errors into ErrNotFound, ErrBodyEmpty or
// *TransportError before returning.
type Transport interface {
	// List returns at most opts.MaxKeys objects under opts.Prefix, in a single page.
	List(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error)
	// Get opens the object body. The caller closes it.
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	// Head fetches object metadata without the body.
	Head(ctx context.Context, bucket, key string) (ObjectMetadata, error)
	// Put uploads or overwrites an object.
	Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts WriteOptions) error
	// Delete removes an object. Missing keys are not an error.
	Delete(ctx context.Context, bucket, key string) error
	// PresignGet returns a time-limited GET URL for the object.
	PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}
