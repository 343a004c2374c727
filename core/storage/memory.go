package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	data         []byte
	contentType  string
	userMetadata map[string]string
	etag         string
	modified     time.Time
}

// MemoryTransport keeps objects in process memory. It backs the memory driver
// and stands in for a real store in tests.
type MemoryTransport struct {
	mu      sync.RWMutex
	buckets map[string]map[string]*memoryObject
	now     func() time.Time
}

// NewMemoryTransport creates an empty in-memory store.
func NewMemoryTransport() *MemoryTransport {
	return &MemoryTransport{
		buckets: make(map[string]map[string]*memoryObject),
		now:     time.Now,
	}
}

// List returns keys in lexicographic order, like S3.
func (t *MemoryTransport) List(ctx context.Context, bucket string, opts ListOptions) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Op: "list", Err: err}
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	objects := t.buckets[bucket]
	keys := make([]string, 0, len(objects))
	for k := range objects {
		if strings.HasPrefix(k, opts.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if opts.MaxKeys > 0 && len(keys) > opts.MaxKeys {
		keys = keys[:opts.MaxKeys]
	}

	out := make([]ObjectInfo, 0, len(keys))
	for _, k := range keys {
		obj := objects[k]
		out = append(out, ObjectInfo{
			Key:          k,
			Size:         int64(len(obj.data)),
			LastModified: obj.modified,
			ETag:         obj.etag,
		})
	}
	return out, nil
}

// Get returns a copy of the stored body.
func (t *MemoryTransport) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := t.lookup(ctx, "get", bucket, key)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(obj.data))), nil
}

// Head returns the stored metadata.
func (t *MemoryTransport) Head(ctx context.Context, bucket, key string) (ObjectMetadata, error) {
	obj, err := t.lookup(ctx, "head", bucket, key)
	if err != nil {
		return ObjectMetadata{}, err
	}
	meta := ObjectMetadata{
		ContentType:   obj.contentType,
		ContentLength: int64(len(obj.data)),
		LastModified:  obj.modified,
		ETag:          obj.etag,
		UserMetadata:  make(map[string]string, len(obj.userMetadata)),
	}
	for k, v := range obj.userMetadata {
		meta.UserMetadata[k] = v
	}
	return meta, nil
}

// Put stores the body, replacing any previous object.
func (t *MemoryTransport) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts WriteOptions) error {
	if err := ctx.Err(); err != nil {
		return &TransportError{Op: "put", Key: key, Err: err}
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return &TransportError{Op: "put", Key: key, Err: err}
	}

	contentType := opts.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	meta := make(map[string]string, len(opts.UserMetadata))
	for k, v := range opts.UserMetadata {
		meta[strings.Clone(k)] = strings.Clone(v)
	}
	sum := md5.Sum(data)

	// Keys may alias request buffers owned by the caller.
	bucket, key = strings.Clone(bucket), strings.Clone(key)

	t.mu.Lock()
	defer t.mu.Unlock()
	objects, ok := t.buckets[bucket]
	if !ok {
		objects = make(map[string]*memoryObject)
		t.buckets[bucket] = objects
	}
	objects[key] = &memoryObject{
		data:         data,
		contentType:  contentType,
		userMetadata: meta,
		etag:         `"` + hex.EncodeToString(sum[:]) + `"`,
		modified:     t.now().UTC(),
	}
	return nil
}

// Delete removes the key if present.
func (t *MemoryTransport) Delete(ctx context.Context, bucket, key string) error {
	if err := ctx.Err(); err != nil {
		return &TransportError{Op: "delete", Key: key, Err: err}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.buckets[bucket], key)
	return nil
}

// PresignGet returns a memory:// URL; it grants nothing outside this process.
func (t *MemoryTransport) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &TransportError{Op: "presign", Key: key, Err: err}
	}
	u := url.URL{
		Scheme: "memory",
		Host:   bucket,
		Path:   "/" + key,
		RawQuery: url.Values{
			"X-Amz-Expires": []string{strconv.FormatInt(int64(expires/time.Second), 10)},
		}.Encode(),
	}
	return u.String(), nil
}

func (t *MemoryTransport) lookup(ctx context.Context, op, bucket, key string) (*memoryObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, &TransportError{Op: op, Key: key, Err: err}
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	obj, ok := t.buckets[bucket][key]
	if !ok {
		return nil, notFound(key)
	}
	return obj, nil
}

var _ Transport = (*MemoryTransport)(nil)
