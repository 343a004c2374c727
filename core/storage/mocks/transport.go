package mocks

import (
	"context"
	"io"
	"time"

	"bucket-manager/core/storage"

	"github.com/stretchr/testify/mock"
)

// Transport is a mock implementation of storage.Transport
type Transport struct {
	mock.Mock
}

func (m *Transport) List(ctx context.Context, bucket string, opts storage.ListOptions) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, bucket, opts)
	if objects, ok := args.Get(0).([]storage.ObjectInfo); ok {
		return objects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, bucket, key)
	if body, ok := args.Get(0).(io.ReadCloser); ok {
		return body, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Transport) Head(ctx context.Context, bucket, key string) (storage.ObjectMetadata, error) {
	args := m.Called(ctx, bucket, key)
	return args.Get(0).(storage.ObjectMetadata), args.Error(1)
}

func (m *Transport) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, opts storage.WriteOptions) error {
	args := m.Called(ctx, bucket, key, body, size, opts)
	return args.Error(0)
}

func (m *Transport) Delete(ctx context.Context, bucket, key string) error {
	args := m.Called(ctx, bucket, key)
	return args.Error(0)
}

func (m *Transport) PresignGet(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, bucket, key, expires)
	return args.String(0), args.Error(1)
}
