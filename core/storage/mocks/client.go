package mocks

import (
	"context"
	"time"

	"bucket-manager/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) Bucket() string {
	args := m.Called()
	return args.String(0)
}

func (m *Client) ListKeys(ctx context.Context, prefix string, maxKeys int) ([]string, error) {
	args := m.Called(ctx, prefix, maxKeys)
	if keys, ok := args.Get(0).([]string); ok {
		return keys, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListObjectDetails(ctx context.Context, prefix string, maxKeys int) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, prefix, maxKeys)
	if objects, ok := args.Get(0).([]storage.ObjectInfo); ok {
		return objects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ReadObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ReadObjectAsText(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *Client) GetMetadata(ctx context.Context, key string) (storage.ObjectMetadata, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(storage.ObjectMetadata), args.Error(1)
}

func (m *Client) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *Client) WriteObject(ctx context.Context, key string, data []byte, opts storage.WriteOptions) error {
	args := m.Called(ctx, key, data, opts)
	return args.Error(0)
}

func (m *Client) WriteText(ctx context.Context, key, text string, opts storage.WriteOptions) error {
	args := m.Called(ctx, key, text, opts)
	return args.Error(0)
}

func (m *Client) DeleteObject(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *Client) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	args := m.Called(ctx, key, expires)
	return args.String(0), args.Error(1)
}
