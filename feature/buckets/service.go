package buckets

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bucket-manager/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrConnectionNotFound is returned for unknown connection ids.
	ErrConnectionNotFound = errors.New("bucket connection not found")
	// ErrInvalidInput is returned when required connection fields are missing.
	ErrInvalidInput = errors.New("name, region, and credentials are required")
)

// ClientFactory builds an object store client for a connection.
type ClientFactory func(conn Connection) (storage.Client, error)

// NewClientFactory returns a factory that derives the storage configuration of
// each connection from base (driver, SSL, timeouts and attempts) and the
// connection's own bucket, region, endpoint and keys.
func NewClientFactory(base storage.Config, logger *zap.Logger) ClientFactory {
	return func(conn Connection) (storage.Client, error) {
		return storage.NewClient(connectionConfig(base, conn), logger.With(zap.String("connection", conn.ID)))
	}
}

// connectionConfig never inherits base.Endpoint: a connection without an
// endpoint targets the provider default (AWS), not the configured host.
func connectionConfig(base storage.Config, conn Connection) storage.Config {
	cfg := base
	cfg.Bucket = conn.Name
	cfg.Region = conn.Region
	cfg.Endpoint = conn.Endpoint
	cfg.AccessKey = conn.Credentials.AccessKeyID
	cfg.SecretKey = conn.Credentials.SecretAccessKey
	return cfg
}

// Service keeps bucket connections in memory. Nothing survives a restart.
type Service struct {
	mu          sync.RWMutex
	connections map[string]Connection
	clients     map[string]storage.Client
	factory     ClientFactory
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates an empty connection registry.
func NewService(factory ClientFactory, logger *zap.Logger) *Service {
	return &Service{
		connections: make(map[string]Connection),
		clients:     make(map[string]storage.Client),
		factory:     factory,
		logger:      logger,
		now:         time.Now,
	}
}

// Register validates the input and stores a new connection.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Connection, error) {
	name := strings.TrimSpace(in.Name)
	region := strings.TrimSpace(in.Region)
	if name == "" || region == "" || in.AccessKeyID == "" || in.SecretAccessKey == "" {
		return Connection{}, ErrInvalidInput
	}

	// Input strings may alias the request body; the registry keeps its own copies.
	conn := Connection{
		ID:          uuid.NewString(),
		Name:        strings.Clone(name),
		Description: strings.Clone(strings.TrimSpace(in.Description)),
		Region:      strings.Clone(region),
		Endpoint:    strings.Clone(strings.TrimSpace(in.Endpoint)),
		Credentials: Credentials{
			AccessKeyID:     strings.Clone(in.AccessKeyID),
			SecretAccessKey: strings.Clone(in.SecretAccessKey),
		},
		CreatedAt: s.now().UTC(),
	}

	s.mu.Lock()
	s.connections[conn.ID] = conn
	s.mu.Unlock()

	s.logger.Info("Bucket connected",
		zap.String("id", conn.ID),
		zap.String("bucket", conn.Name),
		zap.String("region", conn.Region))
	return conn, nil
}

// Disconnect removes a connection and drops its client.
func (s *Service) Disconnect(ctx context.Context, id string) error {
	s.mu.Lock()
	conn, ok := s.connections[id]
	if ok {
		delete(s.connections, id)
		delete(s.clients, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%s: %w", id, ErrConnectionNotFound)
	}
	s.logger.Info("Bucket disconnected", zap.String("id", id), zap.String("bucket", conn.Name))
	return nil
}

// Get returns one connection.
func (s *Service) Get(id string) (Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conn, ok := s.connections[id]
	if !ok {
		return Connection{}, fmt.Errorf("%s: %w", id, ErrConnectionNotFound)
	}
	return conn, nil
}

// List returns all connections, oldest first.
func (s *Service) List() []Connection {
	s.mu.RLock()
	out := make([]Connection, 0, len(s.connections))
	for _, c := range s.connections {
		out = append(out, c)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Open returns the object store client of a connection, building it on first use.
// One client is kept per connection for its lifetime.
func (s *Service) Open(ctx context.Context, id string) (storage.Client, error) {
	s.mu.RLock()
	client, ok := s.clients[id]
	s.mu.RUnlock()
	if ok {
		return client, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if client, ok := s.clients[id]; ok {
		return client, nil
	}
	conn, ok := s.connections[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrConnectionNotFound)
	}

	client, err := s.factory(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket %s: %w", conn.Name, err)
	}
	s.clients[id] = client
	return client, nil
}
