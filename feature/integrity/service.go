package integrity

import (
	"context"

	"bucket-manager/core/storage"
	"bucket-manager/feature/integrity/checks"

	"go.uber.org/zap"
)

// Opener resolves a connection id to its object store client.
type Opener interface {
	Open(ctx context.Context, id string) (storage.Client, error)
}

// Service handles integrity checks.
type Service struct {
	opener Opener
	logger *zap.Logger
}

// NewService creates a new integrity service.
func NewService(opener Opener, logger *zap.Logger) *Service {
	return &Service{
		opener: opener,
		logger: logger,
	}
}

// CheckConnection tests the bucket behind a connection.
func (s *Service) CheckConnection(ctx context.Context, id string) (checks.ConnectionReport, error) {
	client, err := s.opener.Open(ctx, id)
	if err != nil {
		return checks.ConnectionReport{}, err
	}
	return checks.CheckConnection(ctx, client), nil
}

// CheckStructure returns the folders that hold no object.
func (s *Service) CheckStructure(ctx context.Context, id string, folders []string) ([]string, error) {
	client, err := s.opener.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	return checks.CheckStructure(ctx, client, folders)
}

// FixStructure creates the missing folders.
func (s *Service) FixStructure(ctx context.Context, id string, missing []string) error {
	client, err := s.opener.Open(ctx, id)
	if err != nil {
		return err
	}
	return checks.FixStructure(ctx, client, s.logger.With(zap.String("connection", id)), missing)
}
