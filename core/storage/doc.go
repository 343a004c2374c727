// Package storage provides the object store client used for every bucket operation.
//
// A Client is bound to one bucket and one credential pair for its whole life. Each
// method maps to exactly one request on the underlying Transport; there is no
// retry, caching or pagination layered on top. Retry and rate limiting belong to
// the caller.
//
// # Transports
//
// The Transport interface is the provider boundary. Three implementations exist:
//
//   - MinioTransport: minio-go, works against AWS S3 and self-hosted MinIO.
//   - S3Transport: aws-sdk-go-v2, uses the SDK default credential chain when no keys are set.
//   - MemoryTransport: process-local store for development and tests.
//
// Transports translate provider failures into ErrNotFound, ErrBodyEmpty or
// *TransportError, so callers never inspect SDK error shapes.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage, logger)
//	keys, err := client.ListKeys(ctx, "reports/", 0)
//	ok, err := client.Exists(ctx, "reports/2024.pdf")
package storage
