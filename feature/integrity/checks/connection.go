package checks

import (
	"context"
	"errors"
	"time"

	"bucket-manager/core/storage"
)

// ConnectionReport describes whether a bucket answered a one-key listing.
type ConnectionReport struct {
	Bucket    string `json:"bucket"`
	Reachable bool   `json:"reachable"`
	// Code is the provider error code (AccessDenied, NoSuchBucket, ...) when one was reported.
	Code      string `json:"code,omitempty"`
	Error     string `json:"error,omitempty"`
	LatencyMS int64  `json:"latency_ms"`
}

// CheckConnection tests the bucket with the cheapest authenticated request
// available, a listing capped at one key. A failed request is reported, not returned.
func CheckConnection(ctx context.Context, client storage.Client) ConnectionReport {
	report := ConnectionReport{Bucket: client.Bucket()}

	start := time.Now()
	_, err := client.ListKeys(ctx, "", 1)
	report.LatencyMS = time.Since(start).Milliseconds()

	if err != nil {
		report.Error = err.Error()
		var te *storage.TransportError
		if errors.As(err, &te) {
			report.Code = te.Code
		}
		return report
	}

	report.Reachable = true
	return report
}
