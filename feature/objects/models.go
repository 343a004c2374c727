package objects

import "bucket-manager/core/storage"

// KeysResponse is returned by a plain listing.
type KeysResponse struct {
	Bucket string   `json:"bucket"`
	Prefix string   `json:"prefix"`
	Keys   []string `json:"keys"`
}

// DetailsResponse is returned by a listing with details=true.
type DetailsResponse struct {
	Bucket  string               `json:"bucket"`
	Prefix  string               `json:"prefix"`
	Objects []storage.ObjectInfo `json:"objects"`
}

// ExistsResponse is returned by the existence check.
type ExistsResponse struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
}

// PresignResponse carries a presigned download URL.
type PresignResponse struct {
	Key       string `json:"key"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
