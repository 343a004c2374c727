// Package objects exposes object browsing for registered bucket connections.
//
// Every route resolves the connection id to its storage.Client through the buckets
// registry and performs exactly one client call. Storage errors are mapped to HTTP
// statuses: missing keys and connections are 404, bad parameters 400 and anything the
// store rejects 502.
//
// # HTTP Endpoints
//
//   - GET /buckets/:id/objects : List keys (details=true for size, time and etag).
//   - DELETE /buckets/:id/objects?key= : Delete an object.
//   - GET /buckets/:id/objects/content?key= : Download an object.
//   - PUT /buckets/:id/objects/content?key= : Upload an object. X-Meta-* headers become user metadata.
//   - GET /buckets/:id/objects/metadata?key= : Object metadata.
//   - GET /buckets/:id/objects/exists?key= : Existence check.
//   - GET /buckets/:id/objects/presign?key=&expires= : Presigned download URL.
package objects
