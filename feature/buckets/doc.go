// Package buckets implements the bucket connection registry.
//
// Connections (bucket name, region, optional endpoint and a key pair) are kept in
// process memory only and are lost on restart. Each connection lazily gets one
// storage.Client, which the objects feature uses for browsing.
//
// # HTTP Endpoints
//
//   - GET /buckets : List connections.
//   - POST /buckets : Connect a bucket (JSON or form body).
//   - GET /buckets/:id : Get one connection.
//   - DELETE /buckets/:id : Disconnect a bucket.
package buckets
