// Package integrity provides health checks for connected buckets.
//
// Connecting a bucket only records its settings; nothing is sent to the store. The
// checks here are how an operator confirms that a connection actually works and that
// the bucket holds the expected folder layout.
//
// # Checks Provided
//
//   - Connection: Lists at most one key to confirm the endpoint, bucket and credentials.
//   - Structure: Checks that each requested folder (key prefix ending in "/") holds at
//     least one object, and optionally creates placeholder objects for missing ones.
//
// # HTTP Endpoints
//
//   - GET /buckets/:id/integrity : Runs all checks (?folders=a,b for the structure check).
//   - GET /buckets/:id/integrity/connection : Runs the connection check.
//   - GET /buckets/:id/integrity/structure : Runs the structure check (supports ?fix=true).
package integrity
