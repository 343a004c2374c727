// Package metrics exposes Prometheus HTTP metrics for the Fiber application.
//
// The middleware labels samples with the matched route pattern rather than the raw
// path, which keeps label cardinality bounded when keys appear in URLs.
//
//	m := metrics.New("bucket_manager", prometheus.NewRegistry())
//	app.Use(m.Middleware())
//	app.Get("/metrics", m.Handler())
package metrics
