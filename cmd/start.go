package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bucket-manager/core/config"
	"bucket-manager/core/loader"
	"bucket-manager/core/logger"
	"bucket-manager/core/metrics"
	"bucket-manager/core/middleware/auth"
	"bucket-manager/core/middleware/rayid"

	"bucket-manager/feature/buckets"
	"bucket-manager/feature/integrity"
	"bucket-manager/feature/objects"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "bucket-manager/docs/swagger"
)

// @title Bucket Manager API
// @version 1.0
// @description API for connecting S3-compatible buckets and browsing their objects.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the bucket manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		if err := cfg.Server.Validate(); err != nil {
			log.Fatalf("Invalid server configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Initialize Fiber App
		app := fiber.New(cfg.Server.Fiber())

		// 4. Initialize Feature Loader
		// Connections reuse the configured driver, SSL and timeouts; bucket, region,
		// endpoint and keys come from each registered connection.
		bucketsFeature := buckets.NewFeature(buckets.NewClientFactory(cfg.Storage, logg), logg)
		registry := bucketsFeature.Service()

		mgr := loader.NewManager()
		mgr.Register(bucketsFeature)
		mgr.Register(objects.NewFeature(registry, logg))
		mgr.Register(integrity.NewFeature(registry, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Metrics
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		httpMetrics := metrics.New("bucket_manager", reg)
		app.Use(httpMetrics.Middleware())

		// 3. Request logging with the ray id
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 4. Public endpoints
		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", httpMetrics.Handler())

		// 5. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey, Skip: []string{"/swagger", "/metrics"}}))

		// 6. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("storage_driver", cfg.Storage.Driver))
			if err := app.Listen(cfg.Server.Address()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
