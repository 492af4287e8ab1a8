package main

import (
	"log"
	"net/http"

	"bucketindex/config"
	"bucketindex/metrics"
	"bucketindex/router"
	"bucketindex/storage"
	"bucketindex/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure logging
	logger := utils.SetupLogging(cfg.LogToFile)
	log.Printf("Bucket index starting up...")

	// Set Gin to release mode in production
	gin.SetMode(gin.ReleaseMode)

	// Initialize object storage
	bucket, err := storage.New(cfg, utils.NewCustomLogger("STORAGE"))
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Printf("Browsing %s backend: %s (proxy mode: %t)", cfg.Backend, bucket.GetBucketName(), cfg.UseProxy)

	// Metrics get their own listener so the index routes stay unchanged
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			log.Printf("Metrics exposed at http://%s/metrics", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Printf("Metrics server error: %v", err)
			}
		}()
	}

	r := router.NewEngine(cfg, bucket, logger)

	log.Printf("Server running at http://localhost:%s/browser", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
