package main

import (
	"journal-management-api/config"
	"journal-management-api/middleware"
	"journal-management-api/monitor"
	"journal-management-api/realtime"
	"journal-management-api/routes"
	"journal-management-api/services"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Route application logs to stdout and the log file
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	// Initialize database
	config.InitDB()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Prometheus scrape endpoint
	monitor.RegisterMetricsRoute(router)

	// Realtime discussion channel
	hub := realtime.NewHub()
	go hub.Run()

	// Setup routes
	routes.SetupRoutes(router, hub)

	// Review deadline sweep: overdue invitations and accepted reviews expire
	// without reviewer action.
	scheduler := cron.New()
	schedule := os.Getenv("REVIEW_EXPIRY_CRON")
	if schedule == "" {
		schedule = "0 * * * *" // hourly
	}
	if _, err := scheduler.AddFunc(schedule, func() {
		if _, err := services.ExpireOverdueReviews(time.Now()); err != nil {
			log.Printf("Warning: review expiry sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatal("Invalid REVIEW_EXPIRY_CRON schedule:", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create upload directory if not exists
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create upload directory: %v", err)
	}

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if ginMode == "release" {
		log.Printf("Running in production mode")
	} else {
		log.Printf("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
