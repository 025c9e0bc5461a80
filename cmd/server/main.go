package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnhub/course-platform/internal/api"
	"learnhub/course-platform/internal/config"
	"learnhub/course-platform/internal/repository/mongo"
	"learnhub/course-platform/internal/service"
	"learnhub/course-platform/internal/storage"

	"github.com/gin-gonic/gin"
)

// @title Course Platform API
// @version 1.0
// @description API for managing instructors, courses, media uploads and revenue ledgers.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	log.Println("Starting Course Platform Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureInstructorIndexes(ctx, appDB.Collection("instructors"))
		mongo.EnsureCourseIndexes(ctx, appDB.Collection("courses"))
		mongo.EnsureLessonIndexes(ctx, appDB.Collection("lessons"))
		mongo.EnsureMediaIndexes(ctx, appDB.Collection("media_assets"))
		mongo.EnsureRevenueIndexes(ctx, appDB.Collection("instructor_revenue"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage Chain ---
	log.Println("Initializing storage chain...")
	cdnStorage, err := storage.NewCDNStorage(cfg.CDN)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize CDN storage: %v", err)
	}
	localStorage := storage.NewLocalStorage(cfg.Local)
	uploadChain := storage.NewFallbackStorage(cdnStorage, localStorage)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	instructorRepo := mongo.NewMongoInstructorRepository(appDB)
	courseRepo := mongo.NewMongoCourseRepository(appDB)
	lessonRepo := mongo.NewMongoLessonRepository(appDB)
	mediaRepo := mongo.NewMongoMediaRepository(appDB)
	revenueRepo := mongo.NewMongoRevenueRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	instructorService := service.NewInstructorService(instructorRepo)
	courseService := service.NewCourseService(courseRepo, lessonRepo)
	mediaService := service.NewMediaService(mediaRepo, uploadChain)
	revenueService := service.NewRevenueService(revenueRepo, instructorRepo)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.Local.UploadsDir, instructorService, courseService, mediaService, revenueService)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
