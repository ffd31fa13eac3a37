package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"planward/config"
	"planward/handler"
	"planward/middleware"
	"planward/repository"
	"planward/services"
	"planward/usecase"
	"planward/utils"
)

func init() {
	if err := godotenv.Load(); err != nil && os.Getenv("GO_ENV") != "test" {
		log.Printf("No .env file loaded: %v", err)
	}

	requiredEnvVars := []string{
		"MONGO_URI",
		"MONGO_DB",
		"JWT_SECRET_KEY",
		"JWT_EXPIRATION_TIME",
		"REFRESH_TOKEN_EXPIRATION_TIME",
	}
	for _, envVar := range requiredEnvVars {
		if os.Getenv(envVar) == "" && os.Getenv("GO_ENV") != "test" {
			log.Fatalf("Required environment variable %s is not set", envVar)
		}
	}

	utils.InitValidator()
	utils.InitJWT()

	dbConfig := config.LoadDatabaseConfig()
	utils.InitMongoClient(utils.MongoSettings{
		URI:             dbConfig.URI,
		MaxPoolSize:     dbConfig.MaxPoolSize,
		MinPoolSize:     dbConfig.MinPoolSize,
		MaxConnIdleTime: dbConfig.MaxConnIdleTime,
		RetryWrites:     dbConfig.RetryWrites,
	})

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		blacklist, err := services.NewTokenBlacklist(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect token blacklist: %v", err)
		}
		services.TokenBlacklist = blacklist

		cache, err := services.NewSessionCache(redisURL)
		if err != nil {
			log.Fatalf("Failed to connect session cache: %v", err)
		}
		services.GlobalSessionCache = cache
		cache.StartCleanupTask()
	} else {
		log.Println("REDIS_URL not set; token blacklist and session cache disabled")
	}

	if err := repository.SetupIndexes(utils.MongoClient); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}
}

func setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.MetricsMiddleware())

	sessionRepo := repository.GetSessionRepo(utils.MongoClient)
	userRepo := repository.GetUserRepo(utils.MongoClient)
	categoriesRepo := repository.GetCategoriesRepo(utils.MongoClient)
	stateRepo := repository.GetStateRepo(utils.MongoClient)

	userService := usecase.NewUserService(userRepo, categoriesRepo, stateRepo, stateRepo)
	planService := usecase.NewPlanService(stateRepo)

	authHandler := handler.NewAuthHandler(userService, sessionRepo)
	profileHandler := handler.NewProfileHandler(userService)
	sessionHandler := handler.NewSessionHandler(sessionRepo)
	categoriesHandler := handler.NewCategoriesHandler(categoriesRepo, planService)
	plansHandler := handler.NewPlansHandler(planService)
	tasksHandler := handler.NewTasksHandler(planService)

	router.Use(middleware.SessionMiddleware(sessionRepo))

	router.GET("/health", handler.HealthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group("/api")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}
	}

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		user := protected.Group("/user")
		{
			user.GET("/profile", profileHandler.GetProfile)
			user.PUT("/password", profileHandler.ChangePassword)
			user.POST("/logout", authHandler.Logout)
			user.DELETE("/delete", profileHandler.DeleteAccount)
		}

		sessions := protected.Group("/sessions")
		{
			sessions.GET("/active", sessionHandler.GetActiveSessions)
			sessions.POST("/logout-all", sessionHandler.LogoutAll)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", categoriesHandler.List)
			categories.POST("", categoriesHandler.Create)
			categories.GET("/:id", categoriesHandler.Get)
			categories.PUT("/:id", categoriesHandler.Update)
			categories.DELETE("/:id", categoriesHandler.Delete)

			categories.POST("/:id/plan/import", plansHandler.Import)
			categories.GET("/:id/plan", plansHandler.Get)
			categories.GET("/:id/sections", plansHandler.Sections)

			categories.POST("/:id/tasks", tasksHandler.Add)
			categories.DELETE("/:id/tasks", tasksHandler.Remove)
		}

		tasks := protected.Group("/tasks")
		{
			tasks.POST("/toggle", tasksHandler.Toggle)
			tasks.PUT("/notes", tasksHandler.SetNotes)
			tasks.PUT("/tags", tasksHandler.SetTags)
			tasks.PUT("/title", tasksHandler.SetTitle)

			tasks.POST("/subtasks", tasksHandler.AddSubtask)
			tasks.POST("/subtasks/toggle", tasksHandler.ToggleSubtask)
			tasks.DELETE("/subtasks", tasksHandler.RemoveSubtask)
			tasks.PUT("/subtasks/notes", tasksHandler.SetSubtaskNotes)
			tasks.PUT("/subtasks/title", tasksHandler.RenameSubtask)
		}
	}

	return router
}

func main() {
	router := setupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}

	if services.GlobalSessionCache != nil {
		services.GlobalSessionCache.Close()
	}
	if services.TokenBlacklist != nil {
		services.TokenBlacklist.Close()
	}
	if utils.MongoClient != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		utils.MongoClient.Disconnect(disconnectCtx)
	}
	log.Println("Server stopped")
}
