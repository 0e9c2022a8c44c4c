package main

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"taskhub/docs"

	"taskhub/internal/auth"
	"taskhub/internal/cache"
	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/handler"
	"taskhub/internal/model"
	"taskhub/internal/repository"
	"taskhub/internal/repository/memory"
	"taskhub/internal/router"
	"taskhub/internal/service"
)

// @title TaskHub API
// @version 1.0
// @description Single-tenant-per-user project and task tracker with JWT authentication.
// @host localhost:3000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.Use(middleware.RequestID())

	// Default backend is the in-memory store; a MYSQL_DSN switches all three
	// repositories to MySQL.
	var (
		userRepo    repository.UserRepository
		projectRepo repository.ProjectRepository
		taskRepo    repository.TaskRepository
	)
	if cfg.MySQLDSN != "" {
		gormDB, err := db.NewMySQL(cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("database init: %v", err)
		}
		if err := gormDB.AutoMigrate(
			&model.User{},
			&model.Project{},
			&model.Task{},
		); err != nil {
			log.Fatalf("auto-migrate: %v", err)
		}
		userRepo = repository.NewUserRepository(gormDB)
		projectRepo = repository.NewProjectRepository(gormDB)
		taskRepo = repository.NewTaskRepository(gormDB)
	} else {
		log.Println("MYSQL_DSN not set, using in-memory store")
		store := memory.NewStore()
		userRepo = store.Users()
		projectRepo = store.Projects()
		taskRepo = store.Tasks()
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	projectService := service.NewProjectService(projectRepo)
	taskService := service.NewTaskService(taskRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	projectHandler := handler.NewProjectHandler(projectService)
	taskHandler := handler.NewTaskHandler(taskService)

	// Register routes
	router.Register(e, jwtService, authHandler, projectHandler, taskHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
