package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/1234-ad/addressbook-fullstack/internal/config"
	"github.com/1234-ad/addressbook-fullstack/internal/database"
	"github.com/1234-ad/addressbook-fullstack/internal/handlers"
	"github.com/1234-ad/addressbook-fullstack/internal/middleware"
	"github.com/1234-ad/addressbook-fullstack/internal/services"
	"github.com/1234-ad/addressbook-fullstack/pkg/logger"
	"github.com/1234-ad/addressbook-fullstack/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB, cfg.Admin)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	directoryService := services.NewDirectoryService(db)

	authHandler := handlers.NewAuthHandler(db)
	addressesHandler := handlers.NewAddressesHandler(directoryService)
	groupsHandler := handlers.NewGroupsHandler(db)
	adminHandler := handlers.NewAdminHandler(db, directoryService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 1 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)

	addressRoutes := api.Group("/addresses", authMiddleware.RequireAuth)
	addressRoutes.Get("/", addressesHandler.List)
	addressRoutes.Post("/", addressesHandler.Create)
	addressRoutes.Get("/:id", addressesHandler.Get)
	addressRoutes.Put("/:id", addressesHandler.Update)
	addressRoutes.Delete("/:id", addressesHandler.Delete)

	groupRoutes := api.Group("/groups", authMiddleware.RequireAuth)
	groupRoutes.Get("/", groupsHandler.List)
	groupRoutes.Get("/:id", groupsHandler.Get)
	groupRoutes.Get("/:id/addresses", groupsHandler.Addresses)

	adminRoutes := api.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/groups", adminHandler.ListGroups)
	adminRoutes.Post("/groups", adminHandler.CreateGroup)
	adminRoutes.Put("/groups/:id", adminHandler.UpdateGroup)
	adminRoutes.Delete("/groups/:id", adminHandler.DeleteGroup)
	adminRoutes.Get("/addresses/search", adminHandler.SearchAddresses)
	adminRoutes.Post("/addresses/:id/groups", adminHandler.AssignGroups)
	adminRoutes.Get("/dashboard", adminHandler.Dashboard)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
